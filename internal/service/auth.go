package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskify-api/internal/auth"
	"taskify-api/internal/models"
	"taskify-api/internal/repository"
	"taskify-api/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

const tokenName = "authToken"

// RegisterInput is the body of a registration request.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,password_bytes"`
}

// normalize trims name and email. Passwords are taken verbatim.
func (in *RegisterInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
}

// LoginInput is the body of a login request.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService registers users and issues, resolves and revokes their tokens.
type AuthService struct {
	users      UserStore
	tokens     TokenStore
	issuer     *auth.Issuer
	bcryptCost int
}

func NewAuthService(users UserStore, tokens TokenStore, issuer *auth.Issuer, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, tokens: tokens, issuer: issuer, bcryptCost: bcryptCost}
}

// Register creates a user and returns it with a new bearer token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	in.normalize()
	if err := check(in); err != nil {
		return nil, "", err
	}
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, "", emailTaken()
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{Name: in.Name, Email: in.Email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", emailTaken()
		}
		return nil, "", err
	}

	token, err := s.issue(ctx, user)
	if err != nil {
		return nil, "", err
	}
	logger.Info(ctx, "User registered", "user_id", user.ID)
	return user, token, nil
}

// Login checks credentials and issues an additional token for the user.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, "", ErrInvalidCredentials
	}
	user, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("lookup email: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issue(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout revokes every token of user, not only the presented one.
func (s *AuthService) Logout(ctx context.Context, user *models.User) error {
	if user == nil {
		return ErrUnauthenticated
	}
	n, err := s.tokens.DeleteByUser(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}
	logger.Info(ctx, "User logged out", "user_id", user.ID, "revoked", n)
	return nil
}

// Authenticate resolves a raw bearer token to its user. A token is accepted
// only while its record exists in the token store.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*models.User, error) {
	claims, err := s.issuer.Parse(raw)
	if err != nil {
		logger.Debug(ctx, "Token rejected", "error", err)
		return nil, ErrUnauthenticated
	}
	record, err := s.tokens.Find(ctx, claims.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	if record.UserID != claims.UserID {
		return nil, ErrUnauthenticated
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (string, error) {
	tok, err := s.issuer.Issue(user.ID)
	if err != nil {
		return "", err
	}
	record := &models.AccessToken{
		ID:        tok.ID,
		UserID:    user.ID,
		Name:      tokenName,
		CreatedAt: tok.IssuedAt,
		ExpiresAt: tok.ExpiresAt,
	}
	if err := s.tokens.Save(ctx, record); err != nil {
		return "", fmt.Errorf("save token: %w", err)
	}
	return tok.Token, nil
}

func emailTaken() *ValidationError {
	return FieldError("email", "The email has already been taken.")
}
