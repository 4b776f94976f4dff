package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// Issued is a freshly signed bearer token.
type Issued struct {
	ID        string // jti claim
	Token     string
	IssuedAt  time.Time
	ExpiresAt *time.Time
}

// Claims are the verified claims of a bearer token.
type Claims struct {
	ID     string
	UserID string
}

// Issuer signs and verifies HS256 bearer tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer. A zero ttl issues tokens without an expiry claim.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue mints a token for userID with a fresh jti.
func (i *Issuer) Issue(userID string) (*Issued, error) {
	now := i.now().UTC()
	out := &Issued{ID: uuid.New().String(), IssuedAt: now}
	claims := jwt.RegisteredClaims{
		ID:       out.ID,
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if i.ttl > 0 {
		exp := now.Add(i.ttl)
		out.ExpiresAt = &exp
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	out.Token = signed
	return out, nil
}

// Parse verifies raw and returns its claims.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing jti or sub", ErrInvalidToken)
	}
	return &Claims{ID: claims.ID, UserID: claims.Subject}, nil
}
