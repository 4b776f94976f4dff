package repository

import (
	"context"
	"database/sql"
	"fmt"

	"taskify-api/internal/models"
	"taskify-api/pkg/logger"
)

// TokenRepository stores issued access tokens in PostgreSQL.
type TokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Save records an issued token.
func (r *TokenRepository) Save(ctx context.Context, token *models.AccessToken) error {
	var expires sql.NullTime
	if token.ExpiresAt != nil {
		expires = sql.NullTime{Time: *token.ExpiresAt, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO personal_access_tokens (id, user_id, name, created_at, expires_at) VALUES ($1, $2, $3, $4, $5)`,
		token.ID, token.UserID, token.Name, token.CreatedAt, expires)
	if err != nil {
		logger.Error(ctx, "Repository SaveToken failed", "error", err)
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// Find returns the token record with the given id or ErrNotFound.
func (r *TokenRepository) Find(ctx context.Context, id string) (*models.AccessToken, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var (
		t       models.AccessToken
		expires sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at, expires_at FROM personal_access_tokens WHERE id = $1`, id).
		Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt, &expires)
	if err != nil {
		return nil, notFound(err)
	}
	if expires.Valid {
		t.ExpiresAt = &expires.Time
	}
	return &t, nil
}

// DeleteByUser revokes every token belonging to userID and reports how many were removed.
func (r *TokenRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM personal_access_tokens WHERE user_id = $1`, userID)
	if err != nil {
		logger.Error(ctx, "Repository DeleteTokens failed", "error", err, "user_id", userID)
		return 0, fmt.Errorf("delete tokens: %w", err)
	}
	return res.RowsAffected()
}
