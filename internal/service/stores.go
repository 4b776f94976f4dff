package service

import (
	"context"

	"taskify-api/internal/models"
)

// UserStore persists users.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// TokenStore records issued access tokens. Deleting a record revokes the token.
type TokenStore interface {
	Save(ctx context.Context, token *models.AccessToken) error
	Find(ctx context.Context, id string) (*models.AccessToken, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// TaskStore persists tasks.
type TaskStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id string) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
}

// EventPublisher receives task events after successful writes.
type EventPublisher interface {
	Publish(ctx context.Context, ev *models.TaskEvent) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, *models.TaskEvent) error { return nil }
