package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskify-api/internal/auth"
	"taskify-api/internal/models"
	"taskify-api/internal/storetest"

	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	users  *storetest.Users
	tokens *storetest.Tokens
	tasks  *storetest.Tasks
	events *storetest.Events
	auth   *AuthService
	task   *TaskService
	status *StatusService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	issuer, err := auth.NewIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	f := &fixture{
		users:  storetest.NewUsers(),
		tokens: storetest.NewTokens(),
		tasks:  storetest.NewTasks(),
		events: &storetest.Events{},
	}
	f.auth = NewAuthService(f.users, f.tokens, issuer, bcrypt.MinCost)
	f.task = NewTaskService(f.tasks, f.events)
	f.status = NewStatusService(f.tasks, f.events)
	return f
}

func (f *fixture) register(t *testing.T, email string) (*models.User, string) {
	t.Helper()
	u, tok, err := f.auth.Register(context.Background(), RegisterInput{Name: "User", Email: email, Password: "secret1"})
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	return u, tok
}

func strPtr(s string) *string { return &s }

func fieldMessages(t *testing.T, err error, field string) []string {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	msgs, ok := verr.Fields[field]
	if !ok {
		t.Fatalf("expected error on %q, got %v", field, verr.Fields)
	}
	return msgs
}
