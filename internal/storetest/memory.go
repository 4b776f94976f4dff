// Package storetest provides in-memory implementations of the service store
// interfaces for tests.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"taskify-api/internal/models"
	"taskify-api/internal/repository"
)

// Users is an in-memory UserStore.
type Users struct {
	mu   sync.Mutex
	byID map[string]models.User
}

func NewUsers() *Users {
	return &Users{byID: make(map[string]models.User)}
}

func (s *Users) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	for _, u := range s.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	s.byID[user.ID] = *user
	return nil
}

func (s *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range s.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Users) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

// Tokens is an in-memory TokenStore.
type Tokens struct {
	mu   sync.Mutex
	byID map[string]models.AccessToken
}

func NewTokens() *Tokens {
	return &Tokens{byID: make(map[string]models.AccessToken)}
}

func (s *Tokens) Save(_ context.Context, token *models.AccessToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[token.ID] = *token
	return nil
}

func (s *Tokens) Find(_ context.Context, id string) (*models.AccessToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (s *Tokens) DeleteByUser(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, t := range s.byID {
		if t.UserID == userID {
			delete(s.byID, id)
			n++
		}
	}
	return n, nil
}

// Count returns the number of live tokens for userID.
func (s *Tokens) Count(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.byID {
		if t.UserID == userID {
			n++
		}
	}
	return n
}

// Tasks is an in-memory TaskStore. Insertion order stands in for creation time
// so listings are deterministic.
type Tasks struct {
	mu   sync.Mutex
	seq  int
	rows map[string]taskRow
}

type taskRow struct {
	seq  int
	task models.Task
}

func NewTasks() *Tasks {
	return &Tasks{rows: make(map[string]taskRow)}
}

func (s *Tasks) ListByUser(_ context.Context, userID string) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []taskRow
	for _, r := range s.rows {
		if r.task.UserID == userID {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	out := make([]models.Task, 0, len(rows))
	for _, r := range rows {
		out = append(out, cloneTask(r.task))
	}
	return out, nil
}

func (s *Tasks) Create(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.Status == "" {
		task.Status = models.StatusToDo
	}
	now := time.Now().UTC()
	task.CreatedAt, task.UpdatedAt = now, now
	s.seq++
	s.rows[task.ID] = taskRow{seq: s.seq, task: cloneTask(*task)}
	return nil
}

func (s *Tasks) FindByID(_ context.Context, id string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t := cloneTask(r.task)
	return &t, nil
}

func (s *Tasks) Update(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[task.ID]
	if !ok {
		return repository.ErrNotFound
	}
	task.UpdatedAt = time.Now().UTC()
	r.task.Title = task.Title
	r.task.Description = cloneString(task.Description)
	r.task.Status = task.Status
	r.task.UpdatedAt = task.UpdatedAt
	s.rows[task.ID] = r
	return nil
}

func (s *Tasks) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

// Events records published task events.
type Events struct {
	mu     sync.Mutex
	events []models.TaskEvent
}

func (e *Events) Publish(_ context.Context, ev *models.TaskEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, *ev)
	return nil
}

// Types returns the recorded event types in publish order.
func (e *Events) Types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.Type)
	}
	return out
}

func cloneTask(t models.Task) models.Task {
	t.Description = cloneString(t.Description)
	return t
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
