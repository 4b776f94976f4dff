package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"taskify-api/internal/models"
	"taskify-api/pkg/logger"
)

const taskColumns = `id, user_id, title, description, status, created_at, updated_at`

// TaskRepository persists tasks in PostgreSQL.
type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// ListByUser returns every task owned by userID, newest first.
func (r *TaskRepository) ListByUser(ctx context.Context, userID string) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		logger.Error(ctx, "Repository ListTasks failed", "error", err)
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error(ctx, "Repository scan task failed", "error", err)
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// Create inserts a new task.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.Status == "" {
		task.Status = models.StatusToDo
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		task.ID, task.UserID, task.Title, nullString(task.Description), string(task.Status), task.CreatedAt, task.UpdatedAt)
	if err != nil {
		logger.Error(ctx, "Repository CreateTask failed", "error", err)
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// FindByID returns the task with the given id or ErrNotFound. It does not
// filter by owner.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// Update overwrites title, description and status. The owner is never written.
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = $1, description = $2, status = $3, updated_at = $4 WHERE id = $5`,
		task.Title, nullString(task.Description), string(task.Status), task.UpdatedAt, task.ID)
	if err != nil {
		logger.Error(ctx, "Repository UpdateTask failed", "error", err, "id", task.ID)
		return fmt.Errorf("update task: %w", err)
	}
	return expectOne(res)
}

// Delete removes a task by id.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error(ctx, "Repository DeleteTask failed", "error", err, "id", id)
		return fmt.Errorf("delete task: %w", err)
	}
	return expectOne(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*models.Task, error) {
	var (
		t      models.Task
		desc   sql.NullString
		status string
	)
	if err := s.Scan(&t.ID, &t.UserID, &t.Title, &desc, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		t.Description = &desc.String
	}
	t.Status = models.TaskStatus(status)
	return &t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
