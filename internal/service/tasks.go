package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskify-api/internal/models"
	"taskify-api/internal/repository"
	"taskify-api/pkg/logger"
)

// TaskInput is the body of a create or update request. Update is a full
// replace: a missing description clears the stored one.
type TaskInput struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description"`
}

// normalize trims the title and turns a blank description into nil.
func (in *TaskInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = trimmed(in.Description)
}

// TaskService implements task CRUD scoped to the authenticated owner.
type TaskService struct {
	tasks  TaskStore
	events EventPublisher
	now    func() time.Time
}

func NewTaskService(tasks TaskStore, events EventPublisher) *TaskService {
	if events == nil {
		events = nopPublisher{}
	}
	return &TaskService{tasks: tasks, events: events, now: time.Now}
}

// List returns the tasks owned by user, newest first.
func (s *TaskService) List(ctx context.Context, user *models.User) ([]models.Task, error) {
	if !CanListTasks(user) {
		return nil, ErrForbidden
	}
	tasks, err := s.tasks.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Create stores a new "To Do" task owned by user.
func (s *TaskService) Create(ctx context.Context, user *models.User, in TaskInput) (*models.Task, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	in.normalize()
	if err := check(in); err != nil {
		return nil, err
	}
	task := &models.Task{
		UserID:      user.ID,
		Title:       in.Title,
		Description: in.Description,
		Status:      models.StatusToDo,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	s.publish(ctx, models.EventTaskCreated, task)
	return task, nil
}

// Show returns the task with id if user owns it.
func (s *TaskService) Show(ctx context.Context, id string, user *models.User) (*models.Task, error) {
	return loadOwned(ctx, s.tasks, id, user)
}

// Update overwrites title and description of an owned task.
func (s *TaskService) Update(ctx context.Context, id string, user *models.User, in TaskInput) (*models.Task, error) {
	task, err := loadOwned(ctx, s.tasks, id, user)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := check(in); err != nil {
		return nil, err
	}
	task.Title = in.Title
	task.Description = in.Description
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, storeErr(err)
	}
	s.publish(ctx, models.EventTaskUpdated, task)
	return task, nil
}

// Delete removes an owned task.
func (s *TaskService) Delete(ctx context.Context, id string, user *models.User) error {
	task, err := loadOwned(ctx, s.tasks, id, user)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		return storeErr(err)
	}
	s.publish(ctx, models.EventTaskDeleted, task)
	return nil
}

func (s *TaskService) publish(ctx context.Context, typ string, task *models.Task) {
	publishEvent(ctx, s.events, s.now, typ, task)
}

// loadOwned resolves id (404 when absent) and then applies the ownership
// policy (403 when the caller is not the owner).
func loadOwned(ctx context.Context, store TaskStore, id string, user *models.User) (*models.Task, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	task, err := store.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if err := authorizeOwner(task, user); err != nil {
		logger.Warn(ctx, "Task access denied", "task_id", id, "user_id", user.ID)
		return nil, err
	}
	return task, nil
}

func storeErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func publishEvent(ctx context.Context, events EventPublisher, now func() time.Time, typ string, task *models.Task) {
	ev := &models.TaskEvent{
		Type:       typ,
		TaskID:     task.ID,
		UserID:     task.UserID,
		OccurredAt: now().UTC(),
	}
	if typ != models.EventTaskDeleted {
		snapshot := *task
		ev.Task = &snapshot
	}
	if err := events.Publish(ctx, ev); err != nil {
		logger.Warn(ctx, "Task event publish failed", "error", err, "type", typ, "task_id", task.ID)
	}
}
