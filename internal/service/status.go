package service

import (
	"context"
	"strings"
	"time"

	"taskify-api/internal/models"
)

// StatusInput is the body of a status change request.
type StatusInput struct {
	Status string `json:"status" validate:"required,task_status"`
}

// StatusService changes task status. Ownership is checked before the new value
// is validated.
type StatusService struct {
	tasks  TaskStore
	events EventPublisher
	now    func() time.Time
}

func NewStatusService(tasks TaskStore, events EventPublisher) *StatusService {
	if events == nil {
		events = nopPublisher{}
	}
	return &StatusService{tasks: tasks, events: events, now: time.Now}
}

// UpdateStatus moves an owned task to in.Status. Every transition is allowed.
func (s *StatusService) UpdateStatus(ctx context.Context, id string, user *models.User, in StatusInput) (*models.Task, error) {
	task, err := loadOwned(ctx, s.tasks, id, user)
	if err != nil {
		return nil, err
	}
	in.Status = strings.TrimSpace(in.Status)
	if err := check(in); err != nil {
		return nil, err
	}
	task.Status = models.TaskStatus(in.Status)
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, storeErr(err)
	}
	publishEvent(ctx, s.events, s.now, models.EventTaskStatusChanged, task)
	return task, nil
}
