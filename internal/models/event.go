package models

import "time"

// Task event types published after a successful mutation.
const (
	EventTaskCreated       = "task.created"
	EventTaskUpdated       = "task.updated"
	EventTaskStatusChanged = "task.status_changed"
	EventTaskDeleted       = "task.deleted"
)

// TaskEvent is the message payload for Kafka.
type TaskEvent struct {
	Type       string    `json:"type"`
	TaskID     string    `json:"task_id"`
	UserID     string    `json:"user_id"`
	Task       *Task     `json:"task,omitempty"` // nil for deletions
	OccurredAt time.Time `json:"occurred_at"`
}
