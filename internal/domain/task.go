package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a help task.
type TaskStatus string

// Possible task status values. The set is closed: every status a task can
// ever hold appears here, and transitions between them are governed by the
// helpers in lifecycle.go.
const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID          = errors.New("task ID cannot be empty")
	ErrEmptyTaskCreatorID   = errors.New("task creator ID cannot be empty")
	ErrEmptyTaskTitle       = errors.New("task title cannot be empty")
	ErrInvalidTaskCapacity  = errors.New("task capacity must be at least 1")
	ErrInvalidTaskStatus    = errors.New("invalid task status")
	ErrScheduledTimeInPast  = errors.New("scheduled time must be in the future")
	ErrTaskCreatorImmutable = errors.New("task creator cannot be changed")
)

// Task represents a unit of requested help posted by an author. It carries a
// participant capacity (the maximum number of simultaneously active
// volunteers) and an optional scheduled time. Status always starts at open
// and only moves along the transitions defined in lifecycle.go.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	CreatorID   uuid.UUID  `json:"creator_id"`
	CategoryID  uuid.UUID  `json:"category_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Capacity    int        `json:"capacity"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewTask creates a new Task in status open for the given creator.
// It generates a new UUID for the task ID and sets the creation/update
// timestamps. Returns an error if validation fails, including when the
// scheduled time is already in the past.
func NewTask(
	creatorID, categoryID uuid.UUID,
	title, description, location string,
	capacity int,
	scheduledAt *time.Time,
) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		CreatorID:   creatorID,
		CategoryID:  categoryID,
		Title:       title,
		Description: description,
		Location:    location,
		Capacity:    capacity,
		ScheduledAt: scheduledAt,
		Status:      TaskStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if scheduledAt != nil && !scheduledAt.After(now) {
		return nil, ErrScheduledTimeInPast
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.CreatorID == uuid.Nil {
		return ErrEmptyTaskCreatorID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if t.Capacity < 1 {
		return ErrInvalidTaskCapacity
	}

	if !isValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	return nil
}

// IsTerminal reports whether the task has reached a terminal status.
// Terminal tasks accept no further status transitions.
func (t *Task) IsTerminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusCancelled
}

// IsJoinable reports whether the task's status permits new volunteers.
// Capacity and expiry are checked separately during admission.
func (t *Task) IsJoinable() bool {
	return t.Status == TaskStatusOpen || t.Status == TaskStatusInProgress
}

// IsExpired reports whether the task's scheduled time has already passed as
// of the given instant. Tasks without a schedule never expire.
func (t *Task) IsExpired(now time.Time) bool {
	return t.ScheduledAt != nil && t.ScheduledAt.Before(now)
}

// isValidTaskStatus checks if the given status is a valid TaskStatus.
func isValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	default:
		return false
	}
}
