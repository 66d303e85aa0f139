package store

import (
	"context"
	"database/sql"

	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/google/uuid"
)

// TaskListFilter narrows a task listing. Zero values mean "no constraint".
type TaskListFilter struct {
	Status     domain.TaskStatus
	CategoryID uuid.UUID
	CreatorID  uuid.UUID
	Limit      int
	Offset     int
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// It handles domain validation internally.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetForUpdate retrieves a task by ID while taking a row-level lock that
	// is held until the surrounding transaction ends. This is the per-task
	// admission critical section: two concurrent calls for the same task ID
	// serialize here, while calls for different tasks do not block each
	// other. Must be invoked on a transaction-bound store (see WithTx);
	// calling it outside a transaction gives no exclusion.
	// Returns ErrTaskNotFound if the task does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update saves changes to an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	// Returns validation errors if the task data is invalid.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task permanently.
	// Returns ErrTaskNotFound if the task does not exist.
	// Callers must check the deletion guard (no active participants, not in
	// progress) first; the store does not re-verify it.
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves tasks matching the filter, newest first.
	// Returns an empty slice if no tasks match.
	List(ctx context.Context, filter TaskListFilter) ([]*domain.Task, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}
