package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/Jorik-creator/microvolunteer/internal/platform/logger"
	"github.com/Jorik-creator/microvolunteer/internal/service/participation"
	"github.com/Jorik-creator/microvolunteer/internal/store"
	"github.com/google/uuid"
)

// TaskServiceError is a custom error type for task service errors.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
func NewTaskServiceError(operation, message string, err error) *TaskServiceError {
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// TaskCreateInput carries the fields an author supplies when posting a task.
type TaskCreateInput struct {
	CategoryID  uuid.UUID
	Title       string
	Description string
	Location    string
	Capacity    int
	ScheduledAt *time.Time
}

// TaskUpdateInput carries the editable task fields. Nil pointers leave the
// corresponding field unchanged.
type TaskUpdateInput struct {
	Title       *string
	Description *string
	Location    *string
	Capacity    *int
	ScheduledAt *time.Time
}

// TaskDetail pairs a task with the participant count read alongside it.
type TaskDetail struct {
	Task        *domain.Task `json:"task"`
	ActiveCount int          `json:"active_count"`
}

// TaskService provides task lifecycle operations: posting, editing, the
// terminal transitions, and deletion. Join and leave live in the
// participation package.
type TaskService interface {
	// CreateTask posts a new task in status open. Requires the author role.
	CreateTask(ctx context.Context, callerID uuid.UUID, input TaskCreateInput) (*domain.Task, error)

	// GetTask retrieves a task together with its active participant count.
	GetTask(ctx context.Context, taskID uuid.UUID) (*TaskDetail, error)

	// ListTasks retrieves tasks matching the filter.
	ListTasks(ctx context.Context, filter store.TaskListFilter) ([]*domain.Task, error)

	// UpdateTask edits a task's fields. Only the creator or an admin may
	// edit; the creator and status cannot be changed this way, and capacity
	// may not drop below the current active participant count.
	UpdateTask(ctx context.Context, callerID, taskID uuid.UUID, input TaskUpdateInput) (*domain.Task, error)

	// CompleteTask moves a task to completed. Only the creator may
	// complete, and only from a non-terminal status.
	CompleteTask(ctx context.Context, callerID, taskID uuid.UUID) (*domain.Task, error)

	// CancelTask moves a task to cancelled. The creator or an admin may
	// cancel, from a non-terminal status.
	CancelTask(ctx context.Context, callerID, taskID uuid.UUID) (*domain.Task, error)

	// DeleteTask removes a task outright. Refused while the task is
	// in_progress or any volunteer is still active.
	DeleteTask(ctx context.Context, callerID, taskID uuid.UUID) error
}

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	db        *sql.DB
	taskStore store.TaskStore
	partStore store.ParticipationStore
	authz     participation.AuthorizationPolicy
	logger    *slog.Logger

	// runTx executes fn inside one transaction. A field so tests can swap in
	// a runner that skips the real database.
	runTx func(ctx context.Context, fn store.TxFn) error
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	db *sql.DB,
	taskStore store.TaskStore,
	partStore store.ParticipationStore,
	authz participation.AuthorizationPolicy,
	log *slog.Logger,
) (TaskService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if taskStore == nil {
		return nil, domain.NewValidationError("taskStore", "cannot be nil", domain.ErrValidation)
	}
	if partStore == nil {
		return nil, domain.NewValidationError("partStore", "cannot be nil", domain.ErrValidation)
	}
	if authz == nil {
		return nil, domain.NewValidationError("authz", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	s := &taskServiceImpl{
		db:        db,
		taskStore: taskStore,
		partStore: partStore,
		authz:     authz,
		logger:    log.With(slog.String("component", "task_service")),
	}
	s.runTx = func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, s.db, fn)
	}
	return s, nil
}

// CreateTask implements TaskService.CreateTask.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	callerID uuid.UUID,
	input TaskCreateInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ok, err := s.authz.HasRole(ctx, callerID, domain.RoleAuthor)
	if err != nil {
		return nil, NewTaskServiceError("create", "failed to check caller role", err)
	}
	if !ok {
		return nil, ErrForbidden
	}

	task, err := domain.NewTask(
		callerID,
		input.CategoryID,
		input.Title,
		input.Description,
		input.Location,
		input.Capacity,
		input.ScheduledAt,
	)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, NewTaskServiceError("create", "failed to save task", err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("creator_id", callerID.String()),
		slog.Int("capacity", task.Capacity))
	return task, nil
}

// GetTask implements TaskService.GetTask.
func (s *taskServiceImpl) GetTask(ctx context.Context, taskID uuid.UUID) (*TaskDetail, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, store.ErrTaskNotFound
		}
		return nil, NewTaskServiceError("get", "failed to load task", err)
	}

	count, err := s.partStore.CountActive(ctx, taskID)
	if err != nil {
		return nil, NewTaskServiceError("get", "failed to count participants", err)
	}

	return &TaskDetail{Task: task, ActiveCount: count}, nil
}

// ListTasks implements TaskService.ListTasks.
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	filter store.TaskListFilter,
) ([]*domain.Task, error) {
	tasks, err := s.taskStore.List(ctx, filter)
	if err != nil {
		return nil, NewTaskServiceError("list", "failed to list tasks", err)
	}
	return tasks, nil
}

// UpdateTask implements TaskService.UpdateTask. The capacity check and the
// status re-evaluation read the participant count under the task's row lock
// so concurrent joins cannot slip past a shrinking capacity.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	callerID, taskID uuid.UUID,
	input TaskUpdateInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Task
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.taskStore.WithTx(tx)
		parts := s.partStore.WithTx(tx)

		task, err := tasks.GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if err := s.requireOwnerOrAdmin(ctx, callerID, task); err != nil {
			return err
		}
		if task.IsTerminal() {
			return ErrTaskAlreadyTerminal
		}

		if input.Title != nil {
			task.Title = *input.Title
		}
		if input.Description != nil {
			task.Description = *input.Description
		}
		if input.Location != nil {
			task.Location = *input.Location
		}
		if input.ScheduledAt != nil {
			task.ScheduledAt = input.ScheduledAt
		}

		count, err := parts.CountActive(ctx, taskID)
		if err != nil {
			return fmt.Errorf("counting active participants: %w", err)
		}
		if input.Capacity != nil {
			if *input.Capacity < count {
				return ErrCapacityBelowActive
			}
			task.Capacity = *input.Capacity
		}

		// A capacity change can open or fill the task.
		task.Status = domain.StatusAfterJoin(task.Capacity, count)
		task.UpdatedAt = time.Now().UTC()
		if err := task.Validate(); err != nil {
			return err
		}
		if err := tasks.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, s.mapTaskError("update", err)
	}

	log.Info("task updated", slog.String("task_id", taskID.String()))
	return updated, nil
}

// CompleteTask implements TaskService.CompleteTask.
func (s *taskServiceImpl) CompleteTask(
	ctx context.Context,
	callerID, taskID uuid.UUID,
) (*domain.Task, error) {
	return s.transition(ctx, callerID, taskID, domain.TaskStatusCompleted)
}

// CancelTask implements TaskService.CancelTask.
func (s *taskServiceImpl) CancelTask(
	ctx context.Context,
	callerID, taskID uuid.UUID,
) (*domain.Task, error) {
	return s.transition(ctx, callerID, taskID, domain.TaskStatusCancelled)
}

// transition moves a task into a terminal status. Active participations are
// left intact as historical record; only the task status changes.
func (s *taskServiceImpl) transition(
	ctx context.Context,
	callerID, taskID uuid.UUID,
	target domain.TaskStatus,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Task
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.taskStore.WithTx(tx)

		task, err := tasks.GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}

		switch target {
		case domain.TaskStatusCompleted:
			// Only the creator may mark their task done; cancel is the
			// transition that also admits admins.
			if task.CreatorID != callerID {
				return ErrNotOwned
			}
			if !domain.CanComplete(task.Status) {
				return ErrTaskAlreadyTerminal
			}
			now := time.Now().UTC()
			task.CompletedAt = &now
		case domain.TaskStatusCancelled:
			if err := s.requireOwnerOrAdmin(ctx, callerID, task); err != nil {
				return err
			}
			if !domain.CanCancel(task.Status) {
				return ErrTaskAlreadyTerminal
			}
		}

		task.Status = target
		task.UpdatedAt = time.Now().UTC()
		if err := tasks.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, s.mapTaskError("transition", err)
	}

	log.Info("task transitioned",
		slog.String("task_id", taskID.String()),
		slog.String("status", string(target)))
	return updated, nil
}

// DeleteTask implements TaskService.DeleteTask. The participant check and
// the delete run under the task's row lock so a concurrent join cannot land
// on a task that is about to disappear.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, callerID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.taskStore.WithTx(tx)
		parts := s.partStore.WithTx(tx)

		task, err := tasks.GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if err := s.requireOwnerOrAdmin(ctx, callerID, task); err != nil {
			return err
		}

		count, err := parts.CountActive(ctx, taskID)
		if err != nil {
			return fmt.Errorf("counting active participants: %w", err)
		}
		if !domain.CanDelete(task.Status, count) {
			return ErrTaskHasActiveParticipants
		}

		return tasks.Delete(ctx, taskID)
	})
	if err != nil {
		return s.mapTaskError("delete", err)
	}

	log.Info("task deleted", slog.String("task_id", taskID.String()))
	return nil
}

// requireOwnerOrAdmin lets the task's creator and admins through.
func (s *taskServiceImpl) requireOwnerOrAdmin(
	ctx context.Context,
	callerID uuid.UUID,
	task *domain.Task,
) error {
	if task.CreatorID == callerID {
		return nil
	}
	admin, err := s.authz.HasRole(ctx, callerID, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("checking caller role: %w", err)
	}
	if !admin {
		return ErrNotOwned
	}
	return nil
}

// mapTaskError passes expected conditions through and wraps the rest.
func (s *taskServiceImpl) mapTaskError(operation string, err error) error {
	switch {
	case errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, ErrNotOwned),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrTaskAlreadyTerminal),
		errors.Is(err, ErrTaskHasActiveParticipants),
		errors.Is(err, ErrCapacityBelowActive),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidTaskCapacity),
		errors.Is(err, domain.ErrEmptyTaskTitle):
		return err
	default:
		return NewTaskServiceError(operation, "unexpected failure", err)
	}
}
