package participation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/google/uuid"
)

// ParticipationService is the public operation surface of the
// capacity-bounded participation protocol: volunteers join and leave tasks,
// and callers query participation state.
type ParticipationService interface {
	// Join admits the caller onto the task if every admission guard passes.
	// The admission check and the participation insert happen as one atomic
	// unit per task, so concurrent joins can never overshoot capacity.
	//
	// Returns the updated task view on success.
	// Returns ErrTaskNotFound if the task id is unknown, ErrUnauthorized if
	// the caller lacks the volunteer role, or one of the admission
	// rejections: ErrAlreadyActive, ErrIsCreator, ErrTaskNotJoinable,
	// ErrTaskExpired, ErrCapacityExceeded. ErrConcurrencyConflict is
	// returned when the database aborted the admission repeatedly; unlike
	// the rejections it is transient and safe to retry.
	Join(ctx context.Context, taskID, callerID uuid.UUID, note string) (*TaskSnapshot, error)

	// Leave ends the caller's active participation on the task.
	// Returns ErrTaskNotFound if the task id is unknown and
	// ErrNotParticipating if the caller has no active participation;
	// leaving twice fails the second time.
	Leave(ctx context.Context, taskID, callerID uuid.UUID) (*TaskSnapshot, error)

	// IsParticipating reports whether the caller currently has an active
	// participation on the task. Pure read, no side effects.
	IsParticipating(ctx context.Context, taskID, callerID uuid.UUID) (bool, error)

	// ListParticipants returns the task's active participants ordered by
	// join time ascending. Re-querying is idempotent and reflects current
	// state. Returns ErrTaskNotFound if the task id is unknown.
	ListParticipants(ctx context.Context, taskID uuid.UUID) ([]Participant, error)
}

// AuthorizationPolicy is the capability interface supplied by the
// surrounding auth subsystem. The service consults it before touching any
// task state and never evaluates role or ownership rules itself.
type AuthorizationPolicy interface {
	// HasRole reports whether the caller holds the given role, including
	// roles implied by a stronger one.
	HasRole(ctx context.Context, callerID uuid.UUID, role domain.UserRole) (bool, error)

	// IsOwner reports whether the caller created the given task.
	IsOwner(ctx context.Context, callerID, taskID uuid.UUID) (bool, error)
}

// TaskSnapshot is the task view returned from mutating operations: the task
// as of the commit plus the active-participant count read in the same
// transaction, so the two can never disagree.
type TaskSnapshot struct {
	Task          *domain.Task `json:"task"`
	ActiveCount   int          `json:"active_count"`
	Participating bool         `json:"participating"`
}

// Participant is one entry of a task's participant listing.
type Participant struct {
	VolunteerID uuid.UUID `json:"volunteer_id"`
	JoinedAt    time.Time `json:"joined_at"`
	Note        string    `json:"note,omitempty"`
}

// TaskRepository defines the task data access the service needs, including
// the row-locked read that forms the per-task admission critical section.
type TaskRepository interface {
	// GetByID retrieves a task without locking it.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetForUpdate retrieves the task and locks its row until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update persists task changes (status transitions).
	Update(ctx context.Context, task *domain.Task) error

	// WithTx returns a new repository instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskRepository

	// DB returns the underlying database connection.
	DB() *sql.DB
}

// ParticipationRepository defines the participation data access the service needs.
type ParticipationRepository interface {
	// Create inserts a new active participation row.
	Create(ctx context.Context, p *domain.Participation) error

	// CountActive returns the number of active rows for the task.
	CountActive(ctx context.Context, taskID uuid.UUID) (int, error)

	// FindActive retrieves the active row for the task/volunteer pair.
	FindActive(ctx context.Context, taskID, volunteerID uuid.UUID) (*domain.Participation, error)

	// Deactivate flips an active row to inactive and stamps its leave time.
	Deactivate(ctx context.Context, id uuid.UUID) error

	// ListActiveByTask returns active rows ordered by joined_at ascending.
	ListActiveByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Participation, error)

	// WithTx returns a new repository instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ParticipationRepository
}

// Common error types for ParticipationService. Each is a terminal
// business-rule rejection except ErrConcurrencyConflict, which is the one
// transient, retryable failure.
var (
	// ErrTaskNotFound indicates that the task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrUnauthorized indicates the caller lacks the role required for the operation.
	ErrUnauthorized = errors.New("caller is not authorized")

	// ErrAlreadyActive indicates the caller already has an active
	// participation on the task.
	ErrAlreadyActive = errors.New("already participating in task")

	// ErrIsCreator indicates the caller created the task and therefore
	// cannot volunteer on it.
	ErrIsCreator = errors.New("task creators cannot join their own task")

	// ErrTaskNotJoinable indicates the task is completed or cancelled.
	ErrTaskNotJoinable = errors.New("task is not accepting participants")

	// ErrTaskExpired indicates the task's scheduled time has passed.
	// Existing participations are left intact; only new joins are blocked.
	ErrTaskExpired = errors.New("task scheduled time has passed")

	// ErrCapacityExceeded indicates the task already has as many active
	// participants as its capacity allows.
	ErrCapacityExceeded = errors.New("task capacity exceeded")

	// ErrNotParticipating indicates the caller has no active participation
	// on the task.
	ErrNotParticipating = errors.New("no active participation for task")

	// ErrConcurrencyConflict indicates the admission transaction kept
	// getting aborted by the database. The operation had no effect and may
	// be retried by the caller. Never returned for capacity rejections.
	ErrConcurrencyConflict = errors.New("concurrent update conflict, retry")
)

// Reason codes carried to the transport layer so clients can branch on a
// stable machine-readable value instead of parsing error text.
const (
	ReasonTaskNotFound        = "TASK_NOT_FOUND"
	ReasonUnauthorized        = "UNAUTHORIZED"
	ReasonAlreadyActive       = "ALREADY_ACTIVE"
	ReasonIsCreator           = "IS_CREATOR"
	ReasonTaskNotJoinable     = "TASK_NOT_JOINABLE"
	ReasonTaskExpired         = "TASK_EXPIRED"
	ReasonCapacityExceeded    = "CAPACITY_EXCEEDED"
	ReasonNotParticipating    = "NOT_PARTICIPATING"
	ReasonConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// ReasonCode maps a service error to its stable reason code. Returns the
// empty string for errors that are not participation rejections.
func ReasonCode(err error) string {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		return ReasonTaskNotFound
	case errors.Is(err, ErrUnauthorized):
		return ReasonUnauthorized
	case errors.Is(err, ErrAlreadyActive):
		return ReasonAlreadyActive
	case errors.Is(err, ErrIsCreator):
		return ReasonIsCreator
	case errors.Is(err, ErrTaskNotJoinable):
		return ReasonTaskNotJoinable
	case errors.Is(err, ErrTaskExpired):
		return ReasonTaskExpired
	case errors.Is(err, ErrCapacityExceeded):
		return ReasonCapacityExceeded
	case errors.Is(err, ErrNotParticipating):
		return ReasonNotParticipating
	case errors.Is(err, ErrConcurrencyConflict):
		return ReasonConcurrencyConflict
	default:
		return ""
	}
}

// ServiceError wraps errors from the participation service with additional
// context. Business-rule rejections are returned as the sentinel errors
// above; this type only wraps unexpected infrastructure failures.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "join", "leave")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
