package store

import (
	"context"
	"database/sql"

	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/google/uuid"
)

// ParticipationStore defines the interface for participation data
// persistence. Participation rows form the durable join/leave history of a
// task: they are inserted on join and deactivated on leave, never deleted.
type ParticipationStore interface {
	// Create inserts a new participation row.
	// Returns ErrActiveParticipationExists if the task/volunteer pair
	// already has an active row (enforced by a partial unique index, so the
	// guarantee holds under concurrent writers).
	Create(ctx context.Context, participation *domain.Participation) error

	// CountActive returns the number of active participation rows for the
	// task. When called on a transaction-bound store after the task row has
	// been locked with TaskStore.GetForUpdate, the count is authoritative
	// for admission decisions.
	CountActive(ctx context.Context, taskID uuid.UUID) (int, error)

	// FindActive retrieves the single active participation row for the
	// task/volunteer pair.
	// Returns ErrParticipationNotFound if no active row exists.
	FindActive(ctx context.Context, taskID, volunteerID uuid.UUID) (*domain.Participation, error)

	// Deactivate marks a participation row inactive and stamps its leave
	// time. Only flips rows that are still active, so a second call for the
	// same row returns ErrParticipationNotFound rather than rewriting
	// history.
	Deactivate(ctx context.Context, id uuid.UUID) error

	// ListActiveByTask retrieves the active participation rows for a task
	// ordered by joined_at ascending. Returns an empty slice if none exist.
	ListActiveByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Participation, error)

	// ListByVolunteer retrieves all participation rows (active and
	// historical) for a volunteer, most recent joins first.
	ListByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]*domain.Participation, error)

	// WithTx returns a new ParticipationStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ParticipationStore
}
