package participation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/Jorik-creator/microvolunteer/internal/store"
	"github.com/google/uuid"
)

// capacityGuard evaluates the admission rules for a single task. It is only
// ever invoked with a task that was read under a row lock, so every check
// sees a participant count no other admission can change until the
// surrounding transaction commits.
type capacityGuard struct {
	now func() time.Time
}

func newCapacityGuard() *capacityGuard {
	return &capacityGuard{now: func() time.Time { return time.Now().UTC() }}
}

// admit runs the admission checks in their fixed order and, if all pass,
// inserts the participation row. The checks are ordered so the caller's own
// state is reported before task state and task state before capacity:
// already-active, creator, joinability, expiry, capacity.
//
// Returns the created participation and the active count after admission.
func (g *capacityGuard) admit(ctx context.Context, parts ParticipationRepository, task *domain.Task, volunteerID uuid.UUID, note string) (*domain.Participation, int, error) {
	existing, err := parts.FindActive(ctx, task.ID, volunteerID)
	if err != nil && !errors.Is(err, store.ErrParticipationNotFound) {
		return nil, 0, fmt.Errorf("checking active participation: %w", err)
	}
	if existing != nil {
		return nil, 0, ErrAlreadyActive
	}

	if volunteerID == task.CreatorID {
		return nil, 0, ErrIsCreator
	}

	if !task.IsJoinable() {
		return nil, 0, ErrTaskNotJoinable
	}

	if task.IsExpired(g.now()) {
		return nil, 0, ErrTaskExpired
	}

	count, err := parts.CountActive(ctx, task.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("counting active participants: %w", err)
	}
	if count >= task.Capacity {
		return nil, 0, ErrCapacityExceeded
	}

	p, err := domain.NewParticipation(task.ID, volunteerID, note)
	if err != nil {
		return nil, 0, fmt.Errorf("creating participation: %w", err)
	}
	if err := parts.Create(ctx, p); err != nil {
		// The partial unique index is the last line of defense against a
		// double join; surface it the same way as the in-transaction check.
		if errors.Is(err, store.ErrActiveParticipationExists) {
			return nil, 0, ErrAlreadyActive
		}
		return nil, 0, fmt.Errorf("inserting participation: %w", err)
	}

	return p, count + 1, nil
}

// release ends the caller's active participation and returns the active
// count after the departure. Total even when the task is full or terminal;
// the only rejection is not participating in the first place.
func (g *capacityGuard) release(ctx context.Context, parts ParticipationRepository, task *domain.Task, volunteerID uuid.UUID) (int, error) {
	existing, err := parts.FindActive(ctx, task.ID, volunteerID)
	if err != nil {
		if errors.Is(err, store.ErrParticipationNotFound) {
			return 0, ErrNotParticipating
		}
		return 0, fmt.Errorf("finding active participation: %w", err)
	}

	if err := parts.Deactivate(ctx, existing.ID); err != nil {
		if errors.Is(err, store.ErrParticipationNotFound) {
			return 0, ErrNotParticipating
		}
		return 0, fmt.Errorf("deactivating participation: %w", err)
	}

	count, err := parts.CountActive(ctx, task.ID)
	if err != nil {
		return 0, fmt.Errorf("counting active participants: %w", err)
	}
	return count, nil
}
