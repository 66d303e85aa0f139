package participation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/Jorik-creator/microvolunteer/internal/platform/logger"
	"github.com/Jorik-creator/microvolunteer/internal/store"
	"github.com/google/uuid"
)

// maxAdmissionAttempts bounds the retries for transactions aborted by the
// database (serialization failures, deadlocks). Business rejections are
// terminal and never retried.
const maxAdmissionAttempts = 3

// retryBaseDelay is the backoff unit between admission attempts.
const retryBaseDelay = 10 * time.Millisecond

// txFn is the unit of work executed inside a single database transaction,
// with both repositories bound to that transaction.
type txFn func(ctx context.Context, tasks TaskRepository, parts ParticipationRepository) error

// participationService implements the ParticipationService interface.
type participationService struct {
	taskRepo TaskRepository
	partRepo ParticipationRepository
	authz    AuthorizationPolicy
	guard    *capacityGuard
	logger   *slog.Logger

	// runInTransaction executes fn within one transaction. Held as a field
	// so tests can substitute an in-memory runner.
	runInTransaction func(ctx context.Context, fn txFn) error
}

var _ ParticipationService = (*participationService)(nil)

// NewParticipationService creates a new ParticipationService.
// Panics if any dependency is nil, as this is a programming error.
func NewParticipationService(
	taskRepo TaskRepository,
	partRepo ParticipationRepository,
	authz AuthorizationPolicy,
	log *slog.Logger,
) ParticipationService {
	if taskRepo == nil {
		panic("taskRepo cannot be nil")
	}
	if partRepo == nil {
		panic("partRepo cannot be nil")
	}
	if authz == nil {
		panic("authz cannot be nil")
	}
	if log == nil {
		panic("logger cannot be nil")
	}

	s := &participationService{
		taskRepo: taskRepo,
		partRepo: partRepo,
		authz:    authz,
		guard:    newCapacityGuard(),
		logger:   log.With(slog.String("component", "participation_service")),
	}
	s.runInTransaction = func(ctx context.Context, fn txFn) error {
		return store.RunInTransaction(ctx, taskRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
			return fn(ctx, taskRepo.WithTx(tx), partRepo.WithTx(tx))
		})
	}
	return s
}

// Join implements ParticipationService.Join.
func (s *participationService) Join(ctx context.Context, taskID, callerID uuid.UUID, note string) (*TaskSnapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.requireVolunteer(ctx, callerID); err != nil {
		return nil, err
	}

	var snap *TaskSnapshot
	err := s.withConflictRetry(ctx, func(ctx context.Context) error {
		return s.runInTransaction(ctx, func(ctx context.Context, tasks TaskRepository, parts ParticipationRepository) error {
			task, err := tasks.GetForUpdate(ctx, taskID)
			if err != nil {
				if errors.Is(err, store.ErrTaskNotFound) {
					return ErrTaskNotFound
				}
				return fmt.Errorf("locking task: %w", err)
			}

			_, count, err := s.guard.admit(ctx, parts, task, callerID, note)
			if err != nil {
				return err
			}

			if next := domain.StatusAfterJoin(task.Capacity, count); next != task.Status {
				task.Status = next
				task.UpdatedAt = time.Now().UTC()
				if err := tasks.Update(ctx, task); err != nil {
					return fmt.Errorf("updating task status: %w", err)
				}
			}

			snap = &TaskSnapshot{Task: task, ActiveCount: count, Participating: true}
			return nil
		})
	})
	if err != nil {
		return nil, s.wrapError("join", err)
	}

	log.Debug("volunteer joined task",
		slog.String("task_id", taskID.String()),
		slog.String("volunteer_id", callerID.String()),
		slog.Int("active_count", snap.ActiveCount),
		slog.String("status", string(snap.Task.Status)))
	return snap, nil
}

// Leave implements ParticipationService.Leave.
func (s *participationService) Leave(ctx context.Context, taskID, callerID uuid.UUID) (*TaskSnapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var snap *TaskSnapshot
	err := s.withConflictRetry(ctx, func(ctx context.Context) error {
		return s.runInTransaction(ctx, func(ctx context.Context, tasks TaskRepository, parts ParticipationRepository) error {
			task, err := tasks.GetForUpdate(ctx, taskID)
			if err != nil {
				if errors.Is(err, store.ErrTaskNotFound) {
					return ErrTaskNotFound
				}
				return fmt.Errorf("locking task: %w", err)
			}

			count, err := s.guard.release(ctx, parts, task, callerID)
			if err != nil {
				return err
			}

			if next := domain.StatusAfterLeave(task.Capacity, count); next != task.Status && !task.IsTerminal() {
				task.Status = next
				task.UpdatedAt = time.Now().UTC()
				if err := tasks.Update(ctx, task); err != nil {
					return fmt.Errorf("updating task status: %w", err)
				}
			}

			snap = &TaskSnapshot{Task: task, ActiveCount: count, Participating: false}
			return nil
		})
	})
	if err != nil {
		return nil, s.wrapError("leave", err)
	}

	log.Debug("volunteer left task",
		slog.String("task_id", taskID.String()),
		slog.String("volunteer_id", callerID.String()),
		slog.Int("active_count", snap.ActiveCount),
		slog.String("status", string(snap.Task.Status)))
	return snap, nil
}

// IsParticipating implements ParticipationService.IsParticipating.
func (s *participationService) IsParticipating(ctx context.Context, taskID, callerID uuid.UUID) (bool, error) {
	_, err := s.partRepo.FindActive(ctx, taskID, callerID)
	if err != nil {
		if errors.Is(err, store.ErrParticipationNotFound) {
			return false, nil
		}
		return false, s.wrapError("is_participating", err)
	}
	return true, nil
}

// ListParticipants implements ParticipationService.ListParticipants.
func (s *participationService) ListParticipants(ctx context.Context, taskID uuid.UUID) ([]Participant, error) {
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, s.wrapError("list_participants", err)
	}

	rows, err := s.partRepo.ListActiveByTask(ctx, taskID)
	if err != nil {
		return nil, s.wrapError("list_participants", err)
	}

	participants := make([]Participant, 0, len(rows))
	for _, p := range rows {
		participants = append(participants, Participant{
			VolunteerID: p.VolunteerID,
			JoinedAt:    p.JoinedAt,
			Note:        p.Note,
		})
	}
	return participants, nil
}

// requireVolunteer verifies the caller holds the volunteer role.
func (s *participationService) requireVolunteer(ctx context.Context, callerID uuid.UUID) error {
	ok, err := s.authz.HasRole(ctx, callerID, domain.RoleVolunteer)
	if err != nil {
		return &ServiceError{Operation: "authorize", Message: "failed to check caller role", Err: err}
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// withConflictRetry runs fn, retrying with linear backoff when the database
// aborted the transaction due to serialization failure or deadlock. All
// other errors, including every admission rejection, pass through untouched
// on the first attempt.
func (s *participationService) withConflictRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= maxAdmissionAttempts; attempt++ {
		err = fn(ctx)
		if err == nil || !store.IsConflictError(err) {
			return err
		}

		log := logger.FromContextOrDefault(ctx, s.logger)
		log.Warn("transaction conflict, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", maxAdmissionAttempts))

		if attempt < maxAdmissionAttempts {
			select {
			case <-time.After(time.Duration(attempt) * retryBaseDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("%w: %v", ErrConcurrencyConflict, err)
}

// wrapError passes business rejections through as their sentinel values and
// wraps everything else in a ServiceError.
func (s *participationService) wrapError(operation string, err error) error {
	if ReasonCode(err) != "" {
		return err
	}
	return &ServiceError{Operation: operation, Message: "unexpected failure", Err: err}
}
