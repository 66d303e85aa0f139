package postgres

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

// PostgresParticipationStore implements the store.ParticipationStore
// interface using a PostgreSQL database as the storage backend.
//
// The participations table carries a partial unique index on
// (task_id, volunteer_id) WHERE active, so the "at most one active row per
// pair" invariant holds at the storage level even if two inserts race.
type PostgresParticipationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresParticipationStore creates a new PostgreSQL implementation of
// the ParticipationStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresParticipationStore(db store.DBTX, logger *slog.Logger) *PostgresParticipationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresParticipationStore{
		db:     db,
		logger: logger.With(slog.String("component", "participation_store")),
	}
}

// Ensure PostgresParticipationStore implements store.ParticipationStore interface
var _ store.ParticipationStore = (*PostgresParticipationStore)(nil)

// WithTx implements store.ParticipationStore.WithTx
func (s *PostgresParticipationStore) WithTx(tx *sql.Tx) store.ParticipationStore {
	return &PostgresParticipationStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ParticipationStore.Create
// Returns store.ErrActiveParticipationExists if the pair already has an
// active row and store.ErrInvalidEntity on broken references.
func (s *PostgresParticipationStore) Create(ctx context.Context, p *domain.Participation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := p.Validate(); err != nil {
		log.Warn("participation validation failed during create",
			slog.String("error", err.Error()),
			slog.String("participation_id", p.ID.String()))
		return err
	}

	query := `
		INSERT INTO participations (id, task_id, volunteer_id, note, active, joined_at, left_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		p.ID,
		p.TaskID,
		p.VolunteerID,
		p.Note,
		p.Active,
		p.JoinedAt,
		p.LeftAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("active participation already exists",
				slog.String("task_id", p.TaskID.String()),
				slog.String("volunteer_id", p.VolunteerID.String()))
			return fmt.Errorf("%w: task %s volunteer %s",
				store.ErrActiveParticipationExists, p.TaskID, p.VolunteerID)
		}
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: referenced task or volunteer not found",
				store.ErrInvalidEntity)
		}

		log.Error("failed to create participation",
			slog.String("error", err.Error()),
			slog.String("participation_id", p.ID.String()))
		return MapError(err)
	}

	log.Info("participation created",
		slog.String("participation_id", p.ID.String()),
		slog.String("task_id", p.TaskID.String()),
		slog.String("volunteer_id", p.VolunteerID.String()))
	return nil
}

// CountActive implements store.ParticipationStore.CountActive
func (s *PostgresParticipationStore) CountActive(ctx context.Context, taskID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participations WHERE task_id = $1 AND active`,
		taskID,
	).Scan(&count)
	if err != nil {
		log.Error("failed to count active participations",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return 0, MapError(err)
	}

	return count, nil
}

// FindActive implements store.ParticipationStore.FindActive
// Returns store.ErrParticipationNotFound if no active row exists for the pair.
func (s *PostgresParticipationStore) FindActive(
	ctx context.Context,
	taskID, volunteerID uuid.UUID,
) (*domain.Participation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, task_id, volunteer_id, note, active, joined_at, left_at
		FROM participations
		WHERE task_id = $1 AND volunteer_id = $2 AND active
	`

	p, err := scanParticipation(s.db.QueryRowContext(ctx, query, taskID, volunteerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrParticipationNotFound
		}
		log.Error("failed to find active participation",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()),
			slog.String("volunteer_id", volunteerID.String()))
		return nil, MapError(err)
	}

	return p, nil
}

// Deactivate implements store.ParticipationStore.Deactivate
// It flips an active row to inactive and stamps left_at. The WHERE clause
// requires the row to still be active, which makes leave non-reentrant:
// a second call affects zero rows and reports ErrParticipationNotFound.
func (s *PostgresParticipationStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE participations SET active = FALSE, left_at = $1 WHERE id = $2 AND active`,
		time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to deactivate participation",
			slog.String("error", err.Error()),
			slog.String("participation_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "participation"); err != nil {
		log.Debug("no active participation to deactivate",
			slog.String("participation_id", id.String()))
		return store.ErrParticipationNotFound
	}

	log.Info("participation deactivated", slog.String("participation_id", id.String()))
	return nil
}

// ListActiveByTask implements store.ParticipationStore.ListActiveByTask
// Rows come back ordered by joined_at ascending so the caller sees
// participants in join order; re-querying is idempotent.
func (s *PostgresParticipationStore) ListActiveByTask(
	ctx context.Context,
	taskID uuid.UUID,
) ([]*domain.Participation, error) {
	return s.list(ctx,
		`SELECT id, task_id, volunteer_id, note, active, joined_at, left_at
		FROM participations
		WHERE task_id = $1 AND active
		ORDER BY joined_at ASC`,
		taskID)
}

// ListByVolunteer implements store.ParticipationStore.ListByVolunteer
func (s *PostgresParticipationStore) ListByVolunteer(
	ctx context.Context,
	volunteerID uuid.UUID,
) ([]*domain.Participation, error) {
	return s.list(ctx,
		`SELECT id, task_id, volunteer_id, note, active, joined_at, left_at
		FROM participations
		WHERE volunteer_id = $1
		ORDER BY joined_at DESC`,
		volunteerID)
}

func (s *PostgresParticipationStore) list(
	ctx context.Context,
	query string,
	arg any,
) ([]*domain.Participation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		log.Error("failed to query participations", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	participations := []*domain.Participation{}
	for rows.Next() {
		p, err := scanParticipation(rows)
		if err != nil {
			log.Error("failed to scan participation row", slog.String("error", err.Error()))
			return nil, err
		}
		participations = append(participations, p)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return participations, nil
}

func scanParticipation(row rowScanner) (*domain.Participation, error) {
	var p domain.Participation
	err := row.Scan(
		&p.ID,
		&p.TaskID,
		&p.VolunteerID,
		&p.Note,
		&p.Active,
		&p.JoinedAt,
		&p.LeftAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
