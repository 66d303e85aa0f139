package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/Jorik-creator/microvolunteer/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockParticipationStore(t *testing.T) (*PostgresParticipationStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresParticipationStore(db, nil), mock
}

func TestParticipationStoreCreate(t *testing.T) {
	taskID := uuid.New()
	volunteerID := uuid.New()

	insertPattern := regexp.QuoteMeta("INSERT INTO participations")

	t.Run("success", func(t *testing.T) {
		s, mock := newMockParticipationStore(t)

		p, err := domain.NewParticipation(taskID, volunteerID, "I can bring gloves")
		require.NoError(t, err)

		mock.ExpectExec(insertPattern).
			WithArgs(p.ID, p.TaskID, p.VolunteerID, p.Note, p.Active, p.JoinedAt, p.LeftAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(context.Background(), p))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate active pair", func(t *testing.T) {
		s, mock := newMockParticipationStore(t)

		p, err := domain.NewParticipation(taskID, volunteerID, "")
		require.NoError(t, err)

		mock.ExpectExec(insertPattern).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_participations_one_active"})

		err = s.Create(context.Background(), p)
		assert.ErrorIs(t, err, store.ErrActiveParticipationExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing task or volunteer", func(t *testing.T) {
		s, mock := newMockParticipationStore(t)

		p, err := domain.NewParticipation(taskID, volunteerID, "")
		require.NoError(t, err)

		mock.ExpectExec(insertPattern).
			WillReturnError(&pgconn.PgError{Code: "23503"})

		err = s.Create(context.Background(), p)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestParticipationStoreCountActive(t *testing.T) {
	s, mock := newMockParticipationStore(t)
	taskID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM participations WHERE task_id = $1 AND active")).
		WithArgs(taskID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := s.CountActive(context.Background(), taskID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipationStoreFindActive(t *testing.T) {
	taskID := uuid.New()
	volunteerID := uuid.New()
	selectPattern := regexp.QuoteMeta("SELECT id, task_id, volunteer_id, note, active, joined_at, left_at")

	t.Run("found", func(t *testing.T) {
		s, mock := newMockParticipationStore(t)

		joined := time.Now().UTC()
		mock.ExpectQuery(selectPattern).
			WithArgs(taskID, volunteerID).
			WillReturnRows(sqlmock.
				NewRows([]string{"id", "task_id", "volunteer_id", "note", "active", "joined_at", "left_at"}).
				AddRow(uuid.New(), taskID, volunteerID, "note", true, joined, nil))

		p, err := s.FindActive(context.Background(), taskID, volunteerID)
		require.NoError(t, err)
		assert.Equal(t, taskID, p.TaskID)
		assert.True(t, p.Active)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not participating", func(t *testing.T) {
		s, mock := newMockParticipationStore(t)

		mock.ExpectQuery(selectPattern).
			WithArgs(taskID, volunteerID).
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "task_id", "volunteer_id", "note", "active", "joined_at", "left_at"}))

		_, err := s.FindActive(context.Background(), taskID, volunteerID)
		assert.ErrorIs(t, err, store.ErrParticipationNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestParticipationStoreDeactivate(t *testing.T) {
	updatePattern := regexp.QuoteMeta(
		"UPDATE participations SET active = FALSE, left_at = $1 WHERE id = $2 AND active")

	t.Run("success", func(t *testing.T) {
		s, mock := newMockParticipationStore(t)
		id := uuid.New()

		mock.ExpectExec(updatePattern).
			WithArgs(sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Deactivate(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second leave affects no rows", func(t *testing.T) {
		s, mock := newMockParticipationStore(t)
		id := uuid.New()

		mock.ExpectExec(updatePattern).
			WithArgs(sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Deactivate(context.Background(), id)
		assert.ErrorIs(t, err, store.ErrParticipationNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestParticipationStoreListActiveByTask(t *testing.T) {
	s, mock := newMockParticipationStore(t)
	taskID := uuid.New()

	first := time.Now().UTC().Add(-2 * time.Hour)
	second := first.Add(time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE task_id = $1 AND active")).
		WithArgs(taskID).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "task_id", "volunteer_id", "note", "active", "joined_at", "left_at"}).
			AddRow(uuid.New(), taskID, uuid.New(), "", true, first, nil).
			AddRow(uuid.New(), taskID, uuid.New(), "has a car", true, second, nil))

	participations, err := s.ListActiveByTask(context.Background(), taskID)
	require.NoError(t, err)
	require.Len(t, participations, 2)
	assert.True(t, participations[0].JoinedAt.Before(participations[1].JoinedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}
