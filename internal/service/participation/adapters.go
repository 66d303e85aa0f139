package participation

import (
	"context"
	"database/sql"

	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/Jorik-creator/microvolunteer/internal/store"
	"github.com/google/uuid"
)

// taskRepositoryAdapter adapts a store.TaskStore to the TaskRepository
// interface consumed by the service.
type taskRepositoryAdapter struct {
	taskStore store.TaskStore
	db        *sql.DB
}

// NewTaskRepositoryAdapter creates a TaskRepository backed by the given store.
func NewTaskRepositoryAdapter(taskStore store.TaskStore, db *sql.DB) TaskRepository {
	return &taskRepositoryAdapter{taskStore: taskStore, db: db}
}

func (a *taskRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return a.taskStore.GetByID(ctx, id)
}

func (a *taskRepositoryAdapter) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return a.taskStore.GetForUpdate(ctx, id)
}

func (a *taskRepositoryAdapter) Update(ctx context.Context, task *domain.Task) error {
	return a.taskStore.Update(ctx, task)
}

func (a *taskRepositoryAdapter) WithTx(tx *sql.Tx) TaskRepository {
	return &taskRepositoryAdapter{taskStore: a.taskStore.WithTx(tx), db: a.db}
}

func (a *taskRepositoryAdapter) DB() *sql.DB {
	return a.db
}

// participationRepositoryAdapter adapts a store.ParticipationStore to the
// ParticipationRepository interface consumed by the service.
type participationRepositoryAdapter struct {
	participationStore store.ParticipationStore
}

// NewParticipationRepositoryAdapter creates a ParticipationRepository backed
// by the given store.
func NewParticipationRepositoryAdapter(participationStore store.ParticipationStore) ParticipationRepository {
	return &participationRepositoryAdapter{participationStore: participationStore}
}

func (a *participationRepositoryAdapter) Create(ctx context.Context, p *domain.Participation) error {
	return a.participationStore.Create(ctx, p)
}

func (a *participationRepositoryAdapter) CountActive(ctx context.Context, taskID uuid.UUID) (int, error) {
	return a.participationStore.CountActive(ctx, taskID)
}

func (a *participationRepositoryAdapter) FindActive(ctx context.Context, taskID, volunteerID uuid.UUID) (*domain.Participation, error) {
	return a.participationStore.FindActive(ctx, taskID, volunteerID)
}

func (a *participationRepositoryAdapter) Deactivate(ctx context.Context, id uuid.UUID) error {
	return a.participationStore.Deactivate(ctx, id)
}

func (a *participationRepositoryAdapter) ListActiveByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Participation, error) {
	return a.participationStore.ListActiveByTask(ctx, taskID)
}

func (a *participationRepositoryAdapter) WithTx(tx *sql.Tx) ParticipationRepository {
	return &participationRepositoryAdapter{participationStore: a.participationStore.WithTx(tx)}
}
