package service

import (
	"context"
	"database/sql"

	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/Jorik-creator/microvolunteer/internal/store"
	"github.com/google/uuid"
)

// Function-field mocks for the store interfaces. Unset fields return the
// matching not-found sentinel so tests only configure what they exercise.

type mockTaskStore struct {
	createFn       func(ctx context.Context, task *domain.Task) error
	getByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	getForUpdateFn func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	updateFn       func(ctx context.Context, task *domain.Task) error
	deleteFn       func(ctx context.Context, id uuid.UUID) error
	listFn         func(ctx context.Context, filter store.TaskListFilter) ([]*domain.Task, error)
}

var _ store.TaskStore = (*mockTaskStore)(nil)

func (m *mockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.createFn != nil {
		return m.createFn(ctx, task)
	}
	return nil
}

func (m *mockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrTaskNotFound
}

func (m *mockTaskStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, id)
	}
	return nil, store.ErrTaskNotFound
}

func (m *mockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, task)
	}
	return nil
}

func (m *mockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockTaskStore) List(ctx context.Context, filter store.TaskListFilter) ([]*domain.Task, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockTaskStore) WithTx(tx *sql.Tx) store.TaskStore { return m }

type mockParticipationStore struct {
	createFn           func(ctx context.Context, p *domain.Participation) error
	countActiveFn      func(ctx context.Context, taskID uuid.UUID) (int, error)
	findActiveFn       func(ctx context.Context, taskID, volunteerID uuid.UUID) (*domain.Participation, error)
	deactivateFn       func(ctx context.Context, id uuid.UUID) error
	listActiveByTaskFn func(ctx context.Context, taskID uuid.UUID) ([]*domain.Participation, error)
	listByVolunteerFn  func(ctx context.Context, volunteerID uuid.UUID) ([]*domain.Participation, error)
}

var _ store.ParticipationStore = (*mockParticipationStore)(nil)

func (m *mockParticipationStore) Create(ctx context.Context, p *domain.Participation) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return nil
}

func (m *mockParticipationStore) CountActive(ctx context.Context, taskID uuid.UUID) (int, error) {
	if m.countActiveFn != nil {
		return m.countActiveFn(ctx, taskID)
	}
	return 0, nil
}

func (m *mockParticipationStore) FindActive(
	ctx context.Context,
	taskID, volunteerID uuid.UUID,
) (*domain.Participation, error) {
	if m.findActiveFn != nil {
		return m.findActiveFn(ctx, taskID, volunteerID)
	}
	return nil, store.ErrParticipationNotFound
}

func (m *mockParticipationStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	if m.deactivateFn != nil {
		return m.deactivateFn(ctx, id)
	}
	return nil
}

func (m *mockParticipationStore) ListActiveByTask(
	ctx context.Context,
	taskID uuid.UUID,
) ([]*domain.Participation, error) {
	if m.listActiveByTaskFn != nil {
		return m.listActiveByTaskFn(ctx, taskID)
	}
	return nil, nil
}

func (m *mockParticipationStore) ListByVolunteer(
	ctx context.Context,
	volunteerID uuid.UUID,
) ([]*domain.Participation, error) {
	if m.listByVolunteerFn != nil {
		return m.listByVolunteerFn(ctx, volunteerID)
	}
	return nil, nil
}

func (m *mockParticipationStore) WithTx(tx *sql.Tx) store.ParticipationStore { return m }

type mockUserStore struct {
	createFn     func(ctx context.Context, user *domain.User) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	updateFn     func(ctx context.Context, user *domain.User) error
}

var _ store.UserStore = (*mockUserStore)(nil)

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }

type mockCategoryStore struct {
	createFn  func(ctx context.Context, category *domain.Category) error
	getByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	updateFn  func(ctx context.Context, category *domain.Category) error
	deleteFn  func(ctx context.Context, id uuid.UUID) error
	listFn    func(ctx context.Context) ([]*domain.Category, error)
}

var _ store.CategoryStore = (*mockCategoryStore)(nil)

func (m *mockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if m.createFn != nil {
		return m.createFn(ctx, category)
	}
	return nil
}

func (m *mockCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrCategoryNotFound
}

func (m *mockCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, category)
	}
	return nil
}

func (m *mockCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockCategoryStore) List(ctx context.Context) ([]*domain.Category, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore { return m }

// mockPolicy implements participation.AuthorizationPolicy.
type mockPolicy struct {
	hasRoleFn func(ctx context.Context, callerID uuid.UUID, role domain.UserRole) (bool, error)
	isOwnerFn func(ctx context.Context, callerID, taskID uuid.UUID) (bool, error)
}

func (m *mockPolicy) HasRole(
	ctx context.Context,
	callerID uuid.UUID,
	role domain.UserRole,
) (bool, error) {
	if m.hasRoleFn != nil {
		return m.hasRoleFn(ctx, callerID, role)
	}
	return true, nil
}

func (m *mockPolicy) IsOwner(ctx context.Context, callerID, taskID uuid.UUID) (bool, error) {
	if m.isOwnerFn != nil {
		return m.isOwnerFn(ctx, callerID, taskID)
	}
	return false, nil
}
