package api

import (
	"context"

	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/Jorik-creator/microvolunteer/internal/service"
	"github.com/Jorik-creator/microvolunteer/internal/service/participation"
	"github.com/Jorik-creator/microvolunteer/internal/store"
	"github.com/google/uuid"
)

// mockTaskService implements service.TaskService with function fields.
type mockTaskService struct {
	createTaskFn   func(ctx context.Context, callerID uuid.UUID, input service.TaskCreateInput) (*domain.Task, error)
	getTaskFn      func(ctx context.Context, taskID uuid.UUID) (*service.TaskDetail, error)
	listTasksFn    func(ctx context.Context, filter store.TaskListFilter) ([]*domain.Task, error)
	updateTaskFn   func(ctx context.Context, callerID, taskID uuid.UUID, input service.TaskUpdateInput) (*domain.Task, error)
	completeTaskFn func(ctx context.Context, callerID, taskID uuid.UUID) (*domain.Task, error)
	cancelTaskFn   func(ctx context.Context, callerID, taskID uuid.UUID) (*domain.Task, error)
	deleteTaskFn   func(ctx context.Context, callerID, taskID uuid.UUID) error
}

var _ service.TaskService = (*mockTaskService)(nil)

func (m *mockTaskService) CreateTask(
	ctx context.Context,
	callerID uuid.UUID,
	input service.TaskCreateInput,
) (*domain.Task, error) {
	if m.createTaskFn != nil {
		return m.createTaskFn(ctx, callerID, input)
	}
	return nil, store.ErrTaskNotFound
}

func (m *mockTaskService) GetTask(ctx context.Context, taskID uuid.UUID) (*service.TaskDetail, error) {
	if m.getTaskFn != nil {
		return m.getTaskFn(ctx, taskID)
	}
	return nil, store.ErrTaskNotFound
}

func (m *mockTaskService) ListTasks(
	ctx context.Context,
	filter store.TaskListFilter,
) ([]*domain.Task, error) {
	if m.listTasksFn != nil {
		return m.listTasksFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockTaskService) UpdateTask(
	ctx context.Context,
	callerID, taskID uuid.UUID,
	input service.TaskUpdateInput,
) (*domain.Task, error) {
	if m.updateTaskFn != nil {
		return m.updateTaskFn(ctx, callerID, taskID, input)
	}
	return nil, store.ErrTaskNotFound
}

func (m *mockTaskService) CompleteTask(
	ctx context.Context,
	callerID, taskID uuid.UUID,
) (*domain.Task, error) {
	if m.completeTaskFn != nil {
		return m.completeTaskFn(ctx, callerID, taskID)
	}
	return nil, store.ErrTaskNotFound
}

func (m *mockTaskService) CancelTask(
	ctx context.Context,
	callerID, taskID uuid.UUID,
) (*domain.Task, error) {
	if m.cancelTaskFn != nil {
		return m.cancelTaskFn(ctx, callerID, taskID)
	}
	return nil, store.ErrTaskNotFound
}

func (m *mockTaskService) DeleteTask(ctx context.Context, callerID, taskID uuid.UUID) error {
	if m.deleteTaskFn != nil {
		return m.deleteTaskFn(ctx, callerID, taskID)
	}
	return store.ErrTaskNotFound
}

// mockParticipationService implements participation.ParticipationService
// with function fields.
type mockParticipationService struct {
	joinFn             func(ctx context.Context, taskID, callerID uuid.UUID, note string) (*participation.TaskSnapshot, error)
	leaveFn            func(ctx context.Context, taskID, callerID uuid.UUID) (*participation.TaskSnapshot, error)
	isParticipatingFn  func(ctx context.Context, taskID, callerID uuid.UUID) (bool, error)
	listParticipantsFn func(ctx context.Context, taskID uuid.UUID) ([]participation.Participant, error)
}

var _ participation.ParticipationService = (*mockParticipationService)(nil)

func (m *mockParticipationService) Join(
	ctx context.Context,
	taskID, callerID uuid.UUID,
	note string,
) (*participation.TaskSnapshot, error) {
	if m.joinFn != nil {
		return m.joinFn(ctx, taskID, callerID, note)
	}
	return nil, participation.ErrTaskNotFound
}

func (m *mockParticipationService) Leave(
	ctx context.Context,
	taskID, callerID uuid.UUID,
) (*participation.TaskSnapshot, error) {
	if m.leaveFn != nil {
		return m.leaveFn(ctx, taskID, callerID)
	}
	return nil, participation.ErrTaskNotFound
}

func (m *mockParticipationService) IsParticipating(
	ctx context.Context,
	taskID, callerID uuid.UUID,
) (bool, error) {
	if m.isParticipatingFn != nil {
		return m.isParticipatingFn(ctx, taskID, callerID)
	}
	return false, nil
}

func (m *mockParticipationService) ListParticipants(
	ctx context.Context,
	taskID uuid.UUID,
) ([]participation.Participant, error) {
	if m.listParticipantsFn != nil {
		return m.listParticipantsFn(ctx, taskID)
	}
	return nil, nil
}
