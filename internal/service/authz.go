package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/Jorik-creator/microvolunteer/internal/store"
	"github.com/google/uuid"
)

// StoreAuthorizationPolicy answers role and ownership questions from the
// user and task stores. Roles imply weaker ones: authors may volunteer, and
// admins may do anything either role can.
type StoreAuthorizationPolicy struct {
	users store.UserStore
	tasks store.TaskStore
}

// NewStoreAuthorizationPolicy creates a StoreAuthorizationPolicy.
// Panics if either store is nil, as this is a programming error.
func NewStoreAuthorizationPolicy(
	users store.UserStore,
	tasks store.TaskStore,
) *StoreAuthorizationPolicy {
	if users == nil {
		panic("users store cannot be nil")
	}
	if tasks == nil {
		panic("tasks store cannot be nil")
	}
	return &StoreAuthorizationPolicy{users: users, tasks: tasks}
}

// HasRole reports whether the caller holds the required role, directly or by
// implication. Unknown callers simply lack every role.
func (p *StoreAuthorizationPolicy) HasRole(
	ctx context.Context,
	callerID uuid.UUID,
	role domain.UserRole,
) (bool, error) {
	user, err := p.users.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("looking up caller: %w", err)
	}
	return roleSatisfies(user.Role, role), nil
}

// IsOwner reports whether the caller created the given task.
func (p *StoreAuthorizationPolicy) IsOwner(
	ctx context.Context,
	callerID, taskID uuid.UUID,
) (bool, error) {
	task, err := p.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("looking up task: %w", err)
	}
	return task.CreatorID == callerID, nil
}

// roleSatisfies encodes the role hierarchy: admin covers author and
// volunteer, author covers volunteer.
func roleSatisfies(actual, required domain.UserRole) bool {
	if actual == required || actual == domain.RoleAdmin {
		return true
	}
	if required == domain.RoleVolunteer {
		return actual == domain.RoleAuthor
	}
	return false
}
