package service

import (
	"context"
	"testing"

	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleSatisfies(t *testing.T) {
	t.Parallel()

	cases := []struct {
		actual   domain.UserRole
		required domain.UserRole
		want     bool
	}{
		{domain.RoleVolunteer, domain.RoleVolunteer, true},
		{domain.RoleVolunteer, domain.RoleAuthor, false},
		{domain.RoleVolunteer, domain.RoleAdmin, false},
		{domain.RoleAuthor, domain.RoleVolunteer, true},
		{domain.RoleAuthor, domain.RoleAuthor, true},
		{domain.RoleAuthor, domain.RoleAdmin, false},
		{domain.RoleAdmin, domain.RoleVolunteer, true},
		{domain.RoleAdmin, domain.RoleAuthor, true},
		{domain.RoleAdmin, domain.RoleAdmin, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, roleSatisfies(tc.actual, tc.required),
			"%s satisfies %s", tc.actual, tc.required)
	}
}

func TestStoreAuthorizationPolicyHasRole(t *testing.T) {
	t.Parallel()

	author := uuid.New()
	users := &mockUserStore{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			user, err := domain.NewUser("author@example.com", "An Author", "a-valid-password", domain.RoleAuthor)
			if err != nil {
				return nil, err
			}
			user.ID = id
			return user, nil
		},
	}
	policy := NewStoreAuthorizationPolicy(users, &mockTaskStore{})

	ok, err := policy.HasRole(context.Background(), author, domain.RoleVolunteer)
	require.NoError(t, err)
	assert.True(t, ok, "authors hold volunteer eligibility")

	ok, err = policy.HasRole(context.Background(), author, domain.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreAuthorizationPolicyUnknownCallerHasNoRoles(t *testing.T) {
	t.Parallel()

	policy := NewStoreAuthorizationPolicy(&mockUserStore{}, &mockTaskStore{})
	ok, err := policy.HasRole(context.Background(), uuid.New(), domain.RoleVolunteer)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreAuthorizationPolicyIsOwner(t *testing.T) {
	t.Parallel()

	creator := uuid.New()
	task, err := domain.NewTask(creator, uuid.New(), "Paint the fence", "", "", 2, nil)
	require.NoError(t, err)
	tasks := &mockTaskStore{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
			return task, nil
		},
	}
	policy := NewStoreAuthorizationPolicy(&mockUserStore{}, tasks)

	ok, err := policy.IsOwner(context.Background(), creator, task.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = policy.IsOwner(context.Background(), uuid.New(), task.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
