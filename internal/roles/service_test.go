package roles_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirim-app/kirim/internal/platform/httpx"
	"github.com/kirim-app/kirim/internal/rbac"
	"github.com/kirim-app/kirim/internal/roles"
	"github.com/kirim-app/kirim/internal/shared"
	_ "github.com/kirim-app/kirim/testing"
)

type stubRoleRepo struct {
	created *roles.Role
	updated *roles.Role
}

func (s *stubRoleRepo) ListRoles(ctx context.Context) ([]roles.Role, error) {
	return nil, nil
}

func (s *stubRoleRepo) FindRoleByName(ctx context.Context, name string) (roles.Role, error) {
	return roles.Role{}, shared.ErrNotFound
}

func (s *stubRoleRepo) CreateRole(ctx context.Context, role roles.Role) (roles.Role, error) {
	s.created = &role
	return role, nil
}

func (s *stubRoleRepo) UpdateRole(ctx context.Context, role roles.Role) (roles.Role, error) {
	s.updated = &role
	return role, nil
}

func (s *stubRoleRepo) DeleteRole(ctx context.Context, id string) error {
	return nil
}

func TestCreateRoleTrimsAndAssignsID(t *testing.T) {
	repo := &stubRoleRepo{}
	service := roles.NewService(repo)

	role, err := service.CreateRole(context.Background(), "  supervisor ", " watches the floor ", []roles.Permission{
		{Resource: rbac.ResourceTeam, Action: rbac.ActionRead},
	})
	require.NoError(t, err)
	assert.Equal(t, "supervisor", role.Name)
	assert.Equal(t, "watches the floor", role.Description)
	assert.NotEmpty(t, role.ID)
	require.NotNil(t, repo.created)
}

func TestCreateRoleRequiresName(t *testing.T) {
	service := roles.NewService(&stubRoleRepo{})

	_, err := service.CreateRole(context.Background(), "   ", "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestCreateRoleRejectsInvalidPermissions(t *testing.T) {
	service := roles.NewService(&stubRoleRepo{})

	cases := [][]roles.Permission{
		{{Resource: "", Action: rbac.ActionRead}},
		{{Resource: "crm", Action: "admin"}},
		{{Resource: "crm", Action: ""}},
	}
	for _, perms := range cases {
		_, err := service.CreateRole(context.Background(), "agent", "", perms)
		require.Error(t, err, "permissions %+v", perms)
		assert.True(t, errors.Is(err, httpx.ErrValidation))
	}
}

func TestUpdateRoleValidatesPermissions(t *testing.T) {
	repo := &stubRoleRepo{}
	service := roles.NewService(repo)

	_, err := service.UpdateRole(context.Background(), "r1", "desc", []roles.Permission{
		{Resource: "crm", Action: "shred"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
	assert.Nil(t, repo.updated)

	role, err := service.UpdateRole(context.Background(), "r1", " desc ", []roles.Permission{
		{Resource: "crm", Action: rbac.ActionUpdate},
	})
	require.NoError(t, err)
	assert.Equal(t, "desc", role.Description)
}
