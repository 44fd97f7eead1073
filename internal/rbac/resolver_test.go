package rbac_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirim-app/kirim/internal/rbac"
	"github.com/kirim-app/kirim/internal/shared"
	_ "github.com/kirim-app/kirim/testing"
)

type stubUserFinder struct {
	users map[string]rbac.UserRecord
	err   error
}

func (s *stubUserFinder) FindUserByID(ctx context.Context, id string) (rbac.UserRecord, error) {
	if s.err != nil {
		return rbac.UserRecord{}, s.err
	}
	user, ok := s.users[id]
	if !ok {
		return rbac.UserRecord{}, shared.ErrNotFound
	}
	return user, nil
}

type stubRoleFinder struct {
	roles map[string]rbac.Role
	err   error
}

func (s *stubRoleFinder) FindRoleByName(ctx context.Context, name string) (rbac.Role, error) {
	if s.err != nil {
		return rbac.Role{}, s.err
	}
	role, ok := s.roles[name]
	if !ok {
		return rbac.Role{}, shared.ErrNotFound
	}
	return role, nil
}

func TestResolveUserRoleReplacesInlinePermissions(t *testing.T) {
	inline := []rbac.Permission{{Resource: rbac.ResourceSettings, Action: rbac.ActionDelete}}
	rolePerms := []rbac.Permission{
		{Resource: rbac.ResourceCRM, Action: rbac.ActionRead},
		{Resource: rbac.ResourceCRM, Action: rbac.ActionCreate},
	}
	resolver := rbac.NewResolver(
		&stubUserFinder{users: map[string]rbac.UserRecord{
			"u1": {ID: "u1", Role: "agent", Permissions: inline},
		}},
		&stubRoleFinder{roles: map[string]rbac.Role{
			"agent": {Name: "agent", Permissions: rolePerms},
		}},
	)

	grant, err := resolver.ResolveUser(context.Background(), "u1")
	require.NoError(t, err)

	// The role definition wins outright; the inline list does not leak in.
	assert.Equal(t, "agent", grant.Role)
	assert.Equal(t, rolePerms, grant.Permissions)
	assert.False(t, rbac.CheckPermission(grant.Permissions, rbac.ResourceSettings, rbac.ActionDelete))
	assert.Equal(t, []string{rbac.ResourceCRM}, grant.Resources)
}

func TestResolveUserMissingRoleFallsBackToInline(t *testing.T) {
	inline := []rbac.Permission{{Resource: rbac.ResourceTeam, Action: rbac.ActionRead}}
	resolver := rbac.NewResolver(
		&stubUserFinder{users: map[string]rbac.UserRecord{
			"u1": {ID: "u1", Role: "ghost", Permissions: inline},
		}},
		&stubRoleFinder{roles: map[string]rbac.Role{}},
	)

	grant, err := resolver.ResolveUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, inline, grant.Permissions)
}

func TestResolveUserEmptyRoleNameSkipsLookup(t *testing.T) {
	inline := []rbac.Permission{{Resource: rbac.ResourceCRM, Action: rbac.ActionRead}}
	resolver := rbac.NewResolver(
		&stubUserFinder{users: map[string]rbac.UserRecord{
			"u1": {ID: "u1", Permissions: inline},
		}},
		&stubRoleFinder{err: errors.New("must not be called")},
	)

	grant, err := resolver.ResolveUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, inline, grant.Permissions)
}

func TestResolveUserMissingUserYieldsEmptyGrant(t *testing.T) {
	resolver := rbac.NewResolver(&stubUserFinder{}, &stubRoleFinder{})

	grant, err := resolver.ResolveUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, grant.Role)
	assert.Empty(t, grant.Permissions)
	assert.Empty(t, grant.Resources)
	assert.NotNil(t, grant.Permissions)
	assert.NotNil(t, grant.Resources)
}

func TestResolveUserStoreErrorSurfaces(t *testing.T) {
	storeErr := errors.New("connection reset")
	resolver := rbac.NewResolver(&stubUserFinder{err: storeErr}, &stubRoleFinder{})

	_, err := resolver.ResolveUser(context.Background(), "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
}

func TestResolveUserRoleStoreErrorSurfaces(t *testing.T) {
	storeErr := errors.New("connection reset")
	resolver := rbac.NewResolver(
		&stubUserFinder{users: map[string]rbac.UserRecord{
			"u1": {ID: "u1", Role: "agent"},
		}},
		&stubRoleFinder{err: storeErr},
	)

	_, err := resolver.ResolveUser(context.Background(), "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
}

func TestResolveRolePermissionsFallback(t *testing.T) {
	fallback := []rbac.Permission{{Resource: rbac.ResourceCRM, Action: rbac.ActionRead}}
	resolver := rbac.NewResolver(&stubUserFinder{}, &stubRoleFinder{roles: map[string]rbac.Role{}})

	perms, err := resolver.ResolveRolePermissions(context.Background(), "missing", fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, perms)

	perms, err = resolver.ResolveRolePermissions(context.Background(), "", fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, perms)
}
