package rbac

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/kirim-app/kirim/internal/shared"
)

// RoleFinder looks up one role record by exact name match.
type RoleFinder interface {
	FindRoleByName(ctx context.Context, name string) (Role, error)
}

// UserFinder looks up one user record by ID.
type UserFinder interface {
	FindUserByID(ctx context.Context, id string) (UserRecord, error)
}

// Resolver turns an identity into its effective permission list. Absence of a
// user or role record degrades to the fallback list; only genuine store
// failures surface as errors, and those always deny.
type Resolver struct {
	users UserFinder
	roles RoleFinder
	group singleflight.Group
}

// NewResolver constructs a Resolver.
func NewResolver(users UserFinder, roles RoleFinder) *Resolver {
	return &Resolver{users: users, roles: roles}
}

// Grant is the resolved authorization state for one identity.
type Grant struct {
	Role        string       `json:"role"`
	Permissions []Permission `json:"permissions"`
	Resources   []string     `json:"availableResources"`
}

// ResolveUser fetches the user record and computes its effective permissions.
// A missing user yields an empty grant, never an error.
func (r *Resolver) ResolveUser(ctx context.Context, userID string) (Grant, error) {
	user, err := r.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Grant{Permissions: []Permission{}, Resources: []string{}}, nil
		}
		return Grant{}, fmt.Errorf("rbac: find user: %w", err)
	}

	perms, err := r.effectivePermissions(ctx, user)
	if err != nil {
		return Grant{}, err
	}
	return Grant{Role: user.Role, Permissions: perms, Resources: Resources(perms)}, nil
}

// ResolveRolePermissions looks the role up by name and returns its permission
// list. A missing role yields the caller-supplied fallback.
func (r *Resolver) ResolveRolePermissions(ctx context.Context, roleName string, fallback []Permission) ([]Permission, error) {
	if roleName == "" {
		return fallback, nil
	}
	role, err, _ := r.lookupRole(ctx, roleName)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return fallback, nil
		}
		return nil, fmt.Errorf("rbac: find role %q: %w", roleName, err)
	}
	return role.Permissions, nil
}

// effectivePermissions is the single place encoding the precedence rule: the
// inline list on the user record is the default, and a successful role lookup
// REPLACES it rather than merging. Revisit merge-vs-replace here, not at call
// sites.
func (r *Resolver) effectivePermissions(ctx context.Context, user UserRecord) ([]Permission, error) {
	perms := user.Permissions
	if perms == nil {
		perms = []Permission{}
	}
	return r.ResolveRolePermissions(ctx, user.Role, perms)
}

// lookupRole collapses concurrent lookups for the same role name into one
// store round trip.
func (r *Resolver) lookupRole(ctx context.Context, name string) (Role, error, bool) {
	resultChan := r.group.DoChan("role:"+name, func() (interface{}, error) {
		return r.roles.FindRoleByName(ctx, name)
	})
	select {
	case <-ctx.Done():
		return Role{}, ctx.Err(), false
	case res := <-resultChan:
		role, _ := res.Val.(Role)
		return role, res.Err, res.Shared
	}
}
