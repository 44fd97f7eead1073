package roles

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kirim-app/kirim/internal/platform/httpx"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	ListRoles(ctx context.Context) ([]Role, error)
	FindRoleByName(ctx context.Context, name string) (Role, error)
	CreateRole(ctx context.Context, role Role) (Role, error)
	UpdateRole(ctx context.Context, role Role) (Role, error)
	DeleteRole(ctx context.Context, id string) error
}

// Service handles role provisioning logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// CreateRole validates and inserts a new role. Role names are the evaluation
// join key, so invalid permission entries are rejected up front.
func (s *Service) CreateRole(ctx context.Context, name, description string, permissions []Permission) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, fmt.Errorf("%w: role name required", httpx.ErrValidation)
	}
	if err := validatePermissions(permissions); err != nil {
		return Role{}, err
	}
	return s.repo.CreateRole(ctx, Role{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Permissions: permissions,
	})
}

// UpdateRole replaces description and permission list of an existing role.
func (s *Service) UpdateRole(ctx context.Context, id, description string, permissions []Permission) (Role, error) {
	if err := validatePermissions(permissions); err != nil {
		return Role{}, err
	}
	return s.repo.UpdateRole(ctx, Role{
		ID:          id,
		Description: strings.TrimSpace(description),
		Permissions: permissions,
	})
}

// DeleteRole removes a role. Users referencing the deleted name fall back to
// their inline permission lists on the next resolution.
func (s *Service) DeleteRole(ctx context.Context, id string) error {
	return s.repo.DeleteRole(ctx, id)
}

func validatePermissions(permissions []Permission) error {
	for _, p := range permissions {
		if strings.TrimSpace(p.Resource) == "" {
			return fmt.Errorf("%w: permission resource required", httpx.ErrValidation)
		}
		if !p.Action.Valid() {
			return fmt.Errorf("%w: unknown action %q", httpx.ErrValidation, p.Action)
		}
	}
	return nil
}
