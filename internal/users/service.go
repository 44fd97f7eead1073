package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kirim-app/kirim/internal/auth"
	"github.com/kirim-app/kirim/internal/platform/httpx"
	"github.com/kirim-app/kirim/internal/shared"
)

// RepositoryPort defines data access methods for user administration.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, user User, passwordHash string) (User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
}

// Service handles user administration logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListUsers returns all user accounts. Password hashes never leave the
// repository layer.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// CreateUser registers a new account with a bcrypt-hashed password.
func (s *Service) CreateUser(ctx context.Context, email, name, password, role string) (User, error) {
	email = shared.NormalizeEmail(email)
	if email == "" || strings.TrimSpace(name) == "" {
		return User{}, fmt.Errorf("%w: email and name required", httpx.ErrValidation)
	}
	if len(password) < 8 {
		return User{}, fmt.Errorf("%w: password must be at least 8 characters", httpx.ErrValidation)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, err
	}
	return s.repo.CreateUser(ctx, User{
		ID:       uuid.NewString(),
		Email:    email,
		Name:     strings.TrimSpace(name),
		Role:     role,
		IsActive: true,
	}, hash)
}

// UpdateUser changes mutable account fields.
func (s *Service) UpdateUser(ctx context.Context, user User) (User, error) {
	if strings.TrimSpace(user.ID) == "" {
		return User{}, fmt.Errorf("%w: user id required", httpx.ErrValidation)
	}
	return s.repo.UpdateUser(ctx, user)
}
