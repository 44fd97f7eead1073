package crm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kirim-app/kirim/internal/platform/httpx"
)

// RepositoryPort defines data access methods for contacts.
type RepositoryPort interface {
	ListContacts(ctx context.Context) ([]Contact, error)
	SearchContacts(ctx context.Context, query string) ([]Contact, error)
	ContactStats(ctx context.Context) (Stats, error)
	CreateContact(ctx context.Context, c Contact) (Contact, error)
	UpdateContact(ctx context.Context, c Contact) (Contact, error)
	DeleteContacts(ctx context.Context, ids []string) (int64, error)
}

// Service handles contact business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListContacts returns all contacts, or only those matching the search term.
func (s *Service) ListContacts(ctx context.Context, search string) ([]Contact, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return s.repo.ListContacts(ctx)
	}
	return s.repo.SearchContacts(ctx, search)
}

// Stats returns the dashboard counters.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.ContactStats(ctx)
}

// CreateContact validates and inserts a contact. Name, phone and email are
// required.
func (s *Service) CreateContact(ctx context.Context, c Contact) (Contact, error) {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Phone) == "" || strings.TrimSpace(c.Email) == "" {
		return Contact{}, fmt.Errorf("%w: name, phone, and email are required", httpx.ErrValidation)
	}
	c.ID = uuid.NewString()
	if c.Status == "" {
		c.Status = StatusActive
	}
	return s.repo.CreateContact(ctx, c)
}

// UpdateContact replaces mutable fields of an existing contact.
func (s *Service) UpdateContact(ctx context.Context, c Contact) (Contact, error) {
	if strings.TrimSpace(c.ID) == "" {
		return Contact{}, fmt.Errorf("%w: contact id is required", httpx.ErrValidation)
	}
	return s.repo.UpdateContact(ctx, c)
}

// DeleteContacts removes the given IDs in one batch.
func (s *Service) DeleteContacts(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: contact ids are required", httpx.ErrValidation)
	}
	return s.repo.DeleteContacts(ctx, ids)
}
