package crm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirim-app/kirim/internal/crm"
	"github.com/kirim-app/kirim/internal/platform/httpx"
	_ "github.com/kirim-app/kirim/testing"
)

type stubContactRepo struct {
	contacts   []crm.Contact
	stats      crm.Stats
	lastSearch string
	created    *crm.Contact
	deletedIDs []string
}

func (s *stubContactRepo) ListContacts(ctx context.Context) ([]crm.Contact, error) {
	return s.contacts, nil
}

func (s *stubContactRepo) SearchContacts(ctx context.Context, query string) ([]crm.Contact, error) {
	s.lastSearch = query
	return s.contacts, nil
}

func (s *stubContactRepo) ContactStats(ctx context.Context) (crm.Stats, error) {
	return s.stats, nil
}

func (s *stubContactRepo) CreateContact(ctx context.Context, c crm.Contact) (crm.Contact, error) {
	s.created = &c
	return c, nil
}

func (s *stubContactRepo) UpdateContact(ctx context.Context, c crm.Contact) (crm.Contact, error) {
	return c, nil
}

func (s *stubContactRepo) DeleteContacts(ctx context.Context, ids []string) (int64, error) {
	s.deletedIDs = ids
	return int64(len(ids)), nil
}

func TestListContactsDispatchesOnSearchTerm(t *testing.T) {
	repo := &stubContactRepo{}
	service := crm.NewService(repo)

	_, err := service.ListContacts(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, repo.lastSearch, "blank search must use the plain list")

	_, err = service.ListContacts(context.Background(), "  budi ")
	require.NoError(t, err)
	assert.Equal(t, "budi", repo.lastSearch)
}

func TestCreateContactRequiresCoreFields(t *testing.T) {
	service := crm.NewService(&stubContactRepo{})

	cases := []crm.Contact{
		{Phone: "+62812", Email: "a@b.c"},
		{Name: "Budi", Email: "a@b.c"},
		{Name: "Budi", Phone: "+62812"},
		{Name: " ", Phone: "+62812", Email: "a@b.c"},
	}
	for _, c := range cases {
		_, err := service.CreateContact(context.Background(), c)
		require.Error(t, err)
		assert.True(t, errors.Is(err, httpx.ErrValidation), "expected validation error, got %v", err)
	}
}

func TestCreateContactAssignsIDAndDefaultStatus(t *testing.T) {
	repo := &stubContactRepo{}
	service := crm.NewService(repo)

	created, err := service.CreateContact(context.Background(), crm.Contact{
		Name:  "Budi",
		Phone: "+62812",
		Email: "budi@example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, crm.StatusActive, created.Status)

	created, err = service.CreateContact(context.Background(), crm.Contact{
		Name:   "Eko",
		Phone:  "+62813",
		Email:  "eko@example.com",
		Status: crm.StatusBlocked,
	})
	require.NoError(t, err)
	assert.Equal(t, crm.StatusBlocked, created.Status, "explicit status must be kept")
}

func TestUpdateContactRequiresID(t *testing.T) {
	service := crm.NewService(&stubContactRepo{})

	_, err := service.UpdateContact(context.Background(), crm.Contact{Name: "Budi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestDeleteContactsRequiresIDs(t *testing.T) {
	repo := &stubContactRepo{}
	service := crm.NewService(repo)

	_, err := service.DeleteContacts(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))

	deleted, err := service.DeleteContacts(context.Background(), []string{"c1", "c2"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Equal(t, []string{"c1", "c2"}, repo.deletedIDs)
}
