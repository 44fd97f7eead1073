package campaigns_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirim-app/kirim/internal/campaigns"
	"github.com/kirim-app/kirim/internal/platform/httpx"
	_ "github.com/kirim-app/kirim/testing"
)

type stubCampaignRepo struct {
	campaigns map[string]campaigns.Campaign
	created   *campaigns.Campaign
}

func (s *stubCampaignRepo) ListCampaigns(ctx context.Context) ([]campaigns.Campaign, error) {
	return nil, nil
}

func (s *stubCampaignRepo) GetCampaign(ctx context.Context, id string) (campaigns.Campaign, error) {
	c, ok := s.campaigns[id]
	if !ok {
		return campaigns.Campaign{}, httpx.ErrNotFound
	}
	return c, nil
}

func (s *stubCampaignRepo) CreateCampaign(ctx context.Context, c campaigns.Campaign) (campaigns.Campaign, error) {
	s.created = &c
	return c, nil
}

func (s *stubCampaignRepo) DeleteCampaign(ctx context.Context, id string) error {
	return nil
}

type stubDispatcher struct {
	enqueued []string
	err      error
}

func (s *stubDispatcher) EnqueueCampaignDispatch(ctx context.Context, campaignID string) error {
	if s.err != nil {
		return s.err
	}
	s.enqueued = append(s.enqueued, campaignID)
	return nil
}

func TestCreateCampaignDefaults(t *testing.T) {
	repo := &stubCampaignRepo{}
	service := campaigns.NewService(repo, &stubDispatcher{})

	created, err := service.CreateCampaign(context.Background(), " Promo Agustus ", " desc ", campaigns.TypeBroadcast, "tmpl-1", "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Promo Agustus", created.Name)
	assert.Equal(t, campaigns.StatusDraft, created.Status)
	assert.Equal(t, "u1", created.CreatedBy)
}

func TestCreateCampaignValidation(t *testing.T) {
	service := campaigns.NewService(&stubCampaignRepo{}, &stubDispatcher{})

	_, err := service.CreateCampaign(context.Background(), "  ", "", campaigns.TypeBroadcast, "", "u1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))

	_, err = service.CreateCampaign(context.Background(), "Promo", "", "spam", "", "u1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestDispatchOnlyFromDraftOrScheduled(t *testing.T) {
	repo := &stubCampaignRepo{campaigns: map[string]campaigns.Campaign{
		"draft":     {ID: "draft", Status: campaigns.StatusDraft},
		"scheduled": {ID: "scheduled", Status: campaigns.StatusScheduled},
		"running":   {ID: "running", Status: campaigns.StatusRunning},
		"completed": {ID: "completed", Status: campaigns.StatusCompleted},
	}}
	dispatcher := &stubDispatcher{}
	service := campaigns.NewService(repo, dispatcher)

	require.NoError(t, service.Dispatch(context.Background(), "draft"))
	require.NoError(t, service.Dispatch(context.Background(), "scheduled"))
	assert.Equal(t, []string{"draft", "scheduled"}, dispatcher.enqueued)

	for _, id := range []string{"running", "completed"} {
		err := service.Dispatch(context.Background(), id)
		require.Error(t, err)
		assert.True(t, errors.Is(err, httpx.ErrValidation))
	}

	err := service.Dispatch(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
}

func TestDispatchWithoutDispatcherFails(t *testing.T) {
	repo := &stubCampaignRepo{campaigns: map[string]campaigns.Campaign{
		"draft": {ID: "draft", Status: campaigns.StatusDraft},
	}}
	service := campaigns.NewService(repo, nil)

	require.Error(t, service.Dispatch(context.Background(), "draft"))
}
