package campaigns

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kirim-app/kirim/internal/platform/httpx"
)

// RepositoryPort defines data access methods for campaigns.
type RepositoryPort interface {
	ListCampaigns(ctx context.Context) ([]Campaign, error)
	GetCampaign(ctx context.Context, id string) (Campaign, error)
	CreateCampaign(ctx context.Context, c Campaign) (Campaign, error)
	DeleteCampaign(ctx context.Context, id string) error
}

// Dispatcher enqueues a campaign for background delivery.
type Dispatcher interface {
	EnqueueCampaignDispatch(ctx context.Context, campaignID string) error
}

// Service handles campaign business logic.
type Service struct {
	repo       RepositoryPort
	dispatcher Dispatcher
}

// NewService builds Service instance. The dispatcher may be nil in test mode;
// dispatch requests then fail rather than silently dropping work.
func NewService(repo RepositoryPort, dispatcher Dispatcher) *Service {
	return &Service{repo: repo, dispatcher: dispatcher}
}

// ListCampaigns returns all campaigns.
func (s *Service) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	return s.repo.ListCampaigns(ctx)
}

// CreateCampaign validates and inserts a draft campaign owned by the creator.
func (s *Service) CreateCampaign(ctx context.Context, name, description string, ctype CampaignType, template, createdBy string) (Campaign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Campaign{}, fmt.Errorf("%w: campaign name required", httpx.ErrValidation)
	}
	switch ctype {
	case TypeBroadcast, TypeTargeted, TypeAutomated:
	default:
		return Campaign{}, fmt.Errorf("%w: unknown campaign type %q", httpx.ErrValidation, ctype)
	}
	return s.repo.CreateCampaign(ctx, Campaign{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Type:        ctype,
		Status:      StatusDraft,
		Template:    template,
		CreatedBy:   createdBy,
	})
}

// Dispatch queues a draft or scheduled campaign for delivery.
func (s *Service) Dispatch(ctx context.Context, id string) error {
	campaign, err := s.repo.GetCampaign(ctx, id)
	if err != nil {
		return err
	}
	if campaign.Status != StatusDraft && campaign.Status != StatusScheduled {
		return fmt.Errorf("%w: campaign %s is %s", httpx.ErrValidation, id, campaign.Status)
	}
	if s.dispatcher == nil {
		return fmt.Errorf("campaigns: dispatcher not configured")
	}
	return s.dispatcher.EnqueueCampaignDispatch(ctx, id)
}

// DeleteCampaign removes a campaign.
func (s *Service) DeleteCampaign(ctx context.Context, id string) error {
	return s.repo.DeleteCampaign(ctx, id)
}
