package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCampaignDispatch delivers a queued campaign.
	TaskCampaignDispatch = "campaign:dispatch"
)

// CampaignDispatchPayload identifies the campaign to deliver.
type CampaignDispatchPayload struct {
	CampaignID string `json:"campaign_id"`
}

// NewCampaignDispatchTask constructs an Asynq task.
func NewCampaignDispatchTask(payload CampaignDispatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCampaignDispatch, data), nil
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueCampaignDispatch queues a campaign for delivery. Implements the
// campaigns.Dispatcher port.
func (c *Client) EnqueueCampaignDispatch(ctx context.Context, campaignID string) error {
	task, err := NewCampaignDispatchTask(CampaignDispatchPayload{CampaignID: campaignID})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
