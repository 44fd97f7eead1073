package campaigns

import "time"

// CampaignType describes how the campaign selects recipients.
type CampaignType string

const (
	TypeBroadcast CampaignType = "broadcast"
	TypeTargeted  CampaignType = "targeted"
	TypeAutomated CampaignType = "automated"
)

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	StatusDraft     CampaignStatus = "draft"
	StatusScheduled CampaignStatus = "scheduled"
	StatusRunning   CampaignStatus = "running"
	StatusCompleted CampaignStatus = "completed"
	StatusFailed    CampaignStatus = "failed"
)

// Campaign is a message blast definition plus its delivery counters.
type Campaign struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	Type         CampaignType   `json:"type"`
	Status       CampaignStatus `json:"status"`
	Template     string         `json:"template,omitempty"`
	ScheduledAt  *time.Time     `json:"scheduledAt,omitempty"`
	StartedAt    *time.Time     `json:"startedAt,omitempty"`
	CompletedAt  *time.Time     `json:"completedAt,omitempty"`
	MessageCount int            `json:"messageCount"`
	SuccessCount int            `json:"successCount"`
	FailureCount int            `json:"failureCount"`
	CreatedBy    string         `json:"createdBy"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}
