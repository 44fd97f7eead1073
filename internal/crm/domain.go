package crm

import "time"

// ContactStatus is the lifecycle state of a contact.
type ContactStatus string

const (
	StatusActive   ContactStatus = "active"
	StatusInactive ContactStatus = "inactive"
	StatusBlocked  ContactStatus = "blocked"
)

// Contact is a CRM record.
type Contact struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Email           string        `json:"email,omitempty"`
	Phone           string        `json:"phone"`
	Company         string        `json:"company,omitempty"`
	Tags            []string      `json:"tags,omitempty"`
	Labels          []string      `json:"labels,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	Status          ContactStatus `json:"status"`
	LastInteraction *time.Time    `json:"lastInteraction,omitempty"`
	MessageCount    int           `json:"messageCount"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// Stats aggregates the dashboard contact counters.
type Stats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Blocked  int `json:"blocked"`
}
