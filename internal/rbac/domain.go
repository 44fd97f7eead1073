package rbac

import "time"

// Action is the operation being authorized against a resource. The set is
// closed; evaluation stays a flat exact match so it remains trivially
// auditable.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Valid reports whether the action belongs to the closed set.
func (a Action) Valid() bool {
	switch a {
	case ActionRead, ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// Permission grants one action on one resource. Atomic: no wildcards, no
// hierarchy. Duplicates in a list are harmless because evaluation is an
// existence check.
type Permission struct {
	Resource string `json:"resource"`
	Action   Action `json:"action"`
}

// Role is a named, reusable bundle of permissions assigned to users by name.
// Role names are the join key at evaluation time and must stay unique.
type Role struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// UserRecord is the slice of a user account the resolver needs: the role
// reference plus the inline permission list used as fallback.
type UserRecord struct {
	ID          string
	Role        string
	Permissions []Permission
}

// Well-known resource identifiers across the dashboard.
const (
	ResourceCRM       = "crm"
	ResourceTeam      = "team"
	ResourceWhatsApp  = "whatsapp"
	ResourceCampaigns = "campaigns"
	ResourceSettings  = "settings"
)
