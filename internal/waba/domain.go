package waba

import "time"

// AccountType distinguishes cloud API accounts from web-bridge ones.
type AccountType string

const (
	TypeCloud AccountType = "cloud"
	TypeWeb   AccountType = "web"
)

// Account is a connected WhatsApp business account. The access token is write
// only from the API's perspective: it is stored, never echoed back.
type Account struct {
	ID                string      `json:"id"`
	BusinessAccountID string      `json:"businessAccountId"`
	PhoneNumberID     string      `json:"phoneNumberId"`
	DisplayName       string      `json:"displayName"`
	Type              AccountType `json:"type"`
	Status            string      `json:"status"`
	AccessToken       string      `json:"-"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}
