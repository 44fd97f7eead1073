package auth

import (
	"time"

	"github.com/kirim-app/kirim/internal/rbac"
)

// User represents an authenticated user account.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	// Permissions is the optional inline list on the user document; the RBAC
	// resolver uses it as the fallback when the role lookup yields nothing.
	Permissions []rbac.Permission
	IsActive    bool
	LastLogin   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
