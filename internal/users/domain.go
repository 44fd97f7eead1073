package users

import (
	"time"

	"github.com/kirim-app/kirim/internal/rbac"
)

// User represents a user account for administration. The role is a
// denormalized name reference, not an embedded role document.
type User struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	Name        string            `json:"name"`
	Role        string            `json:"role"`
	Permissions []rbac.Permission `json:"permissions,omitempty"`
	IsActive    bool              `json:"isActive"`
	LastLogin   *time.Time        `json:"lastLogin,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}
