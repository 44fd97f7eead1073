package roles

import "github.com/kirim-app/kirim/internal/rbac"

// Role re-exports the RBAC role record for provisioning handlers.
type Role = rbac.Role

// Permission re-exports the RBAC permission pair.
type Permission = rbac.Permission
