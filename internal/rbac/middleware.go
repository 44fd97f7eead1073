package rbac

import (
	"log/slog"
	"net/http"

	"github.com/kirim-app/kirim/internal/platform/httpx"
	"github.com/kirim-app/kirim/internal/shared"
)

// Middleware wires per-route authorization checks. It assumes the auth gate
// already attached an identity; a missing identity is answered with 401, an
// insufficient grant with 403, and any resolution failure with 500. Never 200.
type Middleware struct {
	Resolver *Resolver
	Logger   *slog.Logger
}

// Require ensures the current identity holds the exact (resource, action)
// permission before the handler runs.
func (m Middleware) Require(resource string, action Action) func(http.Handler) http.Handler {
	return m.check(resource, func(perms []Permission) bool {
		return CheckPermission(perms, resource, action)
	})
}

// RequireResource ensures the current identity holds any permission on the
// resource, regardless of action.
func (m Middleware) RequireResource(resource string) func(http.Handler) http.Handler {
	return m.check(resource, func(perms []Permission) bool {
		return HasAccess(perms, resource)
	})
}

func (m Middleware) check(resource string, allowed func([]Permission) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := shared.IdentityFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
				return
			}
			grant, err := m.Resolver.ResolveUser(r.Context(), identity.UserID)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("rbac resolve", slog.String("resource", resource), slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			if !allowed(grant.Permissions) {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
