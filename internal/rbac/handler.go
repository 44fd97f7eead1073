package rbac

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kirim-app/kirim/internal/platform/httpx"
	"github.com/kirim-app/kirim/internal/shared"
)

// Handler exposes the RBAC data endpoint the dashboard client uses to fill
// its access cache after login.
type Handler struct {
	logger   *slog.Logger
	resolver *Resolver
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, resolver *Resolver) *Handler {
	return &Handler{logger: logger, resolver: resolver}
}

// MountRoutes registers RBAC routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/rbac", h.getGrant)
}

func (h *Handler) getGrant(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	grant, err := h.resolver.ResolveUser(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("resolve grant", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, grant)
}
