package campaigns

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kirim-app/kirim/internal/platform/httpx"
	"github.com/kirim-app/kirim/internal/rbac"
	"github.com/kirim-app/kirim/internal/shared"
)

// Handler manages campaign endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers campaign routes behind campaigns permissions.
// Dispatch counts as an update: it mutates campaign state.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceCampaigns, rbac.ActionRead))
		r.Get("/", h.listCampaigns)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceCampaigns, rbac.ActionCreate))
		r.Post("/", h.createCampaign)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceCampaigns, rbac.ActionUpdate))
		r.Post("/{id}/dispatch", h.dispatchCampaign)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceCampaigns, rbac.ActionDelete))
		r.Delete("/{id}", h.deleteCampaign)
	})
}

func (h *Handler) listCampaigns(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListCampaigns(r.Context())
	if err != nil {
		h.logger.Error("list campaigns", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Campaign{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

type campaignPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Template    string `json:"template"`
}

func (h *Handler) createCampaign(w http.ResponseWriter, r *http.Request) {
	var payload campaignPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())
	campaign, err := h.service.CreateCampaign(r.Context(), payload.Name, payload.Description,
		CampaignType(payload.Type), payload.Template, identity.UserID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, campaign)
}

func (h *Handler) dispatchCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Dispatch(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]bool{"queued": true})
}

func (h *Handler) deleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCampaign(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
