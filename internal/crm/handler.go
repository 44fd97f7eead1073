package crm

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kirim-app/kirim/internal/platform/httpx"
	"github.com/kirim-app/kirim/internal/rbac"
)

// Handler manages CRM contact endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers contact routes, each gated by its own (crm, action)
// permission.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceCRM, rbac.ActionRead))
		r.Get("/contacts", h.listContacts)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceCRM, rbac.ActionCreate))
		r.Post("/contacts", h.createContact)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceCRM, rbac.ActionUpdate))
		r.Put("/contacts", h.updateContact)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceCRM, rbac.ActionDelete))
		r.Delete("/contacts", h.deleteContacts)
	})
}

func (h *Handler) listContacts(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("stats") == "true" {
		stats, err := h.service.Stats(r.Context())
		if err != nil {
			h.logger.Error("contact stats", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, stats)
		return
	}

	contacts, err := h.service.ListContacts(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("list contacts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if contacts == nil {
		contacts = []Contact{}
	}
	httpx.JSON(w, http.StatusOK, contacts)
}

func (h *Handler) createContact(w http.ResponseWriter, r *http.Request) {
	var payload Contact
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	contact, err := h.service.CreateContact(r.Context(), payload)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, contact)
}

func (h *Handler) updateContact(w http.ResponseWriter, r *http.Request) {
	var payload Contact
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	contact, err := h.service.UpdateContact(r.Context(), payload)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, contact)
}

type deleteContactsPayload struct {
	IDs []string `json:"ids"`
}

func (h *Handler) deleteContacts(w http.ResponseWriter, r *http.Request) {
	var payload deleteContactsPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	deleted, err := h.service.DeleteContacts(r.Context(), payload.IDs)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "deleted": deleted})
}
