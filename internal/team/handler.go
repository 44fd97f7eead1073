package team

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kirim-app/kirim/internal/platform/httpx"
	"github.com/kirim-app/kirim/internal/rbac"
	"github.com/kirim-app/kirim/internal/shared"
)

// Handler manages team roster endpoints.
type Handler struct {
	logger *slog.Logger
	repo   *Repository
	rbac   rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, repo *Repository, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, repo: repo, rbac: rbac}
}

// MountRoutes registers team routes behind team permissions.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceTeam, rbac.ActionRead))
		r.Get("/members", h.listMembers)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceTeam, rbac.ActionCreate))
		r.Post("/members", h.createMember)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceTeam, rbac.ActionUpdate))
		r.Patch("/members/{id}/active", h.setActive)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceTeam, rbac.ActionDelete))
		r.Delete("/members/{id}", h.deleteMember)
	})
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.repo.ListMembers(r.Context())
	if err != nil {
		h.logger.Error("list members", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if members == nil {
		members = []Member{}
	}
	httpx.JSON(w, http.StatusOK, members)
}

type memberPayload struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Title  string `json:"title"`
}

func (h *Handler) createMember(w http.ResponseWriter, r *http.Request) {
	var payload memberPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if strings.TrimSpace(payload.Name) == "" || strings.TrimSpace(payload.Email) == "" {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	member, err := h.repo.CreateMember(r.Context(), Member{
		ID:       uuid.NewString(),
		UserID:   payload.UserID,
		Name:     strings.TrimSpace(payload.Name),
		Email:    shared.NormalizeEmail(payload.Email),
		Title:    strings.TrimSpace(payload.Title),
		IsActive: true,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, member)
}

type setActivePayload struct {
	IsActive bool `json:"isActive"`
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request) {
	var payload setActivePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.repo.SetActive(r.Context(), chi.URLParam(r, "id"), payload.IsActive); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) deleteMember(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteMember(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
