package waba

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kirim-app/kirim/internal/platform/httpx"
	"github.com/kirim-app/kirim/internal/rbac"
)

// Handler manages messaging account endpoints.
type Handler struct {
	logger *slog.Logger
	repo   *Repository
	rbac   rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, repo *Repository, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, repo: repo, rbac: rbac}
}

// MountRoutes registers account routes behind whatsapp permissions.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceWhatsApp, rbac.ActionRead))
		r.Get("/accounts", h.listAccounts)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceWhatsApp, rbac.ActionCreate))
		r.Post("/accounts", h.createAccount)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceWhatsApp, rbac.ActionUpdate))
		r.Patch("/accounts/{id}/status", h.setStatus)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceWhatsApp, rbac.ActionDelete))
		r.Delete("/accounts/{id}", h.deleteAccount)
	})
}

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.repo.ListAccounts(r.Context())
	if err != nil {
		h.logger.Error("list accounts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if accounts == nil {
		accounts = []Account{}
	}
	httpx.JSON(w, http.StatusOK, accounts)
}

type accountPayload struct {
	BusinessAccountID string `json:"businessAccountId"`
	PhoneNumberID     string `json:"phoneNumberId"`
	DisplayName       string `json:"displayName"`
	Type              string `json:"type"`
	AccessToken       string `json:"accessToken"`
}

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var payload accountPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if strings.TrimSpace(payload.PhoneNumberID) == "" || strings.TrimSpace(payload.DisplayName) == "" {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	accountType := AccountType(payload.Type)
	if accountType != TypeCloud && accountType != TypeWeb {
		accountType = TypeCloud
	}
	account, err := h.repo.CreateAccount(r.Context(), Account{
		ID:                uuid.NewString(),
		BusinessAccountID: payload.BusinessAccountID,
		PhoneNumberID:     payload.PhoneNumberID,
		DisplayName:       payload.DisplayName,
		Type:              accountType,
		Status:            "active",
		AccessToken:       payload.AccessToken,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, account)
}

type statusPayload struct {
	Status string `json:"status"`
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	var payload statusPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if payload.Status != "active" && payload.Status != "inactive" {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.repo.SetStatus(r.Context(), chi.URLParam(r, "id"), payload.Status); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteAccount(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
