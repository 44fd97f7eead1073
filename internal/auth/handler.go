package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/kirim-app/kirim/internal/platform/httpx"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	codec    *TokenCodec
	gate     *Gate
	denylist *Denylist
	cookie   string
	secure   bool
	validate *validator.Validate
}

// NewHandler constructs a Handler instance. The denylist may be nil when
// revocation is disabled.
func NewHandler(logger *slog.Logger, service *Service, codec *TokenCodec, gate *Gate, denylist *Denylist, cookieName string, secure bool) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		codec:    codec,
		gate:     gate,
		denylist: denylist,
		cookie:   cookieName,
		secure:   secure,
		validate: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router. Login is public;
// logout, verify and rbac sit behind the gate like everything else.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/verify", h.handleVerify)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type identitySummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type loginResponse struct {
	User identitySummary `json:"user"`
}

// handleLogin authenticates credentials, issues the session cookie and
// returns the identity summary. It never returns the password hash or the
// permission list; clients fetch permissions from the RBAC endpoint.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "email and password are required")
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid email or password")
		return
	}

	token, err := h.codec.Issue(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(h.codec.TTL()),
	})

	httpx.JSON(w, http.StatusOK, loginResponse{User: identitySummary{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}})
}

// handleLogout clears the cookie and, when revocation is enabled, denylists
// the token ID for the remainder of its validity window.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if h.denylist != nil {
		if claims, ok := h.gate.VerifyRequest(r); ok && claims.ExpiresAt != nil {
			if err := h.denylist.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
				h.logger.Warn("revoke token", slog.Any("error", err))
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleVerify echoes the decoded claim set for the current session so the
// dashboard can restore state after a reload.
func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.gate.VerifyRequest(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"userId": claims.UserID,
		"email":  claims.Email,
		"name":   claims.Name,
		"role":   claims.Role,
		"iat":    claims.IssuedAt.Unix(),
		"exp":    claims.ExpiresAt.Unix(),
	})
}
