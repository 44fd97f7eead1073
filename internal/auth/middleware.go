package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/kirim-app/kirim/internal/platform/httpx"
	"github.com/kirim-app/kirim/internal/shared"
)

// Forwarded identity headers set by the gate for downstream handlers. Only
// trustworthy when the gate is unconditionally in front of the handler.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserRole  = "X-User-Role"
	HeaderUserEmail = "X-User-Email"
)

// LoginPath is where unauthenticated page requests are redirected.
const LoginPath = "/auth/login"

// Gate enforces authentication at the boundary, before any handler runs.
// Every path is protected by default; only the explicit allow-list is exempt.
// A handler reachable without passing the gate is a security hole, so the
// gate is installed on the router root, not on route groups.
type Gate struct {
	codec    *TokenCodec
	cookie   string
	denylist *Denylist
	logger   *slog.Logger

	publicPaths    map[string]struct{}
	publicPrefixes []string
}

// NewGate constructs a Gate. The denylist may be nil, in which case issued
// tokens stay valid until natural expiry.
func NewGate(codec *TokenCodec, cookieName string, denylist *Denylist, logger *slog.Logger) *Gate {
	return &Gate{
		codec:    codec,
		cookie:   cookieName,
		denylist: denylist,
		logger:   logger,
		publicPaths: map[string]struct{}{
			LoginPath:         {},
			"/api/auth/login": {},
			"/api/health":     {},
			"/healthz":        {},
			"/metrics":        {},
		},
		publicPrefixes: []string{"/static/"},
	}
}

// Middleware is the chi middleware enforcing the gate's state machine:
// public path -> pass through; no token or failed verify -> reject; verified
// -> identity attached to context and forwarded headers.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := TokenFromCookieHeader(r.Header.Get("Cookie"), g.cookie)
		if !ok {
			g.reject(w, r)
			return
		}

		claims, ok := g.codec.Verify(token)
		if !ok {
			g.reject(w, r)
			return
		}

		if g.denylist != nil {
			revoked, err := g.denylist.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				g.logger.Error("denylist lookup", slog.Any("error", err))
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			if revoked {
				g.reject(w, r)
				return
			}
		}

		identity := shared.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Name:   claims.Name,
			Role:   claims.Role,
		}
		r = r.WithContext(shared.ContextWithIdentity(r.Context(), identity))
		r.Header.Set(HeaderUserID, identity.UserID)
		r.Header.Set(HeaderUserRole, identity.Role)
		r.Header.Set(HeaderUserEmail, identity.Email)

		next.ServeHTTP(w, r)
	})
}

// reject denies the request. API paths receive a structured 401 body; page
// paths are redirected to the login form. Both outcomes deny access; the
// split is a usability contract only.
func (g *Gate) reject(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

func (g *Gate) isPublic(path string) bool {
	if _, ok := g.publicPaths[path]; ok {
		return true
	}
	for _, prefix := range g.publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// VerifyRequest re-runs extraction and verification for handlers that need
// the full claim set (timestamps included), not just the gate's identity.
func (g *Gate) VerifyRequest(r *http.Request) (*Claims, bool) {
	token, ok := TokenFromCookieHeader(r.Header.Get("Cookie"), g.cookie)
	if !ok {
		return nil, false
	}
	return g.codec.Verify(token)
}
