package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kirim-app/kirim/internal/auth"
	"github.com/kirim-app/kirim/internal/campaigns"
	"github.com/kirim-app/kirim/internal/crm"
	"github.com/kirim-app/kirim/internal/observability"
	"github.com/kirim-app/kirim/internal/rbac"
	"github.com/kirim-app/kirim/internal/roles"
	"github.com/kirim-app/kirim/internal/team"
	"github.com/kirim-app/kirim/internal/users"
	"github.com/kirim-app/kirim/internal/waba"
	"github.com/kirim-app/kirim/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Gate             *auth.Gate
	AuthHandler      *auth.Handler
	RBACHandler      *rbac.Handler
	RolesHandler     *roles.Handler
	UsersHandler     *users.Handler
	CRMHandler       *crm.Handler
	TeamHandler      *team.Handler
	WabaHandler      *waba.Handler
	CampaignsHandler *campaigns.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with Kirim defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Gate:    params.Gate,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	healthz := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
	r.Get("/healthz", healthz)
	r.Get("/api/health", healthz)

	r.Route("/api/auth", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)
		if params.RBACHandler != nil {
			params.RBACHandler.MountRoutes(r)
		}
	})

	r.Route("/api/crm", params.CRMHandler.MountRoutes)
	r.Route("/api/team", params.TeamHandler.MountRoutes)
	r.Route("/api/whatsapp", params.WabaHandler.MountRoutes)
	r.Route("/api/campaigns", params.CampaignsHandler.MountRoutes)

	r.Route("/api/admin", func(r chi.Router) {
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/roles", params.RolesHandler.MountRoutes)
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))

		// Every non-API path serves the dashboard shell; the client router
		// takes it from there. The auth gate has already redirected
		// unauthenticated page requests to /auth/login.
		index := func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			data, err := web.Static.ReadFile("static/index.html")
			if err != nil {
				params.Logger.Error("read index shell", slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			_, _ = w.Write(data)
		}
		r.Get("/", index)
		r.Get("/auth/login", index)
		r.NotFound(func(w http.ResponseWriter, req *http.Request) {
			if len(req.URL.Path) >= 5 && req.URL.Path[:5] == "/api/" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":"not found"}`))
				return
			}
			index(w, req)
		})
	}

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers so
// browsers cache assets for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
