package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/kirim-app/kirim/internal/app"
	"github.com/kirim-app/kirim/internal/auth"
	"github.com/kirim-app/kirim/internal/campaigns"
	"github.com/kirim-app/kirim/internal/crm"
	"github.com/kirim-app/kirim/internal/observability"
	"github.com/kirim-app/kirim/internal/platform/cache"
	"github.com/kirim-app/kirim/internal/platform/db"
	"github.com/kirim-app/kirim/internal/rbac"
	"github.com/kirim-app/kirim/internal/roles"
	"github.com/kirim-app/kirim/internal/team"
	"github.com/kirim-app/kirim/internal/users"
	"github.com/kirim-app/kirim/internal/waba"
	"github.com/kirim-app/kirim/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	var denylist *auth.Denylist
	if cfg.RevocationEnabled {
		denylist = auth.NewDenylist(redisClient)
	}
	gate := auth.NewGate(codec, cfg.AuthCookieName, denylist, logger)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, codec, gate, denylist, cfg.AuthCookieName, cfg.IsProduction())

	usersRepo := users.NewRepository(pool)
	rolesRepo := roles.NewRepository(pool)
	resolver := rbac.NewResolver(usersRepo, rolesRepo)
	rbacMiddleware := rbac.Middleware{Resolver: resolver, Logger: logger}
	rbacHandler := rbac.NewHandler(logger, resolver)

	rolesService := roles.NewService(rolesRepo)
	rolesHandler := roles.NewHandler(logger, rolesService, rbacMiddleware)

	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService, rbacMiddleware)

	crmRepo := crm.NewRepository(pool)
	crmService := crm.NewService(crmRepo)
	crmHandler := crm.NewHandler(logger, crmService, rbacMiddleware)

	teamRepo := team.NewRepository(pool)
	teamHandler := team.NewHandler(logger, teamRepo, rbacMiddleware)

	wabaRepo := waba.NewRepository(pool)
	wabaHandler := waba.NewHandler(logger, wabaRepo, rbacMiddleware)

	jobClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	campaignsRepo := campaigns.NewRepository(pool)
	campaignsService := campaigns.NewService(campaignsRepo, jobClient)
	campaignsHandler := campaigns.NewHandler(logger, campaignsService, rbacMiddleware)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Gate:             gate,
		AuthHandler:      authHandler,
		RBACHandler:      rbacHandler,
		RolesHandler:     rolesHandler,
		UsersHandler:     usersHandler,
		CRMHandler:       crmHandler,
		TeamHandler:      teamHandler,
		WabaHandler:      wabaHandler,
		CampaignsHandler: campaignsHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
