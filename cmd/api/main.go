package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/hospital-portal/internal/api/http"
	"github.com/spec-kit/hospital-portal/internal/api/http/handlers"
	"github.com/spec-kit/hospital-portal/internal/auth"
	"github.com/spec-kit/hospital-portal/internal/config"
	"github.com/spec-kit/hospital-portal/internal/events"
	"github.com/spec-kit/hospital-portal/internal/observability"
	"github.com/spec-kit/hospital-portal/internal/persistence"
	"github.com/spec-kit/hospital-portal/internal/repository"
	"github.com/spec-kit/hospital-portal/internal/service"
	"github.com/spec-kit/hospital-portal/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	if pg.PoolHandle() == nil {
		logger.Fatal("POSTGRES_DSN is required")
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	profileRepo := repository.NewBreakerProfileRepository(repository.NewProfileRepository(pool), cfg.Breaker, logger)
	credentialRepo := repository.NewCredentialRepository(pool)
	revocations := repository.NewRevocationStore(redis.Client)

	var provider service.IdentityProvider
	if google := service.NewGoogleProvider(cfg.OAuth); google != nil {
		provider = google
	}

	resolver := service.NewRoleResolver(profileRepo, logger)
	credentialService := service.NewCredentialService(cfg.Auth, service.CredentialDependencies{
		Credentials: credentialRepo,
		Profiles:    profileRepo,
		Revocations: revocations,
		Resolver:    resolver,
		Provider:    provider,
		Dispatcher:  dispatcher,
	}, logger)
	profileService := service.NewProfileService(profileRepo, dispatcher, logger)
	summarizer := service.NewOllamaSummarizer(cfg.Summarizer)

	stopAudit := worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, metrics))
	defer stopAudit()

	authMiddleware := auth.NewAuthMiddleware(credentialService, resolver, auth.SessionCookie{Secure: cfg.Auth.CookieSecure}, logger, metrics, httptransport.SkipGate)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env != "development",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:           handlers.NewAuthHandler(credentialService, cfg.Auth.CookieSecure, logger),
		Pages:          handlers.NewPagesHandler(profileService, provider != nil),
		Profiles:       handlers.NewProfileHandler(profileService),
		Notes:          handlers.NewNotesHandler(summarizer, logger),
		Session:        handlers.NewSessionHandler(dispatcher, profileRepo, 0, logger),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
