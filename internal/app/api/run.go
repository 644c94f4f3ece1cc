// Package api wires configuration, observability, repositories, and
// transport into the runnable procurement API process.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	accmemory "github.com/adiwjy/go-procurement-api/internal/domains/accounts/adapters/memory"
	accnotify "github.com/adiwjy/go-procurement-api/internal/domains/accounts/adapters/notify"
	accobs "github.com/adiwjy/go-procurement-api/internal/domains/accounts/adapters/observability"
	accpostgres "github.com/adiwjy/go-procurement-api/internal/domains/accounts/adapters/persistence/postgres"
	accredis "github.com/adiwjy/go-procurement-api/internal/domains/accounts/adapters/redis"
	accapp "github.com/adiwjy/go-procurement-api/internal/domains/accounts/application"
	accports "github.com/adiwjy/go-procurement-api/internal/domains/accounts/ports"
	reqmemory "github.com/adiwjy/go-procurement-api/internal/domains/requests/adapters/memory"
	reqnotify "github.com/adiwjy/go-procurement-api/internal/domains/requests/adapters/notify"
	reqobs "github.com/adiwjy/go-procurement-api/internal/domains/requests/adapters/observability"
	reqpostgres "github.com/adiwjy/go-procurement-api/internal/domains/requests/adapters/persistence/postgres"
	reqworkflows "github.com/adiwjy/go-procurement-api/internal/domains/requests/adapters/workflows"
	reqapp "github.com/adiwjy/go-procurement-api/internal/domains/requests/application"
	reqports "github.com/adiwjy/go-procurement-api/internal/domains/requests/ports"
	"github.com/adiwjy/go-procurement-api/internal/httpserver"
	platformobservability "github.com/adiwjy/go-procurement-api/internal/platform/observability"
	platformpostgres "github.com/adiwjy/go-procurement-api/internal/platform/postgres"
)

// Run boots the procurement HTTP API with observability, repositories, and
// the notification workflow client wired.
func Run(ctx context.Context) error {
	const serviceName = "procurement-api"

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()

	notifier, cleanupNotifier := buildNotifier(cfg, instruments)
	defer cleanupNotifier()

	requestService := reqobs.New(
		reqapp.NewService(
			buildRequestRepository(db, logger),
			reqapp.WithNotifier(notifier),
			reqapp.WithStoreTimeout(cfg.StoreTimeout),
		),
		reqobs.WithLogger(logger),
		reqobs.WithTracer(instruments.Tracer("internal.requests.application")),
		reqobs.WithMeter(instruments.Meter("internal.requests.application")),
	)

	accountRepo, directory := buildAccountStores(db, logger)
	sessions, cleanupSessions := buildSessionStore(ctx, cfg, logger)
	defer cleanupSessions()

	accountService := accobs.New(
		accapp.NewService(
			accountRepo,
			directory,
			accapp.WithSessionStore(sessions),
			accapp.WithVerificationMailer(accnotify.NewLogMailer(logger)),
		),
		accobs.WithLogger(logger),
		accobs.WithTracer(instruments.Tracer("internal.accounts.application")),
		accobs.WithMeter(instruments.Meter("internal.accounts.application")),
	)

	handlers := httpserver.ApiHandleFunctions{
		RequestAPI: httpserver.NewRequestAPI(requestService),
		AccountAPI: httpserver.NewAccountAPI(accountService),
	}
	router := httpserver.NewRouter(handlers, otelgin.Middleware(serviceName))

	addr := ":" + cfg.Port
	logger.Info("procurement API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("procurement API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildRequestRepository(db *gorm.DB, logger *slog.Logger) reqports.Repository {
	if db == nil {
		return reqmemory.NewRepository()
	}
	logger.Info("request repository configured with postgres")
	return reqpostgres.NewRepository(db, reqpostgres.WithLogger(logger))
}

func buildAccountStores(db *gorm.DB, logger *slog.Logger) (accports.Repository, accports.Directory) {
	if db == nil {
		return accmemory.NewRepository(), accmemory.NewDirectory()
	}
	logger.Info("account repository configured with postgres")
	return accpostgres.NewRepository(db, accpostgres.WithLogger(logger)), accpostgres.NewDirectory(db)
}

func buildSessionStore(ctx context.Context, cfg Config, logger *slog.Logger) (accports.SessionStore, func()) {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, sessions will not be persisted")
		return accports.NoopSessionStore, func() {}
	}
	store, err := accredis.Connect(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("failed to connect to redis, sessions will not be persisted", slog.String("error", err.Error()))
		return accports.NoopSessionStore, func() {}
	}
	logger.Info("session store configured with redis", slog.String("addr", cfg.RedisAddr))
	return store, func() { _ = store.Close() }
}

// buildNotifier prefers the durable Temporal channel and falls back to the
// structured log when Temporal is disabled or unreachable.
func buildNotifier(cfg Config, instruments *platformobservability.Instruments) (reqports.Notifier, func()) {
	logger := instruments.Logger
	temporalClient, err := connectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Warn("Temporal notifications unavailable, logging status changes inline", slog.String("error", err.Error()))
		return reqnotify.NewLogNotifier(logger), func() {}
	}
	logger.Info("Temporal notifications enabled", slog.String("namespace", cfg.TemporalNamespace))
	return reqworkflows.NewTemporalNotifier(temporalClient), temporalClient.Close
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
