package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/adiwjy/go-procurement-api/internal/app/api"
	reqmemory "github.com/adiwjy/go-procurement-api/internal/domains/requests/adapters/memory"
	reqnotify "github.com/adiwjy/go-procurement-api/internal/domains/requests/adapters/notify"
	reqpostgres "github.com/adiwjy/go-procurement-api/internal/domains/requests/adapters/persistence/postgres"
	reqports "github.com/adiwjy/go-procurement-api/internal/domains/requests/ports"
	platformobservability "github.com/adiwjy/go-procurement-api/internal/platform/observability"
	platformpostgres "github.com/adiwjy/go-procurement-api/internal/platform/postgres"
	reqactivities "github.com/adiwjy/go-procurement-api/internal/platform/temporal/activities/requests"
	reqworkflows "github.com/adiwjy/go-procurement-api/internal/platform/temporal/workflows/requests"
)

func main() {
	ctx := context.Background()
	const serviceName = "procurement-worker"

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	requestRepo, cleanupRepo := buildRequestRepository(ctx, cfg, logger)
	defer cleanupRepo()
	activities := reqactivities.NewActivities(reqnotify.NewLogNotifier(logger), requestRepo)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, reqworkflows.StatusNotificationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(reqworkflows.StatusNotificationWorkflow, workflow.RegisterOptions{Name: reqworkflows.StatusNotificationWorkflowName})
	w.RegisterActivityWithOptions(activities.NotifyStatusChange, activity.RegisterOptions{Name: reqworkflows.NotifyStatusChangeActivityName})

	logger.Info("worker listening", slog.String("taskQueue", reqworkflows.StatusNotificationTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildRequestRepository(ctx context.Context, cfg api.Config, logger *slog.Logger) (reqports.Repository, func()) {
	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return reqmemory.NewRepository(), cleanup
	}
	logger.Info("worker request repository configured with postgres")
	return reqpostgres.NewRepository(db, reqpostgres.WithLogger(logger)), cleanup
}
