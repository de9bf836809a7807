package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/sync/errgroup"

	"github.com/socialchef/creativechef/internal/config"
	"github.com/socialchef/creativechef/internal/db"
	"github.com/socialchef/creativechef/internal/logger"
	"github.com/socialchef/creativechef/internal/sentry"
	"github.com/socialchef/creativechef/internal/telemetry"
	"github.com/socialchef/creativechef/internal/worker"
)

func main() {
	defer sentry.Recover()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateWorker(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	serviceName := cfg.ServiceName + "-worker"

	shutdownTelemetry, err := telemetry.InitTelemetry(ctx, serviceName, cfg.ServiceVersion, cfg.Env,
		cfg.OtelExporterOTLPEndpoint, cfg.OTLPHeaders())
	if err != nil {
		slog.Warn("Failed to init telemetry", "error", err)
		shutdownTelemetry = func(context.Context) error { return nil }
	}
	defer shutdownTelemetry(context.Background())

	if err := sentry.Init(cfg.SentryDSN, cfg.Env, serviceName, cfg.ServiceVersion); err != nil {
		slog.Warn("Failed to init Sentry", "error", err)
	}
	defer sentry.Flush(2 * time.Second)

	slog.SetDefault(logger.New(cfg.Env))

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	queries := db.New(pool)
	if err := queries.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to prepare recipe_history table: %v", err)
	}

	workerMetrics, err := worker.NewWorkerMetrics()
	if err != nil {
		slog.Warn("Failed to init worker metrics", "error", err)
	}

	processor := worker.NewHistoryProcessor(queries, cfg.History.RetentionDays)

	srv, err := worker.NewServer(cfg.RedisURL, 5)
	if err != nil {
		log.Fatalf("Failed to create worker: %v", err)
	}
	scheduler, err := worker.NewScheduler(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	if err := srv.Start(worker.NewMux(processor, workerMetrics)); err != nil {
		log.Fatalf("Worker failed to start: %v", err)
	}
	if err := scheduler.Start(); err != nil {
		srv.Shutdown()
		log.Fatalf("Scheduler failed to start: %v", err)
	}

	slog.Info("Worker started",
		"retention_days", cfg.History.RetentionDays,
		"cleanup_schedule", worker.CleanupSchedule,
	)

	<-ctx.Done()
	slog.Info("Shutting down worker...")

	var g errgroup.Group
	g.Go(func() error {
		scheduler.Shutdown()
		return nil
	})
	g.Go(func() error {
		srv.Shutdown()
		return nil
	})
	g.Wait()
}
