package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/sync/errgroup"

	"github.com/socialchef/creativechef/internal/api"
	"github.com/socialchef/creativechef/internal/cache"
	"github.com/socialchef/creativechef/internal/config"
	"github.com/socialchef/creativechef/internal/db"
	"github.com/socialchef/creativechef/internal/httpclient"
	"github.com/socialchef/creativechef/internal/logger"
	"github.com/socialchef/creativechef/internal/metrics"
	"github.com/socialchef/creativechef/internal/sentry"
	"github.com/socialchef/creativechef/internal/services/recipe"
	"github.com/socialchef/creativechef/internal/telemetry"
	"github.com/socialchef/creativechef/internal/web"
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
	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	shutdownTelemetry, err := telemetry.InitTelemetry(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.Env,
		cfg.OtelExporterOTLPEndpoint, cfg.OTLPHeaders())
	if err != nil {
		slog.Warn("Failed to init telemetry", "error", err)
		shutdownTelemetry = func(context.Context) error { return nil }
	}

	if err := sentry.Init(cfg.SentryDSN, cfg.Env, cfg.ServiceName, cfg.ServiceVersion); err != nil {
		slog.Warn("Failed to init Sentry", "error", err)
	}
	defer sentry.Flush(2 * time.Second)

	if err := metrics.Init(); err != nil {
		slog.Warn("Failed to init business metrics", "error", err)
	}

	slog.SetDefault(logger.New(cfg.Env))

	provider := recipe.NewProvider(cfg, httpclient.New(cfg.Generation.Timeout()))
	opts := []recipe.GeneratorOption{recipe.WithTimeout(cfg.Generation.Timeout())}

	var history api.HistoryLister

	if cfg.HistoryEnabled() {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			sentry.CaptureError(err, "redis")
			slog.Warn("Redis unavailable, caching and history recording disabled", "error", err)
		} else {
			defer redisClient.Close()
			opts = append(opts, recipe.WithCache(cache.NewRecipeCache(redisClient), cfg.Generation.CacheTTL()))

			asynqClient, err := worker.NewClient(cfg.RedisURL)
			if err != nil {
				slog.Warn("Failed to create task client", "error", err)
			} else {
				defer asynqClient.Close()
				opts = append(opts, recipe.WithRecorder(worker.NewHistoryRecorder(asynqClient)))
			}
		}
	}

	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			sentry.CaptureError(err, "postgres")
			slog.Warn("Database unavailable, history API disabled", "error", err)
		} else {
			defer pool.Close()
			history = db.New(pool)
		}
	}

	pages, err := web.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	generator := recipe.NewGenerator(provider, opts...)
	router := api.NewRouter(api.NewServer(generator, history, pages), api.RouterConfig{
		ServiceName: cfg.ServiceName,
		JWTSecret:   cfg.JWTSecret,
		JWTIssuer:   cfg.JWTIssuer,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Generation.Timeout() + 30*time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Starting server",
			"port", cfg.Port,
			"provider", provider.Name(),
			"history", history != nil,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return errors.Join(srv.Shutdown(shutdownCtx), shutdownTelemetry(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server failed", "error", err)
		sentry.CaptureError(err, "server")
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}
}
