package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/adrent/billboard-admin/internal/app"
	"github.com/adrent/billboard-admin/internal/dashboard"
	jobmetrics "github.com/adrent/billboard-admin/internal/jobs"
	"github.com/adrent/billboard-admin/internal/platform/cache"
	"github.com/adrent/billboard-admin/internal/platform/db"
	"github.com/adrent/billboard-admin/internal/platform/format"
	"github.com/adrent/billboard-admin/internal/settings"
	"github.com/adrent/billboard-admin/internal/settings/levels"
	"github.com/adrent/billboard-admin/internal/settings/municipalities"
	"github.com/adrent/billboard-admin/internal/settings/sizes"
	"github.com/adrent/billboard-admin/internal/shared"
	"github.com/adrent/billboard-admin/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, db.PoolOptions{MaxConns: cfg.PGMaxConns})
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := jobmetrics.NewMetrics(nil)
	auditLogger := shared.NewAuditLogger(pool)

	dashboardService := dashboard.NewService(
		dashboard.NewRepository(pool),
		dashboard.NewCache(redisClient, cfg.DashboardCacheTTL),
		format.New(cfg.Locale, cfg.CurrencySymbol),
		logger,
		dashboard.Options{ExpiryWindow: cfg.DashboardExpiryWindow, ListLimit: cfg.DashboardListLimit},
	)
	catalog := settings.Services{
		Municipalities: municipalities.NewService(municipalities.NewRepository(pool), auditLogger, logger),
		Sizes:          sizes.NewService(sizes.NewRepository(pool), auditLogger, logger),
		Levels:         levels.NewService(levels.NewRepository(pool), auditLogger, logger),
	}

	warmupJob := jobs.NewDashboardWarmupJob(dashboardService, logger, metrics)
	syncJob := jobs.NewCatalogSyncJob(catalog, logger, metrics)
	cleanupJob := &jobs.IdempotencyCleanupJob{Store: shared.NewIdempotencyStore(pool), Logger: logger, Metrics: metrics}

	warmupTask, err := jobs.NewDashboardWarmupTask(time.Now().UTC())
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}
	syncTask, err := jobs.NewCatalogSyncTask(jobs.CatalogSyncPayload{})
	if err != nil {
		logger.Error("build catalog sync task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskDashboardWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskCatalogSync, Handler: syncJob.Handle},
			{Type: jobs.TaskIdempotencyCleanup, Handler: cleanupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.WarmupCron, Task: warmupTask},
			{Spec: cfg.CatalogSyncCron, Task: syncTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 2 * * *", Task: jobs.NewIdempotencyCleanupTask()},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
