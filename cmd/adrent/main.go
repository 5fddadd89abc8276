package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/adrent/billboard-admin/internal/app"
	"github.com/adrent/billboard-admin/internal/audit"
	audithttp "github.com/adrent/billboard-admin/internal/audit/http"
	"github.com/adrent/billboard-admin/internal/billing"
	"github.com/adrent/billboard-admin/internal/dashboard"
	"github.com/adrent/billboard-admin/internal/events"
	"github.com/adrent/billboard-admin/internal/events/kafka"
	"github.com/adrent/billboard-admin/internal/observability"
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
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN, db.PoolOptions{MaxConns: cfg.PGMaxConns})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	var publisher events.Publisher = events.Noop{}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(brokers, cfg.KafkaTopic)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				logger.Warn("kafka close", slog.Any("error", err))
			}
		}()
		publisher = kafkaPublisher
	}

	metrics := observability.NewMetrics()
	formatter := format.New(cfg.Locale, cfg.CurrencySymbol)
	auditLogger := shared.NewAuditLogger(dbpool)
	idempotencyStore := shared.NewIdempotencyStore(dbpool)

	dashboardCache := dashboard.NewCache(redisClient, cfg.DashboardCacheTTL)
	if err := dashboardCache.ListenForInvalidation(ctx); err != nil {
		logger.Warn("dashboard cache invalidation listener", slog.Any("error", err))
	}
	dashboardService := dashboard.NewService(dashboard.NewRepository(dbpool), dashboardCache, formatter, logger, dashboard.Options{
		ExpiryWindow: cfg.DashboardExpiryWindow,
		ListLimit:    cfg.DashboardListLimit,
	})
	dashboardService.SetMetrics(metrics)

	billingService := billing.NewService(billing.NewRepository(dbpool), formatter, logger,
		billing.WithAudit(auditLogger),
		billing.WithIdempotency(idempotencyStore),
		billing.WithInvalidator(dashboardCache),
		billing.WithPublisher(publisher),
		billing.WithMetrics(metrics),
	)

	settingsHandler := settings.NewHandler(logger, settings.Services{
		Municipalities: municipalities.NewService(municipalities.NewRepository(dbpool), auditLogger, logger),
		Sizes:          sizes.NewService(sizes.NewRepository(dbpool), auditLogger, logger),
		Levels:         levels.NewService(levels.NewRepository(dbpool), auditLogger, logger),
	})

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		BillingHandler:   billing.NewHandler(logger, billingService),
		DashboardHandler: dashboard.NewHandler(logger, dashboardService),
		SettingsHandler:  settingsHandler,
		AuditHandler:     audithttp.NewHandler(logger, audit.NewService(audit.NewRepository(dbpool))),
		JobHandler:       jobs.NewHandler(inspector, jobsClient, logger),
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
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
