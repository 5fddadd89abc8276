package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/adrent/billboard-admin/internal/jobs"
)

// CatalogSyncer creates catalogue rows for names found on billboards.
type CatalogSyncer interface {
	SyncCatalog(ctx context.Context, catalogs ...string) (map[string]int, error)
}

// CatalogSyncJob runs the municipality and size sync on a schedule.
type CatalogSyncJob struct {
	Syncer  CatalogSyncer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewCatalogSyncJob wires dependencies for the sync handler.
func NewCatalogSyncJob(syncer CatalogSyncer, logger *slog.Logger, metrics *jobmetrics.Metrics) *CatalogSyncJob {
	return &CatalogSyncJob{Syncer: syncer, Logger: logger, Metrics: metrics}
}

// Handle processes catalogue sync tasks.
func (j *CatalogSyncJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Syncer == nil {
		return errors.New("catalog sync: handler not configured")
	}
	var payload CatalogSyncPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	metrics := metricsOrDefault(j.Metrics)
	tracker := metrics.Track(TaskCatalogSync)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := jobLogger(j.Logger, TaskCatalogSync)
	added, err := j.Syncer.SyncCatalog(ctx, payload.Catalogs...)
	for catalog, n := range added {
		metrics.AddSynced(catalog, n)
		logger.Info("catalog synced", slog.String("catalog", catalog), slog.Int("added", n))
	}
	if err != nil {
		logger.Error("sync catalog", slog.Any("error", err))
		return err
	}
	return nil
}
