package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adrent/billboard-admin/internal/dashboard"
	jobmetrics "github.com/adrent/billboard-admin/internal/jobs"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubWarmer struct {
	calls int
	err   error
}

func (s *stubWarmer) Warm(context.Context) (dashboard.Snapshot, error) {
	s.calls++
	return dashboard.Snapshot{Stats: dashboard.Stats{TotalBillboards: 3}}, s.err
}

type stubSyncer struct {
	asked []string
	added map[string]int
	err   error
}

func (s *stubSyncer) SyncCatalog(_ context.Context, catalogs ...string) (map[string]int, error) {
	s.asked = catalogs
	return s.added, s.err
}

func TestDashboardWarmupJob(t *testing.T) {
	metrics := jobmetrics.NewMetrics(prometheus.NewRegistry())
	warmer := &stubWarmer{}
	job := NewDashboardWarmupJob(warmer, quietLogger(), metrics)

	task, err := NewDashboardWarmupTask(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, 1, warmer.calls)

	warmer.err = errors.New("postgres down")
	require.Error(t, job.Handle(context.Background(), task))

	err = job.Handle(context.Background(), asynq.NewTask(TaskDashboardWarmup, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestCatalogSyncJobCountsAddedRows(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := jobmetrics.NewMetrics(reg)
	syncer := &stubSyncer{added: map[string]int{"municipalities": 2, "sizes": 0}}
	job := NewCatalogSyncJob(syncer, quietLogger(), metrics)

	task, err := NewCatalogSyncTask(CatalogSyncPayload{Catalogs: []string{"municipalities"}})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, []string{"municipalities"}, syncer.asked)

	count, err := testutil.GatherAndCount(reg, "billboard_catalog_synced_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	syncer.err = errors.New("boom")
	require.Error(t, job.Handle(context.Background(), asynq.NewTask(TaskCatalogSync, nil)))
	assert.Empty(t, syncer.asked)
}

func TestJobsNotConfigured(t *testing.T) {
	var warm *DashboardWarmupJob
	require.Error(t, warm.Handle(context.Background(), asynq.NewTask(TaskDashboardWarmup, nil)))
	require.Error(t, (&CatalogSyncJob{}).Handle(context.Background(), asynq.NewTask(TaskCatalogSync, nil)))
}

type stubEnqueuer struct {
	catalogs []string
	err      error
}

func (s *stubEnqueuer) EnqueueDashboardWarmup(context.Context, time.Time) (*asynq.TaskInfo, error) {
	return &asynq.TaskInfo{ID: "w1", Queue: QueueDefault}, s.err
}

func (s *stubEnqueuer) EnqueueCatalogSync(_ context.Context, catalogs ...string) (*asynq.TaskInfo, error) {
	s.catalogs = catalogs
	return &asynq.TaskInfo{ID: "c1", Queue: QueueDefault}, s.err
}

func TestHandlerRoutes(t *testing.T) {
	enq := &stubEnqueuer{}
	r := chi.NewRouter()
	NewHandler(nil, enq, quietLogger()).MountRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"queue":"default","pending":0,"active":0,"scheduled":0,"retry":0}`, rr.Body.String())

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/catalog-sync", strings.NewReader(`{"catalogs":["sizes"]}`)))
	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, []string{"sizes"}, enq.catalogs)
	var out enqueued
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "c1", out.ID)

	enq.err = asynq.ErrDuplicateTask
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/dashboard-warmup", nil))
	assert.Equal(t, http.StatusConflict, rr.Code)
}

type stubPruner struct {
	olderThan time.Duration
}

func (s *stubPruner) Cleanup(_ context.Context, olderThan time.Duration) error {
	s.olderThan = olderThan
	return nil
}

func TestIdempotencyCleanupDefaultsRetention(t *testing.T) {
	pruner := &stubPruner{}
	job := &IdempotencyCleanupJob{Store: pruner, Logger: quietLogger(), Metrics: jobmetrics.NewMetrics(prometheus.NewRegistry())}
	require.NoError(t, job.Handle(context.Background(), NewIdempotencyCleanupTask()))
	assert.Equal(t, 7*24*time.Hour, pruner.olderThan)
}
