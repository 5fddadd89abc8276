package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adrent/billboard-admin/internal/ledger"
	"github.com/adrent/billboard-admin/internal/platform/format"
)

type mockRepo struct {
	calls   atomic.Int32
	entries []ledger.Entry
	err     error
}

func (m *mockRepo) Billboards(context.Context) ([]Billboard, error) {
	m.calls.Add(1)
	return []Billboard{{ID: "b1", Status: StatusAvailableAR}}, nil
}

func (m *mockRepo) Contracts(context.Context) ([]ledger.Contract, error) {
	return []ledger.Contract{{Number: "1", CustomerID: "c1", Start: at(-1), End: at(3)}}, nil
}

func (m *mockRepo) Entries(context.Context) ([]ledger.Entry, error) {
	return m.entries, m.err
}

type lookups struct{ hits, misses int }

func (l *lookups) CacheLookup(hit bool) {
	if hit {
		l.hits++
		return
	}
	l.misses++
}

func newTestService(t *testing.T, repo RepositoryPort) (*Service, *Cache, *lookups) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewCache(client, time.Minute)
	svc := NewService(repo, cache, format.New("en", "LYD"), slog.New(slog.NewTextHandler(io.Discard, nil)), Options{})
	svc.SetClock(func() time.Time { return now })
	counter := &lookups{}
	svc.SetMetrics(counter)
	return svc, cache, counter
}

func TestSnapshotIsCachedUntilBump(t *testing.T) {
	repo := &mockRepo{entries: []ledger.Entry{{Kind: ledger.KindReceipt, Amount: decimal.NewFromInt(40)}}}
	svc, cache, counter := newTestService(t, repo)
	ctx := context.Background()

	first, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "40 LYD", first.Stats.TotalRevenueText)
	assert.Equal(t, 1, first.Stats.ActiveContracts)

	_, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), repo.calls.Load())
	assert.Equal(t, 1, counter.hits)
	assert.Equal(t, 1, counter.misses)

	require.NoError(t, cache.Bump(ctx))
	repo.entries = append(repo.entries, ledger.Entry{Kind: ledger.KindAccountPayment, Amount: decimal.NewFromInt(10)})

	third, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), repo.calls.Load())
	assert.Equal(t, "50", third.Stats.TotalRevenue.String())
}

func TestSnapshotLoadFailure(t *testing.T) {
	svc, _, _ := newTestService(t, &mockRepo{err: errors.New("relation does not exist")})
	_, err := svc.Snapshot(context.Background())
	require.ErrorIs(t, err, ErrLoadFailed)
}

func TestWarmStoresSnapshot(t *testing.T) {
	repo := &mockRepo{}
	svc, _, counter := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.Warm(ctx)
	require.NoError(t, err)
	_, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), repo.calls.Load())
	assert.Equal(t, 1, counter.hits)
}

func TestSnapshotWithoutRedis(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, NewCache(nil, time.Minute), nil, nil, Options{})
	_, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	_, err = svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), repo.calls.Load())
}

func TestVersionInitialisesAndBumps(t *testing.T) {
	_, cache, _ := newTestService(t, &mockRepo{})
	ctx := context.Background()

	ver, err := cache.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ver)

	require.NoError(t, cache.Bump(ctx))
	key, err := cache.BuildKey(ctx, "dashboard", "snapshot")
	require.NoError(t, err)
	assert.Equal(t, "dashboard:snapshot:v2", key)
}

func TestHandlerServesSnapshot(t *testing.T) {
	svc, _, _ := newTestService(t, &mockRepo{})
	r := chi.NewRouter()
	r.Route("/dashboard", NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).MountRoutes)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"available_billboards":1`)

	failing, _, _ := newTestService(t, &mockRepo{err: errors.New("down")})
	r = chi.NewRouter()
	r.Route("/dashboard", NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), failing).MountRoutes)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
