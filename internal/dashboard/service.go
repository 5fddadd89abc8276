package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/adrent/billboard-admin/internal/ledger"
	"github.com/adrent/billboard-admin/internal/platform/format"
)

// ErrLoadFailed wraps gateway read failures.
var ErrLoadFailed = errors.New("dashboard: load failed")

// RepositoryPort defines data access methods for the dashboard.
type RepositoryPort interface {
	Billboards(ctx context.Context) ([]Billboard, error)
	Contracts(ctx context.Context) ([]ledger.Contract, error)
	Entries(ctx context.Context) ([]ledger.Entry, error)
}

// CacheCounter counts snapshot cache lookups.
type CacheCounter interface {
	CacheLookup(hit bool)
}

// Service coordinates dashboard reads with the snapshot cache.
type Service struct {
	repo    RepositoryPort
	cache   *Cache
	format  *format.Formatter
	logger  *slog.Logger
	opts    Options
	now     func() time.Time
	metrics CacheCounter
	group   singleflight.Group
}

// NewService wires a repository with a cache helper.
func NewService(repo RepositoryPort, cache *Cache, formatter *format.Formatter, logger *slog.Logger, opts Options) *Service {
	if formatter == nil {
		formatter = format.New("en", "")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		cache:  cache,
		format: formatter,
		logger: logger,
		opts:   opts.withDefaults(),
		now:    time.Now,
	}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// SetMetrics attaches a cache lookup counter.
func (s *Service) SetMetrics(m CacheCounter) {
	s.metrics = m
}

// Cache exposes the snapshot cache so ledger writes can bump it.
func (s *Service) Cache() *Cache {
	return s.cache
}

// Snapshot returns the dashboard, served from cache when possible. Concurrent
// misses share one build. Cache failures degrade to an uncached build.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	now := s.now()
	key, err := s.cache.BuildKey(ctx, s.keyParts(now)...)
	if err != nil {
		s.logger.Warn("dashboard cache key", slog.Any("error", err))
		return s.Build(ctx, now)
	}

	res, err, _ := s.group.Do(key, func() (any, error) {
		var snap Snapshot
		hit, err := s.cache.FetchJSON(ctx, key, &snap, func(ctx context.Context) (any, error) {
			return s.Build(ctx, now)
		})
		if err != nil {
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.CacheLookup(hit)
		}
		return snap, nil
	})
	if err != nil {
		if errors.Is(err, ErrLoadFailed) || ctx.Err() != nil {
			return Snapshot{}, err
		}
		s.logger.Warn("dashboard cache unavailable", slog.Any("error", err))
		return s.Build(ctx, now)
	}
	return res.(Snapshot), nil
}

// Warm rebuilds the snapshot and stores it under the current version.
func (s *Service) Warm(ctx context.Context) (Snapshot, error) {
	now := s.now()
	snap, err := s.Build(ctx, now)
	if err != nil {
		return Snapshot{}, err
	}
	key, err := s.cache.BuildKey(ctx, s.keyParts(now)...)
	if err != nil {
		return snap, err
	}
	return snap, s.cache.Store(ctx, key, snap)
}

// Build reads the source tables concurrently and derives the snapshot.
func (s *Service) Build(ctx context.Context, now time.Time) (Snapshot, error) {
	var (
		billboards []Billboard
		contracts  []ledger.Contract
		entries    []ledger.Entry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		billboards, err = s.repo.Billboards(gctx)
		return wrapLoad("billboards", err)
	})
	g.Go(func() (err error) {
		contracts, err = s.repo.Contracts(gctx)
		return wrapLoad("contracts", err)
	})
	g.Go(func() (err error) {
		entries, err = s.repo.Entries(gctx)
		return wrapLoad("entries", err)
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	snap := Build(billboards, contracts, entries, now, s.opts)
	s.decorate(&snap)
	return snap, nil
}

func (s *Service) decorate(snap *Snapshot) {
	snap.Stats.TotalRevenueText = s.format.Money(snap.Stats.TotalRevenue)
	for _, list := range [][]ContractItem{snap.RecentContracts, snap.ExpiringContracts, snap.OverdueContracts} {
		for i := range list {
			list[i].EndText = s.format.Date(list[i].End)
		}
	}
}

func (s *Service) keyParts(now time.Time) []string {
	return []string{"dashboard", "snapshot", s.format.Locale(), now.Format("2006-01-02")}
}

func wrapLoad(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrLoadFailed, what, err)
}
