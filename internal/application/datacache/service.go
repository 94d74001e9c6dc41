package datacache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/andrescamacho/uexcorp-go/internal/application/logging"
	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
)

// maxLoggedAnomalies bounds how many dropped records are logged individually
const maxLoggedAnomalies = 10

// Options configures the cache service
type Options struct {
	// Enabled turns disk persistence on. When off the store is never touched.
	Enabled bool

	// MaxAge is how long a persisted snapshot is used without refetching
	MaxAge time.Duration
}

// Service owns the active dataset. Readers get an immutable catalog; a
// refresh builds a new catalog and swaps the pointer atomically, so queries
// running against the previous one are unaffected.
type Service struct {
	fetcher  Fetcher
	store    Store
	clock    shared.Clock
	recorder Recorder
	opts     Options

	current atomic.Pointer[market.Catalog]
	group   singleflight.Group
}

// NewService creates the cache service. store may be nil when persistence is disabled.
func NewService(fetcher Fetcher, store Store, clock shared.Clock, recorder Recorder, opts Options) *Service {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if store == nil {
		opts.Enabled = false
	}
	return &Service{
		fetcher:  fetcher,
		store:    store,
		clock:    clock,
		recorder: recorder,
		opts:     opts,
	}
}

// Load returns the persisted snapshot, or market.ErrCacheMiss
func (s *Service) Load(ctx context.Context) (market.Snapshot, error) {
	if !s.opts.Enabled {
		return market.Snapshot{}, market.ErrCacheMiss
	}
	return s.store.Load(ctx)
}

// Store persists a snapshot. It is a no-op when persistence is disabled.
func (s *Service) Store(ctx context.Context, snapshot market.Snapshot) error {
	if !s.opts.Enabled {
		return nil
	}
	return s.store.Save(ctx, snapshot)
}

// IsFresh reports whether a persisted snapshot younger than maxAge exists
func (s *Service) IsFresh(ctx context.Context, maxAge time.Duration) bool {
	snapshot, err := s.Load(ctx)
	if err != nil {
		return false
	}
	return snapshot.IsFresh(s.clock.Now(), maxAge)
}

// Startup loads the dataset: a fresh persisted snapshot is used without any
// network call, otherwise the provider is queried. When the fetch fails an
// older persisted snapshot is used with a warning; with nothing to fall back
// on ErrNoSnapshot is returned.
func (s *Service) Startup(ctx context.Context) (*market.Catalog, error) {
	v, err, _ := s.group.Do("startup", func() (interface{}, error) {
		return s.startup(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*market.Catalog), nil
}

func (s *Service) startup(ctx context.Context) (*market.Catalog, error) {
	logger := logging.LoggerFromContext(ctx)

	fallback, hasFallback := s.loadPersisted(ctx)
	if hasFallback && fallback.IsFresh(s.clock.Now(), s.opts.MaxAge) {
		logger.Log(logging.LevelInfo, "Using cached trading data", map[string]interface{}{
			"fetched_at": fallback.FetchedAt,
			"age":        fallback.Age(s.clock.Now()).Round(time.Second).String(),
		})
		return s.publish(ctx, fallback), nil
	}

	catalog, fetchErr := s.fetchAndPublish(ctx)
	if fetchErr == nil {
		return catalog, nil
	}

	if hasFallback {
		logger.Log(logging.LevelWarning, "Fetching trading data failed, using outdated cache", map[string]interface{}{
			"error":      fetchErr.Error(),
			"fetched_at": fallback.FetchedAt,
		})
		s.recorder.RecordLoad(SourceStale, true, 0)
		return s.publish(ctx, fallback), nil
	}

	logger.Log(logging.LevelError, "No trading data available", map[string]interface{}{
		"error": fetchErr.Error(),
	})
	return nil, fmt.Errorf("%w: %v", ErrNoSnapshot, fetchErr)
}

// Refresh always refetches. On failure the active dataset is kept and a
// *StaleDataError is returned; if there is no active dataset ErrNoSnapshot is
// returned. Concurrent calls share one fetch.
func (s *Service) Refresh(ctx context.Context) (*market.Catalog, error) {
	if r, ok := s.fetcher.(circuitResetter); ok {
		r.ResetCircuit()
	}
	v, err, _ := s.group.Do("refresh", func() (interface{}, error) {
		return s.fetchAndPublish(ctx)
	})
	if err == nil {
		return v.(*market.Catalog), nil
	}

	if active := s.current.Load(); active != nil {
		logging.LoggerFromContext(ctx).Log(logging.LevelWarning, "Refreshing trading data failed, keeping current data", map[string]interface{}{
			"error": err.Error(),
		})
		return active, &StaleDataError{FetchedAt: active.Snapshot().FetchedAt, Cause: err}
	}
	return nil, fmt.Errorf("%w: %v", ErrNoSnapshot, err)
}

// Current returns the active catalog, loading it first when startup has not
// succeeded yet.
func (s *Service) Current(ctx context.Context) (*market.Catalog, error) {
	if c := s.current.Load(); c != nil {
		return c, nil
	}
	return s.Startup(ctx)
}

// Catalog returns the active catalog without loading, or nil
func (s *Service) Catalog() *market.Catalog {
	return s.current.Load()
}

func (s *Service) loadPersisted(ctx context.Context) (market.Snapshot, bool) {
	if !s.opts.Enabled {
		return market.Snapshot{}, false
	}
	start := s.clock.Now()
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, market.ErrCacheMiss) && !errors.Is(err, market.ErrSnapshotVersion) {
			logging.LoggerFromContext(ctx).Log(logging.LevelWarning, "Ignoring unreadable trading data cache", map[string]interface{}{
				"error": err.Error(),
			})
		}
		s.recorder.RecordLoad(SourceDisk, false, s.clock.Now().Sub(start))
		return market.Snapshot{}, false
	}
	s.recorder.RecordLoad(SourceDisk, true, s.clock.Now().Sub(start))
	return snapshot, true
}

func (s *Service) fetchAndPublish(ctx context.Context) (*market.Catalog, error) {
	logger := logging.LoggerFromContext(ctx)
	start := s.clock.Now()

	snapshot, err := s.fetcher.FetchSnapshot(ctx)
	if err != nil {
		s.recorder.RecordLoad(SourceAPI, false, s.clock.Now().Sub(start))
		return nil, err
	}
	if snapshot.FetchedAt.IsZero() {
		snapshot.FetchedAt = s.clock.Now()
	}
	snapshot.Version = market.SnapshotVersion
	s.recorder.RecordLoad(SourceAPI, true, s.clock.Now().Sub(start))

	catalog := s.publish(ctx, snapshot)

	if err := s.Store(ctx, catalog.Snapshot()); err != nil {
		logger.Log(logging.LevelWarning, "Failed to persist trading data cache", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Log(logging.LevelInfo, "Fetched trading data", map[string]interface{}{
		"commodities": len(catalog.Snapshot().Commodities),
		"locations":   len(catalog.Snapshot().Locations),
		"offers":      len(catalog.Snapshot().Offers),
		"ships":       len(catalog.Snapshot().Ships),
	})
	return catalog, nil
}

// publish sanitizes the snapshot, builds a catalog and makes it active
func (s *Service) publish(ctx context.Context, snapshot market.Snapshot) *market.Catalog {
	clean, anomalies := market.Sanitize(snapshot)
	if len(anomalies) > 0 {
		logger := logging.LoggerFromContext(ctx)
		for i, a := range anomalies {
			if i == maxLoggedAnomalies {
				break
			}
			logger.Log(logging.LevelWarning, "Dropped inconsistent trading record", map[string]interface{}{
				"entity": a.Entity,
				"reason": a.Reason,
			})
		}
		logger.Log(logging.LevelWarning, "Trading data contained inconsistent records", map[string]interface{}{
			"dropped": len(anomalies),
		})
	}

	catalog := market.NewCatalog(clean)
	s.current.Store(catalog)
	s.recorder.RecordSnapshot(clean)
	return catalog
}
