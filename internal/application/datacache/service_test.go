package datacache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/uexcorp-go/internal/application/datacache"
	"github.com/andrescamacho/uexcorp-go/internal/application/logging"
	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
	"github.com/andrescamacho/uexcorp-go/test/helpers"
)

var errUnavailable = errors.New("service unavailable (503)")

func newService(fetcher datacache.Fetcher, store datacache.Store, clock shared.Clock) *datacache.Service {
	return datacache.NewService(fetcher, store, clock, nil, datacache.Options{Enabled: true, MaxAge: time.Hour})
}

func TestStartup_UsesFreshCacheWithoutNetwork(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(helpers.FixtureTime.Add(10 * time.Minute))
	fetcher := helpers.NewMockFetcher(helpers.StantonScenario())
	store := helpers.NewMockStoreWith(helpers.IronScenario())
	svc := newService(fetcher, store, clock)

	// Act
	catalog, err := svc.Startup(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, fetcher.Calls())
	assert.Len(t, catalog.Snapshot().Offers, 2)
}

func TestStartup_FetchesWhenCacheIsStale(t *testing.T) {
	clock := shared.NewMockClock(helpers.FixtureTime.Add(2 * time.Hour))
	fresh := helpers.StantonScenario()
	fresh.FetchedAt = clock.Now()
	fetcher := helpers.NewMockFetcher(fresh)
	store := helpers.NewMockStoreWith(helpers.IronScenario())
	svc := newService(fetcher, store, clock)

	catalog, err := svc.Startup(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.Calls())
	assert.Equal(t, 1, store.Saves())
	assert.Len(t, catalog.Ships(), 5)
	assert.True(t, svc.IsFresh(context.Background(), time.Hour))
}

func TestStartup_FallsBackToStaleCacheWithWarning(t *testing.T) {
	clock := shared.NewMockClock(helpers.FixtureTime.Add(48 * time.Hour))
	fetcher := helpers.NewMockFetcher(market.Snapshot{})
	fetcher.SetError(errUnavailable)
	store := helpers.NewMockStoreWith(helpers.IronScenario())
	svc := newService(fetcher, store, clock)
	logger := helpers.NewRecordingLogger()
	ctx := logging.WithLogger(context.Background(), logger)

	catalog, err := svc.Startup(ctx)

	require.NoError(t, err)
	assert.Len(t, catalog.Snapshot().Offers, 2)
	assert.NotEmpty(t, logger.Entries(logging.LevelWarning))
}

func TestStartup_HardFailureWithoutAnySnapshot(t *testing.T) {
	fetcher := helpers.NewMockFetcher(market.Snapshot{})
	fetcher.SetError(errUnavailable)
	svc := newService(fetcher, helpers.NewMockStore(), shared.NewMockClock(time.Time{}))

	catalog, err := svc.Startup(context.Background())

	assert.Nil(t, catalog)
	assert.ErrorIs(t, err, datacache.ErrNoSnapshot)
	_, err = svc.Current(context.Background())
	assert.ErrorIs(t, err, datacache.ErrNoSnapshot)
}

func TestCurrent_RetriesStartupUntilDataIsAvailable(t *testing.T) {
	fetcher := helpers.NewMockFetcher(helpers.IronScenario())
	fetcher.SetError(errUnavailable)
	svc := newService(fetcher, helpers.NewMockStore(), shared.NewMockClock(helpers.FixtureTime))

	_, err := svc.Current(context.Background())
	require.Error(t, err)

	fetcher.SetError(nil)
	catalog, err := svc.Current(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, catalog)
}

func TestRefresh_BypassesFreshness(t *testing.T) {
	clock := shared.NewMockClock(helpers.FixtureTime)
	fetcher := helpers.NewMockFetcher(helpers.StantonScenario())
	store := helpers.NewMockStoreWith(helpers.IronScenario())
	svc := newService(fetcher, store, clock)
	_, err := svc.Startup(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, fetcher.Calls())

	catalog, err := svc.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.Calls())
	assert.Same(t, catalog, svc.Catalog())
	assert.Len(t, catalog.Ships(), 5)
	assert.Equal(t, 1, fetcher.Resets(), "an explicit refresh resets the provider circuit")
}

func TestRefresh_FailureKeepsActiveDataset(t *testing.T) {
	clock := shared.NewMockClock(helpers.FixtureTime)
	fetcher := helpers.NewMockFetcher(helpers.IronScenario())
	svc := newService(fetcher, helpers.NewMockStore(), clock)
	before, err := svc.Startup(context.Background())
	require.NoError(t, err)
	fetcher.SetError(errUnavailable)

	after, err := svc.Refresh(context.Background())

	var stale *datacache.StaleDataError
	require.ErrorAs(t, err, &stale)
	assert.ErrorIs(t, err, errUnavailable)
	assert.Same(t, before, after)
	assert.Same(t, before, svc.Catalog())
}

func TestRefresh_ConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	fetcher := helpers.NewMockFetcher(helpers.StantonScenario())
	svc := newService(fetcher, helpers.NewMockStore(), shared.NewMockClock(helpers.FixtureTime))
	_, err := svc.Startup(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.Refresh(context.Background())
		}()
		go func() {
			defer wg.Done()
			c, err := svc.Current(context.Background())
			assert.NoError(t, err)
			assert.Len(t, c.Snapshot().Offers, len(helpers.StantonScenario().Offers))
		}()
	}
	wg.Wait()
}

func TestLoad_IsIdempotent(t *testing.T) {
	store := helpers.NewMockStoreWith(helpers.StantonScenario())
	svc := newService(helpers.NewMockFetcher(market.Snapshot{}), store, shared.NewMockClock(helpers.FixtureTime))

	first, err := svc.Load(context.Background())
	require.NoError(t, err)
	second, err := svc.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDisabledCacheNeverTouchesStore(t *testing.T) {
	fetcher := helpers.NewMockFetcher(helpers.IronScenario())
	store := helpers.NewMockStoreWith(helpers.IronScenario())
	svc := datacache.NewService(fetcher, store, shared.NewMockClock(helpers.FixtureTime), nil,
		datacache.Options{Enabled: false, MaxAge: time.Hour})

	_, err := svc.Startup(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.Calls())
	assert.Equal(t, 0, store.Loads())
	assert.Equal(t, 0, store.Saves())
	_, err = svc.Load(context.Background())
	assert.ErrorIs(t, err, market.ErrCacheMiss)
}

func TestStartup_DropsDanglingRecordsAndLogs(t *testing.T) {
	b := helpers.NewSnapshotBuilder()
	stanton := b.System(1, "Stanton")
	port := b.TradePort(1, "Port A", stanton)
	iron := b.Commodity(1, "Iron", false)
	b.Buy(port, iron, 10, 0)
	dangling, _ := market.NewOffer(99, iron.ID, market.OfferSell, 12, 0, helpers.FixtureTime)
	b.RawOffer(dangling)
	logger := helpers.NewRecordingLogger()
	svc := newService(helpers.NewMockFetcher(b.Build()), helpers.NewMockStore(), shared.NewMockClock(helpers.FixtureTime))

	catalog, err := svc.Startup(logging.WithLogger(context.Background(), logger))

	require.NoError(t, err)
	assert.Len(t, catalog.Snapshot().Offers, 1)
	assert.NotEmpty(t, logger.Entries(logging.LevelWarning))
}
