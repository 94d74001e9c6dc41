package steps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/uexcorp-go/internal/adapters/cache"
	"github.com/andrescamacho/uexcorp-go/internal/application/datacache"
	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
	"github.com/andrescamacho/uexcorp-go/test/helpers"
)

type dataCacheContext struct {
	ctx      context.Context
	clock    *shared.MockClock
	snapshot market.Snapshot
	fetcher  *helpers.MockFetcher
	dir      string
	format   cache.Format
	service  *datacache.Service

	loads      []*market.Catalog
	refreshErr error

	reloadFetcher *helpers.MockFetcher
	reloaded      *market.Catalog
}

func (c *dataCacheContext) reset() {
	if c.dir != "" {
		os.RemoveAll(c.dir)
	}
	*c = dataCacheContext{
		ctx:   context.Background(),
		clock: shared.NewMockClock(helpers.FixtureTime),
	}
}

func (c *dataCacheContext) newService(fetcher *helpers.MockFetcher) (*datacache.Service, error) {
	store, err := cache.NewFileStore(c.dir, c.format)
	if err != nil {
		return nil, err
	}
	return datacache.NewService(fetcher, store, c.clock, nil, datacache.Options{
		Enabled: true,
		MaxAge:  24 * time.Hour,
	}), nil
}

// Setup steps

func (c *dataCacheContext) theProviderServes(scenario string) error {
	switch scenario {
	case "reference":
		c.snapshot = helpers.IronScenario()
	case "Stanton":
		c.snapshot = helpers.StantonScenario()
	default:
		return fmt.Errorf("unknown trading data %q", scenario)
	}
	c.fetcher = helpers.NewMockFetcher(c.snapshot)
	return nil
}

func (c *dataCacheContext) aTradingDataCache(format string) error {
	f, err := cache.ParseFormat(format)
	if err != nil {
		return err
	}
	dir, err := os.MkdirTemp("", "uexcorp-bdd-cache-*")
	if err != nil {
		return err
	}
	c.dir = dir
	c.format = f
	c.service, err = c.newService(c.fetcher)
	return err
}

func (c *dataCacheContext) theProviderFails() error {
	c.fetcher.SetError(errors.New("provider unavailable"))
	return nil
}

// Action steps

func (c *dataCacheContext) theTradingDataIsLoaded() error {
	catalog, err := c.service.Current(c.ctx)
	if err != nil {
		return err
	}
	c.loads = append(c.loads, catalog)
	return nil
}

func (c *dataCacheContext) theTradingDataIsLoadedTwice() error {
	if err := c.theTradingDataIsLoaded(); err != nil {
		return err
	}
	return c.theTradingDataIsLoaded()
}

func (c *dataCacheContext) aNewServiceLoadsFromTheSameCache() error {
	c.reloadFetcher = helpers.NewMockFetcher(c.snapshot)
	service, err := c.newService(c.reloadFetcher)
	if err != nil {
		return err
	}
	c.reloaded, err = service.Startup(c.ctx)
	return err
}

func (c *dataCacheContext) theTradingDataIsRefreshed() error {
	_, c.refreshErr = c.service.Refresh(c.ctx)
	return nil
}

// Assertion steps

func (c *dataCacheContext) bothLoadsShouldReturnIdenticalSnapshots() error {
	if len(c.loads) != 2 {
		return fmt.Errorf("expected 2 loads, got %d", len(c.loads))
	}
	first, second := c.loads[0].Snapshot(), c.loads[1].Snapshot()
	if !first.FetchedAt.Equal(second.FetchedAt) {
		return fmt.Errorf("fetch times differ: %s vs %s", first.FetchedAt, second.FetchedAt)
	}
	return sameContents(first, second)
}

func (c *dataCacheContext) theProviderShouldHaveBeenQueried(n int) error {
	if got := c.fetcher.Calls(); got != n {
		return fmt.Errorf("expected %d provider calls, got %d", n, got)
	}
	return nil
}

func (c *dataCacheContext) theReloadedDataShouldMatch() error {
	if c.reloaded == nil {
		return fmt.Errorf("nothing was reloaded")
	}
	return sameContents(c.snapshot, c.reloaded.Snapshot())
}

func (c *dataCacheContext) theNewServiceShouldNotHaveQueriedTheProvider() error {
	if got := c.reloadFetcher.Calls(); got != 0 {
		return fmt.Errorf("expected no provider calls, got %d", got)
	}
	return nil
}

func (c *dataCacheContext) theRefreshShouldReportStaleData() error {
	var stale *datacache.StaleDataError
	if !errors.As(c.refreshErr, &stale) {
		return fmt.Errorf("expected stale data error, got %v", c.refreshErr)
	}
	return nil
}

func (c *dataCacheContext) theCurrentDataShouldStillBeAvailable() error {
	catalog := c.service.Catalog()
	if catalog == nil {
		return fmt.Errorf("no current data")
	}
	return sameContents(c.snapshot, catalog.Snapshot())
}

type offerKey struct {
	location, commodity int
	kind                market.OfferKind
}

// sameContents compares entity counts and every offer price
func sameContents(expected, actual market.Snapshot) error {
	counts := []struct {
		name      string
		want, got int
	}{
		{"commodities", len(expected.Commodities), len(actual.Commodities)},
		{"locations", len(expected.Locations), len(actual.Locations)},
		{"offers", len(expected.Offers), len(actual.Offers)},
		{"ships", len(expected.Ships), len(actual.Ships)},
		{"ship offers", len(expected.ShipOffers), len(actual.ShipOffers)},
	}
	for _, count := range counts {
		if count.want != count.got {
			return fmt.Errorf("expected %d %s, got %d", count.want, count.name, count.got)
		}
	}

	prices := make(map[offerKey]market.Offer, len(expected.Offers))
	for _, o := range expected.Offers {
		prices[offerKey{o.LocationID, o.CommodityID, o.Kind}] = o
	}
	for _, o := range actual.Offers {
		want, ok := prices[offerKey{o.LocationID, o.CommodityID, o.Kind}]
		if !ok {
			return fmt.Errorf("unexpected offer %+v", o)
		}
		if !want.Price.Equal(o.Price) {
			return fmt.Errorf("offer %d/%d price changed from %s to %s", o.LocationID, o.CommodityID, want.Price, o.Price)
		}
	}
	return nil
}

// InitializeDataCacheScenario registers the trading data cache steps
func InitializeDataCacheScenario(sc *godog.ScenarioContext) {
	c := &dataCacheContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})
	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if c.dir != "" {
			os.RemoveAll(c.dir)
			c.dir = ""
		}
		return ctx, nil
	})

	sc.Step(`^the provider serves the (reference|Stanton) trading data$`, c.theProviderServes)
	sc.Step(`^a (json|msgpack) trading data cache$`, c.aTradingDataCache)
	sc.Step(`^the provider fails$`, c.theProviderFails)

	sc.Step(`^the trading data is loaded$`, c.theTradingDataIsLoaded)
	sc.Step(`^the trading data is loaded twice$`, c.theTradingDataIsLoadedTwice)
	sc.Step(`^a new service loads the trading data from the same cache$`, c.aNewServiceLoadsFromTheSameCache)
	sc.Step(`^the trading data is refreshed$`, c.theTradingDataIsRefreshed)

	sc.Step(`^both loads should return identical snapshots$`, c.bothLoadsShouldReturnIdenticalSnapshots)
	sc.Step(`^the provider should have been queried (\d+) times?$`, c.theProviderShouldHaveBeenQueried)
	sc.Step(`^the reloaded data should have the same entity counts and offer prices$`, c.theReloadedDataShouldMatch)
	sc.Step(`^the new service should not have queried the provider$`, c.theNewServiceShouldNotHaveQueriedTheProvider)
	sc.Step(`^the refresh should report stale data$`, c.theRefreshShouldReportStaleData)
	sc.Step(`^the current data should still be available$`, c.theCurrentDataShouldStillBeAvailable)
}
