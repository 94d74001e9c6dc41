package trading_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
	"github.com/andrescamacho/uexcorp-go/internal/domain/trading"
	"github.com/andrescamacho/uexcorp-go/test/helpers"
)

func budget(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func mustRule(t *testing.T, location, commodity string) trading.BlacklistRule {
	t.Helper()
	rule, err := trading.NewBlacklistRule(location, commodity)
	require.NoError(t, err)
	return rule
}

func TestFindRoutes_IronScenario(t *testing.T) {
	catalog := market.NewCatalog(helpers.IronScenario())
	optimizer := trading.NewRouteOptimizer()

	t.Run("cargo bound", func(t *testing.T) {
		routes := optimizer.FindRoutes(catalog, trading.RouteConstraints{CargoCapacity: 20, Budget: budget(300)})

		require.Len(t, routes, 1)
		r := routes[0]
		assert.Equal(t, 20, r.Quantity())
		assert.True(t, r.TotalCost().Equal(decimal.NewFromInt(200)), "cost %s", r.TotalCost())
		assert.True(t, r.TotalRevenue().Equal(decimal.NewFromInt(300)), "revenue %s", r.TotalRevenue())
		assert.True(t, r.Profit().Equal(decimal.NewFromInt(100)), "profit %s", r.Profit())
		assert.Equal(t, "Port A", r.Origin().Name)
		assert.Equal(t, "Port B", r.Destination().Name)
	})

	t.Run("budget bound", func(t *testing.T) {
		routes := optimizer.FindRoutes(catalog, trading.RouteConstraints{CargoCapacity: 20, Budget: budget(100)})

		require.Len(t, routes, 1)
		assert.Equal(t, 10, routes[0].Quantity())
		assert.True(t, routes[0].Profit().Equal(decimal.NewFromInt(50)))
	})

	t.Run("blacklisted commodity", func(t *testing.T) {
		routes := optimizer.FindRoutes(catalog, trading.RouteConstraints{
			CargoCapacity: 20,
			Budget:        budget(300),
			Blacklist:     trading.Blacklist{mustRule(t, "", "Iron")},
		})

		assert.Empty(t, routes)
	})

	t.Run("offer quantity caps", func(t *testing.T) {
		routes := optimizer.FindRoutes(catalog, trading.RouteConstraints{CargoCapacity: 500})

		require.Len(t, routes, 1)
		assert.Equal(t, 50, routes[0].Quantity(), "buy offer max quantity caps the route")
	})
}

func TestFindRoutes_Boundaries(t *testing.T) {
	catalog := market.NewCatalog(helpers.IronScenario())
	optimizer := trading.NewRouteOptimizer()

	assert.Empty(t, optimizer.FindRoutes(catalog, trading.RouteConstraints{CargoCapacity: 20, Budget: budget(0)}))
	assert.Empty(t, optimizer.FindRoutes(catalog, trading.RouteConstraints{CargoCapacity: 0}))
	assert.Empty(t, optimizer.FindRoutes(catalog, trading.RouteConstraints{CargoCapacity: 20, Budget: budget(9)}),
		"a budget below one unit yields nothing")
	assert.Empty(t, optimizer.FindRoutes(catalog, trading.RouteConstraints{CargoCapacity: 20, Origins: []int{}}))
}

func TestFindRoutes_OriginAndDestinationSets(t *testing.T) {
	catalog := market.NewCatalog(helpers.StantonScenario())
	optimizer := trading.NewRouteOptimizer()
	tdd, _ := catalog.LocationByName("Lorville TDD")
	orison, _ := catalog.LocationByName("Orison TDO")

	routes := optimizer.FindRoutes(catalog, trading.RouteConstraints{
		CargoCapacity: 100,
		Origins:       []int{tdd.ID},
		Destinations:  []int{orison.ID},
	})

	require.NotEmpty(t, routes)
	for _, r := range routes {
		assert.Equal(t, tdd.ID, r.Origin().ID)
		assert.Equal(t, orison.ID, r.Destination().ID)
	}
}

func TestFindRoutes_ExcludeIllegal(t *testing.T) {
	catalog := market.NewCatalog(helpers.StantonScenario())
	optimizer := trading.NewRouteOptimizer()

	withIllegal := optimizer.FindRoutes(catalog, trading.RouteConstraints{CargoCapacity: 100})
	legalOnly := optimizer.FindRoutes(catalog, trading.RouteConstraints{CargoCapacity: 100, ExcludeIllegal: true})

	assert.Equal(t, "WiDoW", withIllegal[0].Commodity().Name)
	for _, r := range legalOnly {
		assert.False(t, r.Commodity().Illegal)
	}
}

func TestFindRoutes_BlacklistedLocationCoversContainedPorts(t *testing.T) {
	catalog := market.NewCatalog(helpers.StantonScenario())
	optimizer := trading.NewRouteOptimizer()

	routes := optimizer.FindRoutes(catalog, trading.RouteConstraints{
		CargoCapacity: 100,
		Blacklist:     trading.Blacklist{mustRule(t, "Pyro", "")},
	})

	require.NotEmpty(t, routes)
	for _, r := range routes {
		assert.NotEqual(t, "Ruin Station Trade", r.Origin().Name)
		assert.NotEqual(t, "Ruin Station Trade", r.Destination().Name)
	}
}

func TestFindRoutes_Properties(t *testing.T) {
	catalog := market.NewCatalog(helpers.StantonScenario())
	optimizer := trading.NewRouteOptimizer()

	for _, summarize := range []bool{false, true} {
		routes := optimizer.FindRoutes(catalog, trading.RouteConstraints{
			CargoCapacity:        200,
			Budget:               budget(5000),
			SummarizeByCommodity: summarize,
		})
		require.NotEmpty(t, routes)

		seen := map[int]bool{}
		for i, r := range routes {
			assert.NotEqual(t, r.BuyOffer().LocationID, r.SellOffer().LocationID)
			assert.Equal(t, r.BuyOffer().CommodityID, r.SellOffer().CommodityID)
			assert.True(t, r.SellOffer().Price.GreaterThan(r.BuyOffer().Price))
			if i > 0 {
				assert.False(t, r.Profit().GreaterThan(routes[i-1].Profit()), "profit must be non-increasing")
			}
			if summarize {
				assert.False(t, seen[r.Commodity().ID], "commodity %s repeated", r.Commodity().Name)
				seen[r.Commodity().ID] = true
			}
		}
	}
}

func TestFindRoutes_SummarizeBeforeTruncate(t *testing.T) {
	catalog := market.NewCatalog(helpers.StantonScenario())
	optimizer := trading.NewRouteOptimizer()

	all := optimizer.FindRoutes(catalog, trading.RouteConstraints{CargoCapacity: 100, ExcludeIllegal: true})
	summarized := optimizer.FindRoutes(catalog, trading.RouteConstraints{
		CargoCapacity:        100,
		ExcludeIllegal:       true,
		SummarizeByCommodity: true,
		Limit:                2,
	})

	require.Len(t, summarized, 2)
	assert.Greater(t, len(all), 2)
	assert.NotEqual(t, summarized[0].Commodity().ID, summarized[1].Commodity().ID)
}

func TestFindRoutes_TieBreaksOnLowerCost(t *testing.T) {
	b := helpers.NewSnapshotBuilder()
	stanton := b.System(1, "Stanton")
	cheap := b.TradePort(1, "Cheap", stanton)
	pricey := b.TradePort(2, "Pricey", stanton)
	cheapSink := b.TradePort(3, "Cheap Sink", stanton)
	priceySink := b.TradePort(4, "Pricey Sink", stanton)
	gold := b.Commodity(1, "Gold", false)
	silver := b.Commodity(2, "Silver", false)
	b.Buy(pricey, gold, 100, 0)
	b.Sell(priceySink, gold, 110, 0)
	b.Buy(cheap, silver, 5, 0)
	b.Sell(cheapSink, silver, 15, 0)
	catalog := market.NewCatalog(b.Build())

	routes := trading.NewRouteOptimizer().FindRoutes(catalog, trading.RouteConstraints{CargoCapacity: 10})

	require.Len(t, routes, 2)
	assert.True(t, routes[0].Profit().Equal(routes[1].Profit()))
	assert.Equal(t, "Silver", routes[0].Commodity().Name)
}

func TestFindRoutes_NoDriftForLargeQuantities(t *testing.T) {
	b := helpers.NewSnapshotBuilder()
	stanton := b.System(1, "Stanton")
	a := b.TradePort(1, "A", stanton)
	z := b.TradePort(2, "Z", stanton)
	gas := b.Commodity(1, "Hydrogen", false)
	b.Buy(a, gas, 1.1, 0)
	b.Sell(z, gas, 1.3, 0)
	catalog := market.NewCatalog(b.Build())

	routes := trading.NewRouteOptimizer().FindRoutes(catalog, trading.RouteConstraints{CargoCapacity: 1_000_000})

	require.Len(t, routes, 1)
	assert.Equal(t, "200000", routes[0].Profit().String())
}

func TestNewRoute_Invariants(t *testing.T) {
	iron := market.Commodity{ID: 1, Name: "Iron"}
	port := market.Location{ID: 1, Kind: market.LocationTradePort}
	other := market.Location{ID: 2, Kind: market.LocationTradePort}
	buy, _ := market.NewOffer(1, 1, market.OfferBuy, 10, 0, helpers.FixtureTime)
	sell, _ := market.NewOffer(2, 1, market.OfferSell, 15, 0, helpers.FixtureTime)
	sameSell, _ := market.NewOffer(1, 1, market.OfferSell, 15, 0, helpers.FixtureTime)
	cheapSell, _ := market.NewOffer(2, 1, market.OfferSell, 10, 0, helpers.FixtureTime)
	otherSell, _ := market.NewOffer(2, 2, market.OfferSell, 15, 0, helpers.FixtureTime)

	_, err := trading.NewRoute(iron, port, other, buy, sell, 1)
	assert.NoError(t, err)

	_, err = trading.NewRoute(iron, port, port, buy, sameSell, 1)
	assert.ErrorIs(t, err, trading.ErrSameLocation)

	_, err = trading.NewRoute(iron, port, other, buy, cheapSell, 1)
	assert.ErrorIs(t, err, trading.ErrNoProfit)

	_, err = trading.NewRoute(iron, port, other, buy, otherSell, 1)
	assert.ErrorIs(t, err, trading.ErrCommodityMismatch)

	_, err = trading.NewRoute(iron, port, other, buy, sell, 0)
	assert.ErrorIs(t, err, trading.ErrInvalidQuantity)
}
