package queries_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/uexcorp-go/internal/application/info/queries"
	"github.com/andrescamacho/uexcorp-go/internal/application/resolver"
	"github.com/andrescamacho/uexcorp-go/internal/application/trading/services"
	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
	"github.com/andrescamacho/uexcorp-go/internal/domain/trading"
	"github.com/andrescamacho/uexcorp-go/test/helpers"
)

func stanton() *helpers.StaticCatalogProvider {
	return helpers.NewStaticCatalogProvider(helpers.StantonScenario())
}

func policy() services.TradingPolicy {
	return services.TradingPolicy{
		HullTradingLocations: []string{"Everus Harbor"},
		HullTradingShips:     []string{"Hull C"},
	}
}

func TestGetShipInfo_OffersAndManufacturer(t *testing.T) {
	// Arrange
	h := queries.NewGetShipInfoHandler(stanton(), resolver.New(), policy())

	// Act
	resp, err := h.Handle(context.Background(), &queries.GetShipInfoQuery{ShipName: "cutlass black"})

	// Assert
	require.NoError(t, err)
	ship := resp.(*queries.GetShipInfoResponse).Ship
	assert.Equal(t, "Cutlass Black", ship.Name)
	assert.Equal(t, "Drake Interplanetary", ship.Manufacturer)
	assert.Equal(t, 46, ship.CargoCapacity)
	assert.Equal(t, "1,2", ship.Crew)
	assert.False(t, ship.HullTradingOnly)
	require.Len(t, ship.BuyAt, 1)
	assert.Equal(t, "Lorville TDD", ship.BuyAt[0].Location)
	assert.Equal(t, 2_500_000.0, ship.BuyAt[0].Price)
	assert.Contains(t, ship.BuyAt[0].Breadcrumb, "City: Lorville")
	require.Len(t, ship.RentAt, 1)
	assert.Equal(t, "Everus Harbor Admin", ship.RentAt[0].Location)
}

func TestGetShipInfo_HullTradingShip(t *testing.T) {
	h := queries.NewGetShipInfoHandler(stanton(), resolver.New(), policy())

	resp, err := h.Handle(context.Background(), &queries.GetShipInfoQuery{ShipName: "Hull C"})

	require.NoError(t, err)
	assert.True(t, resp.(*queries.GetShipInfoResponse).Ship.HullTradingOnly)
}

func TestGetShipInfo_Errors(t *testing.T) {
	h := queries.NewGetShipInfoHandler(stanton(), resolver.New(), policy())

	_, err := h.Handle(context.Background(), &queries.GetShipInfoQuery{})
	var missing *shared.MissingParameterError
	assert.ErrorAs(t, err, &missing)

	_, err = h.Handle(context.Background(), &queries.GetShipInfoQuery{ShipName: "Javelin"})
	var unresolved *shared.UnresolvedNameError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "Ship", unresolved.Names[0].Parameter)
}

func TestGetShipInfo_CatalogUnavailable(t *testing.T) {
	provider := stanton()
	provider.Err = errors.New("no data")
	h := queries.NewGetShipInfoHandler(provider, resolver.New(), policy())

	_, err := h.Handle(context.Background(), &queries.GetShipInfoQuery{ShipName: "Freelancer"})

	assert.EqualError(t, err, "no data")
}

func TestCompareShips_DeltasAgainstFirstShip(t *testing.T) {
	// Arrange
	h := queries.NewCompareShipsHandler(stanton(), resolver.New(), policy())

	// Act
	resp, err := h.Handle(context.Background(), &queries.CompareShipsQuery{
		ShipNames: []string{"Freelancer", "Cutlass Black", "Caterpillar"},
	})

	// Assert
	require.NoError(t, err)
	cmp := resp.(*queries.CompareShipsResponse)
	require.Len(t, cmp.Ships, 3)
	require.Len(t, cmp.Deltas, 2)
	assert.Equal(t, "Cutlass Black", cmp.Deltas[0].Name)
	assert.Equal(t, "Freelancer", cmp.Deltas[0].Against)
	assert.Equal(t, -20, cmp.Deltas[0].CargoDelta)
	assert.Equal(t, -20_000.0, cmp.Deltas[0].PriceDelta)
	assert.False(t, cmp.Deltas[0].SameManufacturer)
	assert.Equal(t, 510, cmp.Deltas[1].CargoDelta)
	assert.Equal(t, "Caterpillar", cmp.LargestCargo)
	assert.Equal(t, "Cutlass Black", cmp.SmallestCargo)
	assert.Equal(t, "Cutlass Black", cmp.Cheapest)
	assert.Equal(t, "Caterpillar", cmp.MostExpensive)
	assert.Empty(t, cmp.Unresolved)
}

func TestCompareShips_UnresolvedNamesReportedIndividually(t *testing.T) {
	h := queries.NewCompareShipsHandler(stanton(), resolver.New(), policy())

	resp, err := h.Handle(context.Background(), &queries.CompareShipsQuery{
		ShipNames: []string{"Freelancer", "Javelin", "Caterpillar"},
	})

	require.NoError(t, err)
	cmp := resp.(*queries.CompareShipsResponse)
	assert.Len(t, cmp.Ships, 2)
	assert.Equal(t, []string{"Javelin"}, cmp.Unresolved)
}

func TestCompareShips_NothingResolves(t *testing.T) {
	h := queries.NewCompareShipsHandler(stanton(), resolver.New(), policy())

	_, err := h.Handle(context.Background(), &queries.CompareShipsQuery{ShipNames: []string{"Javelin", "Idris"}})

	var unresolved *shared.UnresolvedNameError
	require.ErrorAs(t, err, &unresolved)
	assert.Len(t, unresolved.Names, 2)
}

func TestCompareShips_NeedsTwoNames(t *testing.T) {
	h := queries.NewCompareShipsHandler(stanton(), resolver.New(), policy())

	_, err := h.Handle(context.Background(), &queries.CompareShipsQuery{ShipNames: []string{"Freelancer", " "}})

	var missing *shared.MissingParameterError
	assert.ErrorAs(t, err, &missing)
}

func TestGetLocationInfo_TradePortPrices(t *testing.T) {
	h := queries.NewGetLocationInfoHandler(stanton(), resolver.New(), policy())

	resp, err := h.Handle(context.Background(), &queries.GetLocationInfoQuery{LocationName: "Everus Harbor Admin"})

	require.NoError(t, err)
	info := resp.(*queries.GetLocationInfoResponse)
	assert.True(t, info.IsTradePort)
	assert.True(t, info.HullTrading)
	assert.Equal(t, "Star-System: Stanton >> Planet: Hurston >> Station: Everus Harbor >> Trade Point: Everus Harbor Admin", info.Breadcrumb)
	require.Len(t, info.Buy, 1)
	assert.Equal(t, "Titanium", info.Buy[0].Commodity)
	require.Len(t, info.Sell, 2)
	assert.Equal(t, "Laranite", info.Sell[0].Commodity)
	assert.Equal(t, "WiDoW", info.Sell[1].Commodity)
	assert.True(t, info.Sell[1].Illegal)
}

func TestGetLocationInfo_PlanetListsChildrenAndPorts(t *testing.T) {
	h := queries.NewGetLocationInfoHandler(stanton(), resolver.New(), policy())

	resp, err := h.Handle(context.Background(), &queries.GetLocationInfoQuery{LocationName: "hurston"})

	require.NoError(t, err)
	info := resp.(*queries.GetLocationInfoResponse)
	assert.False(t, info.IsTradePort)
	assert.Equal(t, "Planet", info.Kind)
	assert.Equal(t, 3, info.TradePortCount)
	var names []string
	for _, c := range info.Children {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"Arial", "Lorville", "Everus Harbor"}, names)
}

func TestGetCommodityInfo_PriceRanges(t *testing.T) {
	h := queries.NewGetCommodityInfoHandler(stanton(), resolver.New(), policy())

	resp, err := h.Handle(context.Background(), &queries.GetCommodityInfoQuery{CommodityName: "laranite"})

	require.NoError(t, err)
	info := resp.(*queries.GetCommodityInfoResponse)
	assert.Equal(t, "legal", info.Legality)
	assert.True(t, info.Buyable)
	assert.True(t, info.Sellable)
	assert.Equal(t, 1, info.Buy.Locations)
	assert.Equal(t, 27.0, *info.Buy.Min)
	assert.Equal(t, 3, info.Sell.Locations)
	assert.Equal(t, 29.0, *info.Sell.Min)
	assert.Equal(t, 31.0, *info.Sell.Max)
	assert.Equal(t, 28.0, info.Buy.Reference)
	assert.Equal(t, 30.0, info.Sell.Reference)
}

func TestGetCommodityInfo_BlacklistNarrowsRanges(t *testing.T) {
	rule, err := trading.NewBlacklistRule("Lorville", "Laranite")
	require.NoError(t, err)
	p := policy()
	p.Blacklist = trading.Blacklist{rule}
	h := queries.NewGetCommodityInfoHandler(stanton(), resolver.New(), p)

	resp, err := h.Handle(context.Background(), &queries.GetCommodityInfoQuery{CommodityName: "Laranite"})

	require.NoError(t, err)
	info := resp.(*queries.GetCommodityInfoResponse)
	assert.Equal(t, 2, info.Sell.Locations)
	assert.Equal(t, 30.5, *info.Sell.Max)
}

func TestGetCommodityInfo_IllegalCommodity(t *testing.T) {
	h := queries.NewGetCommodityInfoHandler(stanton(), resolver.New(), policy())

	resp, err := h.Handle(context.Background(), &queries.GetCommodityInfoQuery{CommodityName: "widow"})

	require.NoError(t, err)
	assert.Equal(t, "illegal", resp.(*queries.GetCommodityInfoResponse).Legality)
}
