package market_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
	"github.com/andrescamacho/uexcorp-go/test/helpers"
)

func portNames(locs []market.Location) []string {
	names := make([]string, len(locs))
	for i, l := range locs {
		names[i] = l.Name
	}
	return names
}

func TestCatalog_LookupByNameIsCaseInsensitive(t *testing.T) {
	catalog := market.NewCatalog(helpers.StantonScenario())

	commodity, ok := catalog.CommodityByName("  laranite ")
	require.True(t, ok)
	assert.Equal(t, "Laranite", commodity.Name)

	ship, ok := catalog.ShipByName("CUTLASS BLACK")
	require.True(t, ok)
	assert.Equal(t, 46, ship.CargoCapacity)

	ship, ok = catalog.ShipByName("Drake Interplanetary Cutlass Black")
	require.True(t, ok, "full names resolve as well")
	assert.Equal(t, "Cutlass Black", ship.Name)

	_, ok = catalog.CommodityByName("Unobtainium")
	assert.False(t, ok)
}

func TestCatalog_LocationByNamePrefersBroadestLevel(t *testing.T) {
	b := helpers.NewSnapshotBuilder()
	stanton := b.System(1, "Stanton")
	hurston := b.Child(market.LocationPlanet, 1, "Hurston", stanton)
	b.TradePort(1, "Hurston", hurston)
	catalog := market.NewCatalog(b.Build())

	loc, ok := catalog.LocationByName("hurston")

	require.True(t, ok)
	assert.Equal(t, market.LocationPlanet, loc.Kind)
}

func TestCatalog_TradePortsWithinEveryLevel(t *testing.T) {
	catalog := market.NewCatalog(helpers.StantonScenario())

	tests := []struct {
		name     string
		location string
		expected []string
	}{
		{"system", "Stanton", []string{"Everus Harbor Admin", "HDMS-Bezdek", "Lorville TDD", "Orison TDO"}},
		{"planet", "Hurston", []string{"Everus Harbor Admin", "HDMS-Bezdek", "Lorville TDD"}},
		{"moon", "Arial", []string{"HDMS-Bezdek"}},
		{"city", "Orison", []string{"Orison TDO"}},
		{"station", "Ruin Station", []string{"Ruin Station Trade"}},
		{"trade port", "Lorville TDD", []string{"Lorville TDD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, ok := catalog.LocationByName(tt.location)
			require.True(t, ok)

			ports := catalog.TradePortsWithin(loc)

			assert.ElementsMatch(t, tt.expected, portNames(ports))
		})
	}
}

func TestCatalog_Breadcrumb(t *testing.T) {
	catalog := market.NewCatalog(helpers.StantonScenario())
	port, ok := catalog.LocationByName("Lorville TDD")
	require.True(t, ok)

	assert.Equal(t,
		"Star-System: Stanton >> Planet: Hurston >> City: Lorville >> Trade Point: Lorville TDD",
		catalog.Breadcrumb(port))
}

func TestCatalog_Children(t *testing.T) {
	catalog := market.NewCatalog(helpers.StantonScenario())
	hurston, _ := catalog.LocationByName("Hurston")

	children := catalog.Children(hurston)

	assert.ElementsMatch(t, []string{"Arial", "Lorville", "Everus Harbor"}, portNames(children))
}

func TestCatalog_OffersFilter(t *testing.T) {
	catalog := market.NewCatalog(helpers.StantonScenario())
	widow, _ := catalog.CommodityByName("WiDoW")
	titanium, _ := catalog.CommodityByName("Titanium")
	orison, _ := catalog.LocationByName("Orison TDO")

	t.Run("by commodity and kind", func(t *testing.T) {
		offers := catalog.Offers(market.OfferFilter{CommodityID: titanium.ID, Kind: market.OfferBuy})
		assert.Len(t, offers, 3)
		for _, o := range offers {
			assert.Equal(t, market.OfferBuy, o.Kind)
			assert.Equal(t, titanium.ID, o.CommodityID)
		}
	})

	t.Run("by location", func(t *testing.T) {
		offers := catalog.Offers(market.OfferFilter{LocationIDs: []int{orison.ID}})
		assert.Len(t, offers, 3)
	})

	t.Run("exclude illegal", func(t *testing.T) {
		offers := catalog.Offers(market.OfferFilter{CommodityID: widow.ID, ExcludeIllegal: true})
		assert.Empty(t, offers)
	})

	t.Run("has offers", func(t *testing.T) {
		assert.True(t, catalog.HasOffers(widow.ID, market.OfferSell))
		assert.False(t, catalog.HasOffers(9999, market.OfferSell))
	})
}

func TestCatalog_OffersAreDeterministicallyOrdered(t *testing.T) {
	catalog := market.NewCatalog(helpers.StantonScenario())

	first := catalog.Offers(market.OfferFilter{})
	second := catalog.Offers(market.OfferFilter{})

	assert.Equal(t, first, second)
}
