package market_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
	"github.com/andrescamacho/uexcorp-go/test/helpers"
)

func TestSanitize_DropsDanglingOffers(t *testing.T) {
	// Arrange
	b := helpers.NewSnapshotBuilder()
	stanton := b.System(1, "Stanton")
	port := b.TradePort(1, "Port A", stanton)
	iron := b.Commodity(1, "Iron", false)
	b.Buy(port, iron, 10, 0)
	b.RawOffer(market.Offer{LocationID: 1, CommodityID: 42, Kind: market.OfferSell, Price: decimal.NewFromInt(5)})
	b.RawOffer(market.Offer{LocationID: 77, CommodityID: 1, Kind: market.OfferSell, Price: decimal.NewFromInt(5)})
	b.RawOffer(market.Offer{LocationID: 1, CommodityID: 1, Kind: market.OfferSell})

	// Act
	clean, anomalies := market.Sanitize(b.Build())

	// Assert
	assert.Len(t, clean.Offers, 1)
	assert.Len(t, anomalies, 3)
}

func TestSanitize_DropsDuplicateLocations(t *testing.T) {
	// Arrange
	b := helpers.NewSnapshotBuilder()
	stanton := b.System(1, "Stanton")
	portA := b.TradePort(1, "Port A", stanton)
	portB := b.TradePort(2, "Port B", stanton)
	b.TradePort(1, "Port A", stanton)
	iron := b.Commodity(1, "Iron", false)
	b.Buy(portA, iron, 10, 0)
	b.Sell(portB, iron, 15, 0)

	// Act
	clean, anomalies := market.Sanitize(b.Build())
	catalog := market.NewCatalog(clean)

	// Assert
	assert.Len(t, clean.Locations, 3)
	require.Len(t, anomalies, 1)
	assert.Equal(t, "duplicate id", anomalies[0].Reason)
	ports := catalog.TradePortsWithin(stanton)
	require.Len(t, ports, 2)
	ids := []int{ports[0].ID, ports[1].ID}
	assert.ElementsMatch(t, []int{portA.ID, portB.ID}, ids)
	assert.Len(t, catalog.Offers(market.OfferFilter{LocationIDs: ids}), 2)
}

func TestCatalog_OffersIgnoresRepeatedLocationIDs(t *testing.T) {
	catalog := market.NewCatalog(helpers.IronScenario())
	portA, ok := catalog.LocationByName("Port A")
	require.True(t, ok)

	offers := catalog.Offers(market.OfferFilter{LocationIDs: []int{portA.ID, portA.ID}})

	assert.Len(t, offers, 1)
}

func TestSanitize_DropsLocationsWithMissingParent(t *testing.T) {
	b := helpers.NewSnapshotBuilder()
	stanton := b.System(1, "Stanton")
	ghost := market.Location{ID: 9, Kind: market.LocationPlanet, Name: "Ghost", SystemID: 1}
	orphan := b.TradePort(5, "Orphan Port", ghost)
	b.TradePort(6, "Fine Port", stanton)
	iron := b.Commodity(1, "Iron", false)
	b.Buy(orphan, iron, 10, 0)

	clean, anomalies := market.Sanitize(b.Build())

	require.Len(t, clean.Locations, 2)
	assert.Empty(t, clean.Offers, "offers at dropped ports are dropped too")
	assert.Len(t, anomalies, 2)
}

func TestSanitize_KeepsNewestDuplicateOffer(t *testing.T) {
	b := helpers.NewSnapshotBuilder()
	stanton := b.System(1, "Stanton")
	port := b.TradePort(1, "Port A", stanton)
	b.Commodity(1, "Iron", false)
	older := market.Offer{LocationID: port.ID, CommodityID: 1, Kind: market.OfferBuy, Price: decimal.NewFromInt(10), UpdatedAt: helpers.FixtureTime}
	newer := older
	newer.Price = decimal.NewFromInt(12)
	newer.UpdatedAt = helpers.FixtureTime.Add(time.Hour)
	b.RawOffer(older)
	b.RawOffer(newer)

	clean, _ := market.Sanitize(b.Build())

	require.Len(t, clean.Offers, 1)
	assert.True(t, clean.Offers[0].Price.Equal(decimal.NewFromInt(12)))
}

func TestSanitize_DoesNotMutateInput(t *testing.T) {
	snapshot := helpers.StantonScenario()
	offers := len(snapshot.Offers)

	_, _ = market.Sanitize(snapshot)

	assert.Len(t, snapshot.Offers, offers)
}

func TestSnapshot_IsFresh(t *testing.T) {
	s := market.Snapshot{FetchedAt: helpers.FixtureTime}

	assert.True(t, s.IsFresh(helpers.FixtureTime.Add(59*time.Minute), time.Hour))
	assert.False(t, s.IsFresh(helpers.FixtureTime.Add(time.Hour), time.Hour))
	assert.False(t, market.Snapshot{}.IsFresh(helpers.FixtureTime, time.Hour))
}

func TestNewOffer_MissingPriceMeansNoOffer(t *testing.T) {
	_, ok := market.NewOffer(1, 1, market.OfferBuy, 0, 10, helpers.FixtureTime)
	assert.False(t, ok)

	o, ok := market.NewOffer(1, 1, market.OfferBuy, 3.5, 0, helpers.FixtureTime)
	require.True(t, ok)
	_, capped := o.QuantityCap()
	assert.False(t, capped)
}

func TestManufacturerName(t *testing.T) {
	assert.Equal(t, "Drake Interplanetary", market.ManufacturerName("drak"))
	assert.Equal(t, "Unknown Works", market.ManufacturerName("Unknown Works"))
}
