package queries_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/uexcorp-go/internal/application/resolver"
	"github.com/andrescamacho/uexcorp-go/internal/application/trading/queries"
	"github.com/andrescamacho/uexcorp-go/internal/application/trading/services"
	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
	"github.com/andrescamacho/uexcorp-go/test/helpers"
)

func newPriceFinder() *services.PriceFinder {
	return services.NewPriceFinder(helpers.NewStaticCatalogProvider(helpers.StantonScenario()), resolver.New(), defaultPolicy())
}

func TestFindBestBuyLocations_CheapestFirstThenLargestQuantity(t *testing.T) {
	h := queries.NewFindBestBuyLocationsHandler(newPriceFinder(), defaultPolicy())

	resp, err := h.Handle(context.Background(), &queries.FindBestBuyLocationsQuery{Commodity: "titanium"})

	require.NoError(t, err)
	locations := resp.(*queries.FindBestLocationsResponse).Locations
	require.Len(t, locations, 3)
	assert.Equal(t, "Orison TDO", locations[0].Location, "same price, known larger quantity wins")
	assert.Equal(t, "Lorville TDD", locations[1].Location)
	assert.Equal(t, "Everus Harbor Admin", locations[2].Location)
}

func TestFindBestBuyLocations_AreaFilter(t *testing.T) {
	h := queries.NewFindBestBuyLocationsHandler(newPriceFinder(), defaultPolicy())

	resp, err := h.Handle(context.Background(), &queries.FindBestBuyLocationsQuery{Commodity: "titanium", Location: "Hurston", Limit: 5})

	require.NoError(t, err)
	locations := resp.(*queries.FindBestLocationsResponse).Locations
	require.Len(t, locations, 2)
	assert.Equal(t, "Lorville TDD", locations[0].Location)
}

func TestFindBestSellLocations_RankedByTotalWhenAmountGiven(t *testing.T) {
	h := queries.NewFindBestSellLocationsHandler(newPriceFinder(), defaultPolicy())

	byUnit, err := h.Handle(context.Background(), &queries.FindBestSellLocationsQuery{Commodity: "Agricium"})
	require.NoError(t, err)
	unit := byUnit.(*queries.FindBestLocationsResponse).Locations
	require.Len(t, unit, 2)
	assert.Equal(t, "Ruin Station Trade", unit[0].Location)
	assert.Nil(t, unit[0].Total)

	byTotal, err := h.Handle(context.Background(), &queries.FindBestSellLocationsQuery{Commodity: "Agricium", Amount: 300})
	require.NoError(t, err)
	total := byTotal.(*queries.FindBestLocationsResponse).Locations
	require.Len(t, total, 2)
	assert.Equal(t, "Ruin Station Trade", total[0].Location)
	require.NotNil(t, total[0].Total)
	assert.Equal(t, 8400.0, *total[0].Total)
	assert.Equal(t, 200, total[1].Quantity, "quantity capped by the offer maximum")
	assert.Equal(t, 5450.0, *total[1].Total)
}

func TestFindBestLocations_CommodityRequired(t *testing.T) {
	h := queries.NewFindBestSellLocationsHandler(newPriceFinder(), defaultPolicy())

	_, err := h.Handle(context.Background(), &queries.FindBestSellLocationsQuery{})

	var missing *shared.MissingParameterError
	assert.ErrorAs(t, err, &missing)
}

func TestFindBestLocations_UnknownCommodity(t *testing.T) {
	h := queries.NewFindBestBuyLocationsHandler(newPriceFinder(), defaultPolicy())

	_, err := h.Handle(context.Background(), &queries.FindBestBuyLocationsQuery{Commodity: "Unobtainium"})

	var unresolved *shared.UnresolvedNameError
	assert.ErrorAs(t, err, &unresolved)
}
