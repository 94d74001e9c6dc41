package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/uexcorp-go/internal/application/resolver"
	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
	"github.com/andrescamacho/uexcorp-go/test/helpers"
)

func TestResolver_Ships(t *testing.T) {
	catalog := market.NewCatalog(helpers.StantonScenario())
	r := resolver.New()

	ships := r.Ships(catalog, "cutlass")
	require.Len(t, ships, 2)
	assert.Equal(t, "Cutlass Red", ships[0].Name)
	assert.Equal(t, "Cutlass Black", ships[1].Name)

	ship, ok := r.Ship(catalog, "Drake Cutlass Black")
	require.True(t, ok)
	assert.Equal(t, "Cutlass Black", ship.Name)

	_, ok = r.Ship(catalog, "Idris")
	assert.False(t, ok)
}

func TestResolver_Location(t *testing.T) {
	catalog := market.NewCatalog(helpers.StantonScenario())
	r := resolver.New()

	loc, ok := r.Location(catalog, "lorvile")
	require.True(t, ok)
	assert.Equal(t, market.LocationCity, loc.Kind)

	port, ok := r.TradePort(catalog, "Lorville")
	require.True(t, ok)
	assert.Equal(t, "Lorville TDD", port.Name)
}

func TestResolver_Commodity(t *testing.T) {
	catalog := market.NewCatalog(helpers.StantonScenario())
	r := resolver.New()

	com, ok := r.Commodity(catalog, "larnite")
	require.True(t, ok)
	assert.Equal(t, "Laranite", com.Name)

	_, ok = r.Commodity(catalog, "")
	assert.False(t, ok)
}
