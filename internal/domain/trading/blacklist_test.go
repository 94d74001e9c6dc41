package trading_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
	"github.com/andrescamacho/uexcorp-go/internal/domain/trading"
)

func TestNewBlacklistRule_RejectsEmptyRule(t *testing.T) {
	_, err := trading.NewBlacklistRule("  ", "")

	assert.ErrorIs(t, err, trading.ErrEmptyBlacklistRule)
}

func TestBlacklistRule_Matches(t *testing.T) {
	port := market.Location{ID: 1, Kind: market.LocationTradePort, Name: "Lorville TDD"}
	ancestors := []market.Location{
		{ID: 1, Kind: market.LocationSystem, Name: "Stanton"},
		{ID: 1, Kind: market.LocationPlanet, Name: "Hurston"},
	}
	iron := market.Commodity{ID: 1, Name: "Iron"}
	gold := market.Commodity{ID: 2, Name: "Gold"}

	tests := []struct {
		name      string
		location  string
		commodity string
		target    market.Commodity
		expected  bool
	}{
		{"commodity only", "", "iron", iron, true},
		{"commodity only other good", "", "iron", gold, false},
		{"port only", "lorville tdd", "", gold, true},
		{"ancestor only", "Hurston", "", gold, true},
		{"both fields must match", "Lorville TDD", "Iron", gold, false},
		{"both fields match", "Stanton", "Iron", iron, true},
		{"other location", "Crusader", "", iron, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := trading.NewBlacklistRule(tt.location, tt.commodity)
			assert.NoError(t, err)

			assert.Equal(t, tt.expected, rule.Matches(port, ancestors, tt.target))
		})
	}
}
