package services

import (
	"strings"

	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
	"github.com/andrescamacho/uexcorp-go/internal/domain/trading"
)

// TradingPolicy holds the user configured trading rules
type TradingPolicy struct {
	// TradeStartMandatory requires a start location for route searches
	TradeStartMandatory bool

	// SummarizeByCommodity keeps only the best route per commodity
	SummarizeByCommodity bool

	Blacklist trading.Blacklist

	DefaultRouteCount    int
	DefaultLocationCount int

	// HullTradingLocations are the locations where hull-cargo ships can load
	HullTradingLocations []string

	// HullTradingShips can only trade at hull trading locations
	HullTradingShips []string
}

// IsHullTradingShip reports whether the ship is restricted to hull trading locations
func (p TradingPolicy) IsHullTradingShip(ship market.Ship) bool {
	for _, name := range p.HullTradingShips {
		if strings.EqualFold(name, ship.Name) || strings.EqualFold(name, ship.FullName) {
			return true
		}
	}
	return false
}

// IsHullTradingPort reports whether the trade port, or a location containing
// it, supports hull trading
func (p TradingPolicy) IsHullTradingPort(c *market.Catalog, port market.Location) bool {
	names := append([]string{port.Name}, ancestorNames(c, port)...)
	for _, allowed := range p.HullTradingLocations {
		for _, n := range names {
			if strings.EqualFold(allowed, n) {
				return true
			}
		}
	}
	return false
}

func ancestorNames(c *market.Catalog, loc market.Location) []string {
	ancestors := c.Ancestors(loc)
	out := make([]string, len(ancestors))
	for i, a := range ancestors {
		out[i] = a.Name
	}
	return out
}

// RestrictForShip filters trade ports down to the ones the ship can use
func (p TradingPolicy) RestrictForShip(c *market.Catalog, ship *market.Ship, ports []market.Location) []market.Location {
	if ship == nil || !p.IsHullTradingShip(*ship) {
		return ports
	}
	out := make([]market.Location, 0, len(ports))
	for _, port := range ports {
		if p.IsHullTradingPort(c, port) {
			out = append(out, port)
		}
	}
	return out
}
