package trading

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
)

// RouteConstraints are fully resolved search constraints. Name resolution,
// ship lookup and policy checks happen before the optimizer runs.
type RouteConstraints struct {
	// CargoCapacity is the effective free cargo space in SCU
	CargoCapacity int

	// Budget caps the purchase cost; nil means unbounded
	Budget *decimal.Decimal

	// Origins restricts where the commodity is bought; nil means every trade port.
	// A non-nil empty slice allows no origin at all.
	Origins []int

	// Destinations restricts where the commodity is sold; nil means every trade port
	Destinations []int

	// CommodityID restricts the search to one commodity when non-zero
	CommodityID int

	ExcludeIllegal bool

	Blacklist Blacklist

	// SummarizeByCommodity keeps only the best route per commodity
	SummarizeByCommodity bool

	// Limit truncates the ranked list; <= 0 returns every route
	Limit int
}

// RouteOptimizer searches buy/sell offer pairs for profitable single-hop routes.
//
// This is a domain service with no infrastructure dependencies. Routes are
// ranked by absolute profit per run; travel time and distance are not modelled.
type RouteOptimizer struct{}

// NewRouteOptimizer creates a route optimizer
func NewRouteOptimizer() *RouteOptimizer {
	return &RouteOptimizer{}
}

// FindRoutes returns routes ordered by profit descending, then total cost
// ascending. Zero cargo or a zero budget yields no routes.
func (o *RouteOptimizer) FindRoutes(catalog *market.Catalog, c RouteConstraints) []Route {
	if c.CargoCapacity <= 0 {
		return nil
	}
	if c.Budget != nil && !c.Budget.IsPositive() {
		return nil
	}
	if c.Origins != nil && len(c.Origins) == 0 {
		return nil
	}
	if c.Destinations != nil && len(c.Destinations) == 0 {
		return nil
	}

	buys := catalog.Offers(market.OfferFilter{
		CommodityID:    c.CommodityID,
		Kind:           market.OfferBuy,
		LocationIDs:    c.Origins,
		ExcludeIllegal: c.ExcludeIllegal,
	})

	sellsByCommodity := make(map[int][]market.Offer)
	for _, s := range catalog.Offers(market.OfferFilter{
		CommodityID:    c.CommodityID,
		Kind:           market.OfferSell,
		LocationIDs:    c.Destinations,
		ExcludeIllegal: c.ExcludeIllegal,
	}) {
		if c.Blacklist.Excludes(catalog, s) {
			continue
		}
		sellsByCommodity[s.CommodityID] = append(sellsByCommodity[s.CommodityID], s)
	}

	var routes []Route
	for _, buy := range buys {
		if c.Blacklist.Excludes(catalog, buy) {
			continue
		}
		commodity, _ := catalog.Commodity(buy.CommodityID)
		origin, _ := catalog.TradePort(buy.LocationID)

		for _, sell := range sellsByCommodity[buy.CommodityID] {
			if sell.LocationID == buy.LocationID || !sell.Price.GreaterThan(buy.Price) {
				continue
			}
			qty := o.Quantity(c, buy, sell)
			if qty <= 0 {
				continue
			}
			destination, _ := catalog.TradePort(sell.LocationID)
			route, err := NewRoute(commodity, origin, destination, buy, sell, qty)
			if err != nil {
				continue
			}
			routes = append(routes, route)
		}
	}

	SortRoutes(routes)
	if c.SummarizeByCommodity {
		routes = bestPerCommodity(routes)
	}
	if c.Limit > 0 && len(routes) > c.Limit {
		routes = routes[:c.Limit]
	}
	return routes
}

// Quantity is the largest amount that fits the cargo hold, the budget and
// both offers' quantity caps.
func (o *RouteOptimizer) Quantity(c RouteConstraints, buy, sell market.Offer) int {
	qty := c.CargoCapacity
	if c.Budget != nil {
		affordable := c.Budget.Div(buy.Price).Floor()
		if affordable.LessThan(decimal.NewFromInt(int64(qty))) {
			qty = int(affordable.IntPart())
		}
	}
	if limit, ok := buy.QuantityCap(); ok && limit < qty {
		qty = limit
	}
	if limit, ok := sell.QuantityCap(); ok && limit < qty {
		qty = limit
	}
	return qty
}

// SortRoutes orders routes by profit descending, then lower total cost, then
// by commodity, origin and destination name so equal routes keep a stable order.
func SortRoutes(routes []Route) {
	sort.SliceStable(routes, func(i, j int) bool {
		a, b := routes[i], routes[j]
		if c := a.profit.Cmp(b.profit); c != 0 {
			return c > 0
		}
		if c := a.cost.Cmp(b.cost); c != 0 {
			return c < 0
		}
		if a.commodity.Name != b.commodity.Name {
			return a.commodity.Name < b.commodity.Name
		}
		if a.origin.Name != b.origin.Name {
			return a.origin.Name < b.origin.Name
		}
		return a.destination.Name < b.destination.Name
	})
}

func bestPerCommodity(sorted []Route) []Route {
	seen := make(map[int]bool)
	out := make([]Route, 0, len(sorted))
	for _, r := range sorted {
		if seen[r.commodity.ID] {
			continue
		}
		seen[r.commodity.ID] = true
		out = append(out, r)
	}
	return out
}
