package trading

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
)

// Route is a single buy-then-sell pairing for one commodity between two
// trade ports (immutable value object). Routes are computed per query and
// never persisted.
//
// Money values are exact decimals: quantity × unit price is computed once
// per route so large quantities do not accumulate rounding drift.
type Route struct {
	commodity   market.Commodity
	origin      market.Location
	destination market.Location
	buy         market.Offer
	sell        market.Offer
	quantity    int
	cost        decimal.Decimal
	revenue     decimal.Decimal
	profit      decimal.Decimal
}

// NewRoute creates a route and enforces its invariants: same commodity on
// both sides, different trade ports, strictly profitable, positive quantity.
func NewRoute(
	commodity market.Commodity,
	origin market.Location,
	destination market.Location,
	buy market.Offer,
	sell market.Offer,
	quantity int,
) (Route, error) {
	if buy.CommodityID != sell.CommodityID || buy.CommodityID != commodity.ID {
		return Route{}, ErrCommodityMismatch
	}
	if buy.LocationID == sell.LocationID {
		return Route{}, ErrSameLocation
	}
	if !sell.Price.GreaterThan(buy.Price) {
		return Route{}, fmt.Errorf("%w: buy %s, sell %s", ErrNoProfit, buy.Price, sell.Price)
	}
	if quantity <= 0 {
		return Route{}, ErrInvalidQuantity
	}

	q := decimal.NewFromInt(int64(quantity))
	cost := buy.Price.Mul(q)
	revenue := sell.Price.Mul(q)
	return Route{
		commodity:   commodity,
		origin:      origin,
		destination: destination,
		buy:         buy,
		sell:        sell,
		quantity:    quantity,
		cost:        cost,
		revenue:     revenue,
		profit:      revenue.Sub(cost),
	}, nil
}

func (r Route) Commodity() market.Commodity   { return r.commodity }
func (r Route) Origin() market.Location       { return r.origin }
func (r Route) Destination() market.Location  { return r.destination }
func (r Route) BuyOffer() market.Offer        { return r.buy }
func (r Route) SellOffer() market.Offer       { return r.sell }
func (r Route) Quantity() int                 { return r.quantity }
func (r Route) TotalCost() decimal.Decimal    { return r.cost }
func (r Route) TotalRevenue() decimal.Decimal { return r.revenue }
func (r Route) Profit() decimal.Decimal       { return r.profit }

// ProfitPerUnit returns sell price minus buy price
func (r Route) ProfitPerUnit() decimal.Decimal {
	return r.sell.Price.Sub(r.buy.Price)
}

func (r Route) String() string {
	return fmt.Sprintf("%d SCU %s: %s -> %s, profit %s",
		r.quantity, r.commodity.Name, r.origin.Name, r.destination.Name, r.profit.StringFixed(2))
}
