package services

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/uexcorp-go/internal/application/resolver"
	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
)

// PriceRequest asks where to buy or sell a commodity
type PriceRequest struct {
	Commodity string
	ShipName  string
	Location  string
	Amount    int
	Limit     int
}

// LocationPrice is one trade port offering the commodity
type LocationPrice struct {
	Port     market.Location
	Offer    market.Offer
	Quantity int
	// Total is unit price × tradable quantity, set only when an amount was requested
	Total *decimal.Decimal
}

// PriceSearch is the outcome of a price lookup
type PriceSearch struct {
	Catalog   *market.Catalog
	Commodity market.Commodity
	Prices    []LocationPrice
}

// PriceFinder answers best-location-to-buy and best-location-to-sell lookups
type PriceFinder struct {
	catalogs CatalogProvider
	resolver *resolver.Resolver
	policy   TradingPolicy
}

// NewPriceFinder creates a new price finder
func NewPriceFinder(catalogs CatalogProvider, r *resolver.Resolver, policy TradingPolicy) *PriceFinder {
	return &PriceFinder{catalogs: catalogs, resolver: r, policy: policy}
}

// BestBuyLocations returns trade ports selling the commodity to the player,
// cheapest first. Equal prices prefer the larger available quantity; offers
// with unknown quantity come last.
func (f *PriceFinder) BestBuyLocations(ctx context.Context, req PriceRequest) (*PriceSearch, error) {
	search, offers, err := f.lookup(ctx, req, market.OfferBuy)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(offers, func(i, j int) bool {
		a, b := offers[i], offers[j]
		if c := a.Price.Cmp(b.Price); c != 0 {
			return c < 0
		}
		qa, okA := a.QuantityCap()
		qb, okB := b.QuantityCap()
		if okA != okB {
			return okA
		}
		return qa > qb
	})

	search.Prices = f.toPrices(search.Catalog, offers, req.Amount, req.Limit)
	return search, nil
}

// BestSellLocations returns trade ports buying the commodity from the player.
// With an amount the ranking uses the estimated total proceeds
// (price × min(amount, max quantity)); otherwise the unit price.
func (f *PriceFinder) BestSellLocations(ctx context.Context, req PriceRequest) (*PriceSearch, error) {
	search, offers, err := f.lookup(ctx, req, market.OfferSell)
	if err != nil {
		return nil, err
	}

	prices := f.toPrices(search.Catalog, offers, req.Amount, 0)
	sort.SliceStable(prices, func(i, j int) bool {
		a, b := prices[i], prices[j]
		if a.Total != nil && b.Total != nil {
			if c := a.Total.Cmp(*b.Total); c != 0 {
				return c > 0
			}
		}
		return a.Offer.Price.GreaterThan(b.Offer.Price)
	})
	if req.Limit > 0 && len(prices) > req.Limit {
		prices = prices[:req.Limit]
	}
	search.Prices = prices
	return search, nil
}

func (f *PriceFinder) lookup(ctx context.Context, req PriceRequest, kind market.OfferKind) (*PriceSearch, []market.Offer, error) {
	if strings.TrimSpace(req.Commodity) == "" {
		return nil, nil, shared.NewMissingParameterError("commodityName", "No commodity given. Ask for a commodity.")
	}

	catalog, err := f.catalogs.Current(ctx)
	if err != nil {
		return nil, nil, err
	}

	unresolved := &shared.UnresolvedNameError{}
	commodity, ok := f.resolver.Commodity(catalog, req.Commodity)
	if !ok {
		unresolved.Add("Commodity", req.Commodity)
	}
	var ship *market.Ship
	if name := strings.TrimSpace(req.ShipName); name != "" {
		if s, found := f.resolver.Ship(catalog, name); found {
			ship = &s
		} else {
			unresolved.Add("Ship", name)
		}
	}
	var area *market.Location
	if name := strings.TrimSpace(req.Location); name != "" {
		if l, found := f.resolver.Location(catalog, name); found {
			area = &l
		} else {
			unresolved.Add("Location", name)
		}
	}
	if err := unresolved.OrNil(); err != nil {
		return nil, nil, err
	}

	var ports []market.Location
	if area != nil {
		ports = catalog.TradePortsWithin(*area)
	} else {
		ports = catalog.TradePorts()
	}
	ports = f.policy.RestrictForShip(catalog, ship, ports)
	ids := make([]int, len(ports))
	for i, p := range ports {
		ids[i] = p.ID
	}

	var offers []market.Offer
	if len(ids) > 0 {
		for _, o := range catalog.Offers(market.OfferFilter{CommodityID: commodity.ID, Kind: kind, LocationIDs: ids}) {
			if !f.policy.Blacklist.Excludes(catalog, o) {
				offers = append(offers, o)
			}
		}
	}
	return &PriceSearch{Catalog: catalog, Commodity: commodity}, offers, nil
}

func (f *PriceFinder) toPrices(catalog *market.Catalog, offers []market.Offer, amount, limit int) []LocationPrice {
	out := make([]LocationPrice, 0, len(offers))
	for _, o := range offers {
		port, _ := catalog.TradePort(o.LocationID)
		lp := LocationPrice{Port: port, Offer: o}
		if amount > 0 {
			qty := amount
			if available, ok := o.QuantityCap(); ok && available < qty {
				qty = available
			}
			total := o.Price.Mul(decimal.NewFromInt(int64(qty)))
			lp.Quantity = qty
			lp.Total = &total
		}
		out = append(out, lp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
