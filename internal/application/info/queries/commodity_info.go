package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/uexcorp-go/internal/application/mediator"
	"github.com/andrescamacho/uexcorp-go/internal/application/resolver"
	"github.com/andrescamacho/uexcorp-go/internal/application/trading/services"
	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
)

// GetCommodityInfoQuery requests details about a commodity
type GetCommodityInfoQuery struct {
	CommodityName string
}

// PriceRange is the spread of current prices for one trade direction
type PriceRange struct {
	Locations int
	Min       *float64
	Max       *float64

	// Reference is the provider's published average, 0 when unknown
	Reference float64
}

// GetCommodityInfoResponse describes a commodity
type GetCommodityInfoResponse struct {
	Name        string
	Code        string
	Kind        string
	Legality    string
	Buyable     bool
	Sellable    bool
	Minable     bool
	Harvestable bool

	// Buy is what players pay, Sell is what they receive
	Buy  PriceRange
	Sell PriceRange
}

// GetCommodityInfoHandler handles commodity info queries
type GetCommodityInfoHandler struct {
	catalogs services.CatalogProvider
	resolver *resolver.Resolver
	policy   services.TradingPolicy
}

// NewGetCommodityInfoHandler creates a new handler
func NewGetCommodityInfoHandler(catalogs services.CatalogProvider, r *resolver.Resolver, policy services.TradingPolicy) *GetCommodityInfoHandler {
	return &GetCommodityInfoHandler{catalogs: catalogs, resolver: r, policy: policy}
}

// Handle executes the query. Blacklisted offers are left out of the price ranges.
func (h *GetCommodityInfoHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetCommodityInfoQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if strings.TrimSpace(query.CommodityName) == "" {
		return nil, shared.NewMissingParameterError("commodityName", "No commodity given. Ask for a commodity.")
	}

	catalog, err := h.catalogs.Current(ctx)
	if err != nil {
		return nil, err
	}
	commodity, ok := h.resolver.Commodity(catalog, query.CommodityName)
	if !ok {
		return nil, &shared.UnresolvedNameError{Names: []shared.UnresolvedName{{Parameter: "Commodity", Value: query.CommodityName}}}
	}

	buy := h.priceRange(catalog, commodity.ID, market.OfferBuy)
	buy.Reference = commodity.PriceBuy
	sell := h.priceRange(catalog, commodity.ID, market.OfferSell)
	sell.Reference = commodity.PriceSell

	return &GetCommodityInfoResponse{
		Name:        commodity.Name,
		Code:        commodity.Code,
		Kind:        commodity.Kind,
		Legality:    commodity.Legality(),
		Buyable:     catalog.HasOffers(commodity.ID, market.OfferBuy),
		Sellable:    catalog.HasOffers(commodity.ID, market.OfferSell),
		Minable:     commodity.Minable,
		Harvestable: commodity.Harvestable,
		Buy:         buy,
		Sell:        sell,
	}, nil
}

func (h *GetCommodityInfoHandler) priceRange(catalog *market.Catalog, commodityID int, kind market.OfferKind) PriceRange {
	var (
		r      PriceRange
		lo, hi decimal.Decimal
	)
	for _, offer := range catalog.Offers(market.OfferFilter{CommodityID: commodityID, Kind: kind}) {
		if h.policy.Blacklist.Excludes(catalog, offer) {
			continue
		}
		if r.Locations == 0 || offer.Price.LessThan(lo) {
			lo = offer.Price
		}
		if r.Locations == 0 || offer.Price.GreaterThan(hi) {
			hi = offer.Price
		}
		r.Locations++
	}
	if r.Locations > 0 {
		minPrice, maxPrice := lo.InexactFloat64(), hi.InexactFloat64()
		r.Min, r.Max = &minPrice, &maxPrice
	}
	return r
}
