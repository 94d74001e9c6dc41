package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/uexcorp-go/internal/application/info/types"
	"github.com/andrescamacho/uexcorp-go/internal/application/mediator"
	"github.com/andrescamacho/uexcorp-go/internal/application/resolver"
	"github.com/andrescamacho/uexcorp-go/internal/application/trading/services"
	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
)

// GetLocationInfoQuery requests details about a location of any level
type GetLocationInfoQuery struct {
	LocationName string
}

// GetLocationInfoResponse describes a location.
//
// Trade ports list what can be bought and sold there; broader locations list
// their direct children and the number of trade ports they contain.
type GetLocationInfoResponse struct {
	Name           string
	Kind           string
	Breadcrumb     string
	IsTradePort    bool
	HullTrading    bool
	Buy            []*types.CommodityPriceDTO
	Sell           []*types.CommodityPriceDTO
	Children       []*types.NamedLocationDTO
	TradePorts     []string
	TradePortCount int
}

// GetLocationInfoHandler handles location info queries
type GetLocationInfoHandler struct {
	catalogs services.CatalogProvider
	resolver *resolver.Resolver
	policy   services.TradingPolicy
}

// NewGetLocationInfoHandler creates a new handler
func NewGetLocationInfoHandler(catalogs services.CatalogProvider, r *resolver.Resolver, policy services.TradingPolicy) *GetLocationInfoHandler {
	return &GetLocationInfoHandler{catalogs: catalogs, resolver: r, policy: policy}
}

// Handle executes the query
func (h *GetLocationInfoHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetLocationInfoQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if strings.TrimSpace(query.LocationName) == "" {
		return nil, shared.NewMissingParameterError("locationName", "No location given. Ask for a location.")
	}

	catalog, err := h.catalogs.Current(ctx)
	if err != nil {
		return nil, err
	}
	loc, ok := h.resolver.Location(catalog, query.LocationName)
	if !ok {
		return nil, &shared.UnresolvedNameError{Names: []shared.UnresolvedName{{Parameter: "Location", Value: query.LocationName}}}
	}

	resp := &GetLocationInfoResponse{
		Name:        loc.Name,
		Kind:        loc.Kind.Label(),
		Breadcrumb:  catalog.Breadcrumb(loc),
		IsTradePort: loc.IsTradePort(),
	}

	if loc.IsTradePort() {
		resp.HullTrading = h.policy.IsHullTradingPort(catalog, loc)
		for _, offer := range catalog.Offers(market.OfferFilter{LocationIDs: []int{loc.ID}}) {
			commodity, _ := catalog.Commodity(offer.CommodityID)
			price := &types.CommodityPriceDTO{
				Commodity:   commodity.Name,
				Price:       offer.Price.InexactFloat64(),
				MaxQuantity: offer.MaxQuantity,
				Illegal:     commodity.Illegal,
			}
			if offer.Kind == market.OfferBuy {
				resp.Buy = append(resp.Buy, price)
			} else {
				resp.Sell = append(resp.Sell, price)
			}
		}
		return resp, nil
	}

	for _, child := range catalog.Children(loc) {
		resp.Children = append(resp.Children, &types.NamedLocationDTO{Kind: child.Kind.Label(), Name: child.Name})
	}
	ports := catalog.TradePortsWithin(loc)
	resp.TradePortCount = len(ports)
	for _, p := range ports {
		resp.TradePorts = append(resp.TradePorts, p.Name)
	}
	return resp, nil
}
