package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/uexcorp-go/internal/application/mediator"
	"github.com/andrescamacho/uexcorp-go/internal/application/trading/services"
	"github.com/andrescamacho/uexcorp-go/internal/application/trading/types"
)

// FindBestBuyLocationsQuery asks where a commodity is cheapest to buy
type FindBestBuyLocationsQuery struct {
	Commodity string // Commodity name (required)
	ShipName  string // Restricts to ports the ship can use (optional)
	Location  string // Area filter at any level (optional)
	Amount    int    // Desired amount; adds a total per location when > 0
	Limit     int    // Maximum locations (default from policy)
}

// FindBestSellLocationsQuery asks where a commodity sells best
type FindBestSellLocationsQuery struct {
	Commodity string
	ShipName  string
	Location  string
	Amount    int
	Limit     int
}

// FindBestLocationsResponse lists trade ports for one commodity, best first
type FindBestLocationsResponse struct {
	Commodity string
	Amount    int
	Locations []*types.LocationPriceDTO
}

func (r *FindBestLocationsResponse) ResultCount() int {
	return len(r.Locations)
}

// FindBestBuyLocationsHandler handles best-buy-location queries
type FindBestBuyLocationsHandler struct {
	finder *services.PriceFinder
	policy services.TradingPolicy
}

func NewFindBestBuyLocationsHandler(finder *services.PriceFinder, policy services.TradingPolicy) *FindBestBuyLocationsHandler {
	return &FindBestBuyLocationsHandler{finder: finder, policy: policy}
}

// Handle executes the query
func (h *FindBestBuyLocationsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*FindBestBuyLocationsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	search, err := h.finder.BestBuyLocations(ctx, services.PriceRequest{
		Commodity: query.Commodity,
		ShipName:  query.ShipName,
		Location:  query.Location,
		Amount:    query.Amount,
		Limit:     defaultLimit(query.Limit, h.policy.DefaultLocationCount),
	})
	if err != nil {
		return nil, err
	}
	return toLocationsResponse(search, query.Amount), nil
}

// FindBestSellLocationsHandler handles best-sell-location queries
type FindBestSellLocationsHandler struct {
	finder *services.PriceFinder
	policy services.TradingPolicy
}

func NewFindBestSellLocationsHandler(finder *services.PriceFinder, policy services.TradingPolicy) *FindBestSellLocationsHandler {
	return &FindBestSellLocationsHandler{finder: finder, policy: policy}
}

// Handle executes the query
func (h *FindBestSellLocationsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*FindBestSellLocationsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	search, err := h.finder.BestSellLocations(ctx, services.PriceRequest{
		Commodity: query.Commodity,
		ShipName:  query.ShipName,
		Location:  query.Location,
		Amount:    query.Amount,
		Limit:     defaultLimit(query.Limit, h.policy.DefaultLocationCount),
	})
	if err != nil {
		return nil, err
	}
	return toLocationsResponse(search, query.Amount), nil
}

func defaultLimit(limit, fallback int) int {
	if limit > 0 {
		return limit
	}
	return fallback
}

func toLocationsResponse(search *services.PriceSearch, amount int) *FindBestLocationsResponse {
	dtos := make([]*types.LocationPriceDTO, len(search.Prices))
	for i, p := range search.Prices {
		dto := &types.LocationPriceDTO{
			Location:    p.Port.Name,
			Breadcrumb:  search.Catalog.Breadcrumb(p.Port),
			UnitPrice:   p.Offer.Price.InexactFloat64(),
			MaxQuantity: p.Offer.MaxQuantity,
			Quantity:    p.Quantity,
		}
		if p.Total != nil {
			total := p.Total.InexactFloat64()
			dto.Total = &total
		}
		dtos[i] = dto
	}
	return &FindBestLocationsResponse{
		Commodity: search.Commodity.Name,
		Amount:    amount,
		Locations: dtos,
	}
}
