package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/uexcorp-go/internal/application/mediator"
	"github.com/andrescamacho/uexcorp-go/internal/application/trading/services"
	"github.com/andrescamacho/uexcorp-go/internal/application/trading/types"
	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
	"github.com/andrescamacho/uexcorp-go/internal/domain/trading"
)

// FindTradingRoutesQuery requests the most profitable buy-then-sell routes
type FindTradingRoutesQuery struct {
	ShipName       string           // Ship whose cargo hold is used (required unless FreeCargoSpace is set)
	FreeCargoSpace *int             // Free cargo space in SCU, capped at the ship's capacity
	Budget         *decimal.Decimal // Money to spend (nil = unbounded)
	Origin         string           // Start location at any level (optional unless policy requires it)
	Destination    string           // End location at any level (optional)
	Commodity      string           // Restrict to one commodity (optional)
	IllegalAllowed bool             // Include illegal commodities
	Limit          int              // Maximum routes (default from policy)
}

// FindTradingRoutesResponse contains the ranked routes
type FindTradingRoutesResponse struct {
	Routes []*types.RouteDTO
	Ship   string
	Cargo  int
	Limit  int
}

// ResultCount reports the number of routes found
func (r *FindTradingRoutesResponse) ResultCount() int {
	return len(r.Routes)
}

// FindTradingRoutesHandler handles trading route queries
type FindTradingRoutesHandler struct {
	finder *services.TradingRouteFinder
	clock  shared.Clock
}

// NewFindTradingRoutesHandler creates a new handler
func NewFindTradingRoutesHandler(finder *services.TradingRouteFinder, clock shared.Clock) *FindTradingRoutesHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &FindTradingRoutesHandler{finder: finder, clock: clock}
}

// Handle executes the query
func (h *FindTradingRoutesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*FindTradingRoutesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = h.finder.Policy().DefaultRouteCount
	}

	search, err := h.finder.FindRoutes(ctx, services.RouteRequest{
		ShipName:       query.ShipName,
		FreeCargoSpace: query.FreeCargoSpace,
		Budget:         query.Budget,
		Origin:         query.Origin,
		Destination:    query.Destination,
		Commodity:      query.Commodity,
		IllegalAllowed: query.IllegalAllowed,
		Limit:          limit,
	})
	if err != nil {
		return nil, err
	}

	resp := &FindTradingRoutesResponse{
		Routes: convertRoutesToDTOs(search.Catalog, search.Routes, h.clock.Now()),
		Cargo:  search.Cargo,
		Limit:  limit,
	}
	if search.Ship != nil {
		resp.Ship = search.Ship.Name
	}
	return resp, nil
}

func convertRoutesToDTOs(catalog *market.Catalog, routes []trading.Route, now time.Time) []*types.RouteDTO {
	dtos := make([]*types.RouteDTO, len(routes))
	for i, r := range routes {
		updated := r.BuyOffer().UpdatedAt
		if r.SellOffer().UpdatedAt.Before(updated) {
			updated = r.SellOffer().UpdatedAt
		}
		dtos[i] = &types.RouteDTO{
			Commodity:         r.Commodity().Name,
			Illegal:           r.Commodity().Illegal,
			Quantity:          r.Quantity(),
			BuyLocation:       r.Origin().Name,
			BuyBreadcrumb:     catalog.Breadcrumb(r.Origin()),
			SellLocation:      r.Destination().Name,
			SellBreadcrumb:    catalog.Breadcrumb(r.Destination()),
			BuyPrice:          r.BuyOffer().Price.InexactFloat64(),
			SellPrice:         r.SellOffer().Price.InexactFloat64(),
			TotalCost:         r.TotalCost().InexactFloat64(),
			TotalRevenue:      r.TotalRevenue().InexactFloat64(),
			Profit:            r.Profit().InexactFloat64(),
			ProfitPerUnit:     r.ProfitPerUnit().InexactFloat64(),
			BuyMaxQuantity:    r.BuyOffer().MaxQuantity,
			SellMaxQuantity:   r.SellOffer().MaxQuantity,
			PricesUpdatedDays: ageInDays(updated, now),
		}
	}
	return dtos
}

func ageInDays(t, now time.Time) int {
	if t.IsZero() || now.Before(t) {
		return 0
	}
	return int(now.Sub(t).Hours() / 24)
}
