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

// GetShipInfoQuery requests details about one ship
type GetShipInfoQuery struct {
	ShipName string
}

// GetShipInfoResponse contains the ship details
type GetShipInfoResponse struct {
	Ship *types.ShipDTO
}

// GetShipInfoHandler handles ship info queries
type GetShipInfoHandler struct {
	catalogs services.CatalogProvider
	resolver *resolver.Resolver
	policy   services.TradingPolicy
}

// NewGetShipInfoHandler creates a new handler
func NewGetShipInfoHandler(catalogs services.CatalogProvider, r *resolver.Resolver, policy services.TradingPolicy) *GetShipInfoHandler {
	return &GetShipInfoHandler{catalogs: catalogs, resolver: r, policy: policy}
}

// Handle executes the query
func (h *GetShipInfoHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetShipInfoQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if strings.TrimSpace(query.ShipName) == "" {
		return nil, shared.NewMissingParameterError("shipName", "No ship given. Ask for a ship.")
	}

	catalog, err := h.catalogs.Current(ctx)
	if err != nil {
		return nil, err
	}
	ship, ok := h.resolver.Ship(catalog, query.ShipName)
	if !ok {
		return nil, &shared.UnresolvedNameError{Names: []shared.UnresolvedName{{Parameter: "Ship", Value: query.ShipName}}}
	}
	return &GetShipInfoResponse{Ship: shipToDTO(catalog, ship, h.policy)}, nil
}

func shipToDTO(catalog *market.Catalog, ship market.Ship, policy services.TradingPolicy) *types.ShipDTO {
	dto := &types.ShipDTO{
		Name:            ship.Name,
		FullName:        ship.FullName,
		Manufacturer:    market.ManufacturerName(ship.Manufacturer),
		CargoCapacity:   ship.CargoCapacity,
		PledgePrice:     ship.PledgePrice.InexactFloat64(),
		Crew:            ship.Crew,
		HullTradingOnly: policy.IsHullTradingShip(ship),
	}
	for _, offer := range catalog.ShipOffers(ship.ID) {
		port, ok := catalog.TradePort(offer.LocationID)
		if !ok {
			continue
		}
		o := &types.ShipOfferDTO{
			Location:   port.Name,
			Breadcrumb: catalog.Breadcrumb(port),
			Price:      offer.Price.InexactFloat64(),
		}
		switch offer.Kind {
		case market.ShipOfferBuy:
			dto.BuyAt = append(dto.BuyAt, o)
		case market.ShipOfferRent:
			dto.RentAt = append(dto.RentAt, o)
		}
	}
	return dto
}
