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

// CompareShipsQuery compares several ships. Each name is resolved on its own.
type CompareShipsQuery struct {
	ShipNames []string
}

// CompareShipsResponse lists the resolved ships, the deltas of every ship
// against the first one and the names that could not be resolved
type CompareShipsResponse struct {
	Ships         []*types.ShipDTO
	Deltas        []*types.ShipDeltaDTO
	Unresolved    []string
	LargestCargo  string
	SmallestCargo string
	Cheapest      string
	MostExpensive string
}

// CompareShipsHandler handles ship comparison queries
type CompareShipsHandler struct {
	catalogs services.CatalogProvider
	resolver *resolver.Resolver
	policy   services.TradingPolicy
}

// NewCompareShipsHandler creates a new handler
func NewCompareShipsHandler(catalogs services.CatalogProvider, r *resolver.Resolver, policy services.TradingPolicy) *CompareShipsHandler {
	return &CompareShipsHandler{catalogs: catalogs, resolver: r, policy: policy}
}

// Handle executes the query. An unresolved name does not fail the
// comparison; it is reported next to the ships that did resolve. Only when
// no name resolves at all an *shared.UnresolvedNameError is returned.
func (h *CompareShipsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*CompareShipsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	var names []string
	for _, n := range query.ShipNames {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) < 2 {
		return nil, shared.NewMissingParameterError("shipNames", "Name at least two ships to compare.")
	}

	catalog, err := h.catalogs.Current(ctx)
	if err != nil {
		return nil, err
	}

	resp := &CompareShipsResponse{}
	unresolved := &shared.UnresolvedNameError{}
	var ships []market.Ship
	seen := make(map[int]bool)
	for _, name := range names {
		ship, found := h.resolver.Ship(catalog, name)
		if !found {
			resp.Unresolved = append(resp.Unresolved, name)
			unresolved.Add("Ship", name)
			continue
		}
		if seen[ship.ID] {
			continue
		}
		seen[ship.ID] = true
		ships = append(ships, ship)
		resp.Ships = append(resp.Ships, shipToDTO(catalog, ship, h.policy))
	}
	if len(ships) == 0 {
		return nil, unresolved
	}

	base := ships[0]
	largest, smallest, cheapest, priciest := base, base, base, base
	for _, s := range ships[1:] {
		resp.Deltas = append(resp.Deltas, &types.ShipDeltaDTO{
			Name:             s.Name,
			Against:          base.Name,
			CargoDelta:       s.CargoCapacity - base.CargoCapacity,
			PriceDelta:       s.PledgePrice.Sub(base.PledgePrice).InexactFloat64(),
			SameManufacturer: strings.EqualFold(s.Manufacturer, base.Manufacturer),
		})
	}
	for _, s := range ships[1:] {
		if s.CargoCapacity > largest.CargoCapacity {
			largest = s
		}
		if s.CargoCapacity < smallest.CargoCapacity {
			smallest = s
		}
		if s.PledgePrice.LessThan(cheapest.PledgePrice) {
			cheapest = s
		}
		if s.PledgePrice.GreaterThan(priciest.PledgePrice) {
			priciest = s
		}
	}
	resp.LargestCargo = largest.Name
	resp.SmallestCargo = smallest.Name
	resp.Cheapest = cheapest.Name
	resp.MostExpensive = priciest.Name
	return resp, nil
}
