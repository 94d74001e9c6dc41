package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/uexcorp-go/internal/application/logging"
	"github.com/andrescamacho/uexcorp-go/internal/application/resolver"
	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
	"github.com/andrescamacho/uexcorp-go/internal/domain/trading"
)

// CatalogProvider returns the active market catalog
type CatalogProvider interface {
	Current(ctx context.Context) (*market.Catalog, error)
}

// RouteRequest carries the unresolved, user supplied route constraints
type RouteRequest struct {
	ShipName       string
	FreeCargoSpace *int
	Budget         *decimal.Decimal
	Origin         string
	Destination    string
	Commodity      string
	IllegalAllowed bool
	Limit          int
}

// RouteSearch is the outcome of a route search
type RouteSearch struct {
	Catalog *market.Catalog
	Ship    *market.Ship
	Cargo   int
	Routes  []trading.Route
}

// TradingRouteFinder resolves user supplied constraints against the catalog
// and delegates the pair search to the domain optimizer.
type TradingRouteFinder struct {
	catalogs  CatalogProvider
	resolver  *resolver.Resolver
	optimizer *trading.RouteOptimizer
	policy    TradingPolicy
}

// NewTradingRouteFinder creates a new route finder
func NewTradingRouteFinder(catalogs CatalogProvider, r *resolver.Resolver, optimizer *trading.RouteOptimizer, policy TradingPolicy) *TradingRouteFinder {
	return &TradingRouteFinder{
		catalogs:  catalogs,
		resolver:  r,
		optimizer: optimizer,
		policy:    policy,
	}
}

// Policy returns the trading policy in effect
func (f *TradingRouteFinder) Policy() TradingPolicy {
	return f.policy
}

// FindRoutes resolves names, applies policy and searches routes.
//
// Returns a *shared.MissingParameterError when neither ship nor cargo space
// is given or when a mandatory start is missing, and a
// *shared.UnresolvedNameError listing every name that matched nothing.
func (f *TradingRouteFinder) FindRoutes(ctx context.Context, req RouteRequest) (*RouteSearch, error) {
	logger := logging.LoggerFromContext(ctx)

	if strings.TrimSpace(req.ShipName) == "" && req.FreeCargoSpace == nil {
		return nil, shared.NewMissingParameterError("shipName", "No ship given. Ask for a ship.")
	}
	if f.policy.TradeStartMandatory && strings.TrimSpace(req.Origin) == "" {
		return nil, shared.NewMissingParameterError("positionStartName",
			"No start position given. Ask for a start position. (Station, Planet, Moon, City or System)")
	}

	catalog, err := f.catalogs.Current(ctx)
	if err != nil {
		return nil, err
	}

	unresolved := &shared.UnresolvedNameError{}
	var ship *market.Ship
	if name := strings.TrimSpace(req.ShipName); name != "" {
		if s, ok := f.resolver.Ship(catalog, name); ok {
			ship = &s
		} else {
			unresolved.Add("Ship", name)
		}
	}
	var origin, destination *market.Location
	if name := strings.TrimSpace(req.Origin); name != "" {
		if l, ok := f.resolver.Location(catalog, name); ok {
			origin = &l
		} else {
			unresolved.Add("Position Start", name)
		}
	}
	if name := strings.TrimSpace(req.Destination); name != "" {
		if l, ok := f.resolver.Location(catalog, name); ok {
			destination = &l
		} else {
			unresolved.Add("Position End", name)
		}
	}
	commodityID := 0
	if name := strings.TrimSpace(req.Commodity); name != "" {
		if c, ok := f.resolver.Commodity(catalog, name); ok {
			commodityID = c.ID
		} else {
			unresolved.Add("Commodity", name)
		}
	}
	if err := unresolved.OrNil(); err != nil {
		return nil, err
	}

	cargo := 0
	if ship != nil {
		cargo = ship.CargoCapacity
	}
	if req.FreeCargoSpace != nil {
		cargo = *req.FreeCargoSpace
		if ship != nil && cargo > ship.CargoCapacity {
			cargo = ship.CargoCapacity
		}
	}

	constraints := trading.RouteConstraints{
		CargoCapacity:        cargo,
		Budget:               req.Budget,
		CommodityID:          commodityID,
		ExcludeIllegal:       !req.IllegalAllowed,
		Blacklist:            f.policy.Blacklist,
		SummarizeByCommodity: f.policy.SummarizeByCommodity,
		Limit:                req.Limit,
	}
	if constraints.Limit <= 0 {
		constraints.Limit = f.policy.DefaultRouteCount
	}

	origins, err := f.portSet(catalog, origin, ship)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStart, err)
	}
	if origins != nil && len(origins) == 0 && ship != nil && f.policy.IsHullTradingShip(*ship) {
		return nil, ErrIncompatibleStart
	}
	destinations, err := f.portSet(catalog, destination, ship)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEnd, err)
	}
	if origin != nil && destination != nil && len(origins) == 1 && len(destinations) == 1 && origins[0] == destinations[0] {
		return nil, ErrSameStartAndEnd
	}
	constraints.Origins, constraints.Destinations = origins, destinations

	logger.Log(logging.LevelDebug, "Searching trading routes", map[string]interface{}{
		"cargo":        cargo,
		"budget":       decimalOrNil(req.Budget),
		"origins":      len(origins),
		"destinations": len(destinations),
		"commodity_id": commodityID,
		"illegal":      req.IllegalAllowed,
		"limit":        constraints.Limit,
	})

	routes := f.optimizer.FindRoutes(catalog, constraints)
	return &RouteSearch{Catalog: catalog, Ship: ship, Cargo: cargo, Routes: routes}, nil
}

// portSet returns the trade port ids a location stands for, narrowed to the
// ports the ship may use. nil means "every port".
func (f *TradingRouteFinder) portSet(catalog *market.Catalog, loc *market.Location, ship *market.Ship) ([]int, error) {
	var ports []market.Location
	if loc == nil {
		if ship == nil || !f.policy.IsHullTradingShip(*ship) {
			return nil, nil
		}
		ports = catalog.TradePorts()
	} else {
		ports = catalog.TradePortsWithin(*loc)
		if len(ports) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoTradePorts, loc.Name)
		}
	}
	ports = f.policy.RestrictForShip(catalog, ship, ports)
	ids := make([]int, len(ports))
	for i, p := range ports {
		ids[i] = p.ID
	}
	return ids, nil
}

func decimalOrNil(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}
