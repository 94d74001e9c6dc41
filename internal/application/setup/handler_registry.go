package setup

import (
	"reflect"

	cacheCommands "github.com/andrescamacho/uexcorp-go/internal/application/datacache/commands"
	infoQueries "github.com/andrescamacho/uexcorp-go/internal/application/info/queries"
	"github.com/andrescamacho/uexcorp-go/internal/application/mediator"
	"github.com/andrescamacho/uexcorp-go/internal/application/resolver"
	tradingQueries "github.com/andrescamacho/uexcorp-go/internal/application/trading/queries"
	"github.com/andrescamacho/uexcorp-go/internal/application/trading/services"
	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
	"github.com/andrescamacho/uexcorp-go/internal/domain/trading"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	catalogs  services.CatalogProvider
	refresher cacheCommands.Refresher
	resolver  *resolver.Resolver
	optimizer *trading.RouteOptimizer
	policy    services.TradingPolicy
	clock     shared.Clock
}

// NewHandlerRegistry creates a new handler registry with required dependencies
func NewHandlerRegistry(
	catalogs services.CatalogProvider,
	refresher cacheCommands.Refresher,
	policy services.TradingPolicy,
	clock shared.Clock,
) *HandlerRegistry {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &HandlerRegistry{
		catalogs:  catalogs,
		refresher: refresher,
		resolver:  resolver.New(),
		optimizer: trading.NewRouteOptimizer(),
		policy:    policy,
		clock:     clock,
	}
}

// RegisterAll registers every handler the assistant dispatches to
func (r *HandlerRegistry) RegisterAll(m mediator.Mediator) error {
	if err := r.RegisterTradingHandlers(m); err != nil {
		return err
	}
	if err := r.RegisterInfoHandlers(m); err != nil {
		return err
	}
	return r.RegisterDataHandlers(m)
}

// RegisterTradingHandlers registers the route and price queries
//
// This method registers:
//   - FindTradingRoutesQuery → FindTradingRoutesHandler
//   - FindBestBuyLocationsQuery → FindBestBuyLocationsHandler
//   - FindBestSellLocationsQuery → FindBestSellLocationsHandler
func (r *HandlerRegistry) RegisterTradingHandlers(m mediator.Mediator) error {
	routeFinder := services.NewTradingRouteFinder(r.catalogs, r.resolver, r.optimizer, r.policy)
	if err := m.Register(
		reflect.TypeOf(&tradingQueries.FindTradingRoutesQuery{}),
		tradingQueries.NewFindTradingRoutesHandler(routeFinder, r.clock),
	); err != nil {
		return err
	}

	priceFinder := services.NewPriceFinder(r.catalogs, r.resolver, r.policy)
	if err := m.Register(
		reflect.TypeOf(&tradingQueries.FindBestBuyLocationsQuery{}),
		tradingQueries.NewFindBestBuyLocationsHandler(priceFinder, r.policy),
	); err != nil {
		return err
	}

	if err := m.Register(
		reflect.TypeOf(&tradingQueries.FindBestSellLocationsQuery{}),
		tradingQueries.NewFindBestSellLocationsHandler(priceFinder, r.policy),
	); err != nil {
		return err
	}

	return nil
}

// RegisterInfoHandlers registers the ship, location and commodity lookups
func (r *HandlerRegistry) RegisterInfoHandlers(m mediator.Mediator) error {
	handlers := map[reflect.Type]mediator.RequestHandler{
		reflect.TypeOf(&infoQueries.GetShipInfoQuery{}):      infoQueries.NewGetShipInfoHandler(r.catalogs, r.resolver, r.policy),
		reflect.TypeOf(&infoQueries.CompareShipsQuery{}):     infoQueries.NewCompareShipsHandler(r.catalogs, r.resolver, r.policy),
		reflect.TypeOf(&infoQueries.GetLocationInfoQuery{}):  infoQueries.NewGetLocationInfoHandler(r.catalogs, r.resolver, r.policy),
		reflect.TypeOf(&infoQueries.GetCommodityInfoQuery{}): infoQueries.NewGetCommodityInfoHandler(r.catalogs, r.resolver, r.policy),
	}
	for t, h := range handlers {
		if err := m.Register(t, h); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDataHandlers registers the price refresh command
func (r *HandlerRegistry) RegisterDataHandlers(m mediator.Mediator) error {
	return m.Register(
		reflect.TypeOf(&cacheCommands.RefreshPricesCommand{}),
		cacheCommands.NewRefreshPricesHandler(r.refresher),
	)
}
