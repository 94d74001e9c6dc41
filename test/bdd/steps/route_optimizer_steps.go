package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
	"github.com/andrescamacho/uexcorp-go/internal/domain/trading"
	"github.com/andrescamacho/uexcorp-go/test/helpers"
)

type routeOptimizerContext struct {
	catalog     *market.Catalog
	constraints trading.RouteConstraints
	routes      []trading.Route
}

func (c *routeOptimizerContext) reset() {
	c.catalog = nil
	c.constraints = trading.RouteConstraints{}
	c.routes = nil
}

// Setup steps

func (c *routeOptimizerContext) theReferenceTradingData() error {
	c.catalog = market.NewCatalog(helpers.IronScenario())
	return nil
}

func (c *routeOptimizerContext) theStantonTradingData() error {
	c.catalog = market.NewCatalog(helpers.StantonScenario())
	return nil
}

func (c *routeOptimizerContext) aCargoCapacityOf(scu int) error {
	c.constraints.CargoCapacity = scu
	return nil
}

func (c *routeOptimizerContext) aBudgetOf(aUEC int64) error {
	b := decimal.NewFromInt(aUEC)
	c.constraints.Budget = &b
	return nil
}

func (c *routeOptimizerContext) aBlacklistRuleForCommodity(commodity string) error {
	return c.addRule("", commodity)
}

func (c *routeOptimizerContext) aBlacklistRuleForLocation(location string) error {
	return c.addRule(location, "")
}

func (c *routeOptimizerContext) addRule(location, commodity string) error {
	rule, err := trading.NewBlacklistRule(location, commodity)
	if err != nil {
		return err
	}
	c.constraints.Blacklist = append(c.constraints.Blacklist, rule)
	return nil
}

func (c *routeOptimizerContext) routesAreSummarizedByCommodity() error {
	c.constraints.SummarizeByCommodity = true
	return nil
}

func (c *routeOptimizerContext) illegalCommoditiesAreExcluded() error {
	c.constraints.ExcludeIllegal = true
	return nil
}

func (c *routeOptimizerContext) atMostRoutesAreRequested(n int) error {
	c.constraints.Limit = n
	return nil
}

// Action steps

func (c *routeOptimizerContext) iSearchForTradingRoutes() error {
	if c.catalog == nil {
		return fmt.Errorf("no trading data loaded")
	}
	c.routes = trading.NewRouteOptimizer().FindRoutes(c.catalog, c.constraints)
	return nil
}

// Assertion steps

func (c *routeOptimizerContext) iShouldGetRoutes(n int) error {
	if len(c.routes) != n {
		return fmt.Errorf("expected %d routes, got %d: %v", n, len(c.routes), c.routes)
	}
	return nil
}

func (c *routeOptimizerContext) iShouldGetAtLeastRoutes(n int) error {
	if len(c.routes) < n {
		return fmt.Errorf("expected at least %d routes, got %d", n, len(c.routes))
	}
	return nil
}

func (c *routeOptimizerContext) route(index int) (trading.Route, error) {
	if index < 1 || index > len(c.routes) {
		return trading.Route{}, fmt.Errorf("route %d does not exist, got %d routes", index, len(c.routes))
	}
	return c.routes[index-1], nil
}

func (c *routeOptimizerContext) routeShouldBuyAndSell(index, quantity int, commodity, origin, destination string) error {
	r, err := c.route(index)
	if err != nil {
		return err
	}
	if r.Quantity() != quantity {
		return fmt.Errorf("expected quantity %d, got %d", quantity, r.Quantity())
	}
	if r.Commodity().Name != commodity {
		return fmt.Errorf("expected commodity %s, got %s", commodity, r.Commodity().Name)
	}
	if r.Origin().Name != origin || r.Destination().Name != destination {
		return fmt.Errorf("expected %s -> %s, got %s -> %s", origin, destination, r.Origin().Name, r.Destination().Name)
	}
	return nil
}

func (c *routeOptimizerContext) routeShouldCostEarnAndProfit(index int, cost, revenue, profit int64) error {
	r, err := c.route(index)
	if err != nil {
		return err
	}
	checks := []struct {
		name     string
		got      decimal.Decimal
		expected int64
	}{
		{"cost", r.TotalCost(), cost},
		{"revenue", r.TotalRevenue(), revenue},
		{"profit", r.Profit(), profit},
	}
	for _, check := range checks {
		if !check.got.Equal(decimal.NewFromInt(check.expected)) {
			return fmt.Errorf("expected %s %d, got %s", check.name, check.expected, check.got)
		}
	}
	return nil
}

func (c *routeOptimizerContext) routesShouldBeSortedByProfitDescending() error {
	for i := 1; i < len(c.routes); i++ {
		if c.routes[i].Profit().GreaterThan(c.routes[i-1].Profit()) {
			return fmt.Errorf("route %d (%s) earns more than route %d (%s)",
				i+1, c.routes[i].Profit(), i, c.routes[i-1].Profit())
		}
	}
	return nil
}

func (c *routeOptimizerContext) everyRouteShouldBeAProfitablePair() error {
	for i, r := range c.routes {
		buy, sell := r.BuyOffer(), r.SellOffer()
		if buy.LocationID == sell.LocationID {
			return fmt.Errorf("route %d buys and sells at the same location", i+1)
		}
		if buy.CommodityID != sell.CommodityID {
			return fmt.Errorf("route %d buys and sells different commodities", i+1)
		}
		if !sell.Price.GreaterThan(buy.Price) {
			return fmt.Errorf("route %d sells at %s, not above the buy price %s", i+1, sell.Price, buy.Price)
		}
	}
	return nil
}

func (c *routeOptimizerContext) noTwoRoutesShouldTradeTheSameCommodity() error {
	seen := make(map[int]bool)
	for _, r := range c.routes {
		if seen[r.Commodity().ID] {
			return fmt.Errorf("commodity %s appears in more than one route", r.Commodity().Name)
		}
		seen[r.Commodity().ID] = true
	}
	return nil
}

func (c *routeOptimizerContext) noRouteShouldTrade(commodity string) error {
	for _, r := range c.routes {
		if r.Commodity().Name == commodity {
			return fmt.Errorf("found route trading %s: %v", commodity, r)
		}
	}
	return nil
}

func (c *routeOptimizerContext) noRouteShouldTouchATradePortWithin(location string) error {
	for _, r := range c.routes {
		for _, port := range []market.Location{r.Origin(), r.Destination()} {
			if port.Name == location {
				return fmt.Errorf("route %v touches %s", r, location)
			}
			for _, ancestor := range c.catalog.Ancestors(port) {
				if ancestor.Name == location {
					return fmt.Errorf("route %v touches %s within %s", r, port.Name, location)
				}
			}
		}
	}
	return nil
}

// InitializeRouteOptimizerScenario registers the route optimizer steps
func InitializeRouteOptimizerScenario(sc *godog.ScenarioContext) {
	c := &routeOptimizerContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^the reference trading data$`, c.theReferenceTradingData)
	sc.Step(`^the Stanton trading data$`, c.theStantonTradingData)
	sc.Step(`^a cargo capacity of (\d+) SCU$`, c.aCargoCapacityOf)
	sc.Step(`^a budget of (\d+) aUEC$`, c.aBudgetOf)
	sc.Step(`^a blacklist rule for commodity "([^"]*)"$`, c.aBlacklistRuleForCommodity)
	sc.Step(`^a blacklist rule for location "([^"]*)"$`, c.aBlacklistRuleForLocation)
	sc.Step(`^routes are summarized by commodity$`, c.routesAreSummarizedByCommodity)
	sc.Step(`^illegal commodities are excluded$`, c.illegalCommoditiesAreExcluded)
	sc.Step(`^at most (\d+) routes are requested$`, c.atMostRoutesAreRequested)

	sc.Step(`^I search for trading routes$`, c.iSearchForTradingRoutes)

	sc.Step(`^I should get (\d+) routes?$`, c.iShouldGetRoutes)
	sc.Step(`^I should get at least (\d+) routes$`, c.iShouldGetAtLeastRoutes)
	sc.Step(`^route (\d+) should buy (\d+) SCU of "([^"]*)" at "([^"]*)" and sell at "([^"]*)"$`, c.routeShouldBuyAndSell)
	sc.Step(`^route (\d+) should cost (\d+) aUEC, earn (\d+) aUEC and make (\d+) aUEC profit$`, c.routeShouldCostEarnAndProfit)
	sc.Step(`^routes should be sorted by profit descending$`, c.routesShouldBeSortedByProfitDescending)
	sc.Step(`^every route should buy and sell the same commodity at different locations for a profit$`, c.everyRouteShouldBeAProfitablePair)
	sc.Step(`^no two routes should trade the same commodity$`, c.noTwoRoutesShouldTradeTheSameCommodity)
	sc.Step(`^no route should trade "([^"]*)"$`, c.noRouteShouldTrade)
	sc.Step(`^no route should touch a trade port within "([^"]*)"$`, c.noRouteShouldTouchATradePortWithin)
}
