package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/uexcorp-go/internal/application/datacache"
	cacheCommands "github.com/andrescamacho/uexcorp-go/internal/application/datacache/commands"
	infoQueries "github.com/andrescamacho/uexcorp-go/internal/application/info/queries"
	"github.com/andrescamacho/uexcorp-go/internal/application/logging"
	"github.com/andrescamacho/uexcorp-go/internal/application/mediator"
	tradingQueries "github.com/andrescamacho/uexcorp-go/internal/application/trading/queries"
	"github.com/andrescamacho/uexcorp-go/internal/application/trading/services"
	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
)

// DebugLevel controls how much the assistant reports about its work
type DebugLevel string

const (
	DebugOff       DebugLevel = "off"
	DebugOn        DebugLevel = "on"
	DebugExtensive DebugLevel = "extensive"
)

// Options configures the facade
type Options struct {
	Debug                DebugLevel
	AdditionalContext    bool
	RememberArguments    bool
	DefaultRouteCount    int
	DefaultLocationCount int
}

// Result is the answer to one function call
type Result struct {
	Operation Operation   `json:"operation"`
	Text      string      `json:"text"`
	Data      interface{} `json:"-"`

	// RequestID identifies the error log entry of a failed call
	RequestID string `json:"request_id,omitempty"`
	Failed    bool   `json:"failed,omitempty"`
}

// Facade maps named function calls onto the application handlers
type Facade struct {
	mediator  mediator.Mediator
	catalogs  services.CatalogProvider
	clock     shared.Clock
	memory    *ArgumentMemory
	decoder   *argumentDecoder
	functions []FunctionSpec
	opts      Options
}

// NewFacade creates a facade dispatching through m. The handlers for every
// operation must already be registered.
func NewFacade(m mediator.Mediator, catalogs services.CatalogProvider, clock shared.Clock, opts Options) *Facade {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if opts.Debug == "" {
		opts.Debug = DebugOff
	}
	return &Facade{
		mediator:  m,
		catalogs:  catalogs,
		clock:     clock,
		memory:    NewArgumentMemory(),
		decoder:   newArgumentDecoder(),
		functions: buildFunctions(opts.DefaultRouteCount, opts.DefaultLocationCount, opts.Debug == DebugExtensive),
		opts:      opts,
	}
}

// Functions returns the declared operations
func (f *Facade) Functions() []FunctionSpec {
	out := make([]FunctionSpec, len(f.functions))
	copy(out, f.functions)
	return out
}

// Memory exposes the argument memory
func (f *Facade) Memory() *ArgumentMemory {
	return f.memory
}

func (f *Facade) function(op Operation) (FunctionSpec, bool) {
	for _, fn := range f.functions {
		if fn.Name == op {
			return fn, true
		}
	}
	return FunctionSpec{}, false
}

// Call executes one operation.
//
// Clarification outcomes (missing or unknown names, unusable positions) are
// regular results. Unexpected failures are logged with a request id and
// reported as a failed result. Only an unknown operation returns an error.
func (f *Facade) Call(ctx context.Context, name string, args map[string]interface{}) (*Result, error) {
	op, err := ParseOperation(name)
	if err != nil {
		return nil, err
	}
	fn, ok := f.function(op)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}

	logger := logging.LoggerFromContext(ctx)
	logger.Log(logging.LevelInfo, "Executing function", map[string]interface{}{
		"operation": string(op),
		"arguments": args,
	})

	prepared, err := f.prepare(ctx, fn, args)
	var (
		text string
		data interface{}
	)
	if err == nil {
		text, data, err = f.dispatch(ctx, op, prepared)
	}
	if err != nil {
		if answer, level, ok := clarification(err); ok {
			logger.Log(level, answer, map[string]interface{}{
				"operation": string(op),
				"error":     err.Error(),
			})
			return &Result{Operation: op, Text: answer}, nil
		}

		requestID := uuid.NewString()
		logger.Log(logging.LevelError, "Function call failed", map[string]interface{}{
			"request_id": requestID,
			"operation":  string(op),
			"arguments":  args,
			"error":      err.Error(),
		})
		return &Result{
			Operation: op,
			Text: fmt.Sprintf("Error while executing function %s (request %s). Tell the player there seems to be an error in the code that should be reported to the developers.",
				op, requestID),
			RequestID: requestID,
			Failed:    true,
		}, nil
	}

	f.remember(fn, prepared)
	logger.Log(logging.LevelDebug, "Function answered", map[string]interface{}{
		"operation": string(op),
		"answer":    text,
	})
	return &Result{Operation: op, Text: text, Data: data}, nil
}

// prepare drops absent values and unknown names, fills remembered values and
// defaults, then checks required parameters.
func (f *Facade) prepare(ctx context.Context, fn FunctionSpec, args map[string]interface{}) (map[string]interface{}, error) {
	logger := logging.LoggerFromContext(ctx)
	prepared := make(map[string]interface{}, len(fn.Parameters))
	for k, v := range args {
		if _, declared := fn.Parameter(k); !declared {
			logger.Log(logging.LevelDebug, "Ignoring undeclared argument", map[string]interface{}{
				"operation": string(fn.Name),
				"argument":  k,
			})
			continue
		}
		if !isAbsent(v) {
			prepared[k] = v
		}
	}

	for _, p := range fn.Parameters {
		v, given := prepared[p.Name]
		if p.Remember && (!given || isCurrent(v)) {
			delete(prepared, p.Name)
			if f.opts.RememberArguments {
				if recalled, ok := f.memory.Recall(p.Name); ok {
					logger.Log(logging.LevelDebug, "Using remembered argument", map[string]interface{}{
						"argument": p.Name,
						"value":    recalled,
					})
					prepared[p.Name] = recalled
				}
			}
		}
		if _, ok := prepared[p.Name]; !ok && p.Default != nil {
			prepared[p.Name] = p.Default
		}
		if _, ok := prepared[p.Name]; !ok && p.Required {
			return nil, shared.NewMissingParameterError(p.Name, p.Missing)
		}
	}
	return prepared, nil
}

func (f *Facade) remember(fn FunctionSpec, args map[string]interface{}) {
	if !f.opts.RememberArguments {
		return
	}
	for _, p := range fn.Parameters {
		if !p.Remember {
			continue
		}
		if v, ok := args[p.Name]; ok {
			f.memory.Remember(p.Name, v)
		}
	}
}

func (f *Facade) dispatch(ctx context.Context, op Operation, args map[string]interface{}) (string, interface{}, error) {
	switch op {
	case OpBestTradingRoute, OpMultipleBestTradingRoutes:
		return f.routes(ctx, op, args)
	case OpBestBuyLocation, OpMultipleBestBuyLocations, OpBestSellLocation, OpMultipleBestSellLocations:
		return f.locations(ctx, op, args)
	case OpShipInformation:
		var p ShipParams
		if err := f.decoder.decode(args, &p); err != nil {
			return "", nil, err
		}
		resp, err := f.mediator.Send(ctx, &infoQueries.GetShipInfoQuery{ShipName: p.ShipName})
		if err != nil {
			return "", nil, err
		}
		return formatShip(resp.(*infoQueries.GetShipInfoResponse)), resp, nil
	case OpShipComparison:
		var p ComparisonParams
		if err := f.decoder.decode(args, &p); err != nil {
			return "", nil, err
		}
		resp, err := f.mediator.Send(ctx, &infoQueries.CompareShipsQuery{ShipNames: p.ShipNames})
		if err != nil {
			return "", nil, err
		}
		return formatComparison(resp.(*infoQueries.CompareShipsResponse)), resp, nil
	case OpLocationInformation:
		var p LocationInfoParams
		if err := f.decoder.decode(args, &p); err != nil {
			return "", nil, err
		}
		resp, err := f.mediator.Send(ctx, &infoQueries.GetLocationInfoQuery{LocationName: p.LocationName})
		if err != nil {
			return "", nil, err
		}
		return formatLocation(resp.(*infoQueries.GetLocationInfoResponse)), resp, nil
	case OpCommodityInformation:
		var p CommodityParams
		if err := f.decoder.decode(args, &p); err != nil {
			return "", nil, err
		}
		resp, err := f.mediator.Send(ctx, &infoQueries.GetCommodityInfoQuery{CommodityName: p.CommodityName})
		if err != nil {
			return "", nil, err
		}
		return formatCommodity(resp.(*infoQueries.GetCommodityInfoResponse)), resp, nil
	case OpReloadPrices:
		return f.reload(ctx)
	case OpShowCachedValues:
		values := f.memory.Snapshot()
		return formatMemory(values), values, nil
	}
	return "", nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
}

func (f *Facade) routes(ctx context.Context, op Operation, args map[string]interface{}) (string, interface{}, error) {
	var p RouteParams
	if err := f.decoder.decode(args, &p); err != nil {
		return "", nil, err
	}
	query := &tradingQueries.FindTradingRoutesQuery{
		ShipName:       p.ShipName,
		FreeCargoSpace: p.FreeCargoSpace,
		Origin:         p.PositionStartName,
		Destination:    p.PositionEndName,
		Commodity:      p.CommodityName,
		IllegalAllowed: p.IllegalCommoditesAllowed,
		Limit:          p.MaximalNumberOfRoutes,
	}
	if p.MoneyToSpend != nil {
		budget := decimal.NewFromFloat(*p.MoneyToSpend)
		query.Budget = &budget
	}
	if op.single() {
		query.Limit = 1
	}

	resp, err := f.mediator.Send(ctx, query)
	if err != nil {
		return "", nil, err
	}
	routes := resp.(*tradingQueries.FindTradingRoutesResponse)
	return formatRoutes(op, routes), routes, nil
}

func (f *Facade) locations(ctx context.Context, op Operation, args map[string]interface{}) (string, interface{}, error) {
	var p LocationParams
	if err := f.decoder.decode(args, &p); err != nil {
		return "", nil, err
	}
	limit := p.MaximalNumberOfLocations
	if op.single() {
		limit = 1
	}

	var (
		request mediator.Request
		verb    string
	)
	switch op {
	case OpBestBuyLocation, OpMultipleBestBuyLocations:
		verb = "buy"
		request = &tradingQueries.FindBestBuyLocationsQuery{
			Commodity: p.CommodityName, ShipName: p.ShipName, Location: p.PositionName, Amount: p.CommodityAmount, Limit: limit,
		}
	default:
		verb = "sell"
		request = &tradingQueries.FindBestSellLocationsQuery{
			Commodity: p.CommodityName, ShipName: p.ShipName, Location: p.PositionName, Amount: p.CommodityAmount, Limit: limit,
		}
	}

	resp, err := f.mediator.Send(ctx, request)
	if err != nil {
		return "", nil, err
	}
	locations := resp.(*tradingQueries.FindBestLocationsResponse)
	return formatLocations(verb, locations), locations, nil
}

func (f *Facade) reload(ctx context.Context) (string, interface{}, error) {
	resp, err := f.mediator.Send(ctx, &cacheCommands.RefreshPricesCommand{})
	var stale *datacache.StaleDataError
	if err != nil && !errors.As(err, &stale) {
		return "", nil, err
	}
	f.memory.Clear()
	summary := resp.(*cacheCommands.RefreshPricesResponse)
	if stale != nil {
		return formatStaleReload(summary.FetchedAt, f.clock.Now()), summary, nil
	}
	return textReloaded, summary, nil
}

// clarification maps expected failures to the text the caller should relay
func clarification(err error) (string, string, bool) {
	var (
		missing    *shared.MissingParameterError
		unresolved *shared.UnresolvedNameError
	)
	switch {
	case errors.As(err, &missing):
		return missing.Message, logging.LevelDebug, true
	case errors.As(err, &unresolved):
		parts := make([]string, 0, len(unresolved.Names))
		for _, n := range unresolved.Names {
			parts = append(parts, n.Parameter+": "+n.Value)
		}
		return "These given parameters do not exist in game. Exactly ask for clarification of these values: " +
			strings.Join(parts, ", "), logging.LevelDebug, true
	case errors.Is(err, services.ErrSameStartAndEnd):
		return "Start and end position are the same.", logging.LevelDebug, true
	case errors.Is(err, services.ErrIncompatibleStart):
		return "No valid start position given. Make sure to provide a start point compatible with your ship.", logging.LevelDebug, true
	case errors.Is(err, services.ErrInvalidStart):
		return "No valid start position given. Try a different position or just name a planet or star system.", logging.LevelDebug, true
	case errors.Is(err, services.ErrInvalidEnd):
		return "No valid end position given. Try a different position or just name a planet or star system.", logging.LevelDebug, true
	case errors.Is(err, ErrInvalidArguments):
		return "Some function parameters are invalid, ask for valid values. " + err.Error(), logging.LevelWarning, true
	case errors.Is(err, datacache.ErrNoSnapshot):
		return "No trading data could be loaded from UEX corp. Tell the player to check the UEX corp API key and the network connection, then reload the prices.",
			logging.LevelWarning, true
	}
	return "", "", false
}
