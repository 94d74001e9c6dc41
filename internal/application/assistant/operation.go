// Package assistant exposes the trading functions to a conversational caller.
//
// The caller picks one Operation from a closed set and passes loosely typed
// arguments. The Facade decodes them against the operation's declared
// parameters, dispatches to the application handlers and renders a compact
// text answer for the summarizing language model.
package assistant

import "fmt"

// Operation names one callable function
type Operation string

const (
	OpBestTradingRoute          Operation = "get_best_trading_route"
	OpMultipleBestTradingRoutes Operation = "get_multiple_best_trading_routes"
	OpBestBuyLocation           Operation = "get_best_location_to_buy_from"
	OpMultipleBestBuyLocations  Operation = "get_multiple_best_locations_to_buy_from"
	OpBestSellLocation          Operation = "get_best_location_to_sell_to"
	OpMultipleBestSellLocations Operation = "get_multiple_best_locations_to_sell_to"
	OpShipInformation           Operation = "get_ship_information"
	OpShipComparison            Operation = "get_ship_comparison"
	OpLocationInformation       Operation = "get_location_information"
	OpCommodityInformation      Operation = "get_commodity_information"
	OpReloadPrices              Operation = "reload_current_commodity_prices"
	OpShowCachedValues          Operation = "show_cached_function_values"
)

var operations = []Operation{
	OpBestTradingRoute,
	OpMultipleBestTradingRoutes,
	OpBestBuyLocation,
	OpMultipleBestBuyLocations,
	OpBestSellLocation,
	OpMultipleBestSellLocations,
	OpShipInformation,
	OpShipComparison,
	OpLocationInformation,
	OpCommodityInformation,
	OpReloadPrices,
	OpShowCachedValues,
}

// ParseOperation validates an operation name
func ParseOperation(name string) (Operation, error) {
	for _, op := range operations {
		if string(op) == name {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}

// single reports whether the operation returns exactly one result
func (o Operation) single() bool {
	switch o {
	case OpBestTradingRoute, OpBestBuyLocation, OpBestSellLocation:
		return true
	}
	return false
}
