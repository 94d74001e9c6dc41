package cli

import (
	"github.com/spf13/cobra"
)

// routeFlags are shared by the route command's flag set
type routeFlags struct {
	ship      string
	from      string
	to        string
	money     float64
	cargo     int
	commodity string
	count     int
	legal     bool
}

// NewRouteCommand finds the most profitable trading routes
func NewRouteCommand(connect connector) *cobra.Command {
	var f routeFlags

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Find the most profitable trading routes",
		Long: `Find the most profitable trading routes for a ship.

Every flag is optional. Locations may be trade ports or any containing
location such as a planet or star system.

Examples:
  uexcorp route --ship "Cutlass Black" --from Hurston --money 50000
  uexcorp route --from Lorville --to Crusader --commodity Agricium --count 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			arguments := map[string]interface{}{}
			setString(arguments, "shipName", f.ship)
			setString(arguments, "positionStartName", f.from)
			setString(arguments, "positionEndName", f.to)
			setString(arguments, "commodityName", f.commodity)
			if cmd.Flags().Changed("money") {
				arguments["moneyToSpend"] = f.money
			}
			if cmd.Flags().Changed("cargo") {
				arguments["freeCargoSpace"] = f.cargo
			}
			if cmd.Flags().Changed("legal-only") {
				arguments["illegalCommoditesAllowed"] = !f.legal
			}

			name := "get_best_trading_route"
			if f.count > 1 {
				name = "get_multiple_best_trading_routes"
				arguments["maximalNumberOfRoutes"] = f.count
			}
			return callAndPrint(cmd, connect, name, arguments)
		},
	}

	cmd.Flags().StringVar(&f.ship, "ship", "", "Ship name")
	cmd.Flags().StringVar(&f.from, "from", "", "Start location")
	cmd.Flags().StringVar(&f.to, "to", "", "End location")
	cmd.Flags().Float64Var(&f.money, "money", 0, "Money available to spend (aUEC)")
	cmd.Flags().IntVar(&f.cargo, "cargo", 0, "Free cargo space (SCU)")
	cmd.Flags().StringVar(&f.commodity, "commodity", "", "Only trade this commodity")
	cmd.Flags().IntVar(&f.count, "count", 1, "Number of routes")
	cmd.Flags().BoolVar(&f.legal, "legal-only", false, "Exclude illegal commodities")

	return cmd
}

// NewBuyCommand finds where to buy a commodity
func NewBuyCommand(connect connector) *cobra.Command {
	return newPriceCommand(connect, "buy", "get_best_location_to_buy_from", "get_multiple_best_locations_to_buy_from")
}

// NewSellCommand finds where to sell a commodity
func NewSellCommand(connect connector) *cobra.Command {
	return newPriceCommand(connect, "sell", "get_best_location_to_sell_to", "get_multiple_best_locations_to_sell_to")
}

func newPriceCommand(connect connector, verb, single, multiple string) *cobra.Command {
	var (
		ship   string
		near   string
		amount int
		count  int
	)

	cmd := &cobra.Command{
		Use:   verb + " <commodity>",
		Short: "Find the best locations to " + verb + " a commodity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arguments := map[string]interface{}{"commodityName": args[0]}
			setString(arguments, "shipName", ship)
			setString(arguments, "positionName", near)
			if cmd.Flags().Changed("amount") {
				arguments["commodityAmount"] = amount
			}

			name := single
			if count > 1 {
				name = multiple
				arguments["maximalNumberOfLocations"] = count
			}
			return callAndPrint(cmd, connect, name, arguments)
		},
	}

	cmd.Flags().StringVar(&ship, "ship", "", "Ship name")
	cmd.Flags().StringVar(&near, "near", "", "Only consider trade ports within this location")
	cmd.Flags().IntVar(&amount, "amount", 1, "Amount in SCU")
	cmd.Flags().IntVar(&count, "count", 1, "Number of locations")

	return cmd
}

func setString(arguments map[string]interface{}, name, value string) {
	if value != "" {
		arguments[name] = value
	}
}
