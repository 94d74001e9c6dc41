package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewShipCommand shows ship information
func NewShipCommand(connect connector) *cobra.Command {
	return &cobra.Command{
		Use:   "ship <name>",
		Short: "Show ship cargo, prices and where to buy or rent it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return callAndPrint(cmd, connect, "get_ship_information", map[string]interface{}{"shipName": args[0]})
		},
	}
}

// NewCompareCommand compares ships
func NewCompareCommand(connect connector) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <ship> <ship> [ship...]",
		Short: "Compare two or more ships",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := make([]interface{}, len(args))
			for i, a := range args {
				names[i] = a
			}
			return callAndPrint(cmd, connect, "get_ship_comparison", map[string]interface{}{"shipNames": names})
		},
	}
}

// NewLocationCommand shows location information
func NewLocationCommand(connect connector) *cobra.Command {
	return &cobra.Command{
		Use:   "location <name>",
		Short: "Show what a location trades or contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return callAndPrint(cmd, connect, "get_location_information", map[string]interface{}{"locationName": args[0]})
		},
	}
}

// NewCommodityCommand shows commodity information
func NewCommodityCommand(connect connector) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commodity <name>",
		Short: "Show commodity legality and price range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return callAndPrint(cmd, connect, "get_commodity_information", map[string]interface{}{"commodityName": args[0]})
		},
	}
	cmd.Example = fmt.Sprintf("  uexcorp commodity %s", "Laranite")
	return cmd
}
