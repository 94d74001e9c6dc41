package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/uexcorp-go/internal/domain/daemon"
)

var (
	// Global flags
	socketPath string
	configPath string
	localMode  bool
	jsonOutput bool
)

// LocalClientFactory builds an in-process assistant from the configuration
// at configPath. It is used instead of the daemon when --local is given.
type LocalClientFactory func(ctx context.Context, configPath string) (daemon.Client, error)

// NewRootCommand creates the root command for the CLI
func NewRootCommand(local LocalClientFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "uexcorp",
		Short: "UEX corp trading assistant CLI",
		Long: `UEX corp trading assistant CLI answers trading questions with UEX corp price data.
The CLI talks to the daemon via Unix socket, or runs the assistant in process with --local.

Examples:
  uexcorp route --ship "Cutlass Black" --from Lorville --money 50000
  uexcorp buy Laranite --amount 46 --count 3
  uexcorp sell Agricium --near Crusader
  uexcorp ship "Cutlass Black"
  uexcorp call get_location_information --arg locationName=Everus Harbor
  uexcorp reload
  uexcorp errors --level ERROR`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", getDefaultSocketPath(),
		"Path to daemon Unix socket")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default: config.yaml in ., ./configs or ~/.uexcorp)")
	rootCmd.PersistentFlags().BoolVar(&localMode, "local", false,
		"Run the assistant in process instead of connecting to the daemon")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Print results as JSON")

	connect := clientConnector(local)

	rootCmd.AddCommand(NewCallCommand(connect))
	rootCmd.AddCommand(NewFunctionsCommand(connect))
	rootCmd.AddCommand(NewReloadCommand(connect))
	rootCmd.AddCommand(NewRouteCommand(connect))
	rootCmd.AddCommand(NewBuyCommand(connect))
	rootCmd.AddCommand(NewSellCommand(connect))
	rootCmd.AddCommand(NewShipCommand(connect))
	rootCmd.AddCommand(NewCompareCommand(connect))
	rootCmd.AddCommand(NewLocationCommand(connect))
	rootCmd.AddCommand(NewCommodityCommand(connect))
	rootCmd.AddCommand(NewErrorsCommand(connect))
	rootCmd.AddCommand(NewHistoryCommand(connect))
	rootCmd.AddCommand(NewHealthCommand(connect))
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// getDefaultSocketPath returns the default socket path
func getDefaultSocketPath() string {
	if path := os.Getenv("UEXCORP_SOCKET"); path != "" {
		return path
	}
	return "/tmp/uexcorp-daemon.sock"
}

// Execute runs the root command
func Execute(local LocalClientFactory) {
	rootCmd := NewRootCommand(local)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
