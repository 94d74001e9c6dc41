package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/uexcorp-go/internal/domain/daemon"
)

// NewCallCommand creates the generic function call command
func NewCallCommand(connect connector) *cobra.Command {
	var (
		pairs    []string
		argsJSON string
	)

	cmd := &cobra.Command{
		Use:   "call <function>",
		Short: "Call an assistant function by name",
		Long: `Call one of the assistant functions with loosely typed arguments, the same way
a conversational caller would.

Values given with --arg are read as JSON when possible (numbers, booleans,
lists) and as plain text otherwise.

Examples:
  uexcorp call get_best_trading_route --arg shipName=Freelancer --arg moneyToSpend=20000
  uexcorp call get_ship_comparison --args '{"shipNames": ["Freelancer", "Cutlass Black"]}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arguments, err := parseArguments(argsJSON, pairs)
			if err != nil {
				return err
			}
			return callAndPrint(cmd, connect, args[0], arguments)
		},
	}

	cmd.Flags().StringArrayVar(&pairs, "arg", nil, "Argument as name=value (repeatable)")
	cmd.Flags().StringVar(&argsJSON, "args", "", "Arguments as a JSON object")

	return cmd
}

// parseArguments merges a JSON object and name=value pairs; pairs win
func parseArguments(argsJSON string, pairs []string) (map[string]interface{}, error) {
	arguments := map[string]interface{}{}
	if argsJSON != "" {
		if err := json.Unmarshal([]byte(argsJSON), &arguments); err != nil {
			return nil, fmt.Errorf("--args must be a JSON object: %w", err)
		}
	}
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --arg %q, expected name=value", pair)
		}
		arguments[strings.TrimSpace(name)] = parseValue(raw)
	}
	return arguments, nil
}

func parseValue(raw string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

// NewFunctionsCommand lists the declared functions
func NewFunctionsCommand(connect connector) *cobra.Command {
	var showContext bool

	cmd := &cobra.Command{
		Use:   "functions",
		Short: "List the assistant functions and their parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, connect, func(ctx context.Context, client daemon.Client) error {
				catalog, err := client.ListFunctions(ctx)
				if err != nil {
					return fmt.Errorf("failed to list functions: %w", err)
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), catalog)
				}
				fmt.Fprint(cmd.OutOrStdout(), NewTreeFormatter(false).FormatFunctions(catalog.Functions))
				if showContext {
					fmt.Fprintf(cmd.OutOrStdout(), "\nContext:\n%s\n", catalog.Context)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&showContext, "context", false, "Also print the context text for the summarizing model")

	return cmd
}

// NewReloadCommand refetches prices from UEX corp
func NewReloadCommand(connect connector) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reload current commodity prices from UEX corp",
		RunE: func(cmd *cobra.Command, args []string) error {
			return callAndPrint(cmd, connect, "reload_current_commodity_prices", nil)
		},
	}
}
