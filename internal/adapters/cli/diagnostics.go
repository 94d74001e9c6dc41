package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/uexcorp-go/internal/domain/daemon"
)

// NewErrorsCommand lists persisted warnings and errors
func NewErrorsCommand(connect connector) *cobra.Command {
	var (
		level     string
		requestID string
		since     time.Duration
		limit     int
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "errors",
		Short: "Show recent warnings and errors",
		Long: `Show warnings and errors recorded by the assistant.

A failed function call answers with a request id; pass it with --request to
see the matching entries.

Examples:
  uexcorp errors --level ERROR --since 2h
  uexcorp errors --request 1b4e28ba-2fa1-11d2-883f-0016d3cca427 -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := daemon.ErrorFilter{
				Level:     strings.ToUpper(level),
				RequestID: requestID,
				Limit:     limit,
			}
			if since > 0 {
				filter.Since = time.Now().Add(-since)
			}

			return withClient(cmd, connect, func(ctx context.Context, client daemon.Client) error {
				entries, err := client.RecentErrors(ctx, filter)
				if err != nil {
					return fmt.Errorf("failed to read error log: %w", err)
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), entries)
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No errors recorded")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "WHEN\tLEVEL\tOPERATION\tREQUEST\tMESSAGE")
				for _, e := range entries {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						humanize.Time(e.Timestamp), e.Level, orDash(e.Operation), orDash(e.RequestID), e.Message)
					if verbose {
						for _, line := range metadataLines(e.Metadata) {
							fmt.Fprintf(w, "\t\t\t\t  %s\n", line)
						}
					}
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&level, "level", "", "Only this level (WARNING or ERROR)")
	cmd.Flags().StringVar(&requestID, "request", "", "Only entries of this request id")
	cmd.Flags().DurationVar(&since, "since", 0, "Only entries newer than this (e.g. 30m, 24h)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of entries")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show entry metadata")

	return cmd
}

// NewHistoryCommand lists recent data loads
func NewHistoryCommand(connect connector) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent trading data loads",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, connect, func(ctx context.Context, client daemon.Client) error {
				loads, err := client.LoadHistory(ctx, limit)
				if err != nil {
					return fmt.Errorf("failed to read load history: %w", err)
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), loads)
				}
				if len(loads) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No data loads recorded")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "WHEN\tSOURCE\tRESULT\tDURATION\tCOMMODITIES\tLOCATIONS\tOFFERS\tSHIPS")
				for _, l := range loads {
					result := "ok"
					if !l.Success {
						result = "failed"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
						humanize.Time(l.Timestamp), l.Source, result, l.Duration.Round(time.Millisecond),
						l.Commodities, l.Locations, l.Offers, l.Ships)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of loads")

	return cmd
}

// NewHealthCommand reports whether trading data is available
func NewHealthCommand(connect connector) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show data freshness and API circuit state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, connect, func(ctx context.Context, client daemon.Client) error {
				health, err := client.Health(ctx)
				if err != nil {
					return fmt.Errorf("health check failed: %w", err)
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), health)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Status:        %s\n", health.Status)
				if health.Version != "" {
					fmt.Fprintf(out, "Version:       %s\n", health.Version)
				}
				fmt.Fprintf(out, "API circuit:   %s\n", orDash(health.CircuitState))
				if !health.DataLoaded {
					fmt.Fprintln(out, "Data:          not loaded")
					return nil
				}
				fmt.Fprintf(out, "Data fetched:  %s (%s)\n",
					health.FetchedAt.Local().Format(time.RFC1123), humanize.Time(health.FetchedAt))
				fmt.Fprintf(out, "Commodities:   %s\n", humanize.Comma(int64(health.Commodities)))
				fmt.Fprintf(out, "Locations:     %s\n", humanize.Comma(int64(health.Locations)))
				fmt.Fprintf(out, "Offers:        %s\n", humanize.Comma(int64(health.Offers)))
				fmt.Fprintf(out, "Ships:         %s\n", humanize.Comma(int64(health.Ships)))
				return nil
			})
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func metadataLines(metadata map[string]interface{}) []string {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s=%v", k, metadata[k]))
	}
	return lines
}
