package cli

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/uexcorp-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect the assistant configuration.

Configuration is loaded from multiple sources with priority:
1. Environment variables (UEX_* prefix, UEXCORP_API_KEY, DATABASE_URL)
2. Config file (config.yaml)
3. Default values

Examples:
  uexcorp config show
  uexcorp config validate --config ./configs/config.yaml`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigValidateCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	}
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration for errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.LoadConfig(configPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
			return nil
		},
	}
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "UEX corp API:")
	fmt.Fprintf(w, "  Base URL:         %s\n", cfg.API.BaseURL)
	fmt.Fprintf(w, "  API key:          %s\n", maskSecret(cfg.API.APIKey))
	fmt.Fprintf(w, "  Timeout:          %s\n", cfg.API.Timeout)
	fmt.Fprintf(w, "  Rate limit:       %g req/s (burst: %d)\n", cfg.API.RateLimit.Requests, cfg.API.RateLimit.Burst)
	fmt.Fprintf(w, "  Max retries:      %d\n", cfg.API.Retry.MaxAttempts)
	fmt.Fprintf(w, "  Circuit breaker:  %d failures, reset after %s\n",
		cfg.API.CircuitBreaker.MaxFailures, cfg.API.CircuitBreaker.ResetTimeout)

	fmt.Fprintln(w, "\nCache:")
	fmt.Fprintf(w, "  Enabled:          %t\n", cfg.Cache.Enabled)
	fmt.Fprintf(w, "  Max age:          %s\n", cfg.Cache.MaxAge())
	fmt.Fprintf(w, "  Path:             %s\n", cfg.Cache.Path)
	fmt.Fprintf(w, "  Format:           %s\n", cfg.Cache.Format)

	fmt.Fprintln(w, "\nTrading:")
	fmt.Fprintf(w, "  Start mandatory:  %t\n", cfg.Trading.TradeStartMandatory)
	fmt.Fprintf(w, "  By commodity:     %t\n", cfg.Trading.SummarizeRoutesByCommodity)
	fmt.Fprintf(w, "  Default routes:   %d\n", cfg.Trading.DefaultRouteCount)
	fmt.Fprintf(w, "  Default places:   %d\n", cfg.Trading.DefaultLocationCount)
	fmt.Fprintf(w, "  Hull ships:       %s\n", strings.Join(cfg.Trading.HullTradingShips, ", "))
	fmt.Fprintf(w, "  Hull ports:       %s\n", strings.Join(cfg.Trading.HullTradingLocations, ", "))
	if len(cfg.Trading.Blacklist) == 0 {
		fmt.Fprintln(w, "  Blacklist:        (empty)")
	}
	for _, rule := range cfg.Trading.Blacklist {
		fmt.Fprintf(w, "  Blacklist:        location=%s commodity=%s\n", orDash(rule.Location), orDash(rule.Commodity))
	}

	fmt.Fprintln(w, "\nAssistant:")
	fmt.Fprintf(w, "  Debug:            %s\n", cfg.Assistant.Debug)
	fmt.Fprintf(w, "  Extra context:    %t\n", cfg.Assistant.AdditionalContext)
	fmt.Fprintf(w, "  Remember args:    %t\n", cfg.Assistant.RememberArguments)

	fmt.Fprintln(w, "\nDatabase:")
	fmt.Fprintf(w, "  Type:             %s\n", cfg.Database.Type)
	if cfg.Database.URL != "" {
		fmt.Fprintf(w, "  URL:              %s\n", maskPassword(cfg.Database.URL))
	} else {
		fmt.Fprintf(w, "  Path:             %s\n", cfg.Database.Path)
	}

	fmt.Fprintln(w, "\nDaemon:")
	fmt.Fprintf(w, "  Socket path:      %s\n", cfg.Daemon.SocketPath)
	fmt.Fprintf(w, "  PID file:         %s\n", cfg.Daemon.PIDFile)
	fmt.Fprintf(w, "  Refresh interval: %s\n", cfg.Daemon.RefreshInterval)

	fmt.Fprintln(w, "\nLogging:")
	fmt.Fprintf(w, "  Level:            %s\n", orDash(cfg.Logging.Level))
	fmt.Fprintf(w, "  Format:           %s\n", cfg.Logging.Format)
	fmt.Fprintf(w, "  Output:           %s\n", cfg.Logging.Output)
	fmt.Fprintf(w, "  Retention:        %d days\n", cfg.Logging.RetentionDays)

	fmt.Fprintln(w, "\nMetrics:")
	fmt.Fprintf(w, "  Enabled:          %t\n", cfg.Metrics.Enabled)
	if cfg.Metrics.Enabled {
		fmt.Fprintf(w, "  Listen:           %s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
	}
}

// maskSecret keeps the last four characters of a secret
func maskSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + secret[len(secret)-4:]
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
