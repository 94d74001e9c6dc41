package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// DefaultHullTradingLocations are the trade ports that load hull-cargo ships
var DefaultHullTradingLocations = []string{
	"Baijini Point",
	"Everus Harbor",
	"Magnus Gateway",
	"Pyro Gateway",
	"Seraphim Station",
	"Terra Gateway",
	"Port Tressler",
}

// DefaultHullTradingShips can only trade at hull trading locations
var DefaultHullTradingShips = []string{"Hull C"}

// registerSwitchDefaults sets the booleans whose default is true. A false
// after unmarshal cannot be told apart from "unset", so they go through viper.
func registerSwitchDefaults(v *viper.Viper) {
	v.SetDefault("cache.enabled", true)
	v.SetDefault("assistant.remember_arguments", true)
}

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// API defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://api.uexcorp.space/2.0"
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 30 * time.Second
	}
	if cfg.API.RateLimit.Requests == 0 {
		cfg.API.RateLimit.Requests = 2
	}
	if cfg.API.RateLimit.Burst == 0 {
		cfg.API.RateLimit.Burst = 4
	}
	if cfg.API.Retry.MaxAttempts == 0 {
		cfg.API.Retry.MaxAttempts = 3
	}
	if cfg.API.Retry.BackoffBase == 0 {
		cfg.API.Retry.BackoffBase = time.Second
	}
	if cfg.API.CircuitBreaker.MaxFailures == 0 {
		cfg.API.CircuitBreaker.MaxFailures = 5
	}
	if cfg.API.CircuitBreaker.ResetTimeout == 0 {
		cfg.API.CircuitBreaker.ResetTimeout = time.Minute
	}

	// Cache defaults
	if cfg.Cache.Duration == 0 {
		cfg.Cache.Duration = 86400
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = defaultDataDir()
	}
	if cfg.Cache.Format == "" {
		cfg.Cache.Format = "json"
	}

	// Trading defaults
	if cfg.Trading.DefaultRouteCount == 0 {
		cfg.Trading.DefaultRouteCount = 3
	}
	if cfg.Trading.DefaultLocationCount == 0 {
		cfg.Trading.DefaultLocationCount = 3
	}
	if cfg.Trading.HullTradingLocations == nil {
		cfg.Trading.HullTradingLocations = append([]string(nil), DefaultHullTradingLocations...)
	}
	if cfg.Trading.HullTradingShips == nil {
		cfg.Trading.HullTradingShips = append([]string(nil), DefaultHullTradingShips...)
	}

	// Assistant defaults
	if cfg.Assistant.Debug == "" {
		cfg.Assistant.Debug = "off"
	}

	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join(defaultDataDir(), "uexcorp.db")
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Logging defaults
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
	if cfg.Logging.RetentionDays == 0 {
		cfg.Logging.RetentionDays = 30
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9464
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Daemon defaults
	if cfg.Daemon.SocketPath == "" {
		cfg.Daemon.SocketPath = "/tmp/uexcorp-daemon.sock"
	}
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/uexcorp-daemon.pid"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 10 * time.Second
	}
}

// defaultDataDir is where the snapshot cache and the sqlite database live
func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".uexcorp")
	}
	return ".uexcorp"
}
