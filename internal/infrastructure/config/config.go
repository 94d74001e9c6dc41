package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// APIKeyEnv is read as a shortcut for api.api_key
const APIKeyEnv = "UEXCORP_API_KEY"

// Config is the main configuration struct combining all sub-configs
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Trading   TradingConfig   `mapstructure:"trading"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Daemon    DaemonConfig    `mapstructure:"daemon"`
}

// envKeys lists every setting that can be overridden with a UEX_ variable,
// e.g. UEX_API_BASE_URL or UEX_CACHE_DURATION. Viper only consults the
// environment for keys it knows about, so they are bound explicitly.
var envKeys = []string{
	"api.base_url", "api.api_key", "api.timeout",
	"api.rate_limit.requests", "api.rate_limit.burst",
	"api.retry.max_attempts", "api.retry.backoff_base",
	"api.circuit_breaker.max_failures", "api.circuit_breaker.reset_timeout",
	"cache.enabled", "cache.duration", "cache.path", "cache.format",
	"trading.summarize_routes_by_commodity", "trading.trade_start_mandatory",
	"trading.default_route_count", "trading.default_location_count",
	"assistant.debug", "assistant.additional_context", "assistant.remember_arguments",
	"database.type", "database.url", "database.path",
	"trading.hull_trading_locations", "trading.hull_trading_ships",
	"logging.level", "logging.format", "logging.output", "logging.file_path", "logging.retention_days",
	"metrics.enabled", "metrics.host", "metrics.port", "metrics.path",
	"daemon.socket_path", "daemon.pid_file", "daemon.shutdown_timeout", "daemon.refresh_interval",
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (config.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".uexcorp"))
		}
	}

	registerSwitchDefaults(v)

	v.SetEnvPrefix("UEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if key := os.Getenv(APIKeyEnv); key != "" && v.GetString("api.api_key") == "" {
		v.Set("api.api_key", key)
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		v.Set("database.url", dbURL)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// MustLoadConfig loads configuration and panics on error (for use in main.go)
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
