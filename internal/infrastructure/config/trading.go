package config

import "time"

// CacheConfig holds the on-disk snapshot cache settings
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Duration in seconds a persisted snapshot is used without refetching
	Duration int `mapstructure:"duration" validate:"min=0"`

	// Directory holding the snapshot file
	Path string `mapstructure:"path"`

	Format string `mapstructure:"format" validate:"required,oneof=json msgpack"`
}

// MaxAge returns Duration as a time.Duration
func (c CacheConfig) MaxAge() time.Duration {
	return time.Duration(c.Duration) * time.Second
}

// BlacklistRuleConfig excludes offers by location, commodity or both
type BlacklistRuleConfig struct {
	Location  string `mapstructure:"location"`
	Commodity string `mapstructure:"commodity"`
}

// TradingConfig holds the route search policy
type TradingConfig struct {
	SummarizeRoutesByCommodity bool `mapstructure:"summarize_routes_by_commodity"`
	TradeStartMandatory        bool `mapstructure:"trade_start_mandatory"`

	Blacklist []BlacklistRuleConfig `mapstructure:"blacklist" validate:"dive"`

	DefaultRouteCount    int `mapstructure:"default_route_count" validate:"min=1,max=100"`
	DefaultLocationCount int `mapstructure:"default_location_count" validate:"min=1,max=100"`

	HullTradingLocations []string `mapstructure:"hull_trading_locations"`
	HullTradingShips     []string `mapstructure:"hull_trading_ships"`
}

// AssistantConfig holds function call behaviour settings
type AssistantConfig struct {
	Debug             string `mapstructure:"debug" validate:"required,oneof=off on extensive"`
	AdditionalContext bool   `mapstructure:"additional_context"`
	RememberArguments bool   `mapstructure:"remember_arguments"`
}
