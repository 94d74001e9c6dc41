package config

import "time"

// APIConfig holds UEX corp API client configuration
type APIConfig struct {
	// Base URL of the UEX 2.0 API
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// Secret key sent as bearer token. UEXCORP_API_KEY is honoured too.
	APIKey string `mapstructure:"api_key" validate:"required"`

	Timeout time.Duration `mapstructure:"timeout" validate:"required"`

	RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`
	Retry          RetryConfig          `mapstructure:"retry"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Maximum requests per second
	Requests float64 `mapstructure:"requests" validate:"gt=0"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=1"`
}

// RetryConfig holds retry configuration for failed requests
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" validate:"min=0,max=10"`
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}

// CircuitBreakerConfig controls when the client stops calling a failing API
type CircuitBreakerConfig struct {
	MaxFailures  int           `mapstructure:"max_failures" validate:"min=1"`
	ResetTimeout time.Duration `mapstructure:"reset_timeout"`
}
