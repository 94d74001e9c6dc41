package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/uexcorp-go/internal/application/logging"
	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
)

const (
	DefaultBaseURL = "https://api.uexcorp.space/2.0"

	defaultTimeout             = 30 * time.Second
	defaultMaxRetries          = 3
	defaultBackoffBase         = time.Second
	defaultRequestsPerSecond   = 2
	defaultBurst               = 4
	defaultBreakerMaxFailures  = 5
	defaultBreakerResetTimeout = time.Minute
)

// Config holds the HTTP client settings. Zero values fall back to defaults;
// a negative MaxRetries selects the default, zero disables retries.
type Config struct {
	BaseURL             string
	APIKey              string
	Timeout             time.Duration
	RequestsPerSecond   float64
	Burst               int
	MaxRetries          int
	BackoffBase         time.Duration
	BreakerMaxFailures  int
	BreakerResetTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = defaultRequestsPerSecond
	}
	if c.Burst <= 0 {
		c.Burst = defaultBurst
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = defaultBackoffBase
	}
	if c.BreakerMaxFailures <= 0 {
		c.BreakerMaxFailures = defaultBreakerMaxFailures
	}
	if c.BreakerResetTimeout <= 0 {
		c.BreakerResetTimeout = defaultBreakerResetTimeout
	}
	return c
}

// RequestRecorder receives per-request measurements
type RequestRecorder interface {
	RecordAPIRequest(endpoint string, statusCode int, duration float64)
	RecordAPIRetry(endpoint string, reason string)
	RecordRateLimitWait(endpoint string, duration float64)
}

type noopRequestRecorder struct{}

func (noopRequestRecorder) RecordAPIRequest(string, int, float64) {}
func (noopRequestRecorder) RecordAPIRetry(string, string)         {}
func (noopRequestRecorder) RecordRateLimitWait(string, float64)   {}

// UEXClient reads trading data from the UEX corp API
type UEXClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	breaker     *CircuitBreaker
	baseURL     string
	apiKey      string
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock
	recorder    RequestRecorder
}

// NewUEXClient creates a client. If clock is nil RealClock is used; recorder may be nil.
func NewUEXClient(cfg Config, clock shared.Clock, recorder RequestRecorder) *UEXClient {
	cfg = cfg.withDefaults()
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if recorder == nil {
		recorder = noopRequestRecorder{}
	}
	return &UEXClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker:     NewCircuitBreaker(cfg.BreakerMaxFailures, cfg.BreakerResetTimeout, clock),
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		maxRetries:  cfg.MaxRetries,
		backoffBase: cfg.BackoffBase,
		clock:       clock,
		recorder:    recorder,
	}
}

// CircuitState exposes the breaker state for health reporting
func (c *UEXClient) CircuitState() CircuitState {
	return c.breaker.State()
}

// ResetCircuit closes the breaker so the next fetch reaches the provider
func (c *UEXClient) ResetCircuit() {
	c.breaker.Reset()
}

// envelope is the wrapper every UEX response carries
type envelope struct {
	Status   string          `json:"status"`
	HTTPCode int             `json:"http_code"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
}

// getList fetches one endpoint and decodes its data array into out
func (c *UEXClient) getList(ctx context.Context, endpoint string, out interface{}) error {
	var env envelope
	err := c.breaker.Call(func() error {
		return c.request(ctx, endpoint, &env)
	})
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}
	if env.Status != "ok" {
		msg := env.Message
		if msg == "" {
			msg = env.Status
		}
		return &APIError{Endpoint: endpoint, StatusCode: env.HTTPCode, Message: msg}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", endpoint, err)
	}
	return nil
}

// addJitter returns a duration between 50% and 150% of d
func addJitter(d time.Duration) time.Duration {
	jitter := 0.5 + rand.Float64()
	return time.Duration(float64(d) * jitter)
}

// request performs a GET with rate limiting and exponential backoff retries.
// Network errors, 429 and 5xx are retried; other 4xx are returned at once.
func (c *UEXClient) request(ctx context.Context, endpoint string, result interface{}) error {
	url := c.baseURL + "/" + endpoint

	var lastErr error
attempts:
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		waitStart := time.Now()
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}
		c.recorder.RecordRateLimitWait(endpoint, time.Since(waitStart).Seconds())

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("context cancelled: %w", ctx.Err())
			}
			c.recorder.RecordAPIRequest(endpoint, 0, time.Since(start).Seconds())
			lastErr = &retryableError{message: fmt.Sprintf("network error: %v", err)}
			if !c.backoff(ctx, endpoint, attempt, "network", 0) {
				break attempts
			}
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		c.recorder.RecordAPIRequest(endpoint, resp.StatusCode, time.Since(start).Seconds())
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
			lastErr = &retryableError{message: "rate limited (429)", retryAfter: retryAfter}
			if !c.backoff(ctx, endpoint, attempt, "rate_limited", retryAfter) {
				break attempts
			}
			continue
		case resp.StatusCode >= 500:
			lastErr = &retryableError{message: fmt.Sprintf("server error (%d)", resp.StatusCode)}
			if !c.backoff(ctx, endpoint, attempt, "server_error", 0) {
				break attempts
			}
			continue
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
		}

		if result != nil {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("failed to unmarshal response: %w", err)
			}
		}
		return nil
	}

	if ctx.Err() != nil {
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	}
	logging.LoggerFromContext(ctx).Log(logging.LevelWarning, "Trading data request failed after retries", map[string]interface{}{
		"endpoint": endpoint,
		"attempts": c.maxRetries + 1,
		"error":    fmt.Sprint(lastErr),
	})
	if lastErr != nil {
		return fmt.Errorf("max retries exceeded: %w", lastErr)
	}
	return fmt.Errorf("max retries exceeded")
}

// backoff sleeps before the next attempt. It reports false when no attempt is
// left or the context is done.
func (c *UEXClient) backoff(ctx context.Context, endpoint string, attempt int, reason string, retryAfter time.Duration) bool {
	if attempt >= c.maxRetries || ctx.Err() != nil {
		return false
	}
	// server-provided Retry-After is used without jitter
	delay := addJitter(c.backoffBase * time.Duration(1<<attempt))
	if retryAfter > 0 {
		delay = retryAfter
	}
	c.recorder.RecordAPIRetry(endpoint, reason)
	logging.LoggerFromContext(ctx).Log(logging.LevelDebug, "Retrying trading data request", map[string]interface{}{
		"endpoint": endpoint,
		"attempt":  attempt + 1,
		"reason":   reason,
		"delay":    delay.String(),
	})
	c.clock.Sleep(delay)
	return ctx.Err() == nil
}

func parseRetryAfter(v string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// errorMessage extracts the provider's message from an error body
func errorMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Status != "" {
			return env.Status
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

// retryableError represents an error that should trigger a retry
type retryableError struct {
	message    string
	retryAfter time.Duration
}

func (e *retryableError) Error() string {
	return e.message
}

// APIError is a non-retryable error reported by the provider
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("UEX API error on %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
}

// IsAuthError reports whether err means the API credential was rejected
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}
