package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetricsCollector handles all UEX corp API request metrics
type APIMetricsCollector struct {
	apiRequestsTotal   *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec
	apiRetries         *prometheus.CounterVec
	apiRateLimitWait   *prometheus.HistogramVec
}

// NewAPIMetricsCollector creates a new API metrics collector
func NewAPIMetricsCollector() *APIMetricsCollector {
	return &APIMetricsCollector{
		// Status code 0 marks a transport failure
		apiRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "api_requests_total",
				Help:      "Total number of UEX corp API requests by endpoint and status code",
			},
			[]string{"endpoint", "status_code"},
		),

		apiRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "api_request_duration_seconds",
				Help:      "UEX corp API request duration distribution",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"endpoint"},
		),

		apiRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "api_retries_total",
				Help:      "Total number of UEX corp API retry attempts",
			},
			[]string{"endpoint", "reason"},
		),

		apiRateLimitWait: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "api_rate_limit_wait_seconds",
				Help:      "Time spent waiting for the rate limiter",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"endpoint"},
		),
	}
}

// Register registers all API metrics with the Prometheus registry
func (c *APIMetricsCollector) Register() error {
	return register(
		c.apiRequestsTotal,
		c.apiRequestDuration,
		c.apiRetries,
		c.apiRateLimitWait,
	)
}

// RecordAPIRequest records an API request completion
func (c *APIMetricsCollector) RecordAPIRequest(endpoint string, statusCode int, duration float64) {
	c.apiRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	c.apiRequestDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordAPIRetry records an API retry attempt
func (c *APIMetricsCollector) RecordAPIRetry(endpoint string, reason string) {
	c.apiRetries.WithLabelValues(endpoint, reason).Inc()
}

// RecordRateLimitWait records time spent waiting for rate limiter
func (c *APIMetricsCollector) RecordRateLimitWait(endpoint string, duration float64) {
	c.apiRateLimitWait.WithLabelValues(endpoint).Observe(duration)
}
