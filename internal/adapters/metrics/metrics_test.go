package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/uexcorp-go/internal/adapters/metrics"
	"github.com/andrescamacho/uexcorp-go/internal/application/mediator"
	"github.com/andrescamacho/uexcorp-go/test/helpers"
)

// family returns the gathered metric family with the given full name
func family(t *testing.T, name string) *dto.MetricFamily {
	t.Helper()
	families, err := metrics.Registry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return nil
}

// find returns the metric whose labels include every given pair
func find(t *testing.T, f *dto.MetricFamily, labels map[string]string) *dto.Metric {
	t.Helper()
	for _, m := range f.GetMetric() {
		matched := 0
		for _, lp := range m.GetLabel() {
			if v, ok := labels[lp.GetName()]; ok && v == lp.GetValue() {
				matched++
			}
		}
		if matched == len(labels) {
			return m
		}
	}
	t.Fatalf("no %s sample with labels %v", f.GetName(), labels)
	return nil
}

type routesQuery struct{}

type countedResponse struct{ n int }

func (r countedResponse) ResultCount() int { return r.n }

func TestPrometheusMiddleware_RecordsOutcomes(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	collector := metrics.NewCommandMetricsCollector()
	require.NoError(t, collector.Register())

	m := mediator.NewMediator()
	m.RegisterMiddleware(metrics.PrometheusMiddleware(collector))
	calls := 0
	require.NoError(t, mediator.RegisterHandler[*routesQuery](m, mediator.HandlerFunc(
		func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
			calls++
			if calls == 2 {
				return nil, errors.New("boom")
			}
			return "ok", nil
		})))

	// Act
	_, err := m.Send(context.Background(), &routesQuery{})
	require.NoError(t, err)
	_, err = m.Send(context.Background(), &routesQuery{})
	require.Error(t, err)

	// Assert
	total := family(t, "uexcorp_assistant_commands_total")
	assert.Equal(t, 1.0, find(t, total, map[string]string{"command": "routesQuery", "status": "success"}).GetCounter().GetValue())
	assert.Equal(t, 1.0, find(t, total, map[string]string{"command": "routesQuery", "status": "error"}).GetCounter().GetValue())
	duration := family(t, "uexcorp_assistant_command_duration_seconds")
	assert.Equal(t, uint64(1), find(t, duration, map[string]string{"status": "success"}).GetHistogram().GetSampleCount())
}

func TestPrometheusMiddleware_RecordsResultCounts(t *testing.T) {
	metrics.InitRegistry()
	collector := metrics.NewCommandMetricsCollector()
	require.NoError(t, collector.Register())
	mw := metrics.PrometheusMiddleware(collector)

	_, err := mw(context.Background(), &routesQuery{}, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return countedResponse{n: 3}, nil
	})

	require.NoError(t, err)
	results := family(t, "uexcorp_assistant_query_results")
	h := find(t, results, map[string]string{"command": "routesQuery"}).GetHistogram()
	assert.Equal(t, uint64(1), h.GetSampleCount())
	assert.Equal(t, 3.0, h.GetSampleSum())
}

func TestPrometheusMiddleware_NilCollectorPassesThrough(t *testing.T) {
	mw := metrics.PrometheusMiddleware(nil)

	resp, err := mw(context.Background(), &routesQuery{}, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestAPIMetricsCollector(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	collector := metrics.NewAPIMetricsCollector()
	require.NoError(t, collector.Register())

	// Act
	collector.RecordAPIRequest("commodities_prices_all", 200, 0.4)
	collector.RecordAPIRequest("commodities_prices_all", 503, 1.2)
	collector.RecordAPIRetry("commodities_prices_all", "server_error")
	collector.RecordRateLimitWait("commodities_prices_all", 0.25)

	// Assert
	requests := family(t, "uexcorp_assistant_api_requests_total")
	assert.Equal(t, 1.0, find(t, requests, map[string]string{"status_code": "503"}).GetCounter().GetValue())
	retries := family(t, "uexcorp_assistant_api_retries_total")
	assert.Equal(t, 1.0, find(t, retries, map[string]string{"reason": "server_error"}).GetCounter().GetValue())
	wait := family(t, "uexcorp_assistant_api_rate_limit_wait_seconds")
	assert.InDelta(t, 0.25, find(t, wait, nil).GetHistogram().GetSampleSum(), 1e-9)
}

func TestCacheMetricsCollector(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	collector := metrics.NewCacheMetricsCollector()
	require.NoError(t, collector.Register())
	snapshot := helpers.StantonScenario()

	// Act
	collector.RecordLoad("api", false, 3*time.Second)
	collector.RecordLoad("disk", true, 20*time.Millisecond)
	collector.RecordSnapshot(snapshot)

	// Assert
	loads := family(t, "uexcorp_assistant_data_loads_total")
	assert.Equal(t, 1.0, find(t, loads, map[string]string{"source": "api", "status": "error"}).GetCounter().GetValue())
	size := family(t, "uexcorp_assistant_dataset_records")
	assert.Equal(t, float64(len(snapshot.Offers)), find(t, size, map[string]string{"entity": "offers"}).GetGauge().GetValue())
	fetched := family(t, "uexcorp_assistant_dataset_fetched_timestamp_seconds")
	assert.Equal(t, float64(snapshot.FetchedAt.Unix()), fetched.GetMetric()[0].GetGauge().GetValue())
}

func TestRegisterWithoutRegistryIsNoop(t *testing.T) {
	metrics.Registry = nil

	assert.NoError(t, metrics.NewAPIMetricsCollector().Register())
	assert.False(t, metrics.IsEnabled())
	_, err := metrics.NewServer("localhost", 9464, "/metrics")
	assert.Error(t, err)
}

func TestNewServer_ExposesRegistry(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	collector := metrics.NewCacheMetricsCollector()
	require.NoError(t, collector.Register())
	collector.RecordLoad("api", true, time.Second)
	server, err := metrics.NewServer("localhost", 9464, "/metrics")
	require.NoError(t, err)

	// Act
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	// Assert
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `uexcorp_assistant_data_loads_total{source="api",status="success"} 1`)
	assert.Equal(t, "localhost:9464", server.Addr)
}
