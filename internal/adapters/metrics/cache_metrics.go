package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
)

// CacheMetricsCollector records trading data loads and the size of the
// active dataset. It implements the cache service's recorder.
type CacheMetricsCollector struct {
	loadsTotal        *prometheus.CounterVec
	loadDuration      *prometheus.HistogramVec
	datasetSize       *prometheus.GaugeVec
	snapshotFetchedAt prometheus.Gauge
}

// NewCacheMetricsCollector creates a new cache metrics collector
func NewCacheMetricsCollector() *CacheMetricsCollector {
	return &CacheMetricsCollector{
		loadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "data_loads_total",
				Help:      "Trading data load attempts by source (api, disk, stale) and status",
			},
			[]string{"source", "status"},
		),

		loadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "data_load_duration_seconds",
				Help:      "Trading data load duration distribution",
				Buckets:   []float64{0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"source"},
		),

		datasetSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "dataset_records",
				Help:      "Number of records in the active trading dataset",
			},
			[]string{"entity"},
		),

		snapshotFetchedAt: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "dataset_fetched_timestamp_seconds",
				Help:      "Unix time the active trading dataset was fetched from UEX corp",
			},
		),
	}
}

// Register registers all cache metrics with the Prometheus registry
func (c *CacheMetricsCollector) Register() error {
	return register(c.loadsTotal, c.loadDuration, c.datasetSize, c.snapshotFetchedAt)
}

// RecordLoad records one load attempt
func (c *CacheMetricsCollector) RecordLoad(source string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	c.loadsTotal.WithLabelValues(source, status).Inc()
	c.loadDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordSnapshot records the size of a newly published dataset
func (c *CacheMetricsCollector) RecordSnapshot(snapshot market.Snapshot) {
	c.datasetSize.WithLabelValues("commodities").Set(float64(len(snapshot.Commodities)))
	c.datasetSize.WithLabelValues("locations").Set(float64(len(snapshot.Locations)))
	c.datasetSize.WithLabelValues("offers").Set(float64(len(snapshot.Offers)))
	c.datasetSize.WithLabelValues("ships").Set(float64(len(snapshot.Ships)))
	c.datasetSize.WithLabelValues("ship_offers").Set(float64(len(snapshot.ShipOffers)))
	if !snapshot.FetchedAt.IsZero() {
		c.snapshotFetchedAt.Set(float64(snapshot.FetchedAt.Unix()))
	}
}
