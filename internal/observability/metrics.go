// Package observability defines the Prometheus metrics of the climate
// explorer.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "climate_explorer"

// Metrics holds the Prometheus counters, histograms, and gauges for dataset
// loading and the query API.
type Metrics struct {
	// Dataset load metrics.
	DatasetLoads        *prometheus.CounterVec // labels: outcome={success,error}
	DatasetLoadDuration prometheus.Histogram
	Observations        prometheus.Gauge
	DatasetReady        prometheus.Gauge

	// Per-source metrics.
	SourceRowsRead *prometheus.CounterVec // labels: source
	SourceDropped  *prometheus.CounterVec // labels: source, reason
	SourceWarnings *prometheus.CounterVec // labels: source

	// HTTP metrics.
	HTTPRequests    *prometheus.CounterVec   // labels: route, method, status
	HTTPDuration    *prometheus.HistogramVec // labels: route
	QueryResultRows prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.DatasetLoads,
		m.DatasetLoadDuration,
		m.Observations,
		m.DatasetReady,
		m.SourceRowsRead,
		m.SourceDropped,
		m.SourceWarnings,
		m.HTTPRequests,
		m.HTTPDuration,
		m.QueryResultRows,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Dataset load attempts by outcome.",
		}, []string{"outcome"}),
		DatasetLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      "Duration of a full read, reshape and merge of all sources.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		Observations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "observations",
			Help:      "Observations held by the cached dataset.",
		}),
		DatasetReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_ready",
			Help:      "1 once the dataset is cached, 0 before.",
		}),
		SourceRowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_rows_read_total",
			Help:      "Raw rows read per source.",
		}, []string{"source"}),
		SourceDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_rows_dropped_total",
			Help:      "Observations dropped during normalization by source and reason.",
		}, []string{"source", "reason"}),
		SourceWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_warnings_total",
			Help:      "Soft failures per source: skipped files, missing optional inputs.",
		}, []string{"source"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route pattern.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route"}),
		QueryResultRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_result_rows",
			Help:      "Rows returned per dataset query.",
			Buckets:   []float64{0, 10, 100, 500, 1000, 2000, 5000, 10000},
		}),
	}
}
