package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dashboard service.
type Metrics struct {
	DatasetRows   prometheus.Gauge
	InvalidScores prometheus.Gauge

	// Per-view request accounting.
	ViewRequests      *prometheus.CounterVec // labels: view={full,map,top,trend,categories,cities}, outcome={ok,no_data}
	ViewBuildDuration prometheus.Histogram
	ViewCache         *prometheus.CounterVec // labels: result={hit,miss}

	RecordsExported prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "road_risk",
			Name:      "dataset_rows",
			Help:      "Number of road records in the loaded dataset.",
		}),
		InvalidScores: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "road_risk",
			Name:      "invalid_scores",
			Help:      "Rows whose risk_score could not be coerced and classified as Low via the NaN fall-through.",
		}),
		ViewRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "road_risk",
			Name:      "view_requests_total",
			Help:      "Dashboard view requests by view and outcome.",
		}, []string{"view", "outcome"}),
		ViewBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "road_risk",
			Name:      "view_build_duration_seconds",
			Help:      "Duration of a full city view build (filter, rank, partition, trend).",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		ViewCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "road_risk",
			Name:      "view_cache_total",
			Help:      "City view cache lookups by result.",
		}, []string{"result"}),
		RecordsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "road_risk",
			Name:      "records_exported_total",
			Help:      "Classified road records published to the export topic.",
		}),
	}

	prometheus.MustRegister(
		m.DatasetRows,
		m.InvalidScores,
		m.ViewRequests,
		m.ViewBuildDuration,
		m.ViewCache,
		m.RecordsExported,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DatasetRows:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "road_risk", Name: "dataset_rows"}),
		InvalidScores:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "road_risk", Name: "invalid_scores"}),
		ViewRequests:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "road_risk", Name: "view_requests_total"}, []string{"view", "outcome"}),
		ViewBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "road_risk", Name: "view_build_duration_seconds"}),
		ViewCache:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "road_risk", Name: "view_cache_total"}, []string{"result"}),
		RecordsExported:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "road_risk", Name: "records_exported_total"}),
	}
}
