package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// location resolution service.
type Metrics struct {
	ResolveRequests *prometheus.CounterVec // labels: outcome={cache_hit,geocoded,gazetteer,degenerate,invalid}
	CacheLookups    *prometheus.CounterVec // labels: result={hit,miss}
	ExtractAttempts *prometheus.CounterVec // labels: strategy={semantic,keyword}, outcome={success,error}

	// Geocoding provider metrics.
	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,empty,error}
	GeocodeDuration prometheus.Histogram

	PublishFailures           prometheus.Counter
	SemanticExtractionEnabled prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ResolveRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "location_resolver",
			Name:      "resolve_requests_total",
			Help:      "Resolution requests by outcome.",
		}, []string{"outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "location_resolver",
			Name:      "cache_lookups_total",
			Help:      "Resolution cache lookups by result.",
		}, []string{"result"}),
		ExtractAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "location_resolver",
			Name:      "extract_attempts_total",
			Help:      "Location extraction attempts by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "location_resolver",
			Name:      "geocode_requests_total",
			Help:      "Geocoding provider requests by outcome.",
		}, []string{"outcome"}),
		GeocodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "location_resolver",
			Name:      "geocode_request_duration_seconds",
			Help:      "Geocoding provider request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "location_resolver",
			Name:      "publish_failures_total",
			Help:      "Best-effort event publishes that failed.",
		}),
		SemanticExtractionEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "location_resolver",
			Name:      "semantic_extraction_enabled",
			Help:      "1 when semantic location extraction is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.ResolveRequests,
		m.CacheLookups,
		m.ExtractAttempts,
		m.GeocodeRequests,
		m.GeocodeDuration,
		m.PublishFailures,
		m.SemanticExtractionEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ResolveRequests:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "location_resolver", Name: "resolve_requests_total"}, []string{"outcome"}),
		CacheLookups:              prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "location_resolver", Name: "cache_lookups_total"}, []string{"result"}),
		ExtractAttempts:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "location_resolver", Name: "extract_attempts_total"}, []string{"strategy", "outcome"}),
		GeocodeRequests:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "location_resolver", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeDuration:           prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "location_resolver", Name: "geocode_request_duration_seconds"}),
		PublishFailures:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "location_resolver", Name: "publish_failures_total"}),
		SemanticExtractionEnabled: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "location_resolver", Name: "semantic_extraction_enabled"}),
	}
}
