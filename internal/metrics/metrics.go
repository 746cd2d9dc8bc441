package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the back office
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Wizard Metrics
	FeedRowsProcessedTotal prometheus.CounterVec
	FeedDuration           prometheus.HistogramVec
	ReportDuration         prometheus.HistogramVec
	ReportRowsPersisted    prometheus.Counter
	ValidationErrorsTotal  prometheus.CounterVec

	// Cache Metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backoffice_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "backoffice_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Wizard Metrics
		FeedRowsProcessedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_feed_rows_processed_total",
				Help: "Total feed rows processed by outcome",
			},
			[]string{"wizard_type", "outcome"},
		),
		FeedDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backoffice_feed_duration_seconds",
				Help:    "End-to-end feed processing time in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"wizard_type"},
		),
		ReportDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backoffice_report_duration_seconds",
				Help:    "End-to-end report generation time in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"wizard_type"},
		),
		ReportRowsPersisted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "backoffice_report_rows_persisted_total",
				Help: "Total report rows written to the row store",
			},
		),
		ValidationErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_validation_errors_total",
				Help: "Total feed validation errors by field",
			},
			[]string{"field"},
		),

		// Cache Metrics
		CacheHitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
	}
}
