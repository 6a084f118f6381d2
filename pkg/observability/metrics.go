package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Aggregation metrics
	AggregationQueriesTotal  *prometheus.CounterVec
	AggregationQueryDuration *prometheus.HistogramVec
	AggregationErrorsTotal   *prometheus.CounterVec

	// Composer metrics
	ReportsComposedTotal   *prometheus.CounterVec
	ReportComposeDuration  *prometheus.HistogramVec

	// Page-view recorder metrics
	PageViewsTrackedTotal    prometheus.Counter
	ConversionsTrackedTotal  prometheus.Counter
	TrackingSuppressedTotal  *prometheus.CounterVec

	// KPI cache metrics
	KPICacheHitsTotal   prometheus.Counter
	KPICacheMissesTotal prometheus.Counter

	// Database metrics
	DBConnectionsActive prometheus.Gauge
	DBConnectionsIdle   prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "siteforge_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "siteforge_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		AggregationQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "siteforge_aggregation_queries_total",
				Help: "Total number of aggregation queries by source table",
			},
			[]string{"source"},
		),
		AggregationQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "siteforge_aggregation_query_duration_seconds",
				Help:    "Aggregation query duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		AggregationErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "siteforge_aggregation_errors_total",
				Help: "Total number of failed aggregation queries",
			},
			[]string{"source"},
		),
		ReportsComposedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "siteforge_reports_composed_total",
				Help: "Total number of composed analytics reports",
			},
			[]string{"report", "status"},
		),
		ReportComposeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "siteforge_report_compose_duration_seconds",
				Help:    "End-to-end report composition duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"report"},
		),
		PageViewsTrackedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "siteforge_page_views_tracked_total",
				Help: "Total number of page views recorded",
			},
		),
		ConversionsTrackedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "siteforge_conversions_tracked_total",
				Help: "Total number of conversions recorded",
			},
		),
		TrackingSuppressedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "siteforge_tracking_suppressed_errors_total",
				Help: "Tracking failures that were logged and suppressed",
			},
			[]string{"operation"},
		),
		KPICacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "siteforge_kpi_cache_hits_total",
				Help: "Platform KPI cache hits",
			},
		),
		KPICacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "siteforge_kpi_cache_misses_total",
				Help: "Platform KPI cache misses",
			},
		),
		DBConnectionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "siteforge_db_connections_active",
				Help: "Number of active database connections",
			},
		),
		DBConnectionsIdle: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "siteforge_db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AggregationQueriesTotal,
		m.AggregationQueryDuration,
		m.AggregationErrorsTotal,
		m.ReportsComposedTotal,
		m.ReportComposeDuration,
		m.PageViewsTrackedTotal,
		m.ConversionsTrackedTotal,
		m.TrackingSuppressedTotal,
		m.KPICacheHitsTotal,
		m.KPICacheMissesTotal,
		m.DBConnectionsActive,
		m.DBConnectionsIdle,
	)

	return m
}

// ObserveAggregation records a completed aggregation query
func (m *Metrics) ObserveAggregation(source string, duration time.Duration, err error) {
	m.AggregationQueriesTotal.WithLabelValues(source).Inc()
	m.AggregationQueryDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err != nil {
		m.AggregationErrorsTotal.WithLabelValues(source).Inc()
	}
}

// ObserveReport records a completed report composition
func (m *Metrics) ObserveReport(report string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ReportsComposedTotal.WithLabelValues(report, status).Inc()
	m.ReportComposeDuration.WithLabelValues(report).Observe(duration.Seconds())
}

// ObserveHTTPRequest records an HTTP request
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Handler returns an HTTP handler for the /metrics endpoint
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
