// Package metrics provides Prometheus metrics for the LoadPulse dashboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the LoadPulse service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Ingest Metrics - Export files and rows flowing into the pipeline
	exportFilesRead *prometheus.CounterVec
	ingestRows      *prometheus.CounterVec
	ingestErrors    *prometheus.CounterVec

	// View Metrics - Recompute timings per dashboard view
	viewRefreshDuration *prometheus.HistogramVec
	viewRefreshTotal    *prometheus.CounterVec

	// Business Metrics - Recommendation and roster outcomes
	recommendationsIssued *prometheus.CounterVec
	athletesTracked       prometheus.Gauge

	// Access Metrics - Session gate activity
	loginAttempts  *prometheus.CounterVec
	activeSessions prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInFlight        prometheus.Gauge

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "loadpulse",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Ingest Metrics - Export files and rows flowing into the pipeline
	m.exportFilesRead = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "export_files_read_total",
			Help:      "Total number of export files decoded, by kind and format",
		},
		[]string{"kind", "format"},
	)

	m.ingestRows = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "ingest_rows_total",
			Help:      "Total number of rows parsed from export files, by kind",
		},
		[]string{"kind"},
	)

	m.ingestErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "ingest_errors_total",
			Help:      "Total number of ingest failures, by kind",
		},
		[]string{"kind"},
	)

	// View Metrics - Recompute timings per dashboard view
	m.viewRefreshDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "view_refresh_duration_seconds",
			Help:      "Time spent recomputing a dashboard view from the exports",
			Buckets:   m.histogramBuckets,
		},
		[]string{"view"},
	)

	m.viewRefreshTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "view_refresh_total",
			Help:      "Total number of view recomputes served",
		},
		[]string{"view"},
	)

	// Business Metrics - Recommendation and roster outcomes
	m.recommendationsIssued = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "recommendations_issued_total",
			Help:      "Total number of recommendations issued, by label",
		},
		[]string{"label"},
	)

	m.athletesTracked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "athletes_tracked",
		Help:      "Number of distinct athletes present in the current exports",
	})

	// Access Metrics - Session gate activity
	m.loginAttempts = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "login_attempts_total",
			Help:      "Total number of access key submissions, by outcome",
		},
		[]string{"outcome"},
	)

	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_sessions",
		Help:      "Number of unexpired dashboard sessions",
	})

	// HTTP Performance Metrics - User experience indicators
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds (user experience)",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpInFlight = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_in_flight",
		Help:      "Number of HTTP requests currently being served",
	})

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RefreshInterval returns the configured gauge refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

// Ingest Metrics Functions.

// RecordExportFile counts one decoded export file.
func RecordExportFile(kind, format string) {
	globalManager.exportFilesRead.WithLabelValues(kind, format).Inc()
}

// RecordIngestRows counts rows parsed out of an export file.
func RecordIngestRows(kind string, n int) {
	globalManager.ingestRows.WithLabelValues(kind).Add(float64(n))
}

// RecordIngestError counts one failed ingest pass.
func RecordIngestError(kind string) {
	globalManager.ingestErrors.WithLabelValues(kind).Inc()
}

// View Metrics Functions.

// RecordViewRefresh records one view recompute and its duration in seconds.
func RecordViewRefresh(view string, seconds float64) {
	globalManager.viewRefreshTotal.WithLabelValues(view).Inc()
	globalManager.viewRefreshDuration.WithLabelValues(view).Observe(seconds)
}

// Business Metrics Functions.

// RecordRecommendation counts one issued recommendation by label.
func RecordRecommendation(label string) {
	globalManager.recommendationsIssued.WithLabelValues(label).Inc()
}

// UpdateAthletesTracked sets the distinct athlete count.
func UpdateAthletesTracked(count int) {
	globalManager.athletesTracked.Set(float64(count))
}

// Access Metrics Functions.

// RecordLoginAttempt counts one access key submission.
func RecordLoginAttempt(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	globalManager.loginAttempts.WithLabelValues(outcome).Inc()
}

// UpdateActiveSessions sets the unexpired session count.
func UpdateActiveSessions(count int) {
	globalManager.activeSessions.Set(float64(count))
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// HTTPRequestStarted marks one request as in flight.
func HTTPRequestStarted() {
	globalManager.httpInFlight.Inc()
}

// HTTPRequestFinished marks one in-flight request as served.
func HTTPRequestFinished() {
	globalManager.httpInFlight.Dec()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
