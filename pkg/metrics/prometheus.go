// Package metrics provides Prometheus metrics for report generation runs.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes used as the outcome label.
const (
	OutcomeSuccess           = "success"
	OutcomeSourceUnavailable = "source_unavailable"
	OutcomeRenderFailed      = "render_failed"
	OutcomeWriteFailed       = "write_failed"
)

// Record set names used as the set label.
const (
	SetAthletes = "athletes"
	SetMeets    = "meets"
	SetResults  = "results"
)

// Manager holds the Prometheus collectors for the report pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Data quality
	rowsLoaded    *prometheus.CounterVec
	rowsDropped   *prometheus.CounterVec
	unresolved    prometheus.Counter
	nonComparable prometheus.Counter
	duplicateMeet prometheus.Counter

	// Runs
	runs           *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec
	lastSuccessUTC prometheus.Gauge

	// Preview HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "trackboard",
		subsystem:        "report",
		histogramBuckets: []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per collector
	auto := promauto.With(m.registry)

	m.rowsLoaded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_loaded_total",
		Help:      "Rows kept after normalization, by record set",
	}, []string{"set"})

	m.rowsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_dropped_total",
		Help:      "Rows dropped for a missing required field, by record set",
	}, []string{"set"})

	m.unresolved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unresolved_joins_total",
		Help:      "Results whose meet name matched no meet",
	})

	m.nonComparable = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "non_comparable_performances_total",
		Help:      "Results whose performance is not numeric",
	})

	m.duplicateMeet = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_meet_names_total",
		Help:      "Meet names that appear on more than one row",
	})

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Pipeline runs by outcome",
	}, []string{"outcome"})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stage_duration_milliseconds",
		Help:      "Duration of each pipeline stage in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"stage"})

	m.lastSuccessUTC = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_success_unix",
		Help:      "Unix timestamp of the last successful run",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Preview server requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Preview server request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordRowsLoaded adds n kept rows for a record set.
func RecordRowsLoaded(set string, n int) {
	globalManager.rowsLoaded.WithLabelValues(set).Add(float64(n))
}

// RecordRowsDropped adds n dropped rows for a record set.
func RecordRowsDropped(set string, n int) {
	globalManager.rowsDropped.WithLabelValues(set).Add(float64(n))
}

// RecordUnresolvedJoins adds n results with no matching meet.
func RecordUnresolvedJoins(n int) {
	globalManager.unresolved.Add(float64(n))
}

// RecordNonComparable adds n results with a non-numeric performance.
func RecordNonComparable(n int) {
	globalManager.nonComparable.Add(float64(n))
}

// RecordDuplicateMeets adds n duplicated meet names.
func RecordDuplicateMeets(n int) {
	globalManager.duplicateMeet.Add(float64(n))
}

// RecordRun counts a finished run.
func RecordRun(outcome string) {
	globalManager.runs.WithLabelValues(outcome).Inc()
}

// RecordStageDuration observes how long a pipeline stage took.
func RecordStageDuration(stage string, d time.Duration) {
	globalManager.stageDuration.WithLabelValues(stage).Observe(float64(d) / float64(time.Millisecond))
}

// MarkSuccess stores the time of a successful run.
func MarkSuccess(at time.Time) {
	globalManager.lastSuccessUTC.Set(float64(at.Unix()))
}

// RecordHTTPRequest records a preview server request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records preview server request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes every metric in the registry to path in the text
// exposition format, for collection by a node exporter.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}
