// Package metrics provides Prometheus metrics for the confidence pool service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run status label values.
const (
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline metrics
	pipelineRuns        *prometheus.CounterVec
	pipelineLatency     prometheus.Histogram
	submissionsTotal    prometheus.Gauge
	effectivePicksTotal prometheus.Gauge
	droppedEntries      *prometheus.CounterVec
	duplicateWeights    prometheus.Counter
	playersTotal        prometheus.Gauge
	gamesComplete       prometheus.Gauge
	lastRunUnix         prometheus.Gauge

	// Refresh queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueueErrors prometheus.Counter
	workerCount        prometheus.Gauge

	// Store metrics
	storeQueryLatency prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pickem",
		subsystem:        "pool",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.pipelineRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_runs_total",
		Help:      "Scoring pipeline runs by outcome",
	}, []string{"status"})
	m.pipelineLatency = m.histogram("pipeline_latency_milliseconds",
		"Duration of a full load-score-store run in milliseconds", m.histogramBuckets)
	m.submissionsTotal = m.gauge("submissions", "Flat submissions produced by the last run")
	m.effectivePicksTotal = m.gauge("effective_picks", "Effective picks selected by the last run")
	m.droppedEntries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dropped_entries_total",
		Help:      "Participant entries dropped or excluded, by reason",
	}, []string{"reason"})
	m.duplicateWeights = m.counter("duplicate_weights_total",
		"Picks whose confidence weight was zeroed as a duplicate")
	m.playersTotal = m.gauge("players", "Players on the current scoreboard")
	m.gamesComplete = m.gauge("games_complete", "Completed games in the current round-set")
	m.lastRunUnix = m.gauge("last_run_timestamp_seconds", "Unix time of the last successful run")

	m.queueSize = m.gauge("refresh_queue_size", "Pending refresh requests")
	m.queueCapacity = m.gauge("refresh_queue_capacity", "Capacity of the refresh queue")
	m.queueEnqueueErrors = m.counter("refresh_queue_rejected_total",
		"Refresh requests rejected because the queue was full or closed")
	m.workerCount = m.gauge("refresh_worker_count", "Refresh workers running")

	m.storeQueryLatency = m.histogram("store_query_latency_milliseconds",
		"Scoreboard store query latency in milliseconds", m.histogramBuckets)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Errors by component and type",
	}, []string{"component", "error_type"})
	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_endpoint_total",
		Help:      "HTTP errors by endpoint, method and type",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordPipelineRun counts a run with the given status and observes its latency.
func RecordPipelineRun(status string, latencyMs float64) {
	globalManager.pipelineRuns.WithLabelValues(status).Inc()
	globalManager.pipelineLatency.Observe(latencyMs)
}

// UpdateRunSize sets the submission and effective pick gauges for the last run.
func UpdateRunSize(submissions, effectivePicks int) {
	globalManager.submissionsTotal.Set(float64(submissions))
	globalManager.effectivePicksTotal.Set(float64(effectivePicks))
}

// RecordDroppedEntries adds n dropped entries for reason.
func RecordDroppedEntries(reason string, n int) {
	if n <= 0 {
		return
	}
	globalManager.droppedEntries.WithLabelValues(reason).Add(float64(n))
}

// RecordDuplicateWeights adds n zeroed duplicate weights.
func RecordDuplicateWeights(n int) {
	if n <= 0 {
		return
	}
	globalManager.duplicateWeights.Add(float64(n))
}

// UpdateScoreboard sets the player and completed-game gauges.
func UpdateScoreboard(players, gamesComplete int) {
	globalManager.playersTotal.Set(float64(players))
	globalManager.gamesComplete.Set(float64(gamesComplete))
}

// UpdateLastRun sets the unix time of the last successful run.
func UpdateLastRun(unix int64) {
	globalManager.lastRunUnix.Set(float64(unix))
}

// UpdateQueueSize sets the current refresh queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum refresh queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueueError increments the rejected refresh counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the current refresh worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordStoreQueryLatency records store query latency.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

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
