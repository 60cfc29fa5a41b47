// Package metrics provides Prometheus metrics for the matching core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Matching metrics
	matchesGenerated     prometheus.Counter
	suggestionsPersisted prometheus.Counter
	scoringDuration      prometheus.Histogram

	// Ledger metrics
	eventsAppended  prometheus.Counter
	appendConflicts prometheus.Counter

	// Lifecycle metrics
	transitions *prometheus.CounterVec

	// Projection metrics
	projectionRebuilds        prometheus.Counter
	projectionRebuildDuration prometheus.Histogram
	applicationsTotal         prometheus.Gauge
	suggestionsTotal          prometheus.Gauge

	// Hook dispatch metrics
	hooksDispatched      *prometheus.CounterVec
	hookFailures         *prometheus.CounterVec
	hooksDropped         prometheus.Counter
	hookQueueSize        prometheus.Gauge
	hookQueueCapacity    prometheus.Gauge
	hookQueueUtilization prometheus.Gauge
	hookWorkerCount      prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager on a custom registry, keeping the default Go
// collectors out of the scrape.
var globalManager *Manager                        //nolint:gochecknoglobals // singleton metrics manager
var customRegistry = prometheus.NewRegistry()     //nolint:gochecknoglobals // metrics registry
func init() {                                     //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "voluntr",
		subsystem:        "matching",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.matchesGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_generated_total",
		Help:      "Total number of match suggestions generated",
	})

	m.suggestionsPersisted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "suggestions_persisted_total",
		Help:      "Total number of match suggestions written to the projection",
	})

	m.scoringDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_duration_milliseconds",
		Help:      "Time spent scoring and ranking one candidate set",
		Buckets:   m.histogramBuckets,
	})

	m.eventsAppended = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_appended_total",
		Help:      "Total number of events committed to the ledger",
	})

	m.appendConflicts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "append_conflicts_total",
		Help:      "Total number of optimistic concurrency conflicts on append",
	})

	m.transitions = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "transitions_total",
			Help:      "Total number of committed lifecycle transitions by trigger",
		},
		[]string{"trigger"},
	)

	m.projectionRebuilds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "projection_rebuilds_total",
		Help:      "Total number of projection rebuilds from the ledger",
	})

	m.projectionRebuildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "projection_rebuild_duration_milliseconds",
		Help:      "Projection rebuild duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.applicationsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "applications_total",
		Help:      "Number of application snapshots in the projection",
	})

	m.suggestionsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "suggestions_total",
		Help:      "Number of match suggestions in the projection",
	})

	m.hooksDispatched = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "hooks_dispatched_total",
			Help:      "Total number of post-commit hooks delivered by effect",
		},
		[]string{"effect"},
	)

	m.hookFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "hook_failures_total",
			Help:      "Total number of failed hook deliveries by effect (logged, never propagated)",
		},
		[]string{"effect"},
	)

	m.hooksDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "hooks_dropped_total",
		Help:      "Total number of hooks dropped due to a full dispatch queue",
	})

	m.hookQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "hook_queue_size",
		Help:      "Current size of the hook dispatch queue",
	})

	m.hookQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "hook_queue_capacity",
		Help:      "Maximum hook dispatch queue capacity",
	})

	m.hookQueueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "hook_queue_utilization_ratio",
		Help:      "Hook queue utilization (current size / capacity)",
	})

	m.hookWorkerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "hook_worker_count",
		Help:      "Number of hook dispatch workers",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by endpoint, method and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)
}

// RecordMatchesGenerated adds to the generated match counter.
func RecordMatchesGenerated(n int) {
	globalManager.matchesGenerated.Add(float64(n))
}

// RecordSuggestionPersisted increments the persisted suggestion counter.
func RecordSuggestionPersisted() {
	globalManager.suggestionsPersisted.Inc()
}

// RecordScoringDuration records one scoring pass in milliseconds.
func RecordScoringDuration(ms float64) {
	globalManager.scoringDuration.Observe(ms)
}

// RecordEventAppended increments the committed event counter.
func RecordEventAppended() {
	globalManager.eventsAppended.Inc()
}

// RecordAppendConflict increments the concurrency conflict counter.
func RecordAppendConflict() {
	globalManager.appendConflicts.Inc()
}

// RecordTransition increments the transition counter for a trigger.
func RecordTransition(trigger string) {
	globalManager.transitions.WithLabelValues(trigger).Inc()
}

// RecordProjectionRebuild records one rebuild and its duration.
func RecordProjectionRebuild(durationMs float64) {
	globalManager.projectionRebuilds.Inc()
	globalManager.projectionRebuildDuration.Observe(durationMs)
}

// UpdateApplicationsTotal sets the application snapshot gauge.
func UpdateApplicationsTotal(n int) {
	globalManager.applicationsTotal.Set(float64(n))
}

// UpdateSuggestionsTotal sets the suggestion gauge.
func UpdateSuggestionsTotal(n int) {
	globalManager.suggestionsTotal.Set(float64(n))
}

// RecordHookDispatched increments the delivered hook counter for an effect.
func RecordHookDispatched(effect string) {
	globalManager.hooksDispatched.WithLabelValues(effect).Inc()
}

// RecordHookFailure increments the failed hook counter for an effect.
func RecordHookFailure(effect string) {
	globalManager.hookFailures.WithLabelValues(effect).Inc()
}

// RecordHookDropped increments the dropped hook counter.
func RecordHookDropped() {
	globalManager.hooksDropped.Inc()
}

// UpdateHookQueueSize sets the hook queue size gauge.
func UpdateHookQueueSize(size int) {
	globalManager.hookQueueSize.Set(float64(size))
}

// UpdateHookQueueCapacity sets the hook queue capacity gauge.
func UpdateHookQueueCapacity(capacity int) {
	globalManager.hookQueueCapacity.Set(float64(capacity))
}

// UpdateHookQueueUtilization sets the hook queue utilization gauge.
func UpdateHookQueueUtilization(ratio float64) {
	globalManager.hookQueueUtilization.Set(ratio)
}

// UpdateHookWorkerCount sets the hook worker gauge.
func UpdateHookWorkerCount(count int) {
	globalManager.hookWorkerCount.Set(float64(count))
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records one HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// GetRegistry returns the custom registry for the metrics endpoint.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
