// Package metrics provides Prometheus metrics for the F1 derivation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the service's Prometheus collectors.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	deriveRequests  *prometheus.CounterVec
	deriveDuration  *prometheus.HistogramVec
	rejectedRecords *prometheus.CounterVec
	fetchDeduped    prometheus.Counter
	ingestQueueSize prometheus.Gauge
	storeSeasons    prometheus.Gauge
	storeRaces      prometheus.Gauge
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "f1dash",
		subsystem:        "derive",
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

	m.deriveRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "requests_total",
		Help:      "Total derive calls by view kind",
	}, []string{"kind"})

	m.deriveDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duration_milliseconds",
		Help:      "Histogram of derive durations in milliseconds by view kind",
		Buckets:   m.histogramBuckets,
	}, []string{"kind"})

	m.rejectedRecords = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ingest",
		Name:      "rejected_records_total",
		Help:      "Total records dropped at the normalization boundary by record kind",
	}, []string{"kind"})

	m.fetchDeduped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ingest",
		Name:      "fetch_deduped_total",
		Help:      "Total telemetry fetches that joined an in-flight fetch for the same race",
	})

	m.ingestQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "ingest",
		Name:      "queue_size",
		Help:      "Current number of queued ingest batches",
	})

	m.storeSeasons = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "seasons",
		Help:      "Number of seasons with ingested data",
	})

	m.storeRaces = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "races",
		Help:      "Number of races with ingested timing data",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by endpoint, method, and status",
	}, []string{"endpoint", "method", "status"})

	m.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "Histogram of HTTP request durations in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// Package-level helpers against the global manager.

// RecordDeriveRequest counts one derive call for a view kind.
func RecordDeriveRequest(kind string) {
	globalManager.deriveRequests.WithLabelValues(kind).Inc()
}

// RecordDeriveDuration observes one derive duration in milliseconds.
func RecordDeriveDuration(kind string, ms float64) {
	globalManager.deriveDuration.WithLabelValues(kind).Observe(ms)
}

// RecordRejectedRecords counts records dropped during normalization.
func RecordRejectedRecords(kind string, n int) {
	globalManager.rejectedRecords.WithLabelValues(kind).Add(float64(n))
}

// RecordFetchDeduped counts a telemetry fetch that shared an in-flight call.
func RecordFetchDeduped() {
	globalManager.fetchDeduped.Inc()
}

// UpdateIngestQueueSize sets the queued-batch gauge.
func UpdateIngestQueueSize(size int) {
	globalManager.ingestQueueSize.Set(float64(size))
}

// UpdateStoreSeasons sets the ingested-season gauge.
func UpdateStoreSeasons(count int) {
	globalManager.storeSeasons.Set(float64(count))
}

// UpdateStoreRaces sets the ingested-race gauge.
func UpdateStoreRaces(count int) {
	globalManager.storeRaces.Set(float64(count))
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// GetRegistry exposes the custom registry for the /healthz promhttp handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
