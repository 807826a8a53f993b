// Package metrics provides Prometheus metrics for the stint profiling pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace string
	subsystem string
	enabled   bool
	registry  prometheus.Registerer

	// Event Processing Metrics - season ingestion health
	eventsProcessed prometheus.Counter
	eventsSkipped   prometheus.Counter
	sessionsLoaded  prometheus.Counter

	// Classification Metrics - officiating message triage
	messagesClassified  prometheus.Counter
	messagesNoise       prometheus.Counter
	messagesUnresolved  prometheus.Counter
	incidentsByKind     *prometheus.CounterVec
	trackLimitDeletions prometheus.Counter

	// Profiling Metrics - feature table scale
	competitorsProfiled prometheus.Gauge
	seedCount           prometheus.Gauge
	predictionsMade     prometheus.Counter

	// Model Quality Metrics
	trainingAccuracy prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "stint",
		subsystem: "pipeline",
		enabled:   true,
		registry:  prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_processed_total",
		Help:      "Total number of completed events fully processed",
	})

	m.eventsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_skipped_total",
		Help:      "Total number of events skipped because session data failed to load",
	})

	m.sessionsLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_loaded_total",
		Help:      "Total number of session tables loaded from the event source",
	})

	m.messagesClassified = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "messages_classified_total",
		Help:      "Total number of officiating messages that produced an incident",
	})

	m.messagesNoise = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "messages_noise_total",
		Help:      "Total number of officiating messages rejected as noise",
	})

	m.messagesUnresolved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "messages_unresolved_total",
		Help:      "Total number of incident messages dropped for lacking a resolvable competitor",
	})

	m.incidentsByKind = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "incidents_total",
			Help:      "Total number of classified incidents by kind",
		},
		[]string{"kind"},
	)

	m.trackLimitDeletions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "track_limit_deletions_total",
		Help:      "Total number of lap deletions for exceeding track limits",
	})

	m.competitorsProfiled = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "competitors_profiled",
		Help:      "Number of competitors present in the season profile table",
	})

	m.seedCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "seed_count",
		Help:      "Number of hand-labeled seed competitors in the current run",
	})

	m.predictionsMade = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_total",
		Help:      "Total number of category predictions made for unseeded competitors",
	})

	m.trainingAccuracy = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "training_accuracy",
		Help:      "Training accuracy of the seed-label classifier on the seed rows",
	})
}

// Package-level helpers operating on the global manager.

// RecordEventProcessed increments the processed-events counter.
func RecordEventProcessed() {
	globalManager.eventsProcessed.Inc()
}

// RecordEventSkipped increments the skipped-events counter.
func RecordEventSkipped() {
	globalManager.eventsSkipped.Inc()
}

// RecordSessionLoaded increments the loaded-sessions counter.
func RecordSessionLoaded() {
	globalManager.sessionsLoaded.Inc()
}

// RecordMessageClassified increments the classified-messages counter.
func RecordMessageClassified() {
	globalManager.messagesClassified.Inc()
}

// RecordMessageNoise increments the noise-messages counter.
func RecordMessageNoise() {
	globalManager.messagesNoise.Inc()
}

// RecordMessageUnresolved increments the unresolved-messages counter.
func RecordMessageUnresolved() {
	globalManager.messagesUnresolved.Inc()
}

// RecordIncident increments the incident counter for a kind.
func RecordIncident(kind string) {
	globalManager.incidentsByKind.WithLabelValues(kind).Inc()
}

// RecordTrackLimitDeletion increments the track-limit deletions counter.
func RecordTrackLimitDeletion() {
	globalManager.trackLimitDeletions.Inc()
}

// UpdateCompetitorsProfiled sets the profiled-competitors gauge.
func UpdateCompetitorsProfiled(count int) {
	globalManager.competitorsProfiled.Set(float64(count))
}

// UpdateSeedCount sets the seed-count gauge.
func UpdateSeedCount(count int) {
	globalManager.seedCount.Set(float64(count))
}

// RecordPrediction increments the predictions counter.
func RecordPrediction() {
	globalManager.predictionsMade.Inc()
}

// UpdateTrainingAccuracy sets the training-accuracy gauge.
func UpdateTrainingAccuracy(accuracy float64) {
	globalManager.trainingAccuracy.Set(accuracy)
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
