package observability

import (
	"time"

	"github.com/cardwise/cardwise-api/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the recommendation engine.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration      *prometheus.HistogramVec
	externalErrors       *prometheus.CounterVec
	cacheHits            *prometheus.CounterVec
	cacheMisses          *prometheus.CounterVec
	recommendationsTotal *prometheus.CounterVec
	exclusionsApplied    prometheus.Counter
	stageDerivations     prometheus.Counter
	pathwaysTotal        prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cardwise_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardwise_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardwise_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardwise_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		recommendationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardwise_recommendations_total",
				Help: "Total recommendations produced, by confidence.",
			},
			[]string{"confidence"},
		),
		exclusionsApplied: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cardwise_exclusions_applied_total",
				Help: "Total recommendations whose winning card was excluded.",
			},
		),
		stageDerivations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cardwise_stage_derivations_total",
				Help: "Total credit state derivations performed.",
			},
		),
		pathwaysTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cardwise_pathways_generated_total",
				Help: "Total credit pathways generated.",
			},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrRecommendation counts a produced recommendation by confidence, and
// the exclusion counter when the winner carried an exclusion.
func (m *Metrics) IncrRecommendation(confidence string, excluded bool) {
	m.recommendationsTotal.WithLabelValues(confidence).Inc()
	if excluded {
		m.exclusionsApplied.Inc()
	}
}

// IncrStageDerivation counts one credit state derivation.
func (m *Metrics) IncrStageDerivation() {
	m.stageDerivations.Inc()
}

// IncrPathway counts one generated credit pathway.
func (m *Metrics) IncrPathway() {
	m.pathwaysTotal.Inc()
}

// GetEngineSnapshot returns a snapshot of engine metrics suitable for the
// GET /v1/metrics/engine endpoint.
func (m *Metrics) GetEngineSnapshot() *domain.EngineMetrics {
	byConfidence := map[string]int64{
		string(domain.ConfidenceHigh):   int64(getCounterValue(m.recommendationsTotal, string(domain.ConfidenceHigh))),
		string(domain.ConfidenceMedium): int64(getCounterValue(m.recommendationsTotal, string(domain.ConfidenceMedium))),
		string(domain.ConfidenceLow):    int64(getCounterValue(m.recommendationsTotal, string(domain.ConfidenceLow))),
	}

	var total int64
	for _, n := range byConfidence {
		total += n
	}

	cacheHits := getPlainCounterValue(m.cacheHits.WithLabelValues("catalog"))
	cacheMisses := getPlainCounterValue(m.cacheMisses.WithLabelValues("catalog"))
	cacheHitRate := float64(0)
	if cacheHits+cacheMisses > 0 {
		cacheHitRate = cacheHits / (cacheHits + cacheMisses)
	}

	return &domain.EngineMetrics{
		TotalRecommendations: total,
		ByConfidence:         byConfidence,
		ExclusionsApplied:    int64(getPlainCounterValue(m.exclusionsApplied)),
		StageDerivations:     int64(getPlainCounterValue(m.stageDerivations)),
		PathwaysGenerated:    int64(getPlainCounterValue(m.pathwaysTotal)),
		CacheHitRate:         cacheHitRate,
		Period:               "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	return getPlainCounterValue(cv.WithLabelValues(label))
}

func getPlainCounterValue(counter prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
