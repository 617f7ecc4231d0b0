package metrics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/searchintent/internal/domain/entity"
	"github.com/kailas-cloud/searchintent/internal/domain/intent/result"
)

// Classifier Prometheus metrics.
var (
	ClassificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "classifications_total",
			Help:      "Classified queries by result type and resolving pass",
		},
		[]string{"type", "pass"},
	)

	EntityLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "entity_lookups_total",
			Help:      "Entity index lookups by kind and outcome",
		},
		[]string{"kind", "status"}, // "ok" / "error" / "timeout"
	)

	EntityLookupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "entity_lookup_duration_seconds",
			Help:      "Entity index lookup duration in seconds",
			Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
		[]string{"kind"},
	)

	EntityCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "entity_cache_total",
			Help:      "Entity lookup cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss" / "error"
	)
)

var registerOnce sync.Once

// RegisterClassifierMetrics registers the classifier collectors. Safe to call more than once.
func RegisterClassifierMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ClassificationsTotal)
		prometheus.MustRegister(EntityLookupsTotal)
		prometheus.MustRegister(EntityLookupDuration)
		prometheus.MustRegister(EntityCacheTotal)
	})
}

// Recorder feeds classifier outcomes into the package collectors.
type Recorder struct{}

// NewRecorder returns a Recorder backed by the registered collectors.
func NewRecorder() *Recorder { return &Recorder{} }

// ObserveLookup records one entity index lookup.
func (*Recorder) ObserveLookup(kind entity.Kind, d time.Duration, err error) {
	EntityLookupsTotal.WithLabelValues(string(kind), lookupStatus(err)).Inc()
	EntityLookupDuration.WithLabelValues(string(kind)).Observe(d.Seconds())
}

// ObserveClassification records the final outcome of one query.
func (*Recorder) ObserveClassification(t result.Type, pass string) {
	ClassificationsTotal.WithLabelValues(string(t), pass).Inc()
}

// CacheResult records an entity cache outcome.
func CacheResult(res string) {
	EntityCacheTotal.WithLabelValues(res).Inc()
}

func lookupStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
