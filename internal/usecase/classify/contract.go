package classify

import (
	"context"
	"time"

	"github.com/kailas-cloud/searchintent/internal/domain/entity"
	"github.com/kailas-cloud/searchintent/internal/domain/intent/result"
)

// EntityIndex looks up directory entities by normalized text.
// Implementations may return a superset of the matching records; the
// classifier makes the final decision.
type EntityIndex interface {
	Lookup(ctx context.Context, kind entity.Kind, text string) ([]entity.Record, error)
}

// Metrics records classifier outcomes.
type Metrics interface {
	ObserveLookup(kind entity.Kind, d time.Duration, err error)
	ObserveClassification(t result.Type, pass string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveLookup(entity.Kind, time.Duration, error) {}
func (nopMetrics) ObserveClassification(result.Type, string)       {}
