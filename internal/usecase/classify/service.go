package classify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchintent/internal/domain/entity"
	"github.com/kailas-cloud/searchintent/internal/domain/intent/query"
	"github.com/kailas-cloud/searchintent/internal/domain/intent/result"
	"github.com/kailas-cloud/searchintent/internal/domain/normalize"
	"github.com/kailas-cloud/searchintent/internal/domain/slug"
	logpkg "github.com/kailas-cloud/searchintent/internal/logger"
)

// Classifier defaults.
const (
	DefaultLookupTimeout = 300 * time.Millisecond
	DefaultMinPrefixLen  = 3
)

// Pass labels for outcomes that never reach the chain.
const (
	passEmpty    = "empty"
	passFallback = "fallback"
)

// repairTokens mark repair intent in free text and are dropped before matching.
var repairTokens = map[string]struct{}{
	"repair":  {},
	"repairs": {},
}

// Service resolves free text to a canonical directory destination.
type Service struct {
	index         EntityIndex
	mapping       slug.Mapping
	precedence    Precedence
	passes        []Pass
	lookupTimeout time.Duration
	minPrefixLen  int
	metrics       Metrics
}

// New creates a classifier over index using mapping for slug canonicalization.
func New(index EntityIndex, mapping slug.Mapping) *Service {
	return &Service{
		index:         index,
		mapping:       mapping,
		precedence:    DefaultPrecedence(),
		passes:        DefaultPasses(),
		lookupTimeout: DefaultLookupTimeout,
		minPrefixLen:  DefaultMinPrefixLen,
		metrics:       nopMetrics{},
	}
}

// WithPrecedence overrides the kind tie-break order.
func (s *Service) WithPrecedence(p Precedence) *Service {
	if len(p) > 0 {
		s.precedence = p
	}
	return s
}

// WithPasses overrides the pass chain.
func (s *Service) WithPasses(passes []Pass) *Service {
	if len(passes) > 0 {
		s.passes = passes
	}
	return s
}

// WithLookupTimeout bounds every entity index lookup.
func (s *Service) WithLookupTimeout(d time.Duration) *Service {
	if d > 0 {
		s.lookupTimeout = d
	}
	return s
}

// WithMinPrefixLen sets how many runes must be typed before partial names match.
func (s *Service) WithMinPrefixLen(n int) *Service {
	if n > 0 {
		s.minPrefixLen = n
	}
	return s
}

// WithMetrics attaches an outcome recorder.
func (s *Service) WithMetrics(m Metrics) *Service {
	if m != nil {
		s.metrics = m
	}
	return s
}

// Mapping returns the slug table the classifier canonicalizes with.
func (s *Service) Mapping() slug.Mapping { return s.mapping }

// Classify resolves q to a destination. It never fails: anything that cannot
// be resolved, including index outages, ends in the search fallback.
func (s *Service) Classify(ctx context.Context, q query.Query) result.Result {
	log := logpkg.FromContext(ctx)

	text, repairIntent := stripRepairTokens(normalize.Key(q.RawText()))
	if text == "" {
		s.metrics.ObserveClassification(result.Search, passEmpty)
		return result.Fallback()
	}

	f := q.Filter()
	in := &input{
		text:      text,
		repair:    f.ForcesRepair() || (repairIntent && !f.ForbidsRepair()),
		mapping:   s.mapping,
		minPrefix: s.minPrefixLen,
	}
	for _, k := range s.precedence {
		if f.Allows(k) {
			in.order = append(in.order, k)
		}
	}

	in.byKind = buildCandidates(s.lookupAll(ctx, in.order, text), s.mapping)

	for _, p := range s.passes {
		res, ok := p.Run(in)
		if !ok {
			continue
		}
		s.metrics.ObserveClassification(res.Type(), p.Name)
		log.Debug("query classified",
			zap.String("pass", p.Name),
			zap.String("type", string(res.Type())),
			zap.String("url", res.URL()),
			zap.Bool("repair", in.repair),
		)
		return res
	}

	s.metrics.ObserveClassification(result.Search, passFallback)
	log.Debug("query unresolved", zap.String("text", text), zap.String("filter", string(f)))
	return result.Fallback()
}

// lookupAll queries every kind concurrently and waits for all of them.
// A failed lookup contributes no candidates instead of failing the request.
func (s *Service) lookupAll(ctx context.Context, kinds []entity.Kind, text string) map[entity.Kind][]entity.Record {
	found := make([][]entity.Record, len(kinds))

	var wg sync.WaitGroup
	for i, k := range kinds {
		i, k := i, k
		wg.Add(1)
		go func() {
			defer wg.Done()
			found[i] = s.lookup(ctx, k, text)
		}()
	}
	wg.Wait()

	out := make(map[entity.Kind][]entity.Record, len(kinds))
	for i, k := range kinds {
		out[k] = found[i]
	}
	return out
}

func (s *Service) lookup(ctx context.Context, kind entity.Kind, text string) (recs []entity.Record) {
	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	start := time.Now()
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lookup panic: %v", r)
			recs = nil
		}
		s.metrics.ObserveLookup(kind, time.Since(start), err)
		if err != nil {
			logpkg.FromContext(ctx).Warn("Entity lookup failed, continuing without candidates",
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
		}
	}()

	recs, err = s.index.Lookup(ctx, kind, text)
	if err != nil {
		return nil
	}
	return recs
}

// stripRepairTokens removes repair intent words from a match key and
// reports whether any were present.
func stripRepairTokens(key string) (string, bool) {
	tokens := strings.Fields(key)
	kept := tokens[:0]
	found := false
	for _, t := range tokens {
		if _, ok := repairTokens[t]; ok {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	return strings.Join(kept, " "), found
}
