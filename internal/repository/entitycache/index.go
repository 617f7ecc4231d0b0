// Package entitycache decorates an entity index with a key-value cache.
package entitycache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchintent/internal/db"
	"github.com/kailas-cloud/searchintent/internal/domain"
	"github.com/kailas-cloud/searchintent/internal/domain/entity"
)

// DefaultTTL bounds how stale a cached candidate set can be.
const DefaultTTL = 5 * time.Minute

var cacheKeyPrefix = domain.KeyPrefix + "entity:"

// index is the decorated lookup (ISP).
type index interface {
	Lookup(ctx context.Context, kind entity.Kind, text string) ([]entity.Record, error)
}

// store is the consumer interface for the cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// recordDTO is the cached form of an entity record.
type recordDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	CountrySlug  string `json:"country_slug,omitempty"`
	SingularName string `json:"singular_name,omitempty"`
	PluralName   string `json:"plural_name,omitempty"`
}

// CachedIndex caches lookup results per kind and text.
type CachedIndex struct {
	inner   index
	store   store
	ttl     time.Duration
	onCache func(result string)
	logger  *zap.Logger
}

// New creates a caching decorator. onCache receives "hit", "miss" or
// "error" for every lookup and may be nil. A nil logger discards warnings.
func New(inner index, s store, ttl time.Duration, onCache func(string), logger *zap.Logger) *CachedIndex {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedIndex{inner: inner, store: s, ttl: ttl, onCache: onCache, logger: logger}
}

// Lookup serves from the cache, falling through to the inner index on a
// miss or any cache failure. Inner failures are never cached.
func (c *CachedIndex) Lookup(ctx context.Context, kind entity.Kind, text string) ([]entity.Record, error) {
	key := cacheKey(kind, text)

	if recs, ok := c.getFromCache(ctx, kind, key); ok {
		c.count("hit")
		return recs, nil
	}
	c.count("miss")

	recs, err := c.inner.Lookup(ctx, kind, text)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", kind, err)
	}

	c.putToCache(ctx, key, recs)
	return recs, nil
}

func (c *CachedIndex) count(result string) {
	if c.onCache != nil {
		c.onCache(result)
	}
}

func cacheKey(kind entity.Kind, text string) string {
	h := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + string(kind) + ":" + hex.EncodeToString(h[:])
}

func (c *CachedIndex) getFromCache(ctx context.Context, kind entity.Kind, key string) ([]entity.Record, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.count("error")
			c.logger.Warn("Failed to get cached entities", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var rows []recordDTO
	if err := json.Unmarshal(data, &rows); err != nil {
		c.logger.Warn("Failed to parse cached entities", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return fromDTOs(kind, rows), true
}

func (c *CachedIndex) putToCache(ctx context.Context, key string, recs []entity.Record) {
	data, err := json.Marshal(toDTOs(recs))
	if err != nil {
		c.logger.Warn("Failed to encode entities", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache entities", zap.String("key", key), zap.Error(err))
	}
}

func toDTOs(recs []entity.Record) []recordDTO {
	out := make([]recordDTO, len(recs))
	for i := range recs {
		r := &recs[i]
		out[i] = recordDTO{
			ID:          r.ID(),
			Name:        r.Name(),
			Slug:        r.Slug(),
			CountrySlug: r.CountrySlug(),
			PluralName:  r.PluralName(),
		}
		if r.HasSingularName() {
			out[i].SingularName = r.SingularName()
		}
		if out[i].PluralName == r.Name() {
			out[i].PluralName = ""
		}
	}
	return out
}

func fromDTOs(kind entity.Kind, rows []recordDTO) []entity.Record {
	out := make([]entity.Record, len(rows))
	for i, d := range rows {
		switch kind {
		case entity.Place:
			out[i] = entity.NewPlace(d.ID, d.Name, d.Slug, d.CountrySlug)
		case entity.Category:
			out[i] = entity.NewCategory(d.ID, d.Name, d.Slug, d.SingularName, d.PluralName)
		default:
			out[i] = entity.NewBrand(d.ID, d.Name, d.Slug)
		}
	}
	return out
}
