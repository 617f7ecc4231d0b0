package entitycache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchintent/internal/db"
	"github.com/kailas-cloud/searchintent/internal/domain/entity"
)

type mockIndex struct {
	recs  []entity.Record
	err   error
	calls int
}

func (m *mockIndex) Lookup(_ context.Context, _ entity.Kind, _ string) ([]entity.Record, error) {
	m.calls++
	return m.recs, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedIndex(t *testing.T, inner *mockIndex) (*CachedIndex, *mockKVStore, *[]string) {
	t.Helper()
	ms := &mockKVStore{}
	var results []string
	ci := New(inner, ms, time.Minute, func(r string) { results = append(results, r) }, zap.NewNop())
	return ci, ms, &results
}
