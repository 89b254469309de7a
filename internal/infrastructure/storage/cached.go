package storage

import (
	"context"
	"time"

	"github.com/riskibarqy/federation-awards/internal/platform/cache"
)

// CachedStore memoizes template and font binaries for ttl. Concurrent misses
// for the same name share one load; failures are not cached.
type CachedStore struct {
	next  Loader
	cache *cache.Store[[]byte]
}

func NewCachedStore(next Loader, ttl time.Duration) *CachedStore {
	return &CachedStore{next: next, cache: cache.NewStore[[]byte](ttl)}
}

func (s *CachedStore) Load(ctx context.Context, name string) ([]byte, error) {
	return s.cache.GetOrLoad(ctx, name, func(ctx context.Context) ([]byte, error) {
		return s.next.Load(ctx, name)
	})
}

// Invalidate drops one cached object, e.g. after a template is replaced.
func (s *CachedStore) Invalidate(ctx context.Context, name string) {
	s.cache.Delete(ctx, name)
}
