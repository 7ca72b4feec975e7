package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache memoizes fn per key. Failed lookups are never stored,
// so the next Get for that key calls fn again.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache           CacheManager[K, V]
	fn              func(ctx context.Context, input I) (V, error)
	shouldSkipCache bool
}

func NewReadThroughCache[K ~string, V any, I any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, input I) (V, error),
	shouldSkipCache bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:           cache,
		fn:              fn,
		shouldSkipCache: shouldSkipCache,
	}
}

func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if r.shouldSkipCache {
		return r.fn(ctx, input)
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	value, err := r.fn(ctx, input)
	if err != nil {
		return value, err
	}

	r.cache.Set(ctx, key, value, ttl)

	return value, nil
}

// Forget drops memoized values so the next Get for those keys reaches fn.
func (r *ReadThroughCache[K, V, I]) Forget(ctx context.Context, keys ...K) error {
	if r.shouldSkipCache || len(keys) == 0 {
		return nil
	}

	return r.cache.Delete(ctx, keys...)
}
