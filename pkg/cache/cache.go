package cache

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache stores values with a bounded lifetime.
//
// TTL semantics for Set:
//   - Positive duration: the entry expires after this duration
//   - Zero: the cache's default TTL applies
//   - Negative: the entry never expires
type Cache[V any] interface {
	// Get returns ErrNotFound if the key is missing or expired.
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Clear removes every entry owned by this cache.
	Clear(ctx context.Context) error
	Close() error
}

// LoadFunc computes a value on a cache miss and reports how long to keep it.
type LoadFunc[V any] func(ctx context.Context) (V, time.Duration, error)

var loads singleflight.Group

type loaded[V any] struct {
	val V
	ttl time.Duration
}

// GetOrSet returns the cached value for key, or loads and stores it.
// Concurrent misses on the same cache and key share a single load.
// Load errors are returned as is and nothing is cached.
func GetOrSet[V any](ctx context.Context, c Cache[V], key string, load LoadFunc[V]) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	}

	res, err, _ := loads.Do(fmt.Sprintf("%p/%s", c, key), func() (any, error) {
		v, ttl, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return loaded[V]{val: v, ttl: ttl}, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	l := res.(loaded[V])
	_ = c.Set(ctx, key, l.val, l.ttl)
	return l.val, nil
}
