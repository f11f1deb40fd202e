package routing

import (
	"context"
	"slices"
	"time"

	"github.com/dmitrymomot/subdomains/pkg/cache"
)

// NamespaceIndex is a read-through cache of table namespaces.
// The registry is consulted once per table until Invalidate is called.
type NamespaceIndex struct {
	registry Registry
	cache    *cache.Memory[[]string]
}

// NewNamespaceIndex wraps registry with an in-memory namespace cache.
func NewNamespaceIndex(registry Registry) *NamespaceIndex {
	return &NamespaceIndex{
		registry: registry,
		cache: cache.NewMemory[[]string](
			cache.WithDefaultTTL(-1),
			cache.WithCleanupInterval(0),
		),
	}
}

// Namespaces returns the namespaces of table.
func (x *NamespaceIndex) Namespaces(table TableID) []string {
	ns, err := cache.GetOrSet(context.Background(), x.cache, "routing:ns:"+string(table),
		func(context.Context) ([]string, time.Duration, error) {
			return x.registry.Namespaces(table), -1, nil
		})
	if err != nil {
		return x.registry.Namespaces(table)
	}
	return ns
}

// Provides reports whether table provides namespace ns.
func (x *NamespaceIndex) Provides(table TableID, ns string) bool {
	return slices.Contains(x.Namespaces(table), ns)
}

// ReversePath delegates to the wrapped registry.
func (x *NamespaceIndex) ReversePath(table TableID, name string, args Args) (string, error) {
	return x.registry.ReversePath(table, name, args)
}

// Invalidate drops every cached entry. Call it after tables change.
func (x *NamespaceIndex) Invalidate() {
	_ = x.cache.Clear(context.Background())
}

// Close stops the cache janitor.
func (x *NamespaceIndex) Close() error {
	return x.cache.Close()
}

var _ Registry = (*NamespaceIndex)(nil)
