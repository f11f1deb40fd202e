// Package cache holds resolved domains and table namespaces between requests.
//
// Two backends implement [Cache]: [Memory] for a single process and [Redis]
// for a fleet that should agree on the resolved parent domain. Both honour
// the same TTL rules, and neither serves a value past its lifetime.
//
//	domains := cache.NewMemory[string](cache.WithDefaultTTL(5 * time.Minute))
//	defer domains.Close()
//
//	d, err := cache.GetOrSet(ctx, domains, "site:1", func(ctx context.Context) (string, time.Duration, error) {
//	    d, err := src.Domain(ctx)
//	    return d, 0, err
//	})
//
// [GetOrSet] collapses concurrent misses for the same cache and key into one
// load.
//
// Redis values go through a [Codec]; [JSON] is the default and [String]
// stores plain strings.
package cache
