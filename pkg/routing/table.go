package routing

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dmitrymomot/subdomains/pkg/hostrouter"
)

// BareKey is the mapping key for requests to the bare parent domain.
const BareKey = "@"

// TableID identifies a routing table in a registry.
type TableID string

// Mapping binds subdomain tokens (or BareKey) to routing tables.
// A Mapping is read-only once handed to a router; build a new one to change it.
type Mapping map[string]TableID

// NormalizeMapping returns a copy of m with lower-cased, trimmed keys.
// An empty key is treated as BareKey.
func NormalizeMapping(m Mapping) Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[normalizeKey(k)] = v
	}
	return out
}

// ParseMapping parses a comma-separated list of key=table pairs.
//
// Example:
//
//	routing.ParseMapping("@=marketing,www=marketing,api=api")
func ParseMapping(s string) (Mapping, error) {
	m := make(Mapping)
	for pair := range strings.SplitSeq(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		v = strings.TrimSpace(v)
		if !ok || v == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMapping, pair)
		}
		m[normalizeKey(k)] = TableID(v)
	}
	return m, nil
}

// Lookup returns the table bound to the given subdomain.
// An empty subdomain looks up BareKey.
func (m Mapping) Lookup(subdomain string) (TableID, bool) {
	id, ok := m[normalizeKey(subdomain)]
	return id, ok
}

// Keys returns the mapping keys in sorted order.
// BareKey sorts before any host label.
func (m Mapping) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}

// Select maps an extraction result to a routing table.
// Bare results look up BareKey and subdomains look up their token.
// It returns false when the mapping has no entry, in which case the caller
// uses the deployment's default table. Unmatched results never select a table.
func Select(res hostrouter.Result, m Mapping) (TableID, bool) {
	switch res.Kind {
	case hostrouter.Bare:
		id, ok := m[BareKey]
		return id, ok
	case hostrouter.Subdomain:
		id, ok := m[res.Token]
		return id, ok
	default:
		return "", false
	}
}

// SubdomainOf returns the subdomain a mapping key addresses.
// BareKey maps to the empty subdomain.
func SubdomainOf(key string) string {
	if key == BareKey {
		return ""
	}
	return key
}

func normalizeKey(k string) string {
	k = strings.ToLower(strings.Trim(k, ". "))
	if k == "" {
		return BareKey
	}
	return k
}
