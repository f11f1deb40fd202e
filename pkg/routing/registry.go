package routing

import (
	"net/http"
	"strings"
)

// Args are the route arguments used to build a path.
// Positional values fill route variables in declaration order,
// skipping variables already present in Named.
type Args struct {
	Named      map[string]string
	Positional []string
}

// Registry reverses route names into paths for a given table.
type Registry interface {
	// ReversePath builds the path for the named route in table.
	// Returns an error wrapping ErrNoRouteMatch when the name or arguments
	// cannot be resolved.
	ReversePath(table TableID, name string, args Args) (string, error)

	// Namespaces returns the namespaces the table provides.
	Namespaces(table TableID) []string
}

// HandlerRegistry provides the request handler of each table.
type HandlerRegistry interface {
	Handler(table TableID) (http.Handler, bool)
}

// SplitNamespace splits a route name of the form "ns:view".
// Only the top-level namespace is returned: "a:b:view" -> ("a", "b:view").
func SplitNamespace(name string) (ns, rest string, ok bool) {
	ns, rest, ok = strings.Cut(name, ":")
	if !ok || ns == "" || rest == "" {
		return "", name, false
	}
	return ns, rest, true
}

// namespaceSet merges explicit namespaces with the prefixes of route names.
func namespaceSet(explicit []string, names []string) []string {
	seen := make(map[string]struct{}, len(explicit))
	out := make([]string, 0, len(explicit))
	add := func(ns string) {
		if ns == "" {
			return
		}
		if _, ok := seen[ns]; ok {
			return
		}
		seen[ns] = struct{}{}
		out = append(out, ns)
	}
	for _, ns := range explicit {
		add(ns)
	}
	for _, name := range names {
		if ns, _, ok := SplitNamespace(name); ok {
			add(ns)
		}
	}
	return out
}
