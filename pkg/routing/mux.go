package routing

import (
	"fmt"
	"net/http"
	"slices"
	"sync"

	"github.com/gorilla/mux"
)

// MuxRegistry is a Registry backed by gorilla/mux routers.
// Route names are the names given with mux.Route.Name.
type MuxRegistry struct {
	tables map[TableID]*muxTable
	mu     sync.RWMutex
}

type muxTable struct {
	router     *mux.Router
	namespaces []string
}

// NewMuxRegistry creates an empty registry.
func NewMuxRegistry() *MuxRegistry {
	return &MuxRegistry{tables: make(map[TableID]*muxTable)}
}

// Register adds (or replaces) a table.
// Namespaces are merged with the prefixes of the router's route names.
//
// Example:
//
//	api := mux.NewRouter()
//	api.HandleFunc("/view/", viewHandler).Name("api:view")
//	reg.Register("api", api)
func (r *MuxRegistry) Register(table TableID, router *mux.Router, namespaces ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[table] = &muxTable{router: router, namespaces: namespaces}
}

// ReversePath builds the path of the named route in table.
func (r *MuxRegistry) ReversePath(table TableID, name string, args Args) (string, error) {
	t, ok := r.table(table)
	if !ok {
		return "", fmt.Errorf("%w: %w %q", ErrNoRouteMatch, ErrUnknownTable, table)
	}

	route := t.router.Get(name)
	if route == nil {
		return "", fmt.Errorf("%w: %q in table %q", ErrNoRouteMatch, name, table)
	}

	vars, err := route.GetVarNames()
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrNoRouteMatch, name, err)
	}

	pairs, err := bindVars(vars, args)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrNoRouteMatch, name, err)
	}

	u, err := route.URLPath(pairs...)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrNoRouteMatch, name, err)
	}
	return u.EscapedPath(), nil
}

// Namespaces returns the namespaces of table, or nil if it is unknown.
func (r *MuxRegistry) Namespaces(table TableID) []string {
	t, ok := r.table(table)
	if !ok {
		return nil
	}

	var names []string
	_ = t.router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if n := route.GetName(); n != "" {
			names = append(names, n)
		}
		return nil
	})
	return namespaceSet(t.namespaces, names)
}

// Handler returns the router of table.
func (r *MuxRegistry) Handler(table TableID) (http.Handler, bool) {
	t, ok := r.table(table)
	if !ok {
		return nil, false
	}
	return t.router, true
}

func (r *MuxRegistry) table(id TableID) (*muxTable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[id]
	return t, ok
}

// bindVars turns route arguments into the name/value pairs mux expects.
func bindVars(vars []string, args Args) ([]string, error) {
	pairs := make([]string, 0, len(vars)*2)
	positional := args.Positional

	for _, v := range vars {
		if val, ok := args.Named[v]; ok {
			pairs = append(pairs, v, val)
			continue
		}
		if len(positional) == 0 {
			return nil, fmt.Errorf("missing value for %q", v)
		}
		pairs = append(pairs, v, positional[0])
		positional = positional[1:]
	}

	if len(positional) > 0 {
		return nil, fmt.Errorf("%d unused positional arguments", len(positional))
	}
	for k := range args.Named {
		if !slices.Contains(vars, k) {
			return nil, fmt.Errorf("unknown argument %q", k)
		}
	}
	return pairs, nil
}

var (
	_ Registry        = (*MuxRegistry)(nil)
	_ HandlerRegistry = (*MuxRegistry)(nil)
)
