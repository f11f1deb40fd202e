package routing

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// ChiTable is a chi router that remembers the pattern behind every route name.
// chi has no reverse routing of its own; ChiTable records names at mount time
// and rebuilds paths from the recorded patterns.
type ChiTable struct {
	chi.Router
	patterns   map[string]string
	namespaces []string
	mu         sync.RWMutex
}

// NewChiTable creates a table with an empty chi router.
func NewChiTable(namespaces ...string) *ChiTable {
	return &ChiTable{
		Router:     chi.NewRouter(),
		patterns:   make(map[string]string),
		namespaces: namespaces,
	}
}

// Handle mounts h for method and pattern and records the route name.
// An empty method matches every method.
//
// Example:
//
//	t := routing.NewChiTable("api")
//	t.Handle("api:user", http.MethodGet, "/users/{id:[0-9]+}/", userHandler)
func (t *ChiTable) Handle(name, method, pattern string, h http.Handler) {
	if method == "" {
		t.Router.Handle(pattern, h)
	} else {
		t.Router.Method(method, pattern, h)
	}

	if name == "" {
		return
	}
	t.mu.Lock()
	t.patterns[name] = pattern
	t.mu.Unlock()
}

// HandleFunc is Handle for plain functions.
func (t *ChiTable) HandleFunc(name, method, pattern string, fn http.HandlerFunc) {
	t.Handle(name, method, pattern, fn)
}

// Names returns the recorded route names in sorted order.
func (t *ChiTable) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.patterns))
	for n := range t.patterns {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Path builds the path of the named route.
func (t *ChiTable) Path(name string, args Args) (string, error) {
	t.mu.RLock()
	pattern, ok := t.patterns[name]
	t.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNoRouteMatch, name)
	}

	p, err := expandPattern(pattern, args)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrNoRouteMatch, name, err)
	}
	return p, nil
}

// Namespaces returns the explicit namespaces plus route-name prefixes.
func (t *ChiTable) Namespaces() []string {
	return namespaceSet(t.namespaces, t.Names())
}

// ChiRegistry is a Registry of ChiTables.
type ChiRegistry struct {
	tables map[TableID]*ChiTable
	mu     sync.RWMutex
}

// NewChiRegistry creates an empty registry.
func NewChiRegistry() *ChiRegistry {
	return &ChiRegistry{tables: make(map[TableID]*ChiTable)}
}

// Register adds (or replaces) a table.
func (r *ChiRegistry) Register(id TableID, t *ChiTable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[id] = t
}

// Table returns a registered table.
func (r *ChiRegistry) Table(id TableID) (*ChiTable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[id]
	return t, ok
}

// ReversePath builds the path of the named route in table.
func (r *ChiRegistry) ReversePath(table TableID, name string, args Args) (string, error) {
	t, ok := r.Table(table)
	if !ok {
		return "", fmt.Errorf("%w: %w %q", ErrNoRouteMatch, ErrUnknownTable, table)
	}
	return t.Path(name, args)
}

// Namespaces returns the namespaces of table, or nil if it is unknown.
func (r *ChiRegistry) Namespaces(table TableID) []string {
	t, ok := r.Table(table)
	if !ok {
		return nil
	}
	return t.Namespaces()
}

// Handler returns the chi router of table.
func (r *ChiRegistry) Handler(table TableID) (http.Handler, bool) {
	t, ok := r.Table(table)
	if !ok {
		return nil, false
	}
	return t, true
}

// expandPattern substitutes chi placeholders ("{id}", "{id:[0-9]+}", trailing "*").
func expandPattern(pattern string, args Args) (string, error) {
	var (
		b          strings.Builder
		positional = args.Positional
		used       = make(map[string]bool, len(args.Named))
	)

	next := func(key string) (string, bool) {
		if v, ok := args.Named[key]; ok {
			used[key] = true
			return v, true
		}
		if len(positional) == 0 {
			return "", false
		}
		v := positional[0]
		positional = positional[1:]
		return v, true
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '{':
			end := closingBrace(pattern, i)
			if end < 0 {
				return "", fmt.Errorf("unbalanced braces in %q", pattern)
			}
			key, expr, _ := strings.Cut(pattern[i+1:end], ":")
			val, ok := next(key)
			if !ok {
				return "", fmt.Errorf("missing value for %q", key)
			}
			if expr != "" {
				re, err := regexp.Compile("^(?:" + expr + ")$")
				if err != nil {
					return "", err
				}
				if !re.MatchString(val) {
					return "", fmt.Errorf("value %q for %q does not match %q", val, key, expr)
				}
			}
			b.WriteString(url.PathEscape(val))
			i = end
		case c == '*' && i == len(pattern)-1:
			val, ok := next("*")
			if !ok {
				val = ""
			}
			b.WriteString(strings.TrimPrefix(val, "/"))
		default:
			b.WriteByte(c)
		}
	}

	if len(positional) > 0 {
		return "", fmt.Errorf("%d unused positional arguments", len(positional))
	}
	for k := range args.Named {
		if !used[k] {
			return "", fmt.Errorf("unknown argument %q", k)
		}
	}
	return b.String(), nil
}

// closingBrace returns the index of the brace closing the one at start.
// Regular expressions inside placeholders may contain their own braces.
func closingBrace(s string, start int) int {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

var (
	_ Registry        = (*ChiRegistry)(nil)
	_ HandlerRegistry = (*ChiRegistry)(nil)
)
