package routing

import (
	"net/http"
)

// Dispatcher serves each request with the handler of its bound table.
// Requests without a selected table go to the default table; when the
// registry has no handler for the chosen table the fallback handles it.
type Dispatcher struct {
	registry HandlerRegistry
	def      TableID
	fallback http.Handler
}

// NewDispatcher creates a dispatcher. A nil fallback responds 404.
//
// Example:
//
//	d := routing.NewDispatcher(reg, "web", nil)
//	http.ListenAndServe(":8080", middlewares.Subdomain(binder)(d))
func NewDispatcher(registry HandlerRegistry, defaultTable TableID, fallback http.Handler) *Dispatcher {
	if fallback == nil {
		fallback = http.NotFoundHandler()
	}
	return &Dispatcher{
		registry: registry,
		def:      defaultTable,
		fallback: fallback,
	}
}

// ServeHTTP dispatches by the table recorded in the request binding.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := d.registry.Handler(d.Table(r)); ok {
		h.ServeHTTP(w, r)
		return
	}
	d.fallback.ServeHTTP(w, r)
}

// Table returns the table that serves r.
func (d *Dispatcher) Table(r *http.Request) TableID {
	if b, ok := BindingFromContext(r.Context()); ok && b.Selected {
		return b.Table
	}
	return d.def
}
