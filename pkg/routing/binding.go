package routing

import (
	"context"

	"github.com/dmitrymomot/subdomains/pkg/hostrouter"
)

// BindState tracks how far subdomain binding progressed for a request.
type BindState uint8

const (
	StateNew BindState = iota
	StateHostExtracted
	StateTableSelected
	// StateDone is reported by the Subdomain middleware after the
	// downstream handler returned. Handlers never observe it.
	StateDone
)

// String returns the state name.
func (s BindState) String() string {
	switch s {
	case StateHostExtracted:
		return "host_extracted"
	case StateTableSelected:
		return "table_selected"
	case StateDone:
		return "done"
	default:
		return "new"
	}
}

// Binding is the per-request result of subdomain resolution.
type Binding struct {
	// Domain is the parent domain resolved for this request.
	Domain string
	// Table is the selected table; meaningful only when Selected is true.
	Table  TableID
	Result hostrouter.Result
	// Selected reports whether the mapping overrode the default table.
	Selected bool
	State    BindState
}

// Subdomain returns the subdomain token, or "" for bare and unmatched hosts.
func (b Binding) Subdomain() string {
	if b.Result.Kind != hostrouter.Subdomain {
		return ""
	}
	return b.Result.Token
}

type bindingKey struct{}

// WithBinding stores the binding in the context.
func WithBinding(ctx context.Context, b Binding) context.Context {
	return context.WithValue(ctx, bindingKey{}, b)
}

// BindingFromContext retrieves the binding stored by WithBinding.
func BindingFromContext(ctx context.Context) (Binding, bool) {
	b, ok := ctx.Value(bindingKey{}).(Binding)
	return b, ok
}
