package middlewares

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/subdomains/pkg/domain"
	"github.com/dmitrymomot/subdomains/pkg/hostrouter"
	"github.com/dmitrymomot/subdomains/pkg/logger"
	"github.com/dmitrymomot/subdomains/pkg/routing"
)

// DomainResolver yields the parent domain. *domain.Resolver implements it.
type DomainResolver interface {
	Resolve(ctx context.Context) (string, error)
}

// Binder resolves the subdomain of a request and selects its routing table.
// A Binder is immutable after construction and safe for concurrent use.
type Binder struct {
	resolver DomainResolver
	mapping  routing.Mapping
	vary     bool
	strict   bool
	logger   *slog.Logger
}

// BinderOption configures a Binder.
type BinderOption func(*Binder)

// WithVaryOnHost controls whether responses get "Vary: Host".
// Default: true. Turn it off only when no cache sits in front of the server.
func WithVaryOnHost(enabled bool) BinderOption {
	return func(b *Binder) {
		b.vary = enabled
	}
}

// WithStrictHostValidation rejects hosts outside the parent domain with
// ErrUnmatchedHost instead of serving them with the default table.
// Default: false.
func WithStrictHostValidation(strict bool) BinderOption {
	return func(b *Binder) {
		b.strict = strict
	}
}

// WithBinderLogger sets the logger for unmatched hosts and resolution errors.
func WithBinderLogger(l *slog.Logger) BinderOption {
	return func(b *Binder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBinder creates a binder. The mapping is copied and normalized.
//
// Example:
//
//	b := middlewares.NewBinder(resolver, routing.Mapping{
//	    routing.BareKey: "marketing",
//	    "api":           "api",
//	})
func NewBinder(resolver DomainResolver, mapping routing.Mapping, opts ...BinderOption) *Binder {
	b := &Binder{
		resolver: resolver,
		mapping:  routing.NormalizeMapping(mapping),
		vary:     true,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// VaryOnHost reports whether the binder patches "Vary: Host".
func (b *Binder) VaryOnHost() bool { return b.vary }

// Mapping returns the binder's mapping. Callers must not modify it.
func (b *Binder) Mapping() routing.Mapping { return b.mapping }

// Bind runs the binding steps for r. The returned Binding records how far
// binding progressed even when an error is returned: StateTableSelected
// after a matched host, StateHostExtracted for an unmatched one.
func (b *Binder) Bind(r *http.Request) (routing.Binding, error) {
	ctx := r.Context()
	res := routing.Binding{State: routing.StateNew}

	if b.resolver == nil {
		return res, fmt.Errorf("%w: no resolver", domain.ErrMisconfiguredDomain)
	}
	d, err := b.resolver.Resolve(ctx)
	if err != nil {
		b.logger.ErrorContext(ctx, "parent domain resolution failed", logger.Error(err))
		return res, err
	}
	res.Domain = d

	res.Result = hostrouter.Extract(d, r.Host)
	res.State = routing.StateHostExtracted

	if !res.Result.Matched() {
		b.logger.WarnContext(ctx, "host does not belong to domain",
			logger.Host(r.Host),
			logger.Domain(d),
		)
		if b.strict {
			return res, fmt.Errorf("%w: %q", ErrUnmatchedHost, r.Host)
		}
		// No subdomain, no table: the default table serves the request.
		return res, nil
	}

	if table, ok := routing.Select(res.Result, b.mapping); ok {
		res.Table = table
		res.Selected = true
	}
	res.State = routing.StateTableSelected
	return res, nil
}
