package subdomains

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"sync/atomic"

	"github.com/dmitrymomot/subdomains/middlewares"
	"github.com/dmitrymomot/subdomains/pkg/reverse"
	"github.com/dmitrymomot/subdomains/pkg/routing"
)

// Router binds requests to routing tables by subdomain and reverses route
// names into URLs on the right subdomain.
//
// Settings live in an immutable snapshot; Reload swaps it atomically, so a
// request in flight keeps the snapshot it started with.
type Router struct {
	snap         atomic.Pointer[snapshot]
	tables       Tables
	index        *routing.NamespaceIndex
	logger       *slog.Logger
	notFound     http.Handler
	errorHandler middlewares.ErrorHandler
}

type snapshot struct {
	settings   Settings
	binder     *middlewares.Binder
	reverser   *reverse.Reverser
	dispatcher *routing.Dispatcher
}

// New creates a Router.
//
// Example:
//
//	r, err := subdomains.New(
//		subdomains.WithResolver(domain.New(domain.Static("example.com"))),
//		subdomains.WithTables(registry),
//		subdomains.WithMapping(routing.Mapping{"@": "marketing", "api": "api"}),
//		subdomains.WithDefaultTable("marketing"),
//	)
//	http.ListenAndServe(":8080", r.Handler())
func New(opts ...Option) (*Router, error) {
	o := options{
		settings: defaultSettings(),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tables == nil {
		return nil, fmt.Errorf("%w: tables are required", ErrInvalidConfig)
	}
	if o.errorHandler == nil {
		o.errorHandler = middlewares.DefaultErrorHandler(o.logger)
	}

	rt := &Router{
		tables:       o.tables,
		index:        routing.NewNamespaceIndex(o.tables),
		logger:       o.logger,
		notFound:     o.notFound,
		errorHandler: o.errorHandler,
	}

	s, err := rt.build(o.settings)
	if err != nil {
		_ = rt.index.Close()
		return nil, err
	}
	rt.snap.Store(s)
	return rt, nil
}

func (rt *Router) build(s Settings) (*snapshot, error) {
	if s.Resolver == nil {
		return nil, fmt.Errorf("%w: resolver is required", ErrInvalidConfig)
	}

	rev, err := reverse.New(reverse.Config{
		Resolver:          s.Resolver,
		Mapping:           s.Mapping,
		DefaultTable:      s.DefaultTable,
		Registry:          rt.index,
		DefaultScheme:     s.DefaultScheme,
		NamespaceFallback: s.NamespaceFallback,
		Logger:            rt.logger,
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	return &snapshot{
		settings: s,
		binder: middlewares.NewBinder(s.Resolver, s.Mapping,
			middlewares.WithVaryOnHost(s.ForceVaryOnHost),
			middlewares.WithStrictHostValidation(s.StrictHostValidation),
			middlewares.WithBinderLogger(rt.logger),
		),
		reverser:   rev,
		dispatcher: routing.NewDispatcher(rt.tables, s.DefaultTable, rt.notFound),
	}, nil
}

// Reload applies opts on top of the current settings and swaps the snapshot.
// Options that are not reloadable are ignored. On error the current snapshot
// stays in place.
func (rt *Router) Reload(opts ...Option) error {
	o := options{settings: rt.Settings()}
	for _, opt := range opts {
		opt(&o)
	}

	s, err := rt.build(o.settings)
	if err != nil {
		return err
	}
	rt.snap.Store(s)
	rt.index.Invalidate()

	rt.logger.Info("subdomain settings reloaded",
		slog.Int("mapping_entries", len(s.settings.Mapping)),
		slog.String("default_table", string(s.settings.DefaultTable)),
	)
	return nil
}

// Settings returns a copy of the current settings.
func (rt *Router) Settings() Settings {
	s := rt.snap.Load().settings
	s.Mapping = maps.Clone(s.Mapping)
	return s
}

// Middleware binds each request to its subdomain and table, then calls next.
// Use it when next does its own dispatch, for example with
// routing.Dispatcher or middlewares.GetBinding.
func (rt *Router) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rt.snap.Load().middleware(next, rt.errorHandler, rt.logger).ServeHTTP(w, r)
	})
}

// Handler binds each request and dispatches it to the selected table,
// or to the default table when the mapping selects nothing.
func (rt *Router) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := rt.snap.Load()
		s.middleware(s.dispatcher, rt.errorHandler, rt.logger).ServeHTTP(w, r)
	})
}

func (s *snapshot) middleware(next http.Handler, onError middlewares.ErrorHandler, log *slog.Logger) http.Handler {
	return middlewares.Subdomain(s.binder,
		middlewares.WithErrorHandler(onError),
		middlewares.WithSubdomainLogger(log),
	)(next)
}

// Reverse builds the absolute URL of a named route. See reverse.Reverser.
func (rt *Router) Reverse(ctx context.Context, name string, opts ...reverse.Option) (string, error) {
	return rt.snap.Load().reverser.Reverse(ctx, name, opts...)
}

// FromRequest returns a reverser that defaults to the request's subdomain,
// scheme and port.
func (rt *Router) FromRequest(r *http.Request) reverse.RequestReverser {
	return rt.snap.Load().reverser.FromRequest(r)
}

// Close releases the namespace index.
func (rt *Router) Close() error {
	return rt.index.Close()
}
