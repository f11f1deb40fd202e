package subdomains

import (
	"log/slog"
	"maps"
	"net/http"

	"github.com/dmitrymomot/subdomains/middlewares"
	"github.com/dmitrymomot/subdomains/pkg/config"
	"github.com/dmitrymomot/subdomains/pkg/reverse"
	"github.com/dmitrymomot/subdomains/pkg/routing"
)

// Resolver yields the parent domain. *domain.Resolver implements it.
type Resolver = reverse.DomainResolver

// Tables is the registry of routing tables: it reverses route names and
// serves requests. *routing.ChiRegistry and *routing.MuxRegistry implement it.
type Tables interface {
	routing.Registry
	routing.HandlerRegistry
}

// Settings is the reloadable part of a Router.
type Settings struct {
	Resolver             Resolver
	Mapping              routing.Mapping
	DefaultTable         routing.TableID
	DefaultScheme        string
	ForceVaryOnHost      bool
	StrictHostValidation bool
	NamespaceFallback    bool
}

func defaultSettings() Settings {
	return Settings{
		DefaultScheme:   reverse.DefaultScheme,
		ForceVaryOnHost: true,
	}
}

// Option configures a Router. Options that change Settings may also be
// passed to Reload.
type Option func(*options)

type options struct {
	settings     Settings
	tables       Tables
	logger       *slog.Logger
	notFound     http.Handler
	errorHandler middlewares.ErrorHandler
}

// WithResolver sets the parent domain resolver.
func WithResolver(r Resolver) Option {
	return func(o *options) { o.settings.Resolver = r }
}

// WithMapping sets the subdomain to table mapping. Use routing.BareKey
// ("@") for the bare domain.
func WithMapping(m routing.Mapping) Option {
	return func(o *options) { o.settings.Mapping = maps.Clone(m) }
}

// WithDefaultTable sets the table used when the mapping selects nothing.
func WithDefaultTable(id routing.TableID) Option {
	return func(o *options) { o.settings.DefaultTable = id }
}

// WithDefaultScheme sets the scheme of reversed URLs. Default: "http".
func WithDefaultScheme(scheme string) Option {
	return func(o *options) { o.settings.DefaultScheme = scheme }
}

// WithVaryOnHost controls the "Vary: Host" response header. Default: true.
func WithVaryOnHost(enabled bool) Option {
	return func(o *options) { o.settings.ForceVaryOnHost = enabled }
}

// WithStrictHostValidation rejects hosts outside the parent domain with 400.
// Default: false.
func WithStrictHostValidation(strict bool) Option {
	return func(o *options) { o.settings.StrictHostValidation = strict }
}

// WithNamespaceFallback enables reversing "ns:view" names in the table that
// provides ns. Default: false.
func WithNamespaceFallback(enabled bool) Option {
	return func(o *options) { o.settings.NamespaceFallback = enabled }
}

// WithTables sets the table registry. Not reloadable.
func WithTables(t Tables) Option {
	return func(o *options) {
		if t != nil {
			o.tables = t
		}
	}
}

// WithLogger sets the logger. Not reloadable.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithNotFoundHandler serves requests whose table is not registered.
// Not reloadable.
func WithNotFoundHandler(h http.Handler) Option {
	return func(o *options) {
		if h != nil {
			o.notFound = h
		}
	}
}

// WithErrorHandler renders binding errors. Not reloadable.
func WithErrorHandler(h middlewares.ErrorHandler) Option {
	return func(o *options) {
		if h != nil {
			o.errorHandler = h
		}
	}
}

// WithSettings replaces every reloadable setting at once.
func WithSettings(s Settings) Option {
	return func(o *options) {
		s.Mapping = maps.Clone(s.Mapping)
		o.settings = s
	}
}

// FromConfig turns a loaded configuration into options. The resolver is
// built by the caller since it depends on which domain source is configured.
func FromConfig(cfg config.Config) ([]Option, error) {
	m, err := cfg.Mapping()
	if err != nil {
		return nil, err
	}
	return []Option{
		WithMapping(m),
		WithDefaultTable(routing.TableID(cfg.DefaultTable)),
		WithDefaultScheme(cfg.DefaultScheme),
		WithVaryOnHost(cfg.ForceVaryOnHost),
		WithStrictHostValidation(cfg.StrictHostValidation),
		WithNamespaceFallback(cfg.NamespaceFallback),
	}, nil
}
