package reverse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/dmitrymomot/subdomains/pkg/domain"
	"github.com/dmitrymomot/subdomains/pkg/routing"
)

// DomainResolver yields the parent domain. *domain.Resolver implements it.
type DomainResolver interface {
	Resolve(ctx context.Context) (string, error)
}

// Config holds the collaborators of a Reverser.
type Config struct {
	Resolver DomainResolver
	Mapping  routing.Mapping
	// DefaultTable serves reversals without a subdomain and subdomains
	// missing from Mapping. Required.
	DefaultTable routing.TableID
	// Registry builds paths. Required.
	Registry routing.Registry
	// DefaultScheme applies when Reverse gets no Scheme option. Empty means "http".
	DefaultScheme string
	// NamespaceFallback lets a namespaced name missing from the default
	// table be reversed in the table that provides its namespace.
	NamespaceFallback bool
	Logger            *slog.Logger
}

// Reverser builds absolute URLs for named routes.
// It holds no mutable state; concurrent use is safe.
type Reverser struct {
	resolver DomainResolver
	mapping  routing.Mapping
	keys     []string
	def      routing.TableID
	registry routing.Registry
	joiner   Joiner
	fallback bool
	logger   *slog.Logger
}

// New validates cfg and creates a Reverser.
func New(cfg Config) (*Reverser, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("%w: registry is required", ErrInvalidConfig)
	}
	if cfg.DefaultTable == "" {
		return nil, fmt.Errorf("%w: default table is required", ErrInvalidConfig)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	m := routing.NormalizeMapping(cfg.Mapping)
	return &Reverser{
		resolver: cfg.Resolver,
		mapping:  m,
		keys:     m.Keys(),
		def:      cfg.DefaultTable,
		registry: cfg.Registry,
		joiner:   Joiner{DefaultScheme: cfg.DefaultScheme},
		fallback: cfg.NamespaceFallback,
		logger:   cfg.Logger,
	}, nil
}

// Reverse returns the absolute URL of the named route.
//
// Without a Subdomain option the default table is used and the URL is built
// on the bare parent domain. With one, the table mapped to that subdomain is
// used (or the default table if none is mapped) and the URL is built on
// "sub.<domain>".
//
// Errors wrapping routing.ErrNoRouteMatch are returned as they are; a wrong
// URL is never produced.
//
// Example:
//
//	u, err := rev.Reverse(ctx, "home", reverse.Subdomain("api"))
//	// "http://api.example.com/"
func (r *Reverser) Reverse(ctx context.Context, name string, opts ...Option) (string, error) {
	var req request
	for _, opt := range opts {
		opt(&req)
	}

	table := r.def
	sub := ""
	if req.hasSubdomain {
		sub = req.subdomain
		if id, ok := r.mapping.Lookup(sub); ok {
			table = id
		}
	}

	path, err := r.registry.ReversePath(table, name, req.args)
	if err != nil {
		if req.hasSubdomain || !r.fallback || !errors.Is(err, routing.ErrNoRouteMatch) {
			return "", err
		}
		fbSub, fbPath, ok := r.namespaceFallback(ctx, table, name, req.args)
		if !ok {
			return "", err
		}
		sub, path = fbSub, fbPath
	}

	d, err := r.domain(ctx)
	if err != nil {
		return "", err
	}

	host := d
	if sub != "" {
		host = sub + "." + d
	}
	if req.port > 0 {
		host += ":" + strconv.Itoa(req.port)
	}

	if req.hasScheme {
		return Join(host, path, req.scheme), nil
	}
	return r.joiner.Join(host, path), nil
}

// namespaceFallback retries name once, in the first table (by sorted mapping
// key) that provides its namespace. tried is skipped.
func (r *Reverser) namespaceFallback(ctx context.Context, tried routing.TableID, name string, args routing.Args) (string, string, bool) {
	ns, _, ok := routing.SplitNamespace(name)
	if !ok {
		return "", "", false
	}

	for _, key := range r.keys {
		id := r.mapping[key]
		if id == tried || !slices.Contains(r.registry.Namespaces(id), ns) {
			continue
		}

		path, err := r.registry.ReversePath(id, name, args)
		if err != nil {
			r.logger.DebugContext(ctx, "namespace fallback failed",
				slog.String("name", name),
				slog.String("table", string(id)),
				slog.String("error", err.Error()),
			)
			return "", "", false
		}
		r.logger.DebugContext(ctx, "namespace fallback",
			slog.String("name", name),
			slog.String("table", string(id)),
		)
		return routing.SubdomainOf(key), path, true
	}
	return "", "", false
}

// domain prefers the domain bound to the current request so that every URL
// built while serving it uses the same value.
func (r *Reverser) domain(ctx context.Context) (string, error) {
	if b, ok := routing.BindingFromContext(ctx); ok && b.Domain != "" {
		return b.Domain, nil
	}
	if r.resolver == nil {
		return "", fmt.Errorf("%w: no resolver", domain.ErrMisconfiguredDomain)
	}
	return r.resolver.Resolve(ctx)
}

// Mapping returns the normalized mapping. Callers must not modify it.
func (r *Reverser) Mapping() routing.Mapping {
	return r.mapping
}
