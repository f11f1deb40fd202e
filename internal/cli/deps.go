package cli

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/subdomains/middlewares"
	"github.com/dmitrymomot/subdomains/pkg/cache"
	"github.com/dmitrymomot/subdomains/pkg/config"
	"github.com/dmitrymomot/subdomains/pkg/db"
	"github.com/dmitrymomot/subdomains/pkg/domain"
	"github.com/dmitrymomot/subdomains/pkg/redis"
	"github.com/dmitrymomot/subdomains/pkg/reverse"
	"github.com/dmitrymomot/subdomains/pkg/routing"
)

// openPool connects to Postgres when a connection string is configured.
func openPool(ctx context.Context, cfg config.Config, log *slog.Logger) (*pgxpool.Pool, error) {
	if !cfg.Database.Enabled() {
		return nil, nil
	}
	return db.Connect(ctx, cfg.Database, log)
}

// openRedis connects to Redis when a URL is configured.
func openRedis(ctx context.Context, cfg config.Config, log *slog.Logger) (goredis.UniversalClient, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	return redis.Open(ctx, cfg.RedisURL, redis.WithRetry(3, time.Second), redis.WithLogger(log))
}

// domainSource picks the configured source: a literal domain, a public URL
// or a row of the sites table.
func domainSource(cfg config.Config, pool *pgxpool.Pool) (domain.Source, error) {
	switch {
	case cfg.ParentDomain != "":
		return domain.Static(cfg.ParentDomain), nil
	case cfg.PublicURL != "":
		return domain.FromURL(cfg.PublicURL), nil
	case cfg.SiteID != 0 && pool != nil:
		return domain.NewSiteSource(pool, cfg.SiteID), nil
	case cfg.SiteID != 0:
		return nil, db.ErrNotConfigured
	default:
		return nil, domain.ErrMisconfiguredDomain
	}
}

// newResolver wraps src with a cache: Redis when a client is given so every
// process shares the value, memory otherwise. A zero TTL disables caching.
func newResolver(cfg config.Config, src domain.Source, rdb goredis.UniversalClient, log *slog.Logger) (*domain.Resolver, func() error) {
	opts := []domain.Option{
		domain.WithStripWWW(cfg.StripWWW),
		domain.WithLogger(log),
	}

	var c cache.Cache[string]
	if cfg.DomainCacheTTL > 0 {
		if rdb != nil {
			c = cache.NewRedis[string](rdb, cache.String{}, cache.WithRedisDefaultTTL(cfg.DomainCacheTTL))
		} else {
			c = cache.NewMemory[string](cache.WithDefaultTTL(cfg.DomainCacheTTL))
		}
		opts = append(opts, domain.WithCache(c, cfg.DomainCacheTTL))
	}

	closeCache := func() error { return nil }
	if c != nil {
		closeCache = c.Close
	}
	return domain.New(src, opts...), closeCache
}

// urlBuilder gives demo handlers access to request-aware reversal.
type urlBuilder func(r *http.Request) (reverse.RequestReverser, bool)

// registerTables (re)registers the tables declared in specs. Without specs,
// every table named by the mapping or as default gets a single "home" route.
func registerTables(reg *routing.ChiRegistry, cfg config.Config, mapping routing.Mapping, urls urlBuilder) {
	specs := cfg.Tables
	if len(specs) == 0 {
		specs = make(map[string]config.TableSpec)
		ids := slices.Collect(maps.Values(mapping))
		if cfg.DefaultTable != "" {
			ids = append(ids, routing.TableID(cfg.DefaultTable))
		}
		for _, id := range ids {
			specs[string(id)] = config.TableSpec{Routes: map[string]string{"home": "/"}}
		}
	}

	for id, spec := range specs {
		t := routing.NewChiTable(spec.Namespaces...)
		for name, pattern := range spec.Routes {
			t.Handle(name, http.MethodGet, pattern, demoHandler(id, name, pattern, urls))
		}
		reg.Register(routing.TableID(id), t)
	}
}

type demoResponse struct {
	Table     string `json:"table"`
	Route     string `json:"route"`
	Host      string `json:"host"`
	Subdomain string `json:"subdomain"`
	RequestID string `json:"request_id,omitempty"`
	URL       string `json:"url,omitempty"`
}

// demoHandler describes how the request was routed and rebuilds its own URL.
func demoHandler(table, route, pattern string, urls urlBuilder) http.Handler {
	wildcard := strings.HasSuffix(pattern, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := middlewares.GetBinding(r)
		resp := demoResponse{
			Table:     table,
			Route:     route,
			Host:      r.Host,
			Subdomain: b.Result.String(),
			RequestID: middlewares.GetRequestID(r.Context()),
		}

		if rr, ok := urls(r); ok {
			params := make(map[string]string)
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				for i, key := range rctx.URLParams.Keys {
					// "*" also comes from mounting the table under another router.
					if key == "" || (key == "*" && !wildcard) || i >= len(rctx.URLParams.Values) {
						continue
					}
					params[key] = rctx.URLParams.Values[i]
				}
			}
			if u, err := rr.URL(route, reverse.Params(params)); err == nil {
				resp.URL = u
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
}

func noURLs(*http.Request) (reverse.RequestReverser, bool) {
	return reverse.RequestReverser{}, false
}
