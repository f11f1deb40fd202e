package cli

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/subdomains"
	"github.com/dmitrymomot/subdomains/internal/server"
	"github.com/dmitrymomot/subdomains/middlewares"
	"github.com/dmitrymomot/subdomains/pkg/config"
	"github.com/dmitrymomot/subdomains/pkg/db"
	"github.com/dmitrymomot/subdomains/pkg/domain"
	"github.com/dmitrymomot/subdomains/pkg/health"
	"github.com/dmitrymomot/subdomains/pkg/logger"
	"github.com/dmitrymomot/subdomains/pkg/redis"
	"github.com/dmitrymomot/subdomains/pkg/reverse"
	"github.com/dmitrymomot/subdomains/pkg/routing"
)

func (c *cli) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an HTTP server that routes by subdomain",
		Long: `serve answers every route of the configured tables with a JSON description
of how the request was routed. The mapping file is watched and reloaded
on change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.serve(cmd.Context(), cfg, newLogger(cfg, cmd.ErrOrStderr()))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	return cmd
}

func (c *cli) serve(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	mapping, err := cfg.Mapping()
	if err != nil {
		return err
	}

	pool, err := openPool(ctx, cfg, log)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}
	rdb, err := openRedis(ctx, cfg, log)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	src, err := domainSource(cfg, pool)
	if err != nil {
		return err
	}
	resolver, closeCache := newResolver(cfg, src, rdb, log)
	defer func() { _ = closeCache() }()

	var router *subdomains.Router
	urls := func(r *http.Request) (reverse.RequestReverser, bool) {
		if router == nil {
			return reverse.RequestReverser{}, false
		}
		return router.FromRequest(r), true
	}

	tables := routing.NewChiRegistry()
	registerTables(tables, cfg, mapping, urls)

	opts, err := subdomains.FromConfig(cfg)
	if err != nil {
		return err
	}
	router, err = subdomains.New(append(opts,
		subdomains.WithResolver(resolver),
		subdomains.WithTables(tables),
		subdomains.WithLogger(log),
	)...)
	if err != nil {
		return err
	}
	defer func() { _ = router.Close() }()

	checks := health.Checks{"domain": resolver.Healthcheck()}
	if pool != nil {
		checks["postgres"] = db.Healthcheck(pool)
	}
	if rdb != nil {
		checks["redis"] = redis.Healthcheck(rdb)
	}

	mux := chi.NewRouter()
	mux.Use(middlewares.RequestID(), middlewares.Recover(log, nil))
	mux.Get("/healthz", health.Liveness())
	mux.Get("/readyz", health.Readiness(checks, health.WithLogger(log)))
	mux.Mount("/", router.Handler())

	srvOpts := []server.Option{
		server.Address(cfg.HTTPAddr),
		server.Logger(log),
		server.ShutdownTimeout(cfg.ShutdownTimeout),
	}

	if cfg.DomainRefreshSpec != "" {
		refresher, err := domain.NewRefresher(resolver, cfg.DomainRefreshSpec, log)
		if err != nil {
			return err
		}
		srvOpts = append(srvOpts, server.StartHook(refresher.Start), server.ShutdownHook(refresher.Stop))
	}
	if rdb != nil {
		srvOpts = append(srvOpts, server.Background(func(ctx context.Context) error {
			return domain.Subscribe(ctx, rdb, cfg.InvalidateChannel, resolver, log)
		}))
	}

	c.watch(ctx, cfg, reloadTargets{router: router, tables: tables, resolver: resolver, pool: pool, urls: urls}, log)

	return server.Run(ctx, mux, srvOpts...)
}

// reloadTargets are the live objects a config change is applied to.
type reloadTargets struct {
	router   *subdomains.Router
	tables   *routing.ChiRegistry
	resolver *domain.Resolver
	pool     *pgxpool.Pool
	urls     urlBuilder
}

// watch reloads the router when the mapping file changes. Tables declared
// in the file are registered again, so new routes take effect too.
func (c *cli) watch(ctx context.Context, base config.Config, t reloadTargets, log *slog.Logger) {
	if c.v.ConfigFileUsed() == "" {
		return
	}

	current := base
	c.v.OnConfigChange(func(e fsnotify.Event) {
		log.InfoContext(ctx, "mapping file changed", slog.String("file", e.Name), slog.String("op", e.Op.String()))

		next, err := c.reload(ctx, base, current, e.Name, t)
		if err != nil {
			log.ErrorContext(ctx, "mapping file rejected", logger.Error(err))
			return
		}
		current = next
	})
	c.v.WatchConfig()
}

// reload applies the mapping file at path on top of base. The resolver is
// updated in place so its cache, refresher and subscription stay attached.
// Tables are registered only once the router accepted the new settings.
func (c *cli) reload(ctx context.Context, base, current config.Config, path string, t reloadTargets) (config.Config, error) {
	f, err := config.LoadFile(path)
	if err != nil {
		return current, err
	}
	next := c.applyFlags(base.Apply(f))
	if err := next.Validate(); err != nil {
		return current, err
	}
	mapping, err := next.Mapping()
	if err != nil {
		return current, err
	}
	opts, err := subdomains.FromConfig(next)
	if err != nil {
		return current, err
	}

	var src domain.Source
	if next.ParentDomain != current.ParentDomain || next.PublicURL != current.PublicURL || next.StripWWW != current.StripWWW {
		if src, err = domainSource(next, t.pool); err != nil {
			return current, err
		}
	}

	if err := t.router.Reload(opts...); err != nil {
		return current, err
	}
	if src != nil {
		if err := t.resolver.SetSource(ctx, src, next.StripWWW); err != nil {
			return current, err
		}
	}

	registerTables(t.tables, next, mapping, t.urls)
	return next, nil
}
