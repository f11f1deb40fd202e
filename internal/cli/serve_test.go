package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subdomains"
	"github.com/dmitrymomot/subdomains/pkg/cache"
	"github.com/dmitrymomot/subdomains/pkg/config"
	"github.com/dmitrymomot/subdomains/pkg/domain"
	"github.com/dmitrymomot/subdomains/pkg/reverse"
	"github.com/dmitrymomot/subdomains/pkg/routing"
)

func newReloadTargets(t *testing.T, cfg config.Config) reloadTargets {
	t.Helper()

	mapping, err := cfg.Mapping()
	require.NoError(t, err)

	c := cache.NewMemory[string](cache.WithCleanupInterval(0))
	t.Cleanup(func() { _ = c.Close() })
	resolver := domain.New(domain.Static(cfg.ParentDomain), domain.WithCache(c, time.Minute))

	tables := routing.NewChiRegistry()
	registerTables(tables, cfg, mapping, noURLs)

	opts, err := subdomains.FromConfig(cfg)
	require.NoError(t, err)
	router, err := subdomains.New(append(opts,
		subdomains.WithResolver(resolver),
		subdomains.WithTables(tables),
	)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = router.Close() })

	return reloadTargets{router: router, tables: tables, resolver: resolver, urls: noURLs}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "subdomains.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base, err := config.Parse(map[string]string{
		"SUBDOMAINS_PARENT_DOMAIN": "example.com",
		"SUBDOMAINS_DEFAULT_TABLE": "web",
	})
	require.NoError(t, err)

	t.Run("domain change keeps the same resolver", func(t *testing.T) {
		t.Parallel()

		c := &cli{v: viper.New()}
		targets := newReloadTargets(t, base)

		d, err := targets.resolver.Resolve(ctx)
		require.NoError(t, err)
		require.Equal(t, "example.com", d)

		path := writeFile(t, `
parent_domain: example.org
default_table: web
mapping:
  api: api
tables:
  web:
    routes:
      home: /
  api:
    routes:
      status: /status/
`)
		next, err := c.reload(ctx, base, base, path, targets)
		require.NoError(t, err)
		require.Equal(t, "example.org", next.ParentDomain)

		d, err = targets.resolver.Resolve(ctx)
		require.NoError(t, err)
		require.Equal(t, "example.org", d)

		_, ok := targets.tables.Table("api")
		require.True(t, ok)

		u, err := targets.router.Reverse(ctx, "status", reverse.Subdomain("api"))
		require.NoError(t, err)
		require.Equal(t, "http://api.example.org/status/", u)
	})

	t.Run("rejected file changes nothing", func(t *testing.T) {
		t.Parallel()

		c := &cli{v: viper.New()}
		targets := newReloadTargets(t, base)

		path := writeFile(t, `
parent_domain: example.org
default_table: web
default_scheme: ftp
tables:
  extra:
    routes:
      home: /
`)
		next, err := c.reload(ctx, base, base, path, targets)
		require.ErrorIs(t, err, config.ErrInvalidConfig)
		require.Equal(t, base.ParentDomain, next.ParentDomain)

		_, ok := targets.tables.Table("extra")
		require.False(t, ok)

		d, err := targets.resolver.Resolve(ctx)
		require.NoError(t, err)
		require.Equal(t, "example.com", d)
	})
}
