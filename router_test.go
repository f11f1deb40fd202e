package subdomains_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subdomains"
	"github.com/dmitrymomot/subdomains/pkg/config"
	"github.com/dmitrymomot/subdomains/pkg/domain"
	"github.com/dmitrymomot/subdomains/pkg/reverse"
	"github.com/dmitrymomot/subdomains/pkg/routing"
)

func newTables() *routing.ChiRegistry {
	reg := routing.NewChiRegistry()

	for _, id := range []routing.TableID{"marketing", "web"} {
		t := routing.NewChiTable()
		t.HandleFunc("home", http.MethodGet, "/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = fmt.Fprintf(w, "%s %s", id, r.Host)
		})
		reg.Register(id, t)
	}

	api := routing.NewChiTable("api")
	api.HandleFunc("home", http.MethodGet, "/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("api"))
	})
	api.HandleFunc("api:view", http.MethodGet, "/view/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("api view"))
	})
	reg.Register("api", api)

	return reg
}

func newRouter(t *testing.T, opts ...subdomains.Option) *subdomains.Router {
	t.Helper()

	base := []subdomains.Option{
		subdomains.WithResolver(domain.New(domain.Static("example.com"))),
		subdomains.WithTables(newTables()),
		subdomains.WithMapping(routing.Mapping{"@": "marketing", "api": "api"}),
		subdomains.WithDefaultTable("web"),
	}
	r, err := subdomains.New(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func get(h http.Handler, host string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = host
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_SelectsTableBySubdomain(t *testing.T) {
	t.Parallel()

	h := newRouter(t).Handler()

	tests := []struct {
		host string
		want string
	}{
		{"api.example.com", "api"},
		{"example.com", "marketing example.com"},
		{"shop.example.com", "web shop.example.com"},
		{"API.Example.com:8080", "api"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			t.Parallel()

			rec := get(h, tt.host)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, tt.want, rec.Body.String())
			require.Equal(t, "Host", rec.Header().Get("Vary"))
		})
	}
}

func TestRouter_StripWWW(t *testing.T) {
	t.Parallel()

	var sub string
	r := newRouter(t,
		subdomains.WithResolver(domain.New(domain.Static("www.example.com"), domain.WithStripWWW(true))),
	)
	h := r.Middleware(http.HandlerFunc(func(_ http.ResponseWriter, req *http.Request) {
		b, _ := routing.BindingFromContext(req.Context())
		sub = b.Subdomain()
		require.Equal(t, "example.com", b.Domain)
	}))

	get(h, "www.example.com")
	require.Equal(t, "www", sub)
}

func TestRouter_Reverse(t *testing.T) {
	t.Parallel()

	r := newRouter(t, subdomains.WithNamespaceFallback(true))
	ctx := context.Background()

	got, err := r.Reverse(ctx, "home", reverse.Subdomain("api"))
	require.NoError(t, err)
	require.Equal(t, "http://api.example.com/", got)

	got, err = r.Reverse(ctx, "api:view")
	require.NoError(t, err)
	require.Equal(t, "http://api.example.com/view/", got)

	got, err = r.Reverse(ctx, "home", reverse.Scheme(""))
	require.NoError(t, err)
	require.Equal(t, "//example.com/", got)

	_, err = r.Reverse(ctx, "missing")
	require.ErrorIs(t, err, subdomains.ErrNoRouteMatch)
}

func TestRouter_FromRequest(t *testing.T) {
	t.Parallel()

	r := newRouter(t)

	var got string
	h := r.Middleware(http.HandlerFunc(func(_ http.ResponseWriter, req *http.Request) {
		u, err := r.FromRequest(req).URL("home")
		require.NoError(t, err)
		got = u
	}))

	get(h, "api.example.com:8000")
	require.Equal(t, "http://api.example.com:8000/", got)
}

func TestRouter_Strict(t *testing.T) {
	t.Parallel()

	h := newRouter(t, subdomains.WithStrictHostValidation(true)).Handler()

	rec := get(h, "evil.test")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Host", rec.Header().Get("Vary"))

	rec = get(h, "api.example.com")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_MisconfiguredDomain(t *testing.T) {
	t.Parallel()

	h := newRouter(t, subdomains.WithResolver(domain.New(domain.Static("")))).Handler()

	rec := get(h, "api.example.com")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_NoVary(t *testing.T) {
	t.Parallel()

	h := newRouter(t, subdomains.WithVaryOnHost(false)).Handler()

	rec := get(h, "api.example.com")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Values("Vary"))
}

func TestRouter_NotFound(t *testing.T) {
	t.Parallel()

	h := newRouter(t,
		subdomains.WithMapping(routing.Mapping{"shop": "shop"}),
		subdomains.WithNotFoundHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})),
	).Handler()

	rec := get(h, "shop.example.com")
	require.Equal(t, http.StatusTeapot, rec.Code)
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := subdomains.New(
		subdomains.WithResolver(domain.New(domain.Static("example.com"))),
		subdomains.WithDefaultTable("web"),
	)
	require.ErrorIs(t, err, subdomains.ErrInvalidConfig)

	_, err = subdomains.New(
		subdomains.WithTables(newTables()),
		subdomains.WithDefaultTable("web"),
	)
	require.ErrorIs(t, err, subdomains.ErrInvalidConfig)

	_, err = subdomains.New(
		subdomains.WithResolver(domain.New(domain.Static("example.com"))),
		subdomains.WithTables(newTables()),
	)
	require.ErrorIs(t, err, subdomains.ErrInvalidConfig)
}

func TestRouter_Reload(t *testing.T) {
	t.Parallel()

	r := newRouter(t)
	h := r.Handler()

	require.Equal(t, "api", get(h, "api.example.com").Body.String())

	require.NoError(t, r.Reload(subdomains.WithMapping(routing.Mapping{"@": "marketing", "v2": "api"})))

	require.Equal(t, "web api.example.com", get(h, "api.example.com").Body.String())
	require.Equal(t, "api", get(h, "v2.example.com").Body.String())

	got, err := r.Reverse(context.Background(), "home", reverse.Subdomain("v2"))
	require.NoError(t, err)
	require.Equal(t, "http://v2.example.com/", got)

	settings := r.Settings()
	require.Equal(t, routing.TableID("web"), settings.DefaultTable)
	require.True(t, settings.ForceVaryOnHost)
}

func TestRouter_ReloadKeepsSnapshotOnError(t *testing.T) {
	t.Parallel()

	r := newRouter(t)

	err := r.Reload(subdomains.WithDefaultTable(""))
	require.ErrorIs(t, err, subdomains.ErrInvalidConfig)
	require.Equal(t, routing.TableID("web"), r.Settings().DefaultTable)
	require.Equal(t, "api", get(r.Handler(), "api.example.com").Body.String())
}

func TestRouter_ConcurrentReload(t *testing.T) {
	t.Parallel()

	r := newRouter(t)
	h := r.Handler()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Go(func() {
			for range 50 {
				rec := get(h, "api.example.com")
				if rec.Code != http.StatusOK {
					t.Errorf("unexpected status %d", rec.Code)
				}
				if i == 0 {
					_ = r.Reload(subdomains.WithNamespaceFallback(true))
				}
			}
		})
	}
	wg.Wait()
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse(map[string]string{
		"SUBDOMAINS_PARENT_DOMAIN":      "example.com",
		"SUBDOMAINS_DEFAULT_TABLE":      "web",
		"SUBDOMAINS_TABLE_MAPPING":      "@=marketing,api=api",
		"SUBDOMAINS_DEFAULT_SCHEME":     "https",
		"SUBDOMAINS_NAMESPACE_FALLBACK": "true",
	})
	require.NoError(t, err)

	opts, err := subdomains.FromConfig(cfg)
	require.NoError(t, err)

	r := newRouter(t, opts...)
	got, err := r.Reverse(context.Background(), "api:view")
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com/view/", got)
}
