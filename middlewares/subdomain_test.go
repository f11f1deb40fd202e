package middlewares_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subdomains/middlewares"
	"github.com/dmitrymomot/subdomains/pkg/domain"
	"github.com/dmitrymomot/subdomains/pkg/routing"
)

func tableRegistry() *routing.ChiRegistry {
	reg := routing.NewChiRegistry()
	for _, id := range []routing.TableID{"web", "marketing", "api"} {
		table := routing.NewChiTable()
		table.HandleFunc("index", "", "/", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(id))
		})
		reg.Register(id, table)
	}
	return reg
}

func serve(h http.Handler, host string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newRequest(host))
	return rec
}

func TestSubdomain_Dispatch(t *testing.T) {
	t.Parallel()

	h := middlewares.Subdomain(scenarioBinder())(routing.NewDispatcher(tableRegistry(), "web", nil))

	tests := []struct {
		host string
		want string
	}{
		{"api.example.com", "api"},
		{"example.com", "marketing"},
		{"shop.example.com", "web"},
		{"evil.test", "web"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			t.Parallel()

			rec := serve(h, tt.host)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, tt.want, rec.Body.String())
			require.Equal(t, "Host", rec.Header().Get("Vary"))
		})
	}
}

func TestSubdomain_Binding(t *testing.T) {
	t.Parallel()

	var got routing.Binding
	h := middlewares.Subdomain(scenarioBinder())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = middlewares.GetBinding(r)
	}))

	serve(h, "api.example.com")
	require.Equal(t, "api", got.Subdomain())
	require.Equal(t, "example.com", got.Domain)
	require.True(t, got.Selected)
}

func TestSubdomain_Errors(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("handler must not run")
	})

	t.Run("strict unmatched host is 400", func(t *testing.T) {
		t.Parallel()

		h := middlewares.Subdomain(scenarioBinder(middlewares.WithStrictHostValidation(true)))(ok)
		rec := serve(h, "evil.test")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Host", rec.Header().Get("Vary"))
	})

	t.Run("misconfigured domain is 500", func(t *testing.T) {
		t.Parallel()

		b := middlewares.NewBinder(domain.New(domain.Static("")), nil)
		rec := serve(middlewares.Subdomain(b)(ok), "example.com")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("custom error handler", func(t *testing.T) {
		t.Parallel()

		var seen error
		h := middlewares.Subdomain(
			scenarioBinder(middlewares.WithStrictHostValidation(true)),
			middlewares.WithErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
				seen = err
				w.WriteHeader(http.StatusMisdirectedRequest)
			}),
		)(ok)

		rec := serve(h, "evil.test")
		require.Equal(t, http.StatusMisdirectedRequest, rec.Code)
		require.ErrorIs(t, seen, middlewares.ErrUnmatchedHost)
	})
}

func TestSubdomain_Vary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing []string
		vary     bool
		want     []string
	}{
		{"added to empty", nil, true, []string{"Host"}},
		{"appended to existing", []string{"Accept-Encoding"}, true, []string{"Accept-Encoding, Host"}},
		{"not duplicated", []string{"accept-encoding, host"}, true, []string{"accept-encoding, host"}},
		{"star left alone", []string{"*"}, true, []string{"*"}},
		{"disabled", []string{"Accept-Encoding"}, false, []string{"Accept-Encoding"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := middlewares.Subdomain(scenarioBinder(middlewares.WithVaryOnHost(tt.vary)))(
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					for _, v := range tt.existing {
						w.Header().Add("Vary", v)
					}
					w.WriteHeader(http.StatusNoContent)
				}),
			)

			rec := serve(h, "api.example.com")
			require.Equal(t, tt.want, rec.Header().Values("Vary"))
		})
	}

	t.Run("handler that never writes", func(t *testing.T) {
		t.Parallel()

		h := middlewares.Subdomain(scenarioBinder())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		rec := serve(h, "example.com")
		require.Equal(t, "Host", rec.Header().Get("Vary"))
	})

	t.Run("set before body write", func(t *testing.T) {
		t.Parallel()

		h := middlewares.Subdomain(scenarioBinder())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("body"))
			w.Header().Set("Vary", "late")
		}))

		srv := httptest.NewServer(h)
		t.Cleanup(srv.Close)

		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)
		require.NoError(t, err)
		req.Host = "example.com"
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		require.Equal(t, "Host", resp.Header.Get("Vary"))
	})
}

func TestSubdomain_LogsUnmatchedHost(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	h := middlewares.Subdomain(scenarioBinder(middlewares.WithBinderLogger(log)))(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}),
	)

	serve(h, "evil.test")
	require.Contains(t, buf.String(), "host does not belong to domain")
	require.Contains(t, buf.String(), `"host":"evil.test"`)
	require.Contains(t, buf.String(), `"domain":"example.com"`)
}

func TestSubdomain_ReportsDone(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var seen routing.BindState
	h := middlewares.Subdomain(scenarioBinder(), middlewares.WithSubdomainLogger(log))(
		http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = middlewares.GetBinding(r).State
		}),
	)

	serve(h, "api.example.com")
	require.Equal(t, routing.StateTableSelected, seen)
	require.Contains(t, buf.String(), "subdomain binding done")
	require.Contains(t, buf.String(), `"state":"done"`)
	require.Contains(t, buf.String(), `"table":"api"`)
}

func TestAddVary(t *testing.T) {
	t.Parallel()

	h := http.Header{}
	middlewares.AddVary(h, "Host")
	middlewares.AddVary(h, "HOST")
	middlewares.AddVary(h, "Cookie")
	require.Equal(t, "Host, Cookie", h.Get("Vary"))
}

func TestStatusCode(t *testing.T) {
	t.Parallel()

	require.Equal(t, http.StatusBadRequest, middlewares.StatusCode(middlewares.ErrUnmatchedHost))
	require.Equal(t, http.StatusInternalServerError, middlewares.StatusCode(domain.ErrMisconfiguredDomain))
	require.Equal(t, http.StatusInternalServerError, middlewares.StatusCode(errors.New("other")))
}
