package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subdomains/middlewares"
	"github.com/dmitrymomot/subdomains/pkg/hostrouter"
	"github.com/dmitrymomot/subdomains/pkg/routing"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	capture := func(id *string) http.Handler {
		return http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			*id = middlewares.GetRequestID(r.Context())
		})
	}

	t.Run("generates uuid", func(t *testing.T) {
		t.Parallel()

		var id string
		rec := httptest.NewRecorder()
		middlewares.RequestID()(capture(&id)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		_, err := uuid.Parse(id)
		require.NoError(t, err)
		require.Equal(t, id, rec.Header().Get("X-Request-ID"))
	})

	t.Run("keeps upstream id", func(t *testing.T) {
		t.Parallel()

		var id string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "corr-1")
		rec := httptest.NewRecorder()
		middlewares.RequestID()(capture(&id)).ServeHTTP(rec, req)

		require.Equal(t, "corr-1", id)
		require.Equal(t, "corr-1", rec.Header().Get("X-Request-ID"))
	})

	t.Run("custom generator", func(t *testing.T) {
		t.Parallel()

		var id string
		rec := httptest.NewRecorder()
		mw := middlewares.RequestID(middlewares.WithRequestIDGenerator(func() string { return "fixed" }))
		mw(capture(&id)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, "fixed", id)
	})

	t.Run("missing id", func(t *testing.T) {
		t.Parallel()

		require.Empty(t, middlewares.GetRequestID(context.Background()))
	})
}

func TestExtractors(t *testing.T) {
	t.Parallel()

	t.Run("request id", func(t *testing.T) {
		t.Parallel()

		_, ok := middlewares.RequestIDExtractor()(context.Background())
		require.False(t, ok)

		var attrOK bool
		h := middlewares.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			a, ok := middlewares.RequestIDExtractor()(r.Context())
			attrOK = ok && a.Key == "request_id"
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.True(t, attrOK)
	})

	t.Run("subdomain and table", func(t *testing.T) {
		t.Parallel()

		ctx := routing.WithBinding(context.Background(), routing.Binding{
			Result:   hostrouter.SubdomainResult("api"),
			Table:    "api",
			Selected: true,
		})

		a, ok := middlewares.SubdomainExtractor()(ctx)
		require.True(t, ok)
		require.Equal(t, "api", a.Value.String())

		a, ok = middlewares.TableExtractor()(ctx)
		require.True(t, ok)
		require.Equal(t, "table", a.Key)
		require.Equal(t, "api", a.Value.String())
	})

	t.Run("unselected table", func(t *testing.T) {
		t.Parallel()

		ctx := routing.WithBinding(context.Background(), routing.Binding{Result: hostrouter.BareResult()})

		a, ok := middlewares.SubdomainExtractor()(ctx)
		require.True(t, ok)
		require.Equal(t, "@", a.Value.String())

		_, ok = middlewares.TableExtractor()(ctx)
		require.False(t, ok)
	})

	t.Run("no binding", func(t *testing.T) {
		t.Parallel()

		_, ok := middlewares.SubdomainExtractor()(context.Background())
		require.False(t, ok)
	})
}
