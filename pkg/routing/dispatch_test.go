package routing_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subdomains/pkg/hostrouter"
	"github.com/dmitrymomot/subdomains/pkg/routing"
)

func newDispatchRegistry() *routing.ChiRegistry {
	reg := routing.NewChiRegistry()
	for _, id := range []routing.TableID{"web", "api"} {
		table := routing.NewChiTable()
		table.HandleFunc("index", "", "/", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(id))
		})
		reg.Register(id, table)
	}
	return reg
}

func TestDispatcher(t *testing.T) {
	t.Parallel()

	d := routing.NewDispatcher(newDispatchRegistry(), "web", nil)

	tests := []struct {
		name     string
		binding  *routing.Binding
		wantCode int
		wantBody string
	}{
		{
			name:     "no binding uses default table",
			wantCode: http.StatusOK,
			wantBody: "web",
		},
		{
			name: "selected table",
			binding: &routing.Binding{
				Result:   hostrouter.SubdomainResult("api"),
				Table:    "api",
				Selected: true,
			},
			wantCode: http.StatusOK,
			wantBody: "api",
		},
		{
			name: "binding without selection uses default",
			binding: &routing.Binding{
				Result: hostrouter.SubdomainResult("other"),
			},
			wantCode: http.StatusOK,
			wantBody: "web",
		},
		{
			name: "selected table missing from registry",
			binding: &routing.Binding{
				Table:    "admin",
				Selected: true,
			},
			wantCode: http.StatusNotFound,
			wantBody: "404 page not found\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.binding != nil {
				req = req.WithContext(routing.WithBinding(req.Context(), *tt.binding))
			}
			rec := httptest.NewRecorder()

			d.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			require.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestDispatcher_CustomFallback(t *testing.T) {
	t.Parallel()

	fallback := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	d := routing.NewDispatcher(newDispatchRegistry(), "missing", fallback)

	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
}
