package routing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subdomains/pkg/hostrouter"
	"github.com/dmitrymomot/subdomains/pkg/routing"
)

func TestSelect(t *testing.T) {
	t.Parallel()

	mapping := routing.Mapping{
		routing.BareKey: "marketing",
		"www":           "marketing",
		"api":           "api",
		"a.b":           "nested",
	}

	tests := []struct {
		name   string
		res    hostrouter.Result
		want   routing.TableID
		wantOK bool
	}{
		{"bare uses apex key", hostrouter.BareResult(), "marketing", true},
		{"mapped subdomain", hostrouter.SubdomainResult("api"), "api", true},
		{"www is an ordinary key", hostrouter.SubdomainResult("www"), "marketing", true},
		{"multi-level key", hostrouter.SubdomainResult("a.b"), "nested", true},
		{"unmapped subdomain", hostrouter.SubdomainResult("other"), "", false},
		{"unmatched never selects", hostrouter.Result{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := routing.Select(tt.res, mapping)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}

	t.Run("bare without apex key", func(t *testing.T) {
		t.Parallel()

		_, ok := routing.Select(hostrouter.BareResult(), routing.Mapping{"api": "api"})
		require.False(t, ok)
	})

	t.Run("nil mapping", func(t *testing.T) {
		t.Parallel()

		_, ok := routing.Select(hostrouter.SubdomainResult("api"), nil)
		require.False(t, ok)
	})
}

func TestParseMapping(t *testing.T) {
	t.Parallel()

	t.Run("valid pairs", func(t *testing.T) {
		t.Parallel()

		m, err := routing.ParseMapping(" @=marketing, WWW = marketing ,api=api,,")
		require.NoError(t, err)
		require.Equal(t, routing.Mapping{
			routing.BareKey: "marketing",
			"www":           "marketing",
			"api":           "api",
		}, m)
	})

	t.Run("empty key means bare", func(t *testing.T) {
		t.Parallel()

		m, err := routing.ParseMapping("=marketing")
		require.NoError(t, err)
		require.Equal(t, routing.TableID("marketing"), m[routing.BareKey])
	})

	t.Run("empty string", func(t *testing.T) {
		t.Parallel()

		m, err := routing.ParseMapping("")
		require.NoError(t, err)
		require.Empty(t, m)
	})

	t.Run("missing table", func(t *testing.T) {
		t.Parallel()

		_, err := routing.ParseMapping("api=")
		require.ErrorIs(t, err, routing.ErrInvalidMapping)
	})

	t.Run("missing separator", func(t *testing.T) {
		t.Parallel()

		_, err := routing.ParseMapping("api")
		require.ErrorIs(t, err, routing.ErrInvalidMapping)
	})
}

func TestMapping(t *testing.T) {
	t.Parallel()

	m := routing.NormalizeMapping(routing.Mapping{
		"API.": "api",
		"":     "marketing",
		"blog": "blog",
	})

	t.Run("normalized keys", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, []string{routing.BareKey, "api", "blog"}, m.Keys())
	})

	t.Run("lookup", func(t *testing.T) {
		t.Parallel()

		id, ok := m.Lookup("api")
		require.True(t, ok)
		require.Equal(t, routing.TableID("api"), id)

		id, ok = m.Lookup("")
		require.True(t, ok)
		require.Equal(t, routing.TableID("marketing"), id)

		_, ok = m.Lookup("missing")
		require.False(t, ok)
	})

	t.Run("subdomain of key", func(t *testing.T) {
		t.Parallel()

		require.Empty(t, routing.SubdomainOf(routing.BareKey))
		require.Equal(t, "api", routing.SubdomainOf("api"))
	})
}

func TestSplitNamespace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		ns     string
		rest   string
		wantOK bool
	}{
		{"namespaced", "api:view", "api", "view", true},
		{"nested namespace keeps rest", "a:b:view", "a", "b:view", true},
		{"plain name", "home", "", "home", false},
		{"empty namespace", ":view", "", ":view", false},
		{"empty view", "api:", "", "api:", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ns, rest, ok := routing.SplitNamespace(tt.in)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.ns, ns)
			require.Equal(t, tt.rest, rest)
		})
	}
}

func TestBinding(t *testing.T) {
	t.Parallel()

	t.Run("missing from context", func(t *testing.T) {
		t.Parallel()

		_, ok := routing.BindingFromContext(t.Context())
		require.False(t, ok)
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		b := routing.Binding{
			Domain:   "example.com",
			Result:   hostrouter.SubdomainResult("api"),
			Table:    "api",
			Selected: true,
			State:    routing.StateDone,
		}
		got, ok := routing.BindingFromContext(routing.WithBinding(t.Context(), b))
		require.True(t, ok)
		require.Equal(t, b, got)
		require.Equal(t, "api", got.Subdomain())
	})

	t.Run("bare has no subdomain", func(t *testing.T) {
		t.Parallel()

		require.Empty(t, routing.Binding{Result: hostrouter.BareResult()}.Subdomain())
	})

	t.Run("state names", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, "new", routing.StateNew.String())
		require.Equal(t, "host_extracted", routing.StateHostExtracted.String())
		require.Equal(t, "table_selected", routing.StateTableSelected.String())
		require.Equal(t, "done", routing.StateDone.String())
	})
}
