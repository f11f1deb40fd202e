// Package subdomains routes HTTP requests by subdomain and builds URLs that
// land on the right subdomain.
//
// A request's Host is matched against the parent domain: "example.com" is
// the bare domain, "api.example.com" carries the subdomain "api" and
// "a.b.example.com" the subdomain "a.b". A mapping selects a routing table
// per subdomain; routing.BareKey ("@") names the bare domain. Hosts the
// mapping does not mention fall through to the default table.
//
//	registry := routing.NewChiRegistry()
//	registry.Register("marketing", marketing)
//	registry.Register("api", api)
//
//	r, err := subdomains.New(
//		subdomains.WithResolver(domain.New(domain.Static("example.com"))),
//		subdomains.WithTables(registry),
//		subdomains.WithMapping(routing.Mapping{"@": "marketing", "api": "api"}),
//		subdomains.WithDefaultTable("marketing"),
//	)
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//
//	http.ListenAndServe(":8080", r.Handler())
//
// # Reversing
//
// Route names are turned back into absolute URLs:
//
//	r.Reverse(ctx, "home", reverse.Subdomain("api")) // "http://api.example.com/"
//	r.Reverse(ctx, "home")                           // "http://example.com/"
//
// # Reloading
//
// Reload swaps the settings atomically, for example after the mapping file
// changed:
//
//	err := r.Reload(subdomains.WithMapping(newMapping))
//
// Responses carry "Vary: Host" unless WithVaryOnHost(false) is given, since
// the same path may render differently per subdomain.
package subdomains
