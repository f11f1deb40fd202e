// Package reverse builds absolute URLs for named routes on the right
// subdomain.
//
// A Reverser combines the parent domain, the subdomain-to-table mapping and
// a routing.Registry. Given a route name and an optional target subdomain it
// picks the table, asks the registry for the path and joins scheme, host and
// path:
//
//	rev, err := reverse.New(reverse.Config{
//		Resolver:     resolver,
//		Mapping:      routing.Mapping{"@": "marketing", "api": "api"},
//		DefaultTable: "marketing",
//		Registry:     registry,
//	})
//
//	rev.Reverse(ctx, "home")                                  // "http://example.com/"
//	rev.Reverse(ctx, "home", reverse.Subdomain("api"))        // "http://api.example.com/"
//	rev.Reverse(ctx, "home", reverse.Scheme(""))              // "//example.com/"
//	rev.Reverse(ctx, "user", reverse.Args("1"), reverse.Port(8000))
//
// With NamespaceFallback enabled, a namespaced name such as "api:user" that
// the default table cannot reverse is retried once in the table that
// provides the "api" namespace, and the URL is built on that table's
// subdomain.
//
// Inside a request handler, FromRequest keeps the request's subdomain, port
// and scheme unless overridden, and FuncMap exposes the same as a "url"
// function for html/template.
//
// Join is the pure building block: Join(domain, path, scheme).
package reverse
