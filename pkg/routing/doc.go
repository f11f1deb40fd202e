// Package routing selects and dispatches per-subdomain routing tables.
//
// A deployment owns several routing tables (for example "marketing", "api"
// and "app"), each identified by an opaque [TableID]. A [Mapping] binds
// subdomain tokens to tables; the reserved key [BareKey] ("@", the DNS apex
// notation) binds requests to the bare parent domain:
//
//	mapping := routing.Mapping{
//	    routing.BareKey: "marketing",
//	    "www":           "marketing",
//	    "api":           "api",
//	}
//
//	table, ok := routing.Select(hostrouter.Extract("example.com", r.Host), mapping)
//	if !ok {
//	    // no override: the deployment's default table handles the request
//	}
//
// # Registries
//
// The tables themselves live in a [Registry], which knows how to reverse a
// route name into a path and which namespaces a table provides. Two
// implementations are included:
//
//   - [MuxRegistry] wraps gorilla/mux routers and their named routes
//   - [ChiRegistry] wraps chi routers built from [ChiTable], which records a
//     name for every pattern it mounts
//
// Route names may carry a namespace prefix ("api:view"). A table's namespace
// set is the union of the namespaces it was registered with and the prefixes
// of its route names.
//
// # Dispatch
//
// [Dispatcher] is an http.Handler that forwards each request to the table
// bound to it by the subdomain middleware (see [Binding]), or to the default
// table when no table was selected.
package routing
