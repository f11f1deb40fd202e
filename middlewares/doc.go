// Package middlewares binds requests to subdomain routing tables.
//
// # Subdomain binding
//
// A [Binder] resolves the parent domain, extracts the subdomain from the Host
// header and selects a routing table from its mapping. The [Subdomain]
// middleware runs it for every request and stores the resulting
// routing.Binding in the request context:
//
//	binder := middlewares.NewBinder(resolver, routing.Mapping{
//	    routing.BareKey: "marketing",
//	    "api":           "api",
//	}, middlewares.WithBinderLogger(log))
//
//	h := middlewares.Subdomain(binder)(routing.NewDispatcher(reg, "web", nil))
//
// Hosts outside the parent domain are logged and served by the default table.
// With [WithStrictHostValidation] they are rejected with [ErrUnmatchedHost]
// (400). A parent domain that cannot be resolved answers 500.
//
// Responses carry "Vary: Host" because the same path renders differently per
// subdomain. [WithVaryOnHost](false) turns this off.
//
// # Request ID
//
// [RequestID] assigns a UUID to each request, or keeps the one sent by a
// proxy. [RequestIDExtractor], [SubdomainExtractor] and [TableExtractor] add
// the request ID, subdomain and table to every log record:
//
//	log := logger.New(logger.WithContextExtractors(
//	    middlewares.RequestIDExtractor(),
//	    middlewares.SubdomainExtractor(),
//	    middlewares.TableExtractor(),
//	))
//
// # Recover
//
// [Recover] converts panics into a [PanicError] handed to the error handler.
package middlewares
