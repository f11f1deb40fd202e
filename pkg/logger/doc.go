// Package logger builds the slog loggers used by the router, the CLI and the
// demo server.
//
// Three output formats are available: JSON (default, for production), text,
// and pretty (colored, via charmbracelet/log) for local development. Context
// extractors add request-scoped attributes such as the request ID or the
// bound subdomain to every record logged with a request context:
//
//	log := logger.New(
//	    logger.WithFormat(logger.FormatPretty),
//	    logger.WithContextExtractors(middlewares.SubdomainExtractor()),
//	)
//	log.WarnContext(r.Context(), "host does not belong to domain",
//	    logger.Host(r.Host), logger.Domain(domain))
//
// # Sentry
//
// With [WithSentry] and a non-empty DSN, warnings are stored as Sentry logs
// and errors become Sentry issues, in addition to the regular output. A failed
// Sentry initialization is logged and the logger keeps working without it.
package logger
