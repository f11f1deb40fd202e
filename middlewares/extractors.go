package middlewares

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/subdomains/pkg/logger"
	"github.com/dmitrymomot/subdomains/pkg/routing"
)

// SubdomainExtractor adds "subdomain" to records logged with a bound request
// context: the token, "@" for the bare domain, "!" for an unmatched host.
func SubdomainExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		b, ok := routing.BindingFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return logger.Subdomain(b.Result.String()), true
	}
}

// TableExtractor adds "table" when the mapping selected one.
func TableExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		b, ok := routing.BindingFromContext(ctx)
		if !ok || !b.Selected {
			return slog.Attr{}, false
		}
		return logger.Table(string(b.Table)), true
	}
}
