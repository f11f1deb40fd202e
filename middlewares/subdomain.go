package middlewares

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/subdomains/pkg/logger"
	"github.com/dmitrymomot/subdomains/pkg/routing"
)

// SubdomainOption configures the Subdomain middleware.
type SubdomainOption func(*subdomainConfig)

type subdomainConfig struct {
	onError ErrorHandler
	logger  *slog.Logger
}

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) SubdomainOption {
	return func(c *subdomainConfig) {
		if h != nil {
			c.onError = h
		}
	}
}

// WithSubdomainLogger sets the logger used by the default error handler and
// for the debug record written once a bound request is done.
func WithSubdomainLogger(l *slog.Logger) SubdomainOption {
	return func(c *subdomainConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Subdomain binds every request with b and stores the result in the request
// context (see routing.BindingFromContext). Binding errors are passed to the
// error handler: unmatched hosts in strict mode answer 400, a misconfigured
// parent domain answers 500.
//
// Layer routing.Dispatcher after it to serve each request with its table:
//
//	h := middlewares.Subdomain(binder)(routing.NewDispatcher(reg, "web", nil))
func Subdomain(b *Binder, opts ...SubdomainOption) func(http.Handler) http.Handler {
	cfg := &subdomainConfig{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.onError == nil {
		cfg.onError = DefaultErrorHandler(cfg.logger)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if b.VaryOnHost() {
				hw := newHeaderHookWriter(w, func(h http.Header) { AddVary(h, "Host") })
				defer hw.finish()
				w = hw
			}

			binding, err := b.Bind(r)
			if err != nil {
				cfg.onError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(routing.WithBinding(r.Context(), binding)))

			binding.State = routing.StateDone
			cfg.logger.DebugContext(r.Context(), "subdomain binding done",
				slog.String("state", binding.State.String()),
				logger.Host(r.Host),
				logger.Subdomain(binding.Result.String()),
				logger.Table(string(binding.Table)),
			)
		})
	}
}

// GetBinding returns the binding of r, or a zero Binding when the Subdomain
// middleware did not run.
func GetBinding(r *http.Request) routing.Binding {
	b, _ := routing.BindingFromContext(r.Context())
	return b
}
