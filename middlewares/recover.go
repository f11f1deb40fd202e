package middlewares

import (
	"log/slog"
	"net/http"
	"runtime"
)

// DefaultStackSize is the maximum stack trace size in bytes.
const DefaultStackSize = 4096

// Recover turns panics into a *PanicError passed to onError.
// A nil onError uses DefaultErrorHandler.
func Recover(logger *slog.Logger, onError ErrorHandler) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if onError == nil {
		onError = DefaultErrorHandler(logger)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				stack := make([]byte, DefaultStackSize)
				stack = stack[:runtime.Stack(stack, false)]
				logger.ErrorContext(r.Context(), "panic recovered",
					slog.Any("panic", v),
					slog.String("stack", string(stack)),
				)
				onError(w, r, &PanicError{Value: v, Stack: stack})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
