package middlewares

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/subdomains/pkg/domain"
)

// ErrUnmatchedHost is returned in strict mode when the Host header does not
// belong to the parent domain.
var ErrUnmatchedHost = errors.New("middlewares: host does not belong to parent domain")

// PanicError represents a recovered panic.
type PanicError struct {
	Value any
	Stack []byte // nil if disabled
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// AsPanicError extracts the PanicError from err if present.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// ErrorHandler writes the response for a request the middleware rejected.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// StatusCode maps middleware errors to HTTP status codes.
// Unmatched hosts are client errors; everything else is a server error.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrUnmatchedHost):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMisconfiguredDomain):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// DefaultErrorHandler responds with the plain status text of StatusCode(err).
// The error itself is logged, never sent to the client.
func DefaultErrorHandler(logger *slog.Logger) ErrorHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(w http.ResponseWriter, r *http.Request, err error) {
		code := StatusCode(err)
		level := slog.LevelError
		if code < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		logger.Log(r.Context(), level, "request rejected",
			slog.Int("status", code),
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(code), code)
	}
}
