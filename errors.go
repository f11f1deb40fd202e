package subdomains

import (
	"errors"

	"github.com/dmitrymomot/subdomains/middlewares"
	"github.com/dmitrymomot/subdomains/pkg/domain"
	"github.com/dmitrymomot/subdomains/pkg/routing"
)

// ErrInvalidConfig is returned by New and Reload for unusable settings.
var ErrInvalidConfig = errors.New("subdomains: invalid config")

// Re-exported sentinels.
var (
	ErrMisconfiguredDomain = domain.ErrMisconfiguredDomain
	ErrUnmatchedHost       = middlewares.ErrUnmatchedHost
	ErrNoRouteMatch        = routing.ErrNoRouteMatch
	ErrUnknownTable        = routing.ErrUnknownTable
)
