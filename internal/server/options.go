package server

import (
	"context"
	"log/slog"
	"net"
	"time"
)

// Default server timeouts.
const (
	defaultAddress           = ":8080"
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// Option configures Run.
type Option func(*config)

type config struct {
	address         string
	listener        net.Listener
	logger          *slog.Logger
	shutdownTimeout time.Duration
	startHooks      []func(context.Context) error
	shutdownHooks   []func(context.Context) error
	background      []func(context.Context) error
	onListen        func(net.Addr)
}

// Address sets the listen address. Default: ":8080".
func Address(addr string) Option {
	return func(c *config) {
		if addr != "" {
			c.address = addr
		}
	}
}

// Listener serves on ln instead of listening on the address.
func Listener(ln net.Listener) Option {
	return func(c *config) { c.listener = ln }
}

// Logger sets the logger. If nil, logging is disabled.
func Logger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// ShutdownTimeout bounds the graceful shutdown, hooks included.
// Default: 30 seconds.
func ShutdownTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

// StartHook runs before the server accepts connections. A failing hook
// aborts Run.
func StartHook(fn func(context.Context) error) Option {
	return func(c *config) {
		if fn != nil {
			c.startHooks = append(c.startHooks, fn)
		}
	}
}

// ShutdownHook runs after the HTTP server stopped, in registration order.
//
// Example:
//
//	server.ShutdownHook(refresher.Stop)
func ShutdownHook(fn func(context.Context) error) Option {
	return func(c *config) {
		if fn != nil {
			c.shutdownHooks = append(c.shutdownHooks, fn)
		}
	}
}

// Background runs fn for the lifetime of the server. Its context is
// cancelled on shutdown; an error other than context.Canceled stops the
// server.
func Background(fn func(context.Context) error) Option {
	return func(c *config) {
		if fn != nil {
			c.background = append(c.background, fn)
		}
	}
}

// OnListen is called with the bound address once listening.
func OnListen(fn func(net.Addr)) Option {
	return func(c *config) { c.onListen = fn }
}
