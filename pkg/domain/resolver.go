package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/subdomains/pkg/cache"
	"github.com/dmitrymomot/subdomains/pkg/hostrouter"
)

// Resolver turns a Source into a normalized parent domain.
// It never guesses: any failure is reported as ErrMisconfiguredDomain.
//
// The source can be replaced at runtime with SetSource. Caches, refreshers
// and subscriptions holding the Resolver keep working across the swap.
type Resolver struct {
	state  atomic.Pointer[sourceState]
	cache  cache.Cache[string]
	ttl    time.Duration
	key    string
	logger *slog.Logger

	flight singleflight.Group
	// gen is bumped by Invalidate; loads started under an older
	// generation are not stored.
	gen atomic.Uint64
	mu  sync.Mutex
}

type sourceState struct {
	src      Source
	stripWWW bool
}

type options struct {
	stripWWW bool
	cache    cache.Cache[string]
	ttl      time.Duration
	key      string
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*options)

// WithStripWWW removes one leading "www." from the resolved domain.
func WithStripWWW(strip bool) Option {
	return func(o *options) {
		o.stripWWW = strip
	}
}

// WithCache keeps the resolved domain in c for ttl.
// A non-positive ttl uses the cache default; values are never kept forever.
func WithCache(c cache.Cache[string], ttl time.Duration) Option {
	return func(o *options) {
		o.cache = c
		o.ttl = ttl
	}
}

// WithCacheKey sets the key used in the cache. Default: "domain".
// Deployments serving several sites from one Redis use one key per site.
func WithCacheKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.key = key
		}
	}
}

// WithLogger sets the logger for resolution failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates a resolver for src.
//
// Example:
//
//	r := domain.New(domain.Static("example.com"))
//	d, err := r.Resolve(ctx) // "example.com"
func New(src Source, opts ...Option) *Resolver {
	o := options{
		key:    "domain",
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Resolver{
		cache:  o.cache,
		ttl:    o.ttl,
		key:    o.key,
		logger: o.logger,
	}
	r.state.Store(&sourceState{src: src, stripWWW: o.stripWWW})
	return r
}

// Resolve returns the current parent domain.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if r == nil {
		return "", fmt.Errorf("%w: no domain source", ErrMisconfiguredDomain)
	}

	gen := r.gen.Load()
	st := r.state.Load()
	if st.src == nil {
		return "", fmt.Errorf("%w: no domain source", ErrMisconfiguredDomain)
	}
	if r.cache == nil {
		return r.load(ctx, st)
	}

	if d, err := r.cache.Get(ctx, r.key); err == nil {
		return d, nil
	}

	v, err, _ := r.flight.Do(r.key, func() (any, error) {
		d, err := r.load(ctx, st)
		if err != nil {
			return nil, err
		}
		r.store(ctx, gen, d)
		return d, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (r *Resolver) load(ctx context.Context, st *sourceState) (string, error) {
	raw, err := st.src.Domain(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "domain source failed", slog.String("error", err.Error()))
		return "", errors.Join(ErrMisconfiguredDomain, err)
	}

	d := Normalize(raw, st.stripWWW)
	if d == "" {
		r.logger.ErrorContext(ctx, "domain source returned an empty domain", slog.String("raw", raw))
		return "", fmt.Errorf("%w: empty domain", ErrMisconfiguredDomain)
	}
	return d, nil
}

// store caches d unless Invalidate ran after the load started.
func (r *Resolver) store(ctx context.Context, gen uint64, d string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.gen.Load() != gen {
		r.logger.DebugContext(ctx, "stale domain load discarded", slog.String("key", r.key))
		return
	}
	if err := r.cache.Set(ctx, r.key, d, max(r.ttl, 0)); err != nil {
		r.logger.WarnContext(ctx, "domain cache write failed", slog.String("error", err.Error()))
	}
}

// Invalidate drops the cached domain so the next Resolve reads the source.
// A load in flight when Invalidate runs is not cached.
func (r *Resolver) Invalidate(ctx context.Context) error {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.gen.Add(1)
	r.flight.Forget(r.key)
	if r.cache == nil {
		return nil
	}
	if err := r.cache.Delete(ctx, r.key); err != nil && !errors.Is(err, cache.ErrNotFound) {
		return err
	}
	r.logger.DebugContext(ctx, "domain cache invalidated", slog.String("key", r.key))
	return nil
}

// SetSource replaces the source and the www handling, then invalidates the
// cached domain.
func (r *Resolver) SetSource(ctx context.Context, src Source, stripWWW bool) error {
	if r == nil {
		return fmt.Errorf("%w: no resolver", ErrMisconfiguredDomain)
	}
	r.state.Store(&sourceState{src: src, stripWWW: stripWWW})
	return r.Invalidate(ctx)
}

// Healthcheck reports whether the domain currently resolves.
func (r *Resolver) Healthcheck() func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := r.Resolve(ctx)
		return err
	}
}

// Normalize lower-cases domain, drops a trailing dot and converts it to
// ASCII. With stripWWW, a single leading "www." is removed as long as
// something remains.
func Normalize(domain string, stripWWW bool) string {
	d := hostrouter.NormalizeDomain(domain)
	if stripWWW {
		if rest, ok := strings.CutPrefix(d, "www."); ok && rest != "" {
			d = rest
		}
	}
	return d
}
