// Package redis opens go-redis clients and carries invalidation messages.
//
// [Open] validates the URL, pings the server and retries with a growing
// delay while the server comes up:
//
//	client, err := redis.Open(ctx, "redis://localhost:6379/0",
//	    redis.WithRetry(5, time.Second),
//	    redis.WithLogger(log),
//	)
//
// [Publish] and [Listen] are thin wrappers over PUBLISH/SUBSCRIBE used to
// tell every process that a cached parent domain is stale:
//
//	go redis.Listen(ctx, client, "subdomains:invalidate", func(ctx context.Context, _ string) {
//	    _ = resolver.Invalidate(ctx)
//	})
//
// [Healthcheck] plugs into pkg/health readiness checks.
package redis
