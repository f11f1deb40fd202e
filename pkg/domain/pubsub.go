package domain

import (
	"context"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/subdomains/pkg/redis"
)

// DefaultChannel carries domain invalidation messages between processes.
const DefaultChannel = "subdomains:domain:invalidate"

// Publish tells every subscribed process to drop its cached domain.
func Publish(ctx context.Context, client redis.Publisher, channel string) error {
	if channel == "" {
		channel = DefaultChannel
	}
	_, err := redis.Publish(ctx, client, channel, "invalidate")
	return err
}

// Subscribe invalidates inv whenever a message arrives on channel.
// It blocks until ctx is done.
func Subscribe(ctx context.Context, client goredis.UniversalClient, channel string, inv Invalidator, logger *slog.Logger) error {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return redis.Listen(ctx, client, channel, func(ctx context.Context, _ string) {
		if err := inv.Invalidate(ctx); err != nil {
			logger.ErrorContext(ctx, "domain invalidation failed",
				slog.String("channel", channel),
				slog.String("error", err.Error()),
			)
			return
		}
		logger.InfoContext(ctx, "domain invalidated", slog.String("channel", channel))
	})
}
