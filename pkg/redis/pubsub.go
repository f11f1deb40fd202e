package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Publisher is the part of the client Publish needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Publish sends payload on channel and returns the number of receivers.
func Publish(ctx context.Context, client Publisher, channel, payload string) (int64, error) {
	return client.Publish(ctx, channel, payload).Result()
}

// Listen subscribes to channel and calls fn for every message until ctx is
// done. The subscription is confirmed before Listen starts waiting, so a
// failed subscribe returns immediately.
func Listen(ctx context.Context, client redis.UniversalClient, channel string, fn func(ctx context.Context, payload string)) error {
	sub := client.Subscribe(ctx, channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return errors.Join(ErrSubscribeFailed, err)
	}

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			fn(ctx, msg.Payload)
		}
	}
}
