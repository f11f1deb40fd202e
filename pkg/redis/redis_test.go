package redis_test

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subdomains/pkg/redis"
)

func TestOpen_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{"empty url", "", redis.ErrEmptyConnectionURL},
		{"http scheme", "http://localhost:6379", redis.ErrFailedToParseURL},
		{"no scheme", "localhost:6379", redis.ErrFailedToParseURL},
		{"malformed port", "redis://localhost:notaport", redis.ErrFailedToParseURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := redis.Open(context.Background(), tt.url)
			require.ErrorIs(t, err, tt.wantErr)
			require.Nil(t, client)
		})
	}
}

func TestOpen_Unreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := redis.Open(ctx, "redis://127.0.0.1:1/0",
		redis.WithRetry(2, 10*time.Millisecond),
		redis.WithDialTimeout(100*time.Millisecond),
	)
	require.ErrorIs(t, err, redis.ErrConnectionFailed)
	require.Nil(t, client)
}

func TestHealthcheck_NilClient(t *testing.T) {
	t.Parallel()

	err := redis.Healthcheck(nil)(context.Background())
	require.ErrorIs(t, err, redis.ErrHealthcheckFailed)
}

type recordingPublisher struct {
	channel string
	message any
}

func (p *recordingPublisher) Publish(ctx context.Context, channel string, message any) *goredis.IntCmd {
	p.channel = channel
	p.message = message
	cmd := goredis.NewIntCmd(ctx)
	cmd.SetVal(3)
	return cmd
}

func TestPublish(t *testing.T) {
	t.Parallel()

	p := &recordingPublisher{}
	n, err := redis.Publish(context.Background(), p, "subdomains:invalidate", "site:1")
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	require.Equal(t, "subdomains:invalidate", p.channel)
	require.Equal(t, "site:1", p.message)
}
