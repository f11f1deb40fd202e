package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subdomains/pkg/logger"
)

type ctxKey struct{}

func subdomainExtractor(ctx context.Context) (slog.Attr, bool) {
	v, ok := ctx.Value(ctxKey{}).(string)
	if !ok {
		return slog.Attr{}, false
	}
	return logger.Subdomain(v), true
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithAttr(logger.Component("binder")),
		logger.WithContextExtractors(subdomainExtractor, nil),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "api")
	log.WarnContext(ctx, "host does not belong to domain", logger.Host("evil.test"), logger.Domain("example.com"))

	m := decodeLine(t, &buf)
	require.Equal(t, "WARN", m["level"])
	require.Equal(t, "host does not belong to domain", m["msg"])
	require.Equal(t, "binder", m["component"])
	require.Equal(t, "api", m["subdomain"])
	require.Equal(t, "evil.test", m["host"])
	require.Equal(t, "example.com", m["domain"])
}

func TestNew_Level(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))
	log.Info("dropped")
	require.Zero(t, buf.Len())

	log.Error("kept", logger.Error(errors.New("boom")))
	require.Equal(t, "boom", decodeLine(t, &buf)["error"])
}

func TestNew_Formats(t *testing.T) {
	t.Parallel()

	for _, f := range []logger.Format{logger.FormatText, logger.FormatPretty} {
		t.Run(string(f), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := logger.New(logger.WithOutput(&buf), logger.WithFormat(f))
			log.Info("table selected", logger.Table("api"))
			require.Contains(t, buf.String(), "table selected")
			require.Contains(t, buf.String(), "api")
		})
	}
}

func TestNew_SentryWithoutDSN(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithSentry(logger.SentryConfig{}))
	log.Info("ok")
	require.Equal(t, "ok", decodeLine(t, &buf)["msg"])
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := logger.ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNop(t *testing.T) {
	t.Parallel()

	require.False(t, logger.Nop().Enabled(context.Background(), slog.LevelError))
}
