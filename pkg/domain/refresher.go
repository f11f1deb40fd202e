package domain

import (
	"context"
	"errors"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Invalidator drops cached domain values. *Resolver implements it.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Refresher invalidates a resolver on a cron schedule, bounding how long a
// changed domain can stay hidden behind the cache.
type Refresher struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewRefresher schedules inv.Invalidate. spec is a five-field cron
// expression or a descriptor such as "@every 10m" or "@hourly".
func NewRefresher(inv Invalidator, spec string, logger *slog.Logger) (*Refresher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, errors.Join(ErrInvalidSpec, err)
	}

	c := cron.New(cron.WithParser(parser))
	c.Schedule(schedule, cron.FuncJob(func() {
		ctx := context.Background()
		if err := inv.Invalidate(ctx); err != nil {
			logger.ErrorContext(ctx, "scheduled domain refresh failed", slog.String("error", err.Error()))
			return
		}
		logger.DebugContext(ctx, "scheduled domain refresh")
	}))

	return &Refresher{cron: c, logger: logger}, nil
}

// Start runs the schedule in the background.
func (r *Refresher) Start(context.Context) error {
	r.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running refresh, or for ctx.
func (r *Refresher) Stop(ctx context.Context) error {
	done := r.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
