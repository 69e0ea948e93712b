package storage

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

// Sweeper is the part of Store the reaper drives.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// Reaper runs SweepExpired once after an initial delay, then on a fixed
// interval. Sweeps run on a single goroutine and never overlap.
type Reaper struct {
	sweeper      Sweeper
	initialDelay time.Duration
	interval     time.Duration
	logger       logger.Logger
}

func NewReaper(sweeper Sweeper, initialDelay, interval time.Duration, log logger.Logger) *Reaper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Reaper{
		sweeper:      sweeper,
		initialDelay: initialDelay,
		interval:     interval,
		logger:       log,
	}
}

// Run blocks until ctx is cancelled.
func (r *Reaper) Run(ctx context.Context) error {
	r.logger.Info(ctx, "Audio reaper started (initial delay %s, interval %s)", r.initialDelay, r.interval)

	timer := time.NewTimer(r.initialDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		r.logger.Info(ctx, "Audio reaper stopped")
		return ctx.Err()
	case <-timer.C:
	}
	r.sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info(ctx, "Audio reaper stopped")
			return ctx.Err()
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) {
	n, err := r.sweeper.SweepExpired(ctx)
	if err != nil {
		r.logger.Error(ctx, "Audio sweep failed: %v", err)
		return
	}
	if n > 0 {
		r.logger.Info(ctx, "Audio sweep deleted %d objects", n)
	}
}
