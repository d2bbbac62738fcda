// Package scheduler triggers periodic full sync runs.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/driveatlas/drive-mirror/internal/engine"
	"github.com/driveatlas/drive-mirror/internal/models"
)

// Syncer is the engine surface the scheduler drives.
type Syncer interface {
	PerformSync(ctx context.Context) (models.SyncResult, error)
}

// Scheduler runs a full sync on a fixed interval. A tick that lands
// while a run is still active is skipped, not queued.
type Scheduler struct {
	engine   Syncer
	interval time.Duration
	logger   *slog.Logger

	// timeout bounds each run; zero means unbounded.
	timeout time.Duration
}

// New creates a scheduler. Interval must be positive.
func New(eng Syncer, interval, timeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		engine:   eng,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Run ticks until the context is cancelled. The first sync fires after
// one full interval, not at startup; initial population is an explicit
// API call or the first tick.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("scheduler started", slog.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	runCtx := ctx

	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.engine.PerformSync(runCtx)
	if err != nil {
		if errors.Is(err, engine.ErrSyncInProgress) {
			s.logger.Info("scheduled sync skipped, run already active")
			return
		}

		s.logger.Error("scheduled sync failed", slog.String("error", err.Error()))

		return
	}

	s.logger.Info("scheduled sync finished",
		slog.String("sync_id", result.SyncID),
		slog.String("status", result.Status),
		slog.Int64("duration_ms", result.DurationMS),
	)
}
