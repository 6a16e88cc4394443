// Package scheduler drives periodic refresh cycles and holds the latest
// snapshot for the dashboard.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"signal-desk/internal/pipeline"
)

// Snapshot holds the most recent cycle. Each refresh fully replaces the
// previous cycle; a stale in-flight cycle is simply discarded on overwrite.
type Snapshot struct {
	mu    sync.RWMutex
	cycle *pipeline.Cycle
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Latest returns the most recent cycle, or nil before the first refresh.
func (s *Snapshot) Latest() *pipeline.Cycle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cycle
}

// Set replaces the snapshot.
func (s *Snapshot) Set(c *pipeline.Cycle) {
	s.mu.Lock()
	s.cycle = c
	s.mu.Unlock()
}

// Scheduler runs the pipeline on a timer.
type Scheduler struct {
	runner   *pipeline.Runner
	snapshot *Snapshot
	interval time.Duration
	logger   zerolog.Logger
}

// New creates a Scheduler.
func New(runner *pipeline.Runner, snapshot *Snapshot, interval time.Duration, logger zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scheduler{
		runner:   runner,
		snapshot: snapshot,
		interval: interval,
		logger:   logger,
	}
}

// Run refreshes immediately, then on every tick, until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("Scheduler running")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *Scheduler) refresh(ctx context.Context) {
	cycle := s.runner.RunCycle(ctx)
	s.snapshot.Set(cycle)
	s.logger.Info().
		Int("rows", len(cycle.Rows)).
		Int("options", len(cycle.Options)).
		Msg("Refreshed board")
}
