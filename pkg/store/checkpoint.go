package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Checkpointer is implemented by stores with a write-ahead log.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointScheduler runs WAL checkpoints on a cron schedule.
type CheckpointScheduler struct {
	target   Checkpointer
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
	runs     int
}

// NewCheckpointScheduler creates a scheduler for target. An empty schedule
// makes Start a no-op.
func NewCheckpointScheduler(target Checkpointer, schedule string, logger *slog.Logger) *CheckpointScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckpointScheduler{
		target:   target,
		schedule: schedule,
		logger:   logger.With("component", "store.checkpoint"),
	}
}

// Start begins checkpointing on the configured schedule.
//
// Common cron expressions:
//   - "0 */6 * * *"  - Every 6 hours
//   - "*/15 * * * *" - Every 15 minutes
//   - "0 4 * * *"    - Daily at 4 AM
//
// The scheduler stops when ctx is cancelled.
func (s *CheckpointScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("checkpoint schedule not configured, skipping scheduler")
		return nil
	}
	if s.running {
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule checkpoint: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("checkpoint scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// RunNow performs one checkpoint immediately.
func (s *CheckpointScheduler) RunNow(ctx context.Context) error {
	start := time.Now()
	if err := s.target.Checkpoint(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.runs++
	s.mu.Unlock()

	s.logger.Debug("checkpoint completed", "duration", time.Since(start))
	return nil
}

func (s *CheckpointScheduler) run(ctx context.Context) {
	if err := s.RunNow(ctx); err != nil {
		s.logger.Error("scheduled checkpoint failed", "error", err)
	}
}

// Stop stops the scheduler and waits for a running checkpoint to finish.
func (s *CheckpointScheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	running := s.running
	s.running = false
	s.mu.Unlock()

	if c != nil && running {
		<-c.Stop().Done()
		s.logger.Info("checkpoint scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *CheckpointScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Runs returns the number of completed checkpoints.
func (s *CheckpointScheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// NextRun returns the next scheduled checkpoint time, or nil when not running.
func (s *CheckpointScheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil || !s.running {
		return nil
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
