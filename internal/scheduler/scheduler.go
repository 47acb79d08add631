// Package scheduler prunes the activation history on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Pruner deletes history older than a cutoff. Satisfied by store.Store.
type Pruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Vacuumer reclaims space after rows are deleted. Pruners that implement it
// are vacuumed after every prune that removed history.
type Vacuumer interface {
	Vacuum(ctx context.Context) error
}

// Config configures a Scheduler.
type Config struct {
	// Schedule is a five-field cron expression. Default "0 * * * *".
	Schedule string
	// Retention is how long history is kept. Default 30 days.
	Retention time.Duration
	// Tick is how often the loop checks whether a run is due. Default 60s.
	Tick time.Duration
}

const (
	DefaultSchedule  = "0 * * * *"
	DefaultRetention = 30 * 24 * time.Hour
	defaultTick      = 60 * time.Second
)

// Scheduler runs history pruning when its cron schedule is due.
type Scheduler struct {
	pruner    Pruner
	schedule  cron.Schedule
	retention time.Duration
	tick      time.Duration
	logger    *slog.Logger
	now       func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex

	runMu   sync.Mutex
	nextRun time.Time
}

// NewScheduler creates a Scheduler. It fails on an invalid cron expression.
func NewScheduler(p Pruner, cfg Config, logger *slog.Logger) (*Scheduler, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}
	if cfg.Tick <= 0 {
		cfg.Tick = defaultTick
	}
	if logger == nil {
		logger = slog.Default()
	}
	schedule, err := parser.Parse(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", cfg.Schedule, err)
	}
	return &Scheduler{
		pruner:    p,
		schedule:  schedule,
		retention: cfg.Retention,
		tick:      cfg.Tick,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// CalculateNextRun computes the next run time for a cron expression.
func CalculateNextRun(cronExpr string, from time.Time) (time.Time, error) {
	schedule, err := parser.Parse(cronExpr)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse cron expression %q: %w", cronExpr, err)
	}
	return schedule.Next(from), nil
}

// Start launches the background loop. The first prune happens at the first
// scheduled time after start.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.done != nil {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already started")
	}

	schedCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.runMu.Lock()
	s.nextRun = s.schedule.Next(s.now())
	next := s.nextRun
	s.runMu.Unlock()

	go s.loop(schedCtx)
	s.logger.Info("history pruning scheduled",
		slog.Time("next_run", next),
		slog.Duration("retention", s.retention),
	)
	return nil
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.maybeRun(ctx)
		}
	}
}

func (s *Scheduler) maybeRun(ctx context.Context) {
	now := s.now()
	s.runMu.Lock()
	due := !s.nextRun.After(now)
	s.runMu.Unlock()
	if !due {
		return
	}
	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Error("history pruning failed", slog.String("error", err.Error()))
	}
}

// RunOnce prunes history older than the retention window and advances the
// next scheduled run.
func (s *Scheduler) RunOnce(ctx context.Context) (int64, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	now := s.now()
	s.nextRun = s.schedule.Next(now)

	cutoff := now.Add(-s.retention)
	n, err := s.pruner.PruneBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("pruned activation history",
			slog.Int64("removed", n),
			slog.Time("cutoff", cutoff),
		)
		if v, ok := s.pruner.(Vacuumer); ok {
			if err := v.Vacuum(ctx); err != nil {
				s.logger.Warn("vacuum after prune failed", slog.String("error", err.Error()))
			}
		}
	}
	return n, nil
}

// NextRun returns the next scheduled prune, or the zero time before Start.
func (s *Scheduler) NextRun() time.Time {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.nextRun
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return nil
	}

	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil

	s.logger.Info("scheduler stopped")
	return nil
}
