package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs named jobs on cron schedules (rescans, report pruning).
type Scheduler struct {
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	jobs    map[string]cron.EntryID
	running bool
}

// NewScheduler creates an idle scheduler.
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:   cron.New(),
		logger: logger.With("component", "watch.scheduler"),
		jobs:   make(map[string]cron.EntryID),
	}
}

// Add registers fn under name. schedule accepts standard five-field cron
// expressions and descriptors such as "@every 5m". An empty schedule is a
// no-op.
func (s *Scheduler) Add(name, schedule string, fn func(ctx context.Context)) error {
	if schedule == "" {
		s.logger.Debug("no schedule configured, skipping job", "job", name)
		return nil
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q for %s: %w", schedule, name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.jobs[name]; dup {
		return fmt.Errorf("job %q already scheduled", name)
	}

	id, err := s.cron.AddFunc(schedule, func() {
		s.logger.Debug("running scheduled job", "job", name)
		fn(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	s.jobs[name] = id
	s.logger.Info("job scheduled", "job", name, "schedule", schedule)
	return nil
}

// Start runs the scheduler until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || len(s.jobs) == 0 {
		return
	}
	s.cron.Start()
	s.running = true

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("scheduler stopped")
}

// IsRunning reports whether the scheduler has been started.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next activation of the named job.
func (s *Scheduler) NextRun(name string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	entry := s.cron.Entry(id)
	if !entry.Valid() {
		return time.Time{}, false
	}
	return entry.Next, true
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
