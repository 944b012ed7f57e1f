package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/singleflight"

	"drools-graph/drlx/pkg/drl/parser"
	"drools-graph/drlx/pkg/telemetry/logging"
	"drools-graph/drlx/pkg/telemetry/metrics"
	"drools-graph/drlx/pkg/telemetry/tracing"
)

// Re-parse triggers.
const (
	TriggerInitial  = "initial"
	TriggerFile     = "file"
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// rescanJob is the scheduler job name for periodic rescans.
const rescanJob = "rescan"

// Run is one re-parse of the watched directory.
type Run struct {
	ID       string
	Trigger  string
	Started  time.Time
	Result   *parser.DirectoryResult
	Err      error
}

// RunHook observes completed runs, for example to store a report.
type RunHook func(ctx context.Context, run *Run)

// Runner keeps a directory parsed: once at start, again after file
// changes, and on an optional schedule. Overlapping requests share one
// parse.
type Runner struct {
	parser    *parser.Parser
	root      string
	debounce  time.Duration
	schedule  string
	logger    *slog.Logger
	metrics   *metrics.Collector
	tracer    trace.Tracer
	scheduler *Scheduler
	hooks     []RunHook

	group singleflight.Group

	mu   sync.RWMutex
	last *Run
}

// NewRunner creates a runner for root using p.
func NewRunner(p *parser.Parser, root string) *Runner {
	return &Runner{
		parser:   p,
		root:     root,
		debounce: 500 * time.Millisecond,
		logger:   slog.New(slog.DiscardHandler),
		tracer:   noop.NewTracerProvider().Tracer("drlx/watch"),
	}
}

// WithDebounce sets the quiet period after file events.
func (r *Runner) WithDebounce(d time.Duration) *Runner {
	if d > 0 {
		r.debounce = d
	}
	return r
}

// WithSchedule sets a cron expression for periodic rescans.
func (r *Runner) WithSchedule(schedule string) *Runner {
	r.schedule = schedule
	return r
}

// WithScheduler shares a scheduler with other jobs (report pruning).
func (r *Runner) WithScheduler(s *Scheduler) *Runner {
	r.scheduler = s
	return r
}

// WithLogger sets the logger.
func (r *Runner) WithLogger(logger *slog.Logger) *Runner {
	r.logger = logger
	return r
}

// WithMetrics sets the metrics collector.
func (r *Runner) WithMetrics(m *metrics.Collector) *Runner {
	r.metrics = m
	return r
}

// WithTracer sets the tracer.
func (r *Runner) WithTracer(t trace.Tracer) *Runner {
	r.tracer = t
	return r
}

// OnRun adds a hook called after every run.
func (r *Runner) OnRun(hook RunHook) *Runner {
	r.hooks = append(r.hooks, hook)
	return r
}

// Last returns the most recent completed run, or nil.
func (r *Runner) Last() *Run {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Reparse parses the directory now. Calls made while a parse is in flight
// wait for it and receive the same Run.
func (r *Runner) Reparse(ctx context.Context, trigger string) *Run {
	v, _, shared := r.group.Do(r.root, func() (any, error) {
		return r.reparse(ctx, trigger), nil
	})
	run := v.(*Run)
	if shared {
		r.logger.Debug("re-parse coalesced", "trigger", trigger, "run_id", run.ID)
	}
	return run
}

func (r *Runner) reparse(ctx context.Context, trigger string) *Run {
	run := &Run{
		ID:      uuid.NewString(),
		Trigger: trigger,
		Started: time.Now(),
	}
	ctx = logging.WithRunID(ctx, run.ID)
	ctx = logging.WithTrigger(ctx, trigger)

	ctx, span := r.tracer.Start(ctx, "drl.Reparse",
		trace.WithAttributes(
			attribute.String(tracing.AttrRunID, run.ID),
			attribute.String(tracing.AttrTrigger, trigger),
		))
	defer span.End()

	run.Result, run.Err = r.parser.ParseDirectoryDetailed(ctx, r.root)
	duration := time.Since(run.Started)
	tracing.SetStatus(span, run.Err)

	r.metrics.RecordReparse(trigger, duration, run.Err)
	if run.Err != nil {
		r.logger.ErrorContext(ctx, "re-parse failed", "dir", r.root, "error", run.Err)
	} else {
		files := len(run.Result.Files) + len(run.Result.Failures)
		r.metrics.SetWatchedFiles(files)
		span.SetAttributes(tracing.RunAttributes(run.ID, r.root, files, run.Result.ErrorCount())...)
		r.logger.InfoContext(ctx, "re-parse complete",
			"dir", r.root,
			"files", files,
			"errors", run.Result.ErrorCount(),
			"duration_ms", duration.Milliseconds(),
		)
	}

	r.mu.Lock()
	r.last = run
	r.mu.Unlock()

	for _, hook := range r.hooks {
		hook(ctx, run)
	}
	return run
}

// Run parses once, then re-parses on file changes and on the schedule
// until ctx is cancelled. It returns an error only if watching cannot
// start.
func (r *Runner) Run(ctx context.Context) error {
	r.Reparse(ctx, TriggerInitial)

	if r.schedule != "" {
		if r.scheduler == nil {
			r.scheduler = NewScheduler(r.logger)
		}
		if err := r.scheduler.Add(rescanJob, r.schedule, func(jobCtx context.Context) {
			if ctx.Err() != nil {
				return
			}
			r.Reparse(ctx, TriggerSchedule)
		}); err != nil {
			return err
		}
	}
	if r.scheduler != nil {
		r.scheduler.Start(ctx)
		defer r.scheduler.Stop()
	}

	fw, err := NewFileWatcher(&FileWatcherConfig{
		Path:       r.root,
		Debounce:   r.debounce,
		Extensions: r.parser.Extensions(),
		SkipHidden: true,
	}, r.logger)
	if err != nil {
		return err
	}

	return fw.Watch(ctx, func(path string) {
		r.logger.Debug("rule file changed", "path", path)
		r.Reparse(ctx, TriggerFile)
	})
}
