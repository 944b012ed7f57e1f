package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"drools-graph/drlx/pkg/cli"
	"drools-graph/drlx/pkg/report"
	"drools-graph/drlx/pkg/source/git"
	"drools-graph/drlx/pkg/telemetry/health"
	"drools-graph/drlx/pkg/watch"
)

var watchFlags struct {
	metricsAddr string
	schedule    string
	debounce    time.Duration
	gitURL      string
	gitBranch   string
	gitPath     string
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-parse a rule directory whenever it changes",
	Long: `Parse a directory, then parse it again whenever a rule file changes and
on an optional cron schedule. Each run is logged, counted in Prometheus
metrics and, when reports are enabled, recorded.

With a Git repository the schedule pulls the branch; pulled changes are
picked up like any other file change.

Examples:
  # Watch a local directory
  drlx watch rules/

  # Also rescan every five minutes and serve metrics
  drlx watch rules/ --schedule "@every 5m" --metrics-addr :9090

  # Follow a Git branch
  drlx watch --git-url https://github.com/acme/rules.git --schedule "@every 1m"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchFlags.metricsAddr, "metrics-addr", "", "serve metrics and health endpoints on this address (e.g. :9090)")
	watchCmd.Flags().StringVar(&watchFlags.schedule, "schedule", "", "cron expression for periodic rescans (e.g. \"@every 5m\")")
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 0, "quiet period after file events (default: config)")
	watchCmd.Flags().StringVar(&watchFlags.gitURL, "git-url", "", "follow rule files in this Git repository")
	watchCmd.Flags().StringVar(&watchFlags.gitBranch, "git-branch", "", "branch to follow (default: main)")
	watchCmd.Flags().StringVar(&watchFlags.gitPath, "git-path", "", "directory inside the repository")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	a.applyGitFlags(watchFlags.gitURL, watchFlags.gitBranch, watchFlags.gitPath)
	if watchFlags.metricsAddr != "" {
		a.cfg.Watch.MetricsAddress = watchFlags.metricsAddr
	}
	if watchFlags.schedule != "" {
		a.cfg.Watch.Schedule = watchFlags.schedule
	}
	if watchFlags.debounce > 0 {
		a.cfg.Watch.Debounce = watchFlags.debounce
	}

	ctx, stop := cli.SetupSignalHandler(contextOf(cmd))
	defer stop()

	scheduler := watch.NewScheduler(a.logger.Slog())

	var root string
	var repo *git.Repository
	switch {
	case a.cfg.Git.Repository != "":
		repo, _, err = a.checkout(ctx)
		if err != nil {
			return cli.NewCommandError("watch", err)
		}
		root = repo.RulesDir()
		defer logGitStats(a, repo)
	case len(args) == 1:
		root = args[0]
	default:
		return cli.NewCommandError("watch", fmt.Errorf("no input: pass a directory or --git-url"))
	}

	p, err := a.newParser()
	if err != nil {
		return err
	}

	runner := watch.NewRunner(p, root).
		WithDebounce(a.cfg.Watch.Debounce).
		WithScheduler(scheduler).
		WithLogger(a.logger.Slog()).
		WithMetrics(a.metrics).
		WithTracer(a.tracer.Tracer())

	if repo != nil {
		// pulled changes reach the runner through the file watcher
		if err := scheduler.Add("git-pull", a.cfg.Watch.Schedule, pullJob(a, repo)); err != nil {
			return cli.NewConfigError("watch.schedule", err.Error())
		}
	} else {
		runner.WithSchedule(a.cfg.Watch.Schedule)
	}

	store, err := a.openStore(false)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	if store != nil {
		defer store.Close()
		runner.OnRun(saveRunHook(a, store, repo))
		pruner := report.NewPruner(store, a.cfg.Reports.RetentionDays, a.logger.Slog())
		if err := scheduler.Add("report-prune", a.cfg.Reports.PruneSchedule, pruner.Job()); err != nil {
			return cli.NewConfigError("reports.prune_schedule", err.Error())
		}
	}

	if addr := a.cfg.Watch.MetricsAddress; addr != "" {
		srv := serveStatus(a, addr, readinessChecker(runner, store))
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	a.logger.Info("watching rule files", "dir", root, "schedule", a.cfg.Watch.Schedule)
	if err := runner.Run(ctx); err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

func pullJob(a *app, repo *git.Repository) func(context.Context) {
	return func(ctx context.Context) {
		result, err := repo.Pull(ctx)
		if err != nil {
			a.logger.Error("git pull failed", "error", err)
			return
		}
		if result.HadChanges {
			a.logger.Info("pulled rule changes",
				"from", result.FromSHA,
				"to", result.ToSHA,
				"changed_files", result.ChangedFiles,
			)
		}
	}
}

func logGitStats(a *app, repo *git.Repository) {
	stats := repo.Stats()
	a.logger.Info("stopped following rule repository",
		"last_commit", stats.LastCommitSHA,
		"successful_pulls", stats.SuccessfulPulls,
		"failed_pulls", stats.FailedPulls,
		"last_pull_duration_ms", stats.PullDuration.Milliseconds(),
	)
}

func saveRunHook(a *app, store report.Store, repo *git.Repository) watch.RunHook {
	return func(ctx context.Context, run *watch.Run) {
		if run.Err != nil {
			return
		}
		rep := report.New(run.ID, run.Trigger, run.Started, run.Result)
		if repo != nil {
			rep.GitURL = a.cfg.Git.Repository
			if commit, err := repo.GetCurrentCommit(); err == nil {
				rep.GitCommit = commit.SHA
			}
		}
		if err := store.Save(ctx, rep); err != nil {
			a.logger.ErrorContext(ctx, "failed to record parse report", "error", err)
		}
	}
}

// readinessChecker reports ready once the last run parsed without a
// directory-level error and, when reports are enabled, the store answers.
func readinessChecker(runner *watch.Runner, store report.Store) *health.Checker {
	checker := health.New(health.DefaultCheckTimeout)
	checker.Register("parse", func(context.Context) error {
		run := runner.Last()
		if run == nil {
			return errors.New("no parse completed yet")
		}
		return run.Err
	})
	if store != nil {
		checker.Register("reports", func(ctx context.Context) error {
			_, err := store.List(ctx, 1)
			return err
		})
	}
	return checker
}

func serveStatus(a *app, addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(a.cfg.Telemetry.Metrics.Path, a.metrics.Handler())
	health.Mount(mux, checker, health.BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildDate: BuildDate,
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		a.logger.Info("serving metrics and health", "addr", addr, "metrics_path", a.cfg.Telemetry.Metrics.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("status server failed", "error", err)
		}
	}()
	return srv
}
