package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"drools-graph/drlx/pkg/cli"
	"drools-graph/drlx/pkg/config"
	"drools-graph/drlx/pkg/drl/parser"
	"drools-graph/drlx/pkg/report"
	"drools-graph/drlx/pkg/source/git"
	"drools-graph/drlx/pkg/telemetry/logging"
	"drools-graph/drlx/pkg/telemetry/metrics"
	"drools-graph/drlx/pkg/telemetry/tracing"
)

// app holds what every command builds from the configuration.
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
}

// loadConfig reads the configuration file, applies DRLX_* variables and
// the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("config", err.Error())
	}
	if logLevel != "" {
		cfg.Telemetry.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Telemetry.Logging.Format = logFormat
	}
	return cfg, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Config{
		Level:         cfg.Telemetry.Logging.Level,
		Format:        cfg.Telemetry.Logging.Format,
		AddSource:     cfg.Telemetry.Logging.AddSource,
		RedactSecrets: cfg.Telemetry.Logging.RedactSecrets,
		Writer:        cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.tracing", err.Error())
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry()),
		tracer:  tracer,
	}, nil
}

// newParser builds a parser from the configuration with telemetry attached.
func (a *app) newParser() (*parser.Parser, error) {
	p, err := parser.FromConfig(&a.cfg.Parser)
	if err != nil {
		return nil, cli.NewConfigError("parser.variable_policy", err.Error())
	}
	return p.
		WithLogger(a.logger.Slog()).
		WithMetrics(a.metrics).
		WithTracer(a.tracer.Tracer()), nil
}

// openStore opens the report store when recording is requested.
func (a *app) openStore(record bool) (report.Store, error) {
	if !record && !a.cfg.Reports.Enabled {
		return nil, nil
	}
	store, err := report.Open(&a.cfg.Reports)
	if err != nil {
		return nil, fmt.Errorf("open report store: %w", err)
	}
	return store, nil
}

// checkout clones the configured Git repository and returns it.
func (a *app) checkout(ctx context.Context) (*git.Repository, *git.CommitInfo, error) {
	repo, err := git.NewRepository(&a.cfg.Git, a.cfg.Parser.Extensions)
	if err != nil {
		return nil, nil, cli.NewConfigError("git", err.Error())
	}

	a.logger.InfoContext(ctx, "cloning rule repository",
		"repository", a.cfg.Git.Repository,
		"branch", a.cfg.Git.Branch,
		"auth", repo.AuthType(),
		"local_path", repo.LocalPath(),
	)
	if err := repo.Clone(ctx); err != nil {
		return nil, nil, err
	}

	commit, err := repo.GetCurrentCommit()
	if err != nil {
		return nil, nil, err
	}
	files, err := repo.ListRuleFiles()
	if err != nil {
		return nil, nil, cli.NewConfigError("git.path", err.Error())
	}
	a.logger.InfoContext(ctx, "rule repository ready",
		"commit", commit.SHA,
		"rules_dir", repo.RulesDir(),
		"rule_files", len(files),
	)
	return repo, commit, nil
}

// applyGitFlags copies --git-* flags onto the configuration.
func (a *app) applyGitFlags(url, branch, path string) {
	if url != "" {
		a.cfg.Git.Repository = url
		if a.cfg.Git.Clone.LocalPath == "" {
			a.cfg.Git.Clone.LocalPath = filepath.Join(os.TempDir(), "drlx-"+filepath.Base(url))
		}
	}
	if branch != "" {
		a.cfg.Git.Branch = branch
	}
	if path != "" {
		a.cfg.Git.Path = path
	}
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tracer.Shutdown(ctx); err != nil {
		a.logger.Warn("tracer shutdown failed", "error", err)
	}
}
