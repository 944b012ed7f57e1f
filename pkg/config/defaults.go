package config

import (
	"runtime"
	"time"
)

// Default values for configuration fields.
const (
	// Parser defaults
	DefaultVariablePolicy = "strip-bindings"
	DefaultMaxFileSize    = int64(10 * 1024 * 1024) // 10MB
	DefaultExtension      = ".drl"
	DefaultRecursive      = true

	// Git defaults
	DefaultGitBranch     = "main"
	DefaultGitAuthType   = "auto"
	DefaultGitCloneDepth = 1
	DefaultGitTimeout    = 60 * time.Second

	// Watch defaults
	DefaultWatchDebounce = 500 * time.Millisecond

	// Reports defaults
	DefaultReportsBackend       = "sqlite"
	DefaultReportsSQLitePath    = "drlx-reports.db"
	DefaultReportsRetentionDays = 30
	DefaultReportsPruneSchedule = "0 3 * * *"

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "text"
	DefaultRedactSecrets      = true
	DefaultMetricsEnabled     = true
	DefaultPrometheusPath     = "/metrics"
	DefaultMetricsNamespace   = "drlx"
	DefaultMetricsSubsystem   = "parser"
	DefaultTracingSampler     = "always"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingService     = "drlx"
	DefaultTracingInsecure    = true
	DefaultTracingTimeout     = 10 * time.Second
)

// DefaultDurationBuckets are the parse duration histogram buckets (seconds).
var DefaultDurationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// DefaultConfig returns a configuration with every field at its default,
// including the boolean fields whose default is true.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Parser.Recursive = DefaultRecursive
	cfg.Telemetry.Logging.RedactSecrets = DefaultRedactSecrets
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Telemetry.Tracing.Insecure = DefaultTracingInsecure
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Parser defaults
	if cfg.Parser.VariablePolicy == "" {
		cfg.Parser.VariablePolicy = DefaultVariablePolicy
	}
	if cfg.Parser.MaxFileSize == 0 {
		cfg.Parser.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Parser.Workers == 0 {
		cfg.Parser.Workers = runtime.GOMAXPROCS(0)
	}
	if len(cfg.Parser.Extensions) == 0 {
		cfg.Parser.Extensions = []string{DefaultExtension}
	}

	// Git defaults
	if cfg.Git.Branch == "" {
		cfg.Git.Branch = DefaultGitBranch
	}
	if cfg.Git.Auth.Type == "" {
		cfg.Git.Auth.Type = DefaultGitAuthType
	}
	if cfg.Git.Clone.Depth == 0 {
		cfg.Git.Clone.Depth = DefaultGitCloneDepth
	}
	if cfg.Git.Timeout == 0 {
		cfg.Git.Timeout = DefaultGitTimeout
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}

	// Reports defaults
	if cfg.Reports.Backend == "" {
		cfg.Reports.Backend = DefaultReportsBackend
	}
	if cfg.Reports.SQLitePath == "" {
		cfg.Reports.SQLitePath = DefaultReportsSQLitePath
	}
	if cfg.Reports.RetentionDays == 0 {
		cfg.Reports.RetentionDays = DefaultReportsRetentionDays
	}
	if cfg.Reports.PruneSchedule == "" {
		cfg.Reports.PruneSchedule = DefaultReportsPruneSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultPrometheusPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingService
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
}
