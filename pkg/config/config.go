package config

import "time"

// Config is the root configuration structure for drlx.
type Config struct {
	// Parser contains rule file parsing settings.
	Parser ParserConfig `yaml:"parser"`

	// Git contains the optional Git repository rule files are read from.
	Git GitConfig `yaml:"git"`

	// Watch contains settings for `drlx watch`.
	Watch WatchConfig `yaml:"watch"`

	// Reports contains parse history storage settings.
	Reports ReportsConfig `yaml:"reports"`

	// Telemetry contains logging, metrics and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ParserConfig contains rule file parsing settings.
type ParserConfig struct {
	// VariablePolicy controls leading '$' handling on variable names.
	// Options: "strip-bindings", "preserve", "strip-all"
	// Default: "strip-bindings"
	VariablePolicy string `yaml:"variable_policy"`

	// MaxFileSize is the largest file read, in bytes. Larger files fail
	// with a FileParsingError.
	// Default: 10485760 (10MB)
	MaxFileSize int64 `yaml:"max_file_size"`

	// Workers is the number of files parsed concurrently per directory.
	// Default: number of CPUs
	Workers int `yaml:"workers"`

	// Extensions lists the file suffixes treated as rule files.
	// Default: [".drl"]
	Extensions []string `yaml:"extensions"`

	// Recursive descends into sub-directories.
	// Default: true
	Recursive bool `yaml:"recursive"`

	// ContentSniffing skips matching files that contain no DRL keyword in
	// their first 4 KiB.
	// Default: false
	ContentSniffing bool `yaml:"content_sniffing"`
}

// GitConfig configures a Git repository as the rule source.
type GitConfig struct {
	// Repository URL (HTTPS or SSH). Empty disables Git mode.
	// Example: "https://github.com/company/rules.git"
	Repository string `yaml:"repository"`

	// Branch to track.
	// Default: "main"
	Branch string `yaml:"branch"`

	// Path within the repository holding the rule files.
	// Default: "" (repository root)
	Path string `yaml:"path"`

	// Auth configures Git authentication.
	Auth GitAuthConfig `yaml:"auth"`

	// Clone configures repository cloning.
	Clone GitCloneConfig `yaml:"clone"`

	// Timeout for clone and pull operations.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`
}

// GitAuthConfig configures Git authentication.
type GitAuthConfig struct {
	// Type: "auto", "token", "ssh", "none"
	// "auto" picks by repository URL scheme.
	// Default: "auto"
	Type string `yaml:"type"`

	// Token for HTTPS authentication.
	// Type "token" requires Token or TokenFile.
	Token string `yaml:"token"`

	// TokenFile holds the token and is re-read before every pull.
	// Takes precedence over Token.
	TokenFile string `yaml:"token_file"`

	// SSHKeyPath for SSH authentication.
	// Without it SSH repositories use the ssh-agent.
	SSHKeyPath string `yaml:"ssh_key_path"`

	// SSHKeyPassphrase for encrypted SSH keys.
	SSHKeyPassphrase string `yaml:"ssh_key_passphrase"`
}

// GitCloneConfig configures repository cloning.
type GitCloneConfig struct {
	// Depth for shallow clones (0 = full clone).
	// Default: 1
	Depth int `yaml:"depth"`

	// LocalPath where the repository is cloned.
	// Default: a temporary directory
	LocalPath string `yaml:"local_path"`

	// CleanOnStart removes the local clone before cloning.
	// Default: false
	CleanOnStart bool `yaml:"clean_on_start"`
}

// WatchConfig contains settings for continuous re-parsing.
type WatchConfig struct {
	// Debounce is how long file events are coalesced before a re-parse.
	// Default: 500ms
	Debounce time.Duration `yaml:"debounce"`

	// Schedule is a cron expression for periodic full rescans. Empty
	// disables scheduled rescans.
	// Example: "@every 5m", "0 * * * *"
	Schedule string `yaml:"schedule"`

	// MetricsAddress is where the Prometheus endpoint listens while
	// watching. Empty disables the endpoint.
	// Example: ":9090"
	MetricsAddress string `yaml:"metrics_address"`
}

// ReportsConfig contains parse history storage settings.
type ReportsConfig struct {
	// Enabled records a report for every parse run.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend selects the store.
	// Options: "sqlite", "memory"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLitePath is the database file for the sqlite backend.
	// Default: "drlx-reports.db"
	SQLitePath string `yaml:"sqlite_path"`

	// RetentionDays is how long reports are kept (0 = forever).
	// Default: 30
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is the cron expression for pruning old reports.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactSecrets masks Git tokens and URL credentials in log output.
	// Default: true
	RedactSecrets bool `yaml:"redact_secrets"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "drlx"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "parser"
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for parse durations (seconds).
	// Default: [0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP/gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "drlx"
	ServiceName string `yaml:"service_name"`

	// Insecure disables TLS for the collector connection.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// Timeout is the export timeout.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
