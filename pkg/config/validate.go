package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "parser.workers").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// VariablePolicies lists the accepted parser.variable_policy values.
var VariablePolicies = []string{"strip-bindings", "preserve", "strip-all"}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateParser(&cfg.Parser)...)
	errs = append(errs, validateGit(&cfg.Git)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)
	errs = append(errs, validateReports(&cfg.Reports)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateParser(cfg *ParserConfig) []FieldError {
	var errs []FieldError

	if !slices.Contains(VariablePolicies, cfg.VariablePolicy) {
		errs = append(errs, FieldError{
			Field:   "parser.variable_policy",
			Message: fmt.Sprintf("must be one of %s", strings.Join(VariablePolicies, ", ")),
		})
	}
	if cfg.MaxFileSize < 0 {
		errs = append(errs, FieldError{
			Field:   "parser.max_file_size",
			Message: "max file size must be positive",
		})
	}
	if cfg.Workers < 0 {
		errs = append(errs, FieldError{
			Field:   "parser.workers",
			Message: "workers must be non-negative",
		})
	}
	for i, ext := range cfg.Extensions {
		if strings.TrimSpace(ext) == "" || strings.ContainsAny(ext, `/\`) {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("parser.extensions[%d]", i),
				Message: fmt.Sprintf("invalid file extension %q", ext),
			})
		}
	}

	return errs
}

func validateGit(cfg *GitConfig) []FieldError {
	var errs []FieldError

	// Git mode is off without a repository.
	if cfg.Repository == "" {
		return nil
	}

	if !strings.HasPrefix(cfg.Repository, "git@") {
		if u, err := url.Parse(cfg.Repository); err != nil || u.Scheme == "" {
			errs = append(errs, FieldError{
				Field:   "git.repository",
				Message: "repository must be an HTTPS, SSH or file URL",
			})
		}
	}

	switch cfg.Auth.Type {
	case "auto", "none":
	case "token":
		if cfg.Auth.Token == "" && cfg.Auth.TokenFile == "" {
			errs = append(errs, FieldError{
				Field:   "git.auth.token",
				Message: "token or token_file is required when auth type is \"token\"",
			})
		}
	case "ssh":
		if strings.HasPrefix(cfg.Repository, "http") {
			errs = append(errs, FieldError{
				Field:   "git.auth.type",
				Message: "ssh auth cannot be used with an HTTP repository",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "git.auth.type",
			Message: fmt.Sprintf("invalid auth type %q (must be auto, token, ssh or none)", cfg.Auth.Type),
		})
	}

	if cfg.Clone.Depth < 0 {
		errs = append(errs, FieldError{
			Field:   "git.clone.depth",
			Message: "clone depth must be non-negative",
		})
	}
	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "git.timeout",
			Message: "timeout must be positive",
		})
	}

	return errs
}

func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError

	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{
			Field:   "watch.debounce",
			Message: "debounce must be positive",
		})
	}

	return errs
}

func validateReports(cfg *ReportsConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "sqlite":
		if cfg.Enabled && cfg.SQLitePath == "" {
			errs = append(errs, FieldError{
				Field:   "reports.sqlite_path",
				Message: "sqlite path is required for the sqlite backend",
			})
		}
	case "memory":
	default:
		errs = append(errs, FieldError{
			Field:   "reports.backend",
			Message: fmt.Sprintf("invalid backend %q (must be sqlite or memory)", cfg.Backend),
		})
	}
	if cfg.RetentionDays < 0 {
		errs = append(errs, FieldError{
			Field:   "reports.retention_days",
			Message: "retention days must be non-negative",
		})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, strings.ToLower(cfg.Logging.Level)) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be debug, info, warn or error)", cfg.Logging.Level),
		})
	}

	validFormats := []string{"json", "text", "console"}
	if !slices.Contains(validFormats, strings.ToLower(cfg.Logging.Format)) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be json, text or console)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	if cfg.Tracing.Enabled {
		if cfg.Tracing.Endpoint == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.endpoint",
				Message: "endpoint is required when tracing is enabled",
			})
		}
		switch cfg.Tracing.Sampler {
		case "always", "never", "ratio":
		default:
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sampler",
				Message: fmt.Sprintf("invalid sampler %q (must be always, never or ratio)", cfg.Tracing.Sampler),
			})
		}
		if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sample_ratio",
				Message: "sample ratio must be between 0.0 and 1.0",
			})
		}
	}

	return errs
}
