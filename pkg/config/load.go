package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// Keys missing from the file keep their defaults. The result is validated.
// Environment variables are not consulted; use LoadConfigWithEnvOverrides
// for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML configuration on top of DefaultConfig.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(cfg)
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention DRLX_SECTION_FIELD (e.g., DRLX_PARSER_WORKERS). An empty path
// starts from the defaults.
//
// The loading sequence is:
// 1. Load YAML from file (or defaults)
// 2. Apply environment variable overrides
// 3. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Parser overrides
	if val := os.Getenv("DRLX_PARSER_VARIABLE_POLICY"); val != "" {
		cfg.Parser.VariablePolicy = val
	}
	if val := os.Getenv("DRLX_PARSER_MAX_FILE_SIZE"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Parser.MaxFileSize = i
		}
	}
	if val := os.Getenv("DRLX_PARSER_WORKERS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Parser.Workers = i
		}
	}
	if val := os.Getenv("DRLX_PARSER_EXTENSIONS"); val != "" {
		cfg.Parser.Extensions = strings.Split(val, ",")
	}
	if val := os.Getenv("DRLX_PARSER_RECURSIVE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Parser.Recursive = b
		}
	}
	if val := os.Getenv("DRLX_PARSER_CONTENT_SNIFFING"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Parser.ContentSniffing = b
		}
	}

	// Git overrides
	if val := os.Getenv("DRLX_GIT_REPOSITORY"); val != "" {
		cfg.Git.Repository = val
	}
	if val := os.Getenv("DRLX_GIT_BRANCH"); val != "" {
		cfg.Git.Branch = val
	}
	if val := os.Getenv("DRLX_GIT_PATH"); val != "" {
		cfg.Git.Path = val
	}
	if val := os.Getenv("DRLX_GIT_TOKEN"); val != "" {
		cfg.Git.Auth.Token = val
	}
	if val := os.Getenv("DRLX_GIT_TOKEN_FILE"); val != "" {
		cfg.Git.Auth.TokenFile = val
	}
	if val := os.Getenv("DRLX_GIT_SSH_KEY_PATH"); val != "" {
		cfg.Git.Auth.SSHKeyPath = val
	}
	if val := os.Getenv("DRLX_GIT_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Git.Timeout = d
		}
	}

	// Watch overrides
	if val := os.Getenv("DRLX_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}
	if val := os.Getenv("DRLX_WATCH_SCHEDULE"); val != "" {
		cfg.Watch.Schedule = val
	}
	if val := os.Getenv("DRLX_WATCH_METRICS_ADDRESS"); val != "" {
		cfg.Watch.MetricsAddress = val
	}

	// Reports overrides
	if val := os.Getenv("DRLX_REPORTS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Reports.Enabled = b
		}
	}
	if val := os.Getenv("DRLX_REPORTS_BACKEND"); val != "" {
		cfg.Reports.Backend = val
	}
	if val := os.Getenv("DRLX_REPORTS_PATH"); val != "" {
		cfg.Reports.SQLitePath = val
	}
	if val := os.Getenv("DRLX_REPORTS_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Reports.RetentionDays = i
		}
	}

	// Telemetry overrides
	if val := os.Getenv("DRLX_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("DRLX_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("DRLX_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("DRLX_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("DRLX_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("DRLX_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}
