package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drlx.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
parser:
  variable_policy: "preserve"
  workers: 3
  extensions: [".drl", ".rules"]
  recursive: false

git:
  repository: "https://example.com/rules.git"
  branch: "release"
  auth:
    type: "token"
    token: "secret"

watch:
  debounce: "2s"
  schedule: "@every 10m"

telemetry:
  logging:
    level: "debug"
    format: "json"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Parser.VariablePolicy != "preserve" {
		t.Errorf("expected variable policy %q, got %q", "preserve", cfg.Parser.VariablePolicy)
	}
	if cfg.Parser.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Parser.Workers)
	}
	if len(cfg.Parser.Extensions) != 2 || cfg.Parser.Extensions[1] != ".rules" {
		t.Errorf("unexpected extensions %v", cfg.Parser.Extensions)
	}
	if cfg.Parser.Recursive {
		t.Error("expected recursive to be false")
	}
	if cfg.Git.Branch != "release" {
		t.Errorf("expected branch %q, got %q", "release", cfg.Git.Branch)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("expected debounce %v, got %v", 2*time.Second, cfg.Watch.Debounce)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected logging level %q, got %q", "debug", cfg.Telemetry.Logging.Level)
	}

	// Untouched sections keep their defaults.
	if cfg.Parser.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("expected max file size %d, got %d", DefaultMaxFileSize, cfg.Parser.MaxFileSize)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics to stay enabled by default")
	}
	if cfg.Reports.PruneSchedule != DefaultReportsPruneSchedule {
		t.Errorf("expected prune schedule %q, got %q", DefaultReportsPruneSchedule, cfg.Reports.PruneSchedule)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/drlx.yaml")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got: %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "parser: [unclosed")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("expected parse error, got: %v", err)
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
parser:
  variable_policy: "sometimes"
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if len(verr.Errors) != 1 || verr.Errors[0].Field != "parser.variable_policy" {
		t.Errorf("unexpected field errors: %v", verr.Errors)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
parser:
  workers: 2
`)

	t.Setenv("DRLX_PARSER_WORKERS", "8")
	t.Setenv("DRLX_PARSER_EXTENSIONS", ".drl,.rdrl")
	t.Setenv("DRLX_LOG_LEVEL", "warn")
	t.Setenv("DRLX_GIT_REPOSITORY", "https://example.com/rules.git")
	t.Setenv("DRLX_GIT_TOKEN", "abc")
	t.Setenv("DRLX_GIT_TOKEN_FILE", "/run/secrets/git-token")
	t.Setenv("DRLX_WATCH_DEBOUNCE", "not-a-duration")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Parser.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Parser.Workers)
	}
	if len(cfg.Parser.Extensions) != 2 || cfg.Parser.Extensions[1] != ".rdrl" {
		t.Errorf("unexpected extensions %v", cfg.Parser.Extensions)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("expected logging level %q, got %q", "warn", cfg.Telemetry.Logging.Level)
	}
	// The token is picked up by auto auth; the type is left alone.
	if cfg.Git.Auth.Type != DefaultGitAuthType || cfg.Git.Auth.Token != "abc" {
		t.Errorf("expected auto auth with token, got type %q token %q", cfg.Git.Auth.Type, cfg.Git.Auth.Token)
	}
	if cfg.Git.Auth.TokenFile != "/run/secrets/git-token" {
		t.Errorf("expected token file, got %q", cfg.Git.Auth.TokenFile)
	}
	// Unparseable values are ignored.
	if cfg.Watch.Debounce != DefaultWatchDebounce {
		t.Errorf("expected debounce %v, got %v", DefaultWatchDebounce, cfg.Watch.Debounce)
	}
}

func TestLoadConfigWithEnvOverrides_NoFile(t *testing.T) {
	t.Setenv("DRLX_PARSER_VARIABLE_POLICY", "strip-all")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Parser.VariablePolicy != "strip-all" {
		t.Errorf("expected variable policy %q, got %q", "strip-all", cfg.Parser.VariablePolicy)
	}
}
