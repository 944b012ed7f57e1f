package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

// newTestCommand returns a command with captured output and isolated
// configuration. Reports go to a sqlite file in a temp dir.
func newTestCommand(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	cfgFile = ""
	logLevel = "error"
	logFormat = ""
	t.Setenv("DRLX_REPORTS_BACKEND", "sqlite")
	t.Setenv("DRLX_REPORTS_PATH", filepath.Join(t.TempDir(), "reports.db"))

	var out, errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	return cmd, &out
}

func resetParseFlags() {
	parseFlags.format = "text"
	parseFlags.recursive = true
	parseFlags.workers = 0
	parseFlags.variablePolicy = ""
	parseFlags.gitURL = ""
	parseFlags.gitBranch = ""
	parseFlags.gitPath = ""
	parseFlags.record = false
	parseFlags.progress = false
}

func resetLintFlags() {
	lintFlags.strict = false
	lintFlags.format = "text"
}
