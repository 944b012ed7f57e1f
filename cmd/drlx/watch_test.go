package main

import (
	"context"
	"path/filepath"
	"testing"

	"drools-graph/drlx/pkg/drl/parser"
	"drools-graph/drlx/pkg/watch"
)

func TestReadinessChecker(t *testing.T) {
	runner := watch.NewRunner(parser.NewParser(), "testdata")
	checker := readinessChecker(runner, nil)

	if names := checker.Names(); len(names) != 1 || names[0] != "parse" {
		t.Fatalf("Names() = %v, want [parse]", names)
	}

	report := checker.Readiness(context.Background())
	if report.Ready() {
		t.Fatal("ready before the first parse")
	}
	if msg := report.Checks["parse"].Message; msg != "no parse completed yet" {
		t.Errorf("message = %q", msg)
	}

	runner.Reparse(context.Background(), "test")
	if report := checker.Readiness(context.Background()); !report.Ready() {
		t.Errorf("not ready after parse: %+v", report.Checks)
	}
}

func TestReadinessCheckerMissingDir(t *testing.T) {
	runner := watch.NewRunner(parser.NewParser(), filepath.Join(t.TempDir(), "missing"))
	runner.Reparse(context.Background(), "test")

	report := readinessChecker(runner, nil).Readiness(context.Background())
	if report.Ready() {
		t.Error("ready although the rule directory is missing")
	}
}
