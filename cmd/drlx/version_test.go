package main

import (
	"bytes"
	"runtime"
	"strings"
	"testing"
)

func TestVersionCommandOutput(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = origVersion, origCommit })
	Version = "1.2.3-test"
	GitCommit = "abc123"

	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)

	got := buf.String()
	for _, want := range []string{"drlx 1.2.3-test", "Git Commit: abc123", runtime.Version()} {
		if !strings.Contains(got, want) {
			t.Errorf("version output missing %q:\n%s", want, got)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"parse": false, "lint": false, "watch": false,
		"history": false, "version": false, "completion": false,
	}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestCompletionUnsupportedShell(t *testing.T) {
	var buf bytes.Buffer
	completionCmd.SetOut(&buf)
	if err := completionCmd.RunE(completionCmd, []string{"tcsh"}); err == nil {
		t.Error("completion for tcsh should fail")
	}
	if err := completionCmd.RunE(completionCmd, []string{"bash"}); err != nil {
		t.Errorf("completion bash error = %v", err)
	}
	if buf.Len() == 0 {
		t.Error("bash completion script is empty")
	}
}
