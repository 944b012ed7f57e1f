package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type drlText struct{}

func (drlText) String() string { return "rule \"r\"\nwhen\nthen\nend" }

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOutputFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name string
		data any
		want string
	}{
		{"plain string", "test message", "test message\n"},
		{"stringer", drlText{}, "rule \"r\"\nwhen\nthen\nend\n"},
		{"trailing newline kept once", "done\n", "done\n"},
		{"number", 42, "42\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			if err := (&TextFormatter{}).FormatTo(buf, tt.data); err != nil {
				t.Fatalf("FormatTo() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("FormatTo() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	data := map[string]any{"name": "a < b", "rules": 2}

	buf := &bytes.Buffer{}
	if err := NewFormatter(FormatJSON).FormatTo(buf, data); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	if !strings.Contains(buf.String(), "\n  \"") {
		t.Errorf("output is not indented: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "a < b") {
		t.Errorf("HTML characters were escaped: %q", buf.String())
	}

	var back map[string]any
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if back["rules"] != float64(2) {
		t.Errorf("rules = %v, want 2", back["rules"])
	}
}

func TestYAMLFormatter(t *testing.T) {
	type entry struct {
		Name  string `json:"name" yaml:"name"`
		Rules int    `json:"rules" yaml:"rules"`
	}

	buf := &bytes.Buffer{}
	if err := NewFormatter(FormatYAML).FormatTo(buf, []entry{{"a.drl", 3}}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var back []entry
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(back) != 1 || back[0].Name != "a.drl" || back[0].Rules != 3 {
		t.Errorf("round trip = %+v", back)
	}
	if strings.Contains(buf.String(), "{") || strings.Contains(buf.String(), `"a.drl"`) {
		t.Errorf("output kept JSON styling:\n%s", buf.String())
	}
}

func TestYAMLFormatter_QuotesWhenNeeded(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := NewFormatter(FormatYAML).FormatTo(buf, map[string]string{"value": "true", "op": ": x"}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var back map[string]string
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if back["value"] != "true" || back["op"] != ": x" {
		t.Errorf("round trip = %v", back)
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatText).(*TextFormatter); !ok {
		t.Error("text format should use TextFormatter")
	}
	if _, ok := NewFormatter("unknown").(*TextFormatter); !ok {
		t.Error("unknown format should fall back to TextFormatter")
	}
}
