package errors

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"testing"

	"drools-graph/drlx/pkg/drl/ast"
)

func TestKindNames(t *testing.T) {
	for _, k := range Kinds() {
		name := k.String()
		if name == "" || name == "UnknownError" {
			t.Errorf("kind %d has no name", k)
		}
		back, ok := ParseKind(name)
		if !ok || back != k {
			t.Errorf("ParseKind(%q) = %v, %v", name, back, ok)
		}
	}
	if Kind(-1).String() != "UnknownError" || kindCount.String() != "UnknownError" {
		t.Error("out of range kinds should be UnknownError")
	}
	if _, ok := ParseKind("NoSuchError"); ok {
		t.Error("ParseKind() accepted an unknown name")
	}
}

func TestKindCategory(t *testing.T) {
	tests := []struct {
		kind Kind
		want Category
	}{
		{FileParsingError, CategoryFile},
		{MalformedRuleError, CategoryRule},
		{ConditionParsingError, CategoryCondition},
		{MalformedActionError, CategoryAction},
		{QueryParsingError, CategoryQuery},
		{MalformedFunctionError, CategoryFunction},
		{MalformedDeclaredTypeError, CategoryDeclaredType},
		{DeclarationParsingError, CategoryDeclaration},
	}
	for _, tt := range tests {
		if got := tt.kind.Category(); got != tt.want {
			t.Errorf("%s.Category() = %s, want %s", tt.kind, got, tt.want)
		}
	}
}

func TestDisposition(t *testing.T) {
	if !ConstructKept.Recoverable() || !ConstructSkipped.Recoverable() || FileAborted.Recoverable() {
		t.Error("Recoverable() mismatch")
	}
	if FileAborted.String() != "fatal" || ConstructSkipped.String() != "construct-abort" {
		t.Error("Disposition.String() mismatch")
	}
}

func TestErrorFormatting(t *testing.T) {
	src := "rule \"A\"\nthen\nend\n"
	err := &Error{
		Kind:       MalformedRuleError,
		Message:    "rule has no 'when' section",
		Location:   ast.Location{File: "a.drl", Line: 1, Column: 1},
		Construct:  "A",
		Suggestion: "add a when block",
	}
	WithContext(err, src, 1)

	got := err.Error()
	for _, want := range []string{
		"[MalformedRuleError] rule has no 'when' section",
		`(in "A")`,
		"--> a.drl:1:1",
		`>> 1 | rule "A"`,
		"   2 | then",
		"= suggestion: add a when block",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() missing %q:\n%s", want, got)
		}
	}
}

func TestFileErrorUnwrap(t *testing.T) {
	err := NewFileError("x.drl", "cannot read file", fs.ErrNotExist)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is(err, fs.ErrNotExist) = false")
	}
	if !errors.Is(err, &Error{Kind: FileParsingError}) {
		t.Error("errors.Is() should match on kind")
	}
	if errors.Is(err, &Error{Kind: FileParsingError, Message: "other"}) {
		t.Error("errors.Is() should compare non-empty messages")
	}
}

func TestErrorList(t *testing.T) {
	el := NewErrorList()
	if el.HasErrors() || el.Error() != "" {
		t.Fatal("empty list should not be an error")
	}

	el.Add(&Error{Kind: ActionParsingError, Message: "bad statement"})
	el.Add(&Error{Kind: MalformedRuleError, Message: "no name"})

	if el.Count() != 2 || !el.HasErrors() {
		t.Error("list bookkeeping mismatch")
	}
	if !strings.HasPrefix(el.Error(), "Found 2 error(s)") {
		t.Errorf("Error() = %q", el.Error())
	}
	var target *Error
	if !errors.As(el, &target) || target.Kind != ActionParsingError {
		t.Error("errors.As() should reach the first error")
	}
}

func TestRecorder(t *testing.T) {
	a := NewRecorder()
	a.Record(&Error{Kind: MalformedQueryError, Disposition: ConstructSkipped, Message: "q"})
	a.Record(nil)

	b := NewRecorder()
	b.Record(&Error{Kind: MalformedQueryError, Message: "q2"})
	b.Record(&Error{Kind: FileParsingError, Disposition: FileAborted, Message: "io", Location: ast.Location{File: "f.drl"}})

	a.Merge(b)
	a.Merge(nil)

	if a.Total() != 3 || a.Count(MalformedQueryError) != 2 || a.Count(Kind(99)) != 0 {
		t.Errorf("counts = %v", a.Counts())
	}
	counts := a.Counts()
	if len(counts) != len(Kinds()) || counts["FileParsingError"] != 1 || counts["RuleParsingError"] != 0 {
		t.Errorf("Counts() = %v", counts)
	}

	s := a.Summary()
	if s.Total != 3 || len(s.Details) != 3 {
		t.Fatalf("summary = %+v", s)
	}
	last := s.Details[2]
	if last.Kind != "FileParsingError" || last.Recoverable || last.Disposition != "fatal" || last.File != "f.drl" {
		t.Errorf("detail = %+v", last)
	}
	if errs := a.Errors(); len(errs) != 3 || errs[0].Message != "q" {
		t.Errorf("Errors() = %v", errs)
	}

	a.Reset()
	if a.Total() != 0 || a.Count(MalformedQueryError) != 0 {
		t.Error("Reset() left errors behind")
	}
}

func TestRecorderLogSummary(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := NewRecorder()
	r.LogSummary(logger, 2)
	if !strings.Contains(buf.String(), "parse completed without errors") {
		t.Errorf("log = %q", buf.String())
	}

	buf.Reset()
	for i := range 4 {
		r.Record(&Error{Kind: ActionParsingError, Message: "bad action", Location: ast.Location{Line: i + 1}})
	}
	r.LogSummary(logger, 2)
	out := buf.String()
	if !strings.Contains(out, "ActionParsingError=4") {
		t.Errorf("counter missing from log:\n%s", out)
	}
	if strings.Count(out, `msg="bad action"`) != 2 {
		t.Errorf("want 2 detailed errors:\n%s", out)
	}
	if !strings.Contains(out, "additional errors omitted") {
		t.Errorf("truncation notice missing:\n%s", out)
	}
}

func TestExtractContext(t *testing.T) {
	src := "one\ntwo\nthree\nfour"
	got := ExtractContext(src, 3, 1)
	want := "   2 | two\n>> 3 | three\n   4 | four\n"
	if got != want {
		t.Errorf("ExtractContext() = %q, want %q", got, want)
	}
	if ExtractContext(src, 0, 1) != "" || ExtractContext(src, 10, 1) != "" {
		t.Error("out of range lines should give no context")
	}
}
