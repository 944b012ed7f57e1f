package parser

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"drools-graph/drlx/pkg/drl/scanner"
)

const commentedSource = `package demo;

// rule "Commented out" when then end
/* query hidden
end */
rule "Kept"
when
    Person( )
then
end

global java.util.List results;

query "adults"
    Person( age >= 18 )
end
`

func TestSplitterSkipsComments(t *testing.T) {
	s := NewSplitter(commentedSource)

	var got []string
	for sec := range s.Sections() {
		got = append(got, sec.Kind.String()+" "+strings.TrimSpace(sec.Header))
	}
	want := []string{`rule rule "Kept"`, `query query "adults"`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}

	if lead := s.Leading().Text; !strings.Contains(lead, "package demo;") || strings.Contains(lead, "Commented out") {
		t.Errorf("Leading() = %q", lead)
	}
	trailing := s.Trailing()
	if len(trailing) != 1 || !strings.Contains(trailing[0].Text, "global java.util.List results;") {
		t.Errorf("Trailing() = %v", trailing)
	}
}

func TestSplitterMaskedInput(t *testing.T) {
	collect := func(s *Splitter) []Section {
		return slices.Collect(s.Sections())
	}

	want := collect(NewSplitter(commentedSource))
	got := collect(newMaskedSplitter(scanner.Mask(commentedSource)))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pre-masked input split differently (-want +got):\n%s", diff)
	}
}

func TestSplitterSectionsOnce(t *testing.T) {
	s := NewSplitter(commentedSource)
	if n := len(slices.Collect(s.Sections())); n != 2 {
		t.Fatalf("first pass = %d sections, want 2", n)
	}
	if n := len(slices.Collect(s.Sections())); n != 0 {
		t.Errorf("second pass = %d sections, want 0", n)
	}
}
