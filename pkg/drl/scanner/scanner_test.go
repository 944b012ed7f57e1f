package scanner

import (
	"strings"
	"testing"
)

func texts(segs []Segment) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.Text
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSplitNonEmpty(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple constraints",
			input: "age > 18, name == \"Bob\"",
			want:  []string{"age > 18", "name == \"Bob\""},
		},
		{
			name:  "comma inside string",
			input: `name == "Smith, John", age > 3`,
			want:  []string{`name == "Smith, John"`, "age > 3"},
		},
		{
			name:  "comma inside parens and brackets",
			input: "total > sum(a, b), tags contains [\"x\", \"y\"]",
			want:  []string{"total > sum(a, b)", "tags contains [\"x\", \"y\"]"},
		},
		{
			name:  "escaped quote",
			input: `msg == "say \"hi, there\"", x == 1`,
			want:  []string{`msg == "say \"hi, there\""`, "x == 1"},
		},
		{
			name:  "single quotes",
			input: "code == 'a,b', y < 2",
			want:  []string{"code == 'a,b'", "y < 2"},
		},
		{
			name:  "blank segments dropped",
			input: " a , , b ",
			want:  []string{"a", "b"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(SplitNonEmpty(tt.input, ','))
			if !equalStrings(got, tt.want) {
				t.Errorf("SplitNonEmpty(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplit_AnglesOption(t *testing.T) {
	input := "Map<String, Integer> counts, List<List<String>> rows"

	plain := Split(input, ',')
	if len(plain) != 3 {
		t.Errorf("Split without angles = %d segments, want 3", len(plain))
	}

	got := texts(SplitNonEmpty(input, ',', WithAngles()))
	want := []string{"Map<String, Integer> counts", "List<List<String>> rows"}
	if !equalStrings(got, want) {
		t.Errorf("Split with angles = %q, want %q", got, want)
	}
}

func TestSplit_Offsets(t *testing.T) {
	input := "a(1), b"
	segs := SplitNonEmpty(input, ',')
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	for _, seg := range segs {
		if input[seg.Start:seg.End] != seg.Text {
			t.Errorf("segment %q does not match offsets [%d:%d]", seg.Text, seg.Start, seg.End)
		}
	}
}

func TestSplit_Problems(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantBad     int // index of segment expected to carry a problem
		wantMessage string
	}{
		{
			name:        "unterminated string",
			input:       `a == "open, b == 2`,
			wantBad:     0,
			wantMessage: "unterminated string literal",
		},
		{
			name:        "unexpected closer",
			input:       "a == 1), b == 2",
			wantBad:     0,
			wantMessage: "unexpected ')'",
		},
		{
			name:        "unclosed opener",
			input:       "a == 1, b == foo(2",
			wantBad:     1,
			wantMessage: "unclosed '('",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := SplitNonEmpty(tt.input, ',')
			if tt.wantBad >= len(segs) {
				t.Fatalf("got %d segments, want more than %d", len(segs), tt.wantBad)
			}
			seg := segs[tt.wantBad]
			if !seg.Malformed() {
				t.Fatalf("segment %q not marked malformed", seg.Text)
			}
			if seg.Problems[0].Message != tt.wantMessage {
				t.Errorf("problem = %q, want %q", seg.Problems[0].Message, tt.wantMessage)
			}
		})
	}
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple statements",
			input: `System.out.println("ok"); $c.setAge(5);`,
			want:  []string{`System.out.println("ok")`, "$c.setAge(5)"},
		},
		{
			name:  "semicolon in string",
			input: `log.info("a; b"); x = 1;`,
			want:  []string{`log.info("a; b")`, "x = 1"},
		},
		{
			name:  "lambda block is one statement",
			input: "list.forEach(i -> { total += i; count++; });\nupdate($c);",
			want:  []string{"list.forEach(i -> { total += i; count++; })", "update($c)"},
		},
		{
			name:  "brace block ends statement",
			input: "modify($c) { setAge(5), setName(\"x\") }\nretract($o);",
			want:  []string{"modify($c) { setAge(5), setName(\"x\") }", "retract($o)"},
		},
		{
			name:  "if else stays together",
			input: "if (a) { b(); } else { c(); }\nd();",
			want:  []string{"if (a) { b(); } else { c(); }", "d()"},
		},
		{
			name:  "missing final semicolon",
			input: "a(); b()",
			want:  []string{"a()", "b()"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(SplitStatements(tt.input))
			if !equalStrings(got, tt.want) {
				t.Errorf("SplitStatements() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitStatements_MalformedIsolated(t *testing.T) {
	input := "a(\"x);\nb();"
	segs := SplitStatements(input)
	if len(segs) != 2 {
		t.Fatalf("got %d statements %q, want 2", len(segs), texts(segs))
	}
	if !segs[0].Malformed() {
		t.Errorf("first statement should be malformed")
	}
	if segs[1].Malformed() || segs[1].Text != "b()" {
		t.Errorf("second statement = %q (malformed=%v), want clean b()", segs[1].Text, segs[1].Malformed())
	}
}

func TestSplitStatements_UnclosedCallResyncs(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      []string
		malformed []bool
	}{
		{
			name:      "unclosed paren at top level",
			input:     "log(\"a\";\n  $c.setAge(1);\n  update($c);",
			want:      []string{`log("a"`, "$c.setAge(1)", "update($c)"},
			malformed: []bool{true, false, false},
		},
		{
			name:      "unclosed bracket",
			input:     "x = a[1;\ny();",
			want:      []string{"x = a[1", "y()"},
			malformed: []bool{true, false},
		},
		{
			name:      "multi-line call is not cut",
			input:     "foo(a,\n    b);\nbar();",
			want:      []string{"foo(a,\n    b)", "bar()"},
			malformed: []bool{false, false},
		},
		{
			name:      "for header on one line",
			input:     "for (int i = 0; i < n; i++) {\n  a(i);\n}\nb();",
			want:      []string{"for (int i = 0; i < n; i++) {\n  a(i);\n}", "b()"},
			malformed: []bool{false, false},
		},
		{
			name:      "unclosed call inside a block keeps the block",
			input:     "if (x) {\n  log(\"a\";\n  b();\n}\nc();",
			want:      []string{"if (x) {\n  log(\"a\";\n  b();\n}", "c()"},
			malformed: []bool{true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := SplitStatements(tt.input)
			if got := texts(segs); !equalStrings(got, tt.want) {
				t.Fatalf("SplitStatements() = %q, want %q", got, tt.want)
			}
			for i, seg := range segs {
				if seg.Malformed() != tt.malformed[i] {
					t.Errorf("statement %d %q malformed = %v, want %v", i, seg.Text, seg.Malformed(), tt.malformed[i])
				}
			}
		})
	}
}

func TestUnwindFrom(t *testing.T) {
	s := New()
	src := "a(b[c"
	for i := 0; i < len(src); i++ {
		s.Step(src[i], i)
	}
	s.UnwindFrom(3)
	if s.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", s.Depth())
	}
	if char, offset, ok := s.Innermost(); !ok || char != '(' || offset != 1 {
		t.Errorf("Innermost() = %q, %d, %v, want '(', 1, true", char, offset, ok)
	}
	if n := len(s.Problems()); n != 1 {
		t.Errorf("problems = %d, want 1", n)
	}
}

func TestMatchClose(t *testing.T) {
	tests := []struct {
		input string
		open  int
		want  int
	}{
		{"f(a, (b), \")\")", 1, 13},
		{"{ x { y } }", 0, 10},
		{"(unclosed", 0, -1},
		{"abc", 1, -1},
	}

	for _, tt := range tests {
		if got := MatchClose(tt.input, tt.open); got != tt.want {
			t.Errorf("MatchClose(%q, %d) = %d, want %d", tt.input, tt.open, got, tt.want)
		}
	}
}

func TestIndexWordTop(t *testing.T) {
	src := `x("end") ending end`
	if got := IndexWordTop(src, "end", 0); got != 16 {
		t.Errorf("IndexWordTop = %d, want 16", got)
	}
	if got := IndexWordTop(src, "then", 0); got != -1 {
		t.Errorf("IndexWordTop(then) = %d, want -1", got)
	}
}

func TestMask(t *testing.T) {
	src := "a // comment \"x\"\nb /* multi\nline */ c \"// kept\""
	got := Mask(src)

	if len(got) != len(src) {
		t.Fatalf("Mask changed length: %d != %d", len(got), len(src))
	}
	if strings.Count(got, "\n") != strings.Count(src, "\n") {
		t.Errorf("Mask changed newline count")
	}
	if strings.Contains(got, "comment") || strings.Contains(got, "multi") {
		t.Errorf("Mask kept comment text: %q", got)
	}
	if !strings.Contains(got, `"// kept"`) {
		t.Errorf("Mask removed comment marker inside string: %q", got)
	}
	if !strings.Contains(got, " c ") {
		t.Errorf("Mask removed code after block comment: %q", got)
	}
}

func TestIndex_Position(t *testing.T) {
	src := "ab\ncd\n\nef"
	ix := NewIndex(src)

	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{6, 3, 1},
		{8, 4, 2},
	}

	for _, tt := range tests {
		line, col := ix.Position(tt.offset)
		if line != tt.line || col != tt.column {
			t.Errorf("Position(%d) = %d:%d, want %d:%d", tt.offset, line, col, tt.line, tt.column)
		}
	}
	if ix.Lines() != 4 {
		t.Errorf("Lines() = %d, want 4", ix.Lines())
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		quoted bool
	}{
		{`"abc"`, "abc", true},
		{`'a'`, "a", true},
		{`"abc'`, `"abc'`, false},
		{`18`, "18", false},
		{`"`, `"`, false},
	}
	for _, tt := range tests {
		got, ok := Unquote(tt.in)
		if got != tt.want || ok != tt.quoted {
			t.Errorf("Unquote(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.quoted)
		}
	}
}
