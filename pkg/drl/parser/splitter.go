package parser

import (
	"iter"
	"regexp"
	"strings"

	"drools-graph/drlx/pkg/drl/ast"
	"drools-graph/drlx/pkg/drl/scanner"
)

// SectionKind identifies the construct a section holds.
type SectionKind int

const (
	SectionRule SectionKind = iota
	SectionQuery
	SectionFunction
	SectionDeclaredType
)

// String returns the DRL keyword of the section kind.
func (k SectionKind) String() string {
	switch k {
	case SectionRule:
		return "rule"
	case SectionQuery:
		return "query"
	case SectionFunction:
		return "function"
	case SectionDeclaredType:
		return "declare"
	default:
		return "unknown"
	}
}

// Section is one top-level construct found by the Splitter.
//
// Header holds the keyword and signature (`rule "Name"`, `query name(String a)`,
// `function void f(int x)`, `declare Type extends Base`); Body holds
// everything up to the terminator, exclusive. For functions Body is the text
// between the outermost braces.
type Section struct {
	Kind       SectionKind
	Header     string
	Body       string
	Start      int  // Offset of the keyword
	BodyStart  int  // Offset of Body[0]
	End        int  // Offset just past the terminator, or where scanning resumed
	Terminated bool // False if the terminator was never found
}

// Span returns the source range covered by the section.
func (s Section) Span() ast.Span {
	return ast.Span{Start: s.Start, End: s.End}
}

const quotedName = `"(?:[^"\\\n]|\\.)*"|'(?:[^'\\\n]|\\.)*'`

var anchorPatterns = [...]*regexp.Regexp{
	SectionRule:         regexp.MustCompile(`^rule\s+(` + quotedName + `|[\w$.\-]+)`),
	SectionQuery:        regexp.MustCompile(`^query\s+(` + quotedName + `|[\w$.\-]+)`),
	SectionFunction:     regexp.MustCompile(`^function\s+[\w$.]`),
	SectionDeclaredType: regexp.MustCompile(`^declare\s+(?:(?:trait|enum)\s+)?[\w$.]+(?:\s+extends\s+[\w$.]+)?`),
}

// Splitter discovers the top-level constructs of a DRL source text.
//
// Text that lies outside every construct (package, import and global
// declarations, dialect lines) is collected as declaration segments: the
// segment before the first construct is available immediately via Leading,
// later segments via Trailing once Sections has been consumed.
type Splitter struct {
	src       string
	firstAt   int
	firstKind SectionKind
	consumed  bool
	trailing  []scanner.Segment
}

// NewSplitter prepares src for splitting. Comments are masked first, so
// keywords inside comments are never anchors.
func NewSplitter(src string) *Splitter {
	return newMaskedSplitter(scanner.Mask(src))
}

// newMaskedSplitter splits text whose comments are already masked.
func newMaskedSplitter(masked string) *Splitter {
	s := &Splitter{src: masked}
	s.firstAt, s.firstKind = s.nextAnchor(0)
	return s
}

// Leading returns the declaration text before the first construct.
func (s *Splitter) Leading() scanner.Segment {
	end := s.firstAt
	if end < 0 {
		end = len(s.src)
	}
	return scanner.Segment{Text: s.src[:end], Start: 0, End: end}
}

// Trailing returns the declaration text found between and after constructs.
// It is complete only after Sections has been fully consumed.
func (s *Splitter) Trailing() []scanner.Segment {
	return s.trailing
}

// Sections returns a lazy sequence of the constructs in source order. The
// sequence can be ranged over once; later calls yield nothing.
//
// An unterminated construct is yielded with Terminated false and scanning
// resumes at the next construct keyword that starts a line.
func (s *Splitter) Sections() iter.Seq[Section] {
	return func(yield func(Section) bool) {
		if s.consumed {
			return
		}
		s.consumed = true

		at, kind := s.firstAt, s.firstKind
		for at >= 0 {
			sec := s.read(kind, at)
			next, nextKind := s.nextAnchor(sec.End)
			s.addGap(sec.End, next)
			if !yield(sec) {
				return
			}
			at, kind = next, nextKind
		}
	}
}

func (s *Splitter) addGap(start, end int) {
	if end < 0 {
		end = len(s.src)
	}
	if start >= end || strings.TrimSpace(s.src[start:end]) == "" {
		return
	}
	s.trailing = append(s.trailing, scanner.Segment{Text: s.src[start:end], Start: start, End: end})
}

// nextAnchor finds the next construct keyword at or after from. Keywords
// count at the top level in statement position, or anywhere at the start of
// a line so that a broken block cannot hide the constructs after it.
func (s *Splitter) nextAnchor(from int) (int, SectionKind) {
	sc := scanner.New()
	for i := from; i < len(s.src); i++ {
		c := s.src[i]
		if c == 'r' || c == 'q' || c == 'f' || c == 'd' {
			if (sc.Top() && s.statementStart(i)) || s.lineStart(i) {
				if kind, ok := s.anchorAt(i); ok {
					return i, kind
				}
			}
		}
		sc.Step(c, i)
	}
	return -1, SectionRule
}

func (s *Splitter) anchorAt(i int) (SectionKind, bool) {
	if i > 0 && scanner.IsIdentByte(s.src[i-1]) {
		return 0, false
	}
	for kind, re := range anchorPatterns {
		if re.MatchString(s.src[i:]) {
			return SectionKind(kind), true
		}
	}
	return 0, false
}

// lineStart reports whether only blanks precede offset i on its line.
func (s *Splitter) lineStart(i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch s.src[j] {
		case ' ', '\t', '\r':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

// statementStart reports whether i begins a statement: first on its line,
// after ';' or '}', or right after a closing `end`.
func (s *Splitter) statementStart(i int) bool {
	j := i - 1
	for j >= 0 && (s.src[j] == ' ' || s.src[j] == '\t' || s.src[j] == '\r') {
		j--
	}
	if j < 0 || s.src[j] == '\n' || s.src[j] == ';' || s.src[j] == '}' {
		return true
	}
	return j >= 2 && s.src[j-2:j+1] == "end" && (j < 3 || !scanner.IsIdentByte(s.src[j-3]))
}

// lineAnchor reports whether the line beginning at i starts with a construct
// keyword.
func (s *Splitter) lineAnchor(i int) bool {
	for i < len(s.src) && (s.src[i] == ' ' || s.src[i] == '\t' || s.src[i] == '\r') {
		i++
	}
	if i >= len(s.src) {
		return false
	}
	_, ok := s.anchorAt(i)
	return ok
}

func (s *Splitter) read(kind SectionKind, start int) Section {
	if kind == SectionFunction {
		return s.readFunction(start)
	}

	headerEnd := start + len(anchorPatterns[kind].FindString(s.src[start:]))
	if kind == SectionQuery {
		headerEnd = s.queryParams(headerEnd)
	}

	sec := Section{Kind: kind, Start: start, Header: s.src[start:headerEnd], BodyStart: headerEnd}

	sc := scanner.New()
	fallback := -1
	stop := len(s.src)
	for i := headerEnd; i < len(s.src); i++ {
		if i > headerEnd && s.src[i-1] == '\n' && s.lineAnchor(i) {
			stop = i
			break
		}
		if s.src[i] == 'e' && scanner.IsWordAt(s.src, i, "end") && !sc.InQuote() {
			if sc.Top() && s.isTerminator(i, headerEnd) {
				return s.terminate(sec, i)
			}
			if fallback < 0 && s.bareLine(i) {
				fallback = i
			}
		}
		sc.Step(s.src[i], i)
	}

	if fallback >= 0 {
		// Delimiters inside the block never balanced, but a line holding
		// only `end` closes it; the sub-parsers report the imbalance.
		return s.terminate(sec, fallback)
	}

	sec.Body = s.src[headerEnd:stop]
	sec.End = stop
	return sec
}

func (s *Splitter) terminate(sec Section, endAt int) Section {
	sec.Body = s.src[sec.BodyStart:endAt]
	sec.End = endAt + len("end")
	sec.Terminated = true
	if sec.Kind == SectionDeclaredType {
		rest := s.src[sec.End:]
		trimmed := strings.TrimLeft(rest, " \t")
		if scanner.HasWordPrefix(trimmed, "declare") {
			sec.End += len(rest) - len(trimmed) + len("declare")
		}
	}
	return sec
}

// queryParams extends a query header over its parameter list.
func (s *Splitter) queryParams(headerEnd int) int {
	j := headerEnd
	for j < len(s.src) && (s.src[j] == ' ' || s.src[j] == '\t') {
		j++
	}
	if j < len(s.src) && s.src[j] == '(' {
		if end := scanner.MatchClose(s.src, j); end >= 0 && !strings.Contains(s.src[j:end], "\n\n") {
			return end + 1
		}
	}
	return headerEnd
}

// isTerminator reports whether the `end` at i closes the block: it must be
// in statement position and must not be used as an identifier.
func (s *Splitter) isTerminator(i, bodyStart int) bool {
	j := i - 1
	for j >= bodyStart && (s.src[j] == ' ' || s.src[j] == '\t' || s.src[j] == '\r') {
		j--
	}
	ok := j < bodyStart
	if !ok {
		switch s.src[j] {
		case '\n', ';', '{', '}', ')':
			ok = true
		default:
			ok = precededByWord(s.src[bodyStart:j+1], "then") || precededByWord(s.src[bodyStart:j+1], "when")
		}
	}
	if !ok {
		return false
	}

	k := i + len("end")
	for k < len(s.src) && (s.src[k] == ' ' || s.src[k] == '\t') {
		k++
	}
	if k < len(s.src) && strings.IndexByte("=.([+-*/:<>!&|,?", s.src[k]) >= 0 {
		return false
	}
	return true
}

// bareLine reports whether the line holding offset i contains only `end`,
// optionally followed by `declare`.
func (s *Splitter) bareLine(i int) bool {
	if !s.lineStart(i) {
		return false
	}
	lineEnd := strings.IndexByte(s.src[i:], '\n')
	if lineEnd < 0 {
		lineEnd = len(s.src) - i
	}
	line := strings.TrimSpace(s.src[i : i+lineEnd])
	return line == "end" || line == "end declare"
}

func precededByWord(text, word string) bool {
	return strings.HasSuffix(text, word) &&
		(len(text) == len(word) || !scanner.IsIdentByte(text[len(text)-len(word)-1]))
}

// readFunction reads `function Type name(params) { body }`. The body ends at
// the brace that balances the first top-level '{'.
func (s *Splitter) readFunction(start int) Section {
	sec := Section{Kind: SectionFunction, Start: start}

	sc := scanner.New()
	open := -1
	for i := start; i < len(s.src); i++ {
		if i > start && s.src[i-1] == '\n' && s.lineAnchor(i) {
			return s.unterminatedFunction(sec, i, i)
		}
		if sc.Top() && s.src[i] == '{' {
			open = i
			break
		}
		sc.Step(s.src[i], i)
	}
	if open < 0 {
		return s.unterminatedFunction(sec, len(s.src), len(s.src))
	}

	sec.Header = s.src[start:open]
	sec.BodyStart = open + 1

	sc = scanner.New()
	for i := open; i < len(s.src); i++ {
		if i > open && s.src[i-1] == '\n' && s.lineAnchor(i) {
			sec.Body = s.src[open+1 : i]
			sec.End = i
			return sec
		}
		sc.Step(s.src[i], i)
		if sc.Top() {
			sec.Body = s.src[open+1 : i]
			sec.End = i + 1
			sec.Terminated = true
			return sec
		}
	}

	sec.Body = s.src[open+1:]
	sec.End = len(s.src)
	return sec
}

func (s *Splitter) unterminatedFunction(sec Section, headerEnd, stop int) Section {
	sec.Header = s.src[sec.Start:headerEnd]
	sec.BodyStart = headerEnd
	sec.End = stop
	return sec
}
