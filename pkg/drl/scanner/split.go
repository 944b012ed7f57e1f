package scanner

import (
	"strings"
)

// Segment is a piece of text produced by a splitter.
type Segment struct {
	Text     string    // src[Start:End]
	Start    int       // Offset of the first byte in the scanned text
	End      int       // Offset one past the last byte
	Problems []Problem // Delimiter problems detected inside the segment
}

// Trimmed returns the segment with surrounding whitespace removed and the
// offsets adjusted accordingly.
func (seg Segment) Trimmed() Segment {
	left := len(seg.Text) - len(strings.TrimLeft(seg.Text, " \t\r\n"))
	text := strings.TrimSpace(seg.Text)
	return Segment{
		Text:     text,
		Start:    seg.Start + left,
		End:      seg.Start + left + len(text),
		Problems: seg.Problems,
	}
}

// Malformed returns true if a delimiter problem was found in the segment.
func (seg Segment) Malformed() bool {
	return len(seg.Problems) > 0
}

// Split splits src on sep wherever sep occurs at the top level. Empty
// segments are kept so callers can report them; use Trimmed on each.
func Split(src string, sep byte, opts ...Option) []Segment {
	s := New(opts...)
	var segments []Segment
	start := 0
	seen := 0

	for i := 0; i < len(src); i++ {
		c := src[i]
		if c == sep && s.Top() {
			segments = append(segments, segmentOf(src, start, i, s.problems[seen:]))
			seen = len(s.problems)
			start = i + 1
			continue
		}
		s.Step(c, i)
	}

	s.Finish()
	segments = append(segments, segmentOf(src, start, len(src), s.problems[seen:]))
	return segments
}

// SplitString is Split with a multi-byte separator such as "&&".
func SplitString(src, sep string, opts ...Option) []Segment {
	s := New(opts...)
	var segments []Segment
	start := 0
	seen := 0

	for i := 0; i < len(src); i++ {
		if s.Top() && strings.HasPrefix(src[i:], sep) {
			segments = append(segments, segmentOf(src, start, i, s.problems[seen:]))
			seen = len(s.problems)
			i += len(sep) - 1
			start = i + 1
			continue
		}
		s.Step(src[i], i)
	}

	s.Finish()
	segments = append(segments, segmentOf(src, start, len(src), s.problems[seen:]))
	return segments
}

// SplitNonEmpty is Split followed by trimming and dropping blank segments.
func SplitNonEmpty(src string, sep byte, opts ...Option) []Segment {
	var out []Segment
	for _, seg := range Split(src, sep, opts...) {
		seg = seg.Trimmed()
		if seg.Text == "" && !seg.Malformed() {
			continue
		}
		out = append(out, seg)
	}
	return out
}

func segmentOf(src string, start, end int, problems []Problem) Segment {
	seg := Segment{Text: src[start:end], Start: start, End: end}
	if len(problems) > 0 {
		seg.Problems = append([]Problem(nil), problems...)
	}
	return seg
}

// blockContinuations are words that may follow a closing brace without
// ending the statement.
var blockContinuations = []string{"else", "catch", "finally", "while"}

// SplitStatements splits a Java/MVEL statement block on top-level ';'.
// A brace block that closes back to the top level also ends a statement
// unless it is followed by ';', ')', ',', '.', or a continuation keyword
// (else, catch, finally, while), so `if (x) { a(); } b();` yields two
// statements. Returned segments are trimmed and non-empty.
//
// A line that ends in ';' while a '(' or '[' opened on that same line is
// still open ends the statement there: `log("a";` is reported as malformed
// and splitting resumes on the next line.
func SplitStatements(src string) []Segment {
	s := New()
	var segments []Segment
	start := 0
	seen := 0
	lineStart := 0

	emit := func(end int) {
		seg := segmentOf(src, start, end, s.problems[seen:]).Trimmed()
		seen = len(s.problems)
		if seg.Text != "" || seg.Malformed() {
			segments = append(segments, seg)
		}
	}

	for i := 0; i < len(src); i++ {
		c := src[i]
		if c == ';' && s.Top() {
			emit(i)
			start = i + 1
			continue
		}
		wasInBlock := c == '}' && s.Depth() == 1 && !s.InQuote()
		before := len(s.problems)
		s.Step(c, i)
		if c == '\n' {
			line := lineStart
			lineStart = i + 1
			if len(s.problems) > before {
				// An unterminated literal ran to the end of the line; the
				// statement cannot be recovered past it.
				s.Unwind()
				emit(i)
				start = i + 1
				continue
			}
			if semi, ok := unclosedStatement(s, src, line, i); ok {
				s.UnwindFrom(line)
				if s.Top() {
					emit(semi)
					start = i + 1
				}
				continue
			}
		}
		if wasInBlock && s.Top() && endsStatement(src[i+1:]) {
			emit(i + 1)
			start = i + 1
		}
	}

	s.Finish()
	emit(len(src))
	return segments
}

// unclosedStatement reports whether the line src[line:nl] ends in ';' while
// the innermost open delimiter is a '(' or '[' opened on that line. It
// returns the offset of the ';'.
func unclosedStatement(s *Scanner, src string, line, nl int) (int, bool) {
	char, offset, ok := s.Innermost()
	if !ok || offset < line || (char != '(' && char != '[') {
		return 0, false
	}
	text := strings.TrimRight(src[line:nl], " \t\r")
	if !strings.HasSuffix(text, ";") {
		return 0, false
	}
	return line + len(text) - 1, true
}

func endsStatement(rest string) bool {
	rest = strings.TrimLeft(rest, " \t\r\n")
	if rest == "" {
		return true
	}
	switch rest[0] {
	case ';', ')', ',', '.':
		return false
	}
	for _, kw := range blockContinuations {
		if HasWordPrefix(rest, kw) {
			return false
		}
	}
	return true
}

// MatchClose returns the offset of the delimiter closing the opener at
// src[open]. It returns -1 if the opener is never closed.
func MatchClose(src string, open int, opts ...Option) int {
	if open < 0 || open >= len(src) || closerFor(src[open]) == 0 {
		return -1
	}
	s := New(opts...)
	for i := open; i < len(src); i++ {
		s.Step(src[i], i)
		if s.Top() {
			return i
		}
	}
	return -1
}

// IndexTop returns the offset of the first byte at or after from that sits
// at the top level and satisfies match, or -1. match receives the offset so
// it can inspect surrounding text.
func IndexTop(src string, from int, match func(i int) bool, opts ...Option) int {
	s := New(opts...)
	for i := 0; i < len(src); i++ {
		if i >= from && s.Top() && match(i) {
			return i
		}
		s.Step(src[i], i)
	}
	return -1
}

// IndexByteTop returns the offset of the first top-level occurrence of c.
func IndexByteTop(src string, c byte, opts ...Option) int {
	return IndexTop(src, 0, func(i int) bool { return src[i] == c }, opts...)
}

// IndexWordTop returns the offset of the first top-level occurrence of word
// as a whole word at or after from, or -1.
func IndexWordTop(src, word string, from int) int {
	return IndexTop(src, from, func(i int) bool { return IsWordAt(src, i, word) })
}

// IsWordAt reports whether word occurs at src[i] delimited by non-identifier
// characters on both sides.
func IsWordAt(src string, i int, word string) bool {
	if !strings.HasPrefix(src[i:], word) {
		return false
	}
	if i > 0 && IsIdentByte(src[i-1]) {
		return false
	}
	end := i + len(word)
	return end >= len(src) || !IsIdentByte(src[end])
}

// HasWordPrefix reports whether s starts with word as a whole word.
func HasWordPrefix(s, word string) bool {
	return IsWordAt(s, 0, word)
}

// IsIdentByte reports whether c can be part of a Java/DRL identifier.
func IsIdentByte(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c >= 0x80
}

// Problems runs the automaton over src and returns every delimiter problem.
func Problems(src string, opts ...Option) []Problem {
	s := New(opts...)
	for i := 0; i < len(src); i++ {
		s.Step(src[i], i)
	}
	return s.Finish()
}

// Unquote removes one pair of matching surrounding quotes. The second
// result reports whether quotes were removed. Escape sequences are kept.
func Unquote(s string) (string, bool) {
	if len(s) >= 2 {
		q := s[0]
		if (q == '"' || q == '\'') && s[len(s)-1] == q {
			return s[1 : len(s)-1], true
		}
	}
	return s, false
}
