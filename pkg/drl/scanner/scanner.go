package scanner

import "fmt"

// Problem describes a delimiter or quoting error found while scanning.
type Problem struct {
	Offset  int    // Byte offset where the problem was detected
	Message string // Human-readable description
}

func (p Problem) String() string {
	return fmt.Sprintf("offset %d: %s", p.Offset, p.Message)
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithAngles makes '<' and '>' count as a bracket pair. Use it only for type
// expressions such as `Map<String, List<Integer>>`, never for expressions
// where '<' is an operator.
func WithAngles() Option {
	return func(s *Scanner) {
		s.angles = true
	}
}

type opener struct {
	char   byte
	offset int
}

// Scanner is the delimiter-stack automaton. Feed it bytes in order with Step;
// Top reports whether the next byte would be outside every nested or quoted
// span.
type Scanner struct {
	stack      []opener
	quote      byte
	quoteStart int
	escaped    bool
	angles     bool
	problems   []Problem
}

// New returns a scanner in the top-level state.
func New(opts ...Option) *Scanner {
	s := &Scanner{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Top returns true when the scanner is at depth 0 and outside any string.
func (s *Scanner) Top() bool {
	return len(s.stack) == 0 && s.quote == 0
}

// Depth returns the current nesting depth.
func (s *Scanner) Depth() int {
	return len(s.stack)
}

// InQuote returns true while inside a string or character literal.
func (s *Scanner) InQuote() bool {
	return s.quote != 0
}

// Problems returns the problems found so far.
func (s *Scanner) Problems() []Problem {
	return s.problems
}

// Reset returns the scanner to the top-level state and clears problems.
func (s *Scanner) Reset() {
	s.stack = s.stack[:0]
	s.quote = 0
	s.escaped = false
	s.problems = nil
}

func closerFor(c byte) byte {
	switch c {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	case '<':
		return '>'
	}
	return 0
}

// Step consumes byte c found at offset.
func (s *Scanner) Step(c byte, offset int) {
	if s.quote != 0 {
		switch {
		case s.escaped:
			s.escaped = false
		case c == '\\':
			s.escaped = true
		case c == s.quote:
			s.quote = 0
		case c == '\n':
			// String literals never span lines; close it here so the damage
			// stays on one line.
			s.problems = append(s.problems, Problem{Offset: s.quoteStart, Message: "unterminated string literal"})
			s.quote = 0
		}
		return
	}

	switch c {
	case '"', '\'':
		s.quote = c
		s.quoteStart = offset
	case '(', '[', '{':
		s.stack = append(s.stack, opener{char: c, offset: offset})
	case '<':
		if s.angles {
			s.stack = append(s.stack, opener{char: c, offset: offset})
		}
	case ')', ']', '}':
		s.close(c, offset)
	case '>':
		if s.angles {
			s.close(c, offset)
		}
	}
}

func (s *Scanner) close(c byte, offset int) {
	n := len(s.stack)
	if n > 0 && closerFor(s.stack[n-1].char) == c {
		s.stack = s.stack[:n-1]
		return
	}

	// Look for a matching opener further down; everything above it was
	// never closed.
	for i := n - 1; i >= 0; i-- {
		if closerFor(s.stack[i].char) == c {
			for j := n - 1; j > i; j-- {
				s.problems = append(s.problems, Problem{
					Offset:  s.stack[j].offset,
					Message: fmt.Sprintf("unclosed %q", s.stack[j].char),
				})
			}
			s.stack = s.stack[:i]
			return
		}
	}

	s.problems = append(s.problems, Problem{Offset: offset, Message: fmt.Sprintf("unexpected %q", c)})
}

// Innermost returns the innermost open delimiter and its offset. ok is
// false at depth 0.
func (s *Scanner) Innermost() (char byte, offset int, ok bool) {
	if len(s.stack) == 0 {
		return 0, 0, false
	}
	top := s.stack[len(s.stack)-1]
	return top.char, top.offset, true
}

// UnwindFrom drops the open delimiters opened at or after offset, reporting
// each as unclosed. Delimiters opened earlier stay open.
func (s *Scanner) UnwindFrom(offset int) {
	for len(s.stack) > 0 && s.stack[len(s.stack)-1].offset >= offset {
		top := s.stack[len(s.stack)-1]
		s.problems = append(s.problems, Problem{
			Offset:  top.offset,
			Message: fmt.Sprintf("unclosed %q", top.char),
		})
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// Unwind drops every open delimiter, reporting each as unclosed. Splitters
// call it to resynchronise after an unterminated string literal.
func (s *Scanner) Unwind() {
	for i := len(s.stack) - 1; i >= 0; i-- {
		s.problems = append(s.problems, Problem{
			Offset:  s.stack[i].offset,
			Message: fmt.Sprintf("unclosed %q", s.stack[i].char),
		})
	}
	s.stack = s.stack[:0]
}

// Finish reports every construct still open at end of input and returns all
// problems found.
func (s *Scanner) Finish() []Problem {
	if s.quote != 0 {
		s.problems = append(s.problems, Problem{Offset: s.quoteStart, Message: "unterminated string literal"})
		s.quote = 0
	}
	s.Unwind()
	return s.problems
}
