package ast

import "fmt"

// Location represents the source position of a node in the original DRL file.
type Location struct {
	File   string `json:"file,omitempty"` // Path to the rule file
	Line   int    `json:"line"`           // Line number (1-based)
	Column int    `json:"column"`         // Column number (1-based)
	Offset int    `json:"offset"`         // Byte offset from the start of the file
}

// String returns a human-readable representation of the location.
// Format: "file:line:column"
func (l Location) String() string {
	if l.File == "" {
		if l.Line > 0 {
			return fmt.Sprintf("<input>:%d:%d", l.Line, l.Column)
		}
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsValid returns true if the location has line information.
func (l Location) IsValid() bool {
	return l.Line > 0
}

// Span is a half-open byte range [Start, End) in the source text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}
