package scanner

import (
	"sort"
)

// Mask returns src with every // line comment and /* block comment */
// replaced by spaces. Newlines inside block comments are kept, so offsets
// and line numbers are unchanged. Comment markers inside string literals
// are left alone.
func Mask(src string) string {
	buf := []byte(src)
	var quote byte
	escaped := false

	for i := 0; i < len(buf); i++ {
		c := buf[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote || c == '\n':
				quote = 0
			}
			continue
		}

		switch {
		case c == '"' || c == '\'':
			quote = c
		case c == '/' && i+1 < len(buf) && buf[i+1] == '/':
			for i < len(buf) && buf[i] != '\n' {
				buf[i] = ' '
				i++
			}
		case c == '/' && i+1 < len(buf) && buf[i+1] == '*':
			buf[i], buf[i+1] = ' ', ' '
			i += 2
			for i < len(buf) {
				if buf[i] == '*' && i+1 < len(buf) && buf[i+1] == '/' {
					buf[i], buf[i+1] = ' ', ' '
					i++
					break
				}
				if buf[i] != '\n' {
					buf[i] = ' '
				}
				i++
			}
		}
	}

	return string(buf)
}

// Index converts byte offsets into 1-based line and column numbers.
type Index struct {
	lineStarts []int
}

// NewIndex builds a line index for src.
func NewIndex(src string) *Index {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{lineStarts: starts}
}

// Position returns the line and column of offset.
func (ix *Index) Position(offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	// First line start greater than offset, minus one.
	n := sort.Search(len(ix.lineStarts), func(i int) bool { return ix.lineStarts[i] > offset })
	line = n
	column = offset - ix.lineStarts[n-1] + 1
	return line, column
}

// Lines returns the number of lines.
func (ix *Index) Lines() int {
	return len(ix.lineStarts)
}
