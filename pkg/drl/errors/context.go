package errors

import (
	"fmt"
	"strings"
)

// ExtractContext returns the lines around line (1-based) of src, with the
// offending line marked by ">>".
func ExtractContext(src string, line, contextLines int) string {
	if line <= 0 {
		return ""
	}

	lines := strings.Split(src, "\n")
	errorLine := line - 1
	if errorLine >= len(lines) {
		return ""
	}

	startLine := max(errorLine-contextLines, 0)
	endLine := min(errorLine+contextLines, len(lines)-1)

	var sb strings.Builder
	maxLineNumWidth := len(fmt.Sprintf("%d", endLine+1))

	for i := startLine; i <= endLine; i++ {
		prefix := "  "
		if i == errorLine {
			prefix = ">>"
		}
		sb.WriteString(fmt.Sprintf("%s %*d | %s\n", prefix, maxLineNumWidth, i+1, strings.TrimRight(lines[i], "\r")))
	}

	return sb.String()
}

// WithContext fills err.Context from src and returns err.
func WithContext(err *Error, src string, contextLines int) *Error {
	if err != nil && err.Location.IsValid() {
		err.Context = ExtractContext(src, err.Location.Line, contextLines)
	}
	return err
}
