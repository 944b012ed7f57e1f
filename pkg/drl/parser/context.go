package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"drools-graph/drlx/pkg/drl/ast"
	drlErrors "drools-graph/drlx/pkg/drl/errors"
	"drools-graph/drlx/pkg/drl/scanner"
)

// maxSnippet bounds the offending text stored on an error.
const maxSnippet = 120

// parseContext carries the state of one file through the sub-parsers.
// Every recoverable problem goes through record, so the recovery decision
// (keep or skip) is visible at each call site.
type parseContext struct {
	file   string
	raw    string // decoded source
	src    string // raw with comments masked; offsets identical
	index  *scanner.Index
	rec    *drlErrors.Recorder
	policy VariablePolicy
	logger *slog.Logger
}

func newParseContext(file, raw string, rec *drlErrors.Recorder, policy VariablePolicy, logger *slog.Logger) *parseContext {
	return &parseContext{
		file:   file,
		raw:    raw,
		src:    scanner.Mask(raw),
		index:  scanner.NewIndex(raw),
		rec:    rec,
		policy: policy,
		logger: logger,
	}
}

// location converts an absolute byte offset into a Location.
func (pc *parseContext) location(offset int) ast.Location {
	line, col := pc.index.Position(offset)
	return ast.Location{File: pc.file, Line: line, Column: col, Offset: offset}
}

// record stores a classified error located at offset.
func (pc *parseContext) record(kind drlErrors.Kind, disp drlErrors.Disposition, construct string, offset int, snippet, format string, args ...any) *drlErrors.Error {
	err := &drlErrors.Error{
		Kind:        kind,
		Disposition: disp,
		Message:     fmt.Sprintf(format, args...),
		Location:    pc.location(offset),
		Construct:   construct,
		Snippet:     clip(snippet),
	}
	drlErrors.WithContext(err, pc.raw, 1)
	pc.rec.Record(err)

	pc.logger.Debug("recovered from parse error",
		"type", kind.String(),
		"disposition", disp.String(),
		"construct", construct,
		"location", err.Location.String(),
		"message", err.Message,
	)
	return err
}

// recordError stores an error built by a sub-parser.
func (pc *parseContext) recordError(err *drlErrors.Error) {
	if err == nil {
		return
	}
	if err.Context == "" {
		drlErrors.WithContext(err, pc.raw, 1)
	}
	pc.rec.Record(err)
	pc.logger.Debug("recovered from parse error",
		"type", err.Kind.String(),
		"disposition", err.Disposition.String(),
		"construct", err.Construct,
		"location", err.Location.String(),
		"message", err.Message,
	)
}

// newError builds an unrecorded error for a sub-parser to return.
func (pc *parseContext) newError(kind drlErrors.Kind, disp drlErrors.Disposition, construct string, offset int, snippet, format string, args ...any) *drlErrors.Error {
	return &drlErrors.Error{
		Kind:        kind,
		Disposition: disp,
		Message:     fmt.Sprintf(format, args...),
		Location:    pc.location(offset),
		Construct:   construct,
		Snippet:     clip(snippet),
	}
}

func clip(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxSnippet {
		return s[:maxSnippet] + "..."
	}
	return s
}

func problemText(problems []scanner.Problem) string {
	parts := make([]string, len(problems))
	for i, p := range problems {
		parts[i] = p.Message
	}
	return strings.Join(parts, "; ")
}
