package parser

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/text/encoding/charmap"

	"drools-graph/drlx/pkg/config"
	"drools-graph/drlx/pkg/drl/ast"
	drlErrors "drools-graph/drlx/pkg/drl/errors"
	"drools-graph/drlx/pkg/telemetry/metrics"
)

// DefaultMaxFileSize is the largest rule file read by default.
const DefaultMaxFileSize = 10 * 1024 * 1024

// maxLoggedErrors bounds the details written by LogErrorSummary.
const maxLoggedErrors = 5

// Parser parses DRL rule files into ast.RuleFile trees.
//
// Parsing is permissive: problems inside a construct are recorded and the
// parser moves on. Only a file that cannot be read fails. Recorded errors
// accumulate across calls until ResetErrors; a Parser is safe for
// concurrent use.
type Parser struct {
	// Configuration
	maxFileSize int64          // Maximum file size in bytes (default: 10MB)
	policy      VariablePolicy // Handling of '$' on variable names
	workers     int            // Directory worker pool size (default: GOMAXPROCS)
	extensions  []string       // Rule file suffixes (default: .drl)
	recursive   bool           // Descend into sub-directories (default: true)
	sniff       bool           // Check content before parsing a matching file

	logger  *slog.Logger
	metrics *metrics.Collector
	tracer  trace.Tracer

	mu     sync.Mutex
	errors *drlErrors.Recorder
}

// NewParser creates a new parser with default configuration.
func NewParser() *Parser {
	return &Parser{
		maxFileSize: DefaultMaxFileSize,
		policy:      StripBindings,
		workers:     runtime.GOMAXPROCS(0),
		extensions:  []string{".drl"},
		recursive:   true,
		logger:      slog.New(slog.DiscardHandler),
		tracer:      noop.NewTracerProvider().Tracer("drlx/parser"),
		errors:      drlErrors.NewRecorder(),
	}
}

// FromConfig creates a parser from the parser section of the configuration.
func FromConfig(cfg *config.ParserConfig) (*Parser, error) {
	policy, err := ParseVariablePolicy(cfg.VariablePolicy)
	if err != nil {
		return nil, err
	}
	p := NewParser().
		WithVariablePolicy(policy).
		WithRecursive(cfg.Recursive).
		WithContentSniffing(cfg.ContentSniffing)
	if cfg.MaxFileSize > 0 {
		p.WithMaxFileSize(cfg.MaxFileSize)
	}
	if cfg.Workers > 0 {
		p.WithWorkers(cfg.Workers)
	}
	if len(cfg.Extensions) > 0 {
		p.WithExtensions(cfg.Extensions...)
	}
	return p, nil
}

// WithMaxFileSize sets the maximum file size limit.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// WithVariablePolicy sets how leading '$' characters are handled.
func (p *Parser) WithVariablePolicy(policy VariablePolicy) *Parser {
	p.policy = policy
	return p
}

// WithWorkers sets the number of files parsed concurrently by ParseDirectory.
func (p *Parser) WithWorkers(n int) *Parser {
	if n < 1 {
		n = 1
	}
	p.workers = n
	return p
}

// WithExtensions sets the file suffixes ParseDirectory picks up.
func (p *Parser) WithExtensions(exts ...string) *Parser {
	p.extensions = p.extensions[:0:0]
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		p.extensions = append(p.extensions, ext)
	}
	return p
}

// WithRecursive controls whether ParseDirectory descends into sub-directories.
func (p *Parser) WithRecursive(recursive bool) *Parser {
	p.recursive = recursive
	return p
}

// WithContentSniffing makes ParseDirectory skip matching files whose first
// 4 KiB contain no DRL keyword.
func (p *Parser) WithContentSniffing(sniff bool) *Parser {
	p.sniff = sniff
	return p
}

// WithLogger sets the logger. Construct-level recoveries are logged at
// Debug, unreadable files at Warn.
func (p *Parser) WithLogger(logger *slog.Logger) *Parser {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// WithMetrics sets the metrics collector.
func (p *Parser) WithMetrics(m *metrics.Collector) *Parser {
	p.metrics = m
	return p
}

// WithTracer sets the tracer used for file and directory spans.
func (p *Parser) WithTracer(tracer trace.Tracer) *Parser {
	if tracer != nil {
		p.tracer = tracer
	}
	return p
}

// VariablePolicy returns the configured variable policy.
func (p *Parser) VariablePolicy() VariablePolicy {
	return p.policy
}

// Extensions returns the file suffixes ParseDirectory picks up.
func (p *Parser) Extensions() []string {
	return slices.Clone(p.extensions)
}

// FileResult is one parsed file together with the errors recorded for it.
type FileResult struct {
	File     *ast.RuleFile
	Errors   []*drlErrors.Error
	Duration time.Duration
}

// HasErrors returns true if any error was recorded for the file.
func (r *FileResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// ParseFile parses the rule file at path.
//
// It fails with a FileParsingError only if the file cannot be read. Any
// other problem is recorded and the best-effort RuleFile is returned.
func (p *Parser) ParseFile(path string) (*ast.RuleFile, error) {
	res, err := p.ParseFileDetailed(path)
	if err != nil {
		return nil, err
	}
	return res.File, nil
}

// ParseFileDetailed is ParseFile returning the per-file errors as well.
func (p *Parser) ParseFileDetailed(path string) (*FileResult, error) {
	rec := drlErrors.NewRecorder()
	res, ferr := p.parseFile(context.Background(), path, rec)
	p.absorb(rec)
	if ferr != nil {
		return nil, ferr
	}
	return res, nil
}

// ParseBytes parses rule text from memory. path is only used for locations.
func (p *Parser) ParseBytes(data []byte, path string) *ast.RuleFile {
	rec := drlErrors.NewRecorder()
	res := p.parseText(decode(data), path, rec)
	p.absorb(rec)
	return res.File
}

// ErrorSummary returns the number of errors recorded per kind since the
// last reset. Every kind is present.
func (p *Parser) ErrorSummary() map[string]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errors.Counts()
}

// ErrorReport returns totals, counts and details of the recorded errors.
func (p *Parser) ErrorReport() drlErrors.Summary {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errors.Summary()
}

// Errors returns the errors recorded since the last reset.
func (p *Parser) Errors() []*drlErrors.Error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*drlErrors.Error(nil), p.errors.Errors()...)
}

// LogErrorSummary logs the counters and the first few recorded errors.
func (p *Parser) LogErrorSummary() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errors.LogSummary(p.logger, maxLoggedErrors)
}

// ResetErrors discards the recorded errors.
func (p *Parser) ResetErrors() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errors.Reset()
}

func (p *Parser) absorb(rec *drlErrors.Recorder) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errors.Merge(rec)
}

// parseFile reads and parses one file. The returned error is always a
// FileParsingError, already recorded in rec.
func (p *Parser) parseFile(ctx context.Context, path string, rec *drlErrors.Recorder) (*FileResult, *drlErrors.Error) {
	_, span := p.tracer.Start(ctx, "drl.ParseFile",
		trace.WithAttributes(attribute.String("drl.file", path)))
	defer span.End()

	start := time.Now()
	text, ferr := p.readFile(path)
	if ferr != nil {
		rec.Record(ferr)
		p.logger.Warn("failed to read rule file", "file", path, "error", ferr.Message, "cause", ferr.Cause)
		p.metrics.RecordFileFailure(time.Since(start))
		span.RecordError(ferr)
		span.SetStatus(codes.Error, ferr.Message)
		return nil, ferr
	}

	res := p.parseText(text, path, rec)
	span.SetAttributes(
		attribute.Int("drl.rules", len(res.File.Rules)),
		attribute.Int("drl.errors", len(res.Errors)),
	)
	return res, nil
}

// readFile loads path fully and closes it before any parsing starts.
func (p *Parser) readFile(path string) (string, *drlErrors.Error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", drlErrors.NewFileError(path, "cannot access file", err)
	}
	if info.IsDir() {
		return "", drlErrors.NewFileError(path, "path is a directory", nil)
	}
	if info.Size() > p.maxFileSize {
		return "", drlErrors.NewFileError(path,
			fmt.Sprintf("file size %d exceeds maximum %d bytes", info.Size(), p.maxFileSize), nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", drlErrors.NewFileError(path, "cannot read file", err)
	}
	return decode(data), nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode returns data as text: UTF-8 when valid, ISO-8859-1 otherwise.
func decode(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	text, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(text)
}

// fileState is the progress of parseText through one file.
type fileState int

const (
	stateStart fileState = iota
	stateHeaderParsed
	stateSectionsCollected
	stateDone
)

func (s fileState) String() string {
	switch s {
	case stateStart:
		return "start"
	case stateHeaderParsed:
		return "header-parsed"
	case stateSectionsCollected:
		return "sections-collected"
	case stateDone:
		return "done"
	default:
		return "unknown"
	}
}

// parseText runs the per-file pipeline over decoded text.
func (p *Parser) parseText(raw, path string, rec *drlErrors.Recorder) *FileResult {
	start := time.Now()
	first := rec.Total()

	logger := p.logger.With("file", path)
	pc := newParseContext(path, raw, rec, p.policy, logger)
	file := ast.NewRuleFile(path)
	splitter := newMaskedSplitter(pc.src)
	decl := &declarations{}

	for state := stateStart; state != stateDone; {
		switch state {
		case stateStart:
			parseDeclarations(pc, splitter.Leading(), decl)
			state = stateHeaderParsed
		case stateHeaderParsed:
			for sec := range splitter.Sections() {
				dispatch(pc, file, sec)
			}
			state = stateSectionsCollected
		case stateSectionsCollected:
			// Declarations may also sit between constructs.
			for _, seg := range splitter.Trailing() {
				parseDeclarations(pc, seg, decl)
			}
			file.Package = decl.pkg
			file.Imports = append(file.Imports, decl.imports...)
			file.Globals = append(file.Globals, decl.globals...)
			state = stateDone
		}
	}

	res := &FileResult{
		File:     file,
		Errors:   append([]*drlErrors.Error(nil), rec.Errors()[first:]...),
		Duration: time.Since(start),
	}

	p.metrics.RecordFile(res.Duration, len(res.Errors) > 0)
	p.metrics.RecordConstructs("rule", len(file.Rules))
	p.metrics.RecordConstructs("query", len(file.Queries))
	p.metrics.RecordConstructs("function", len(file.Functions))
	p.metrics.RecordConstructs("declared_type", len(file.DeclaredTypes))
	for _, e := range res.Errors {
		p.metrics.RecordParseError(e.Kind.String(), string(e.Kind.Category()))
	}

	logger.Debug("parsed rule file",
		"package", file.Package,
		"rules", len(file.Rules),
		"queries", len(file.Queries),
		"functions", len(file.Functions),
		"declared_types", len(file.DeclaredTypes),
		"errors", len(res.Errors),
		"duration", res.Duration,
	)
	return res
}

// dispatch hands a section to its sub-parser. Unterminated rules, queries
// and functions are skipped; an unterminated declaration keeps what parsed.
func dispatch(pc *parseContext, file *ast.RuleFile, sec Section) {
	if !sec.Terminated {
		switch sec.Kind {
		case SectionRule:
			name := sectionName(sec)
			pc.record(drlErrors.MalformedRuleError, drlErrors.ConstructSkipped, name, sec.Start, sec.Header,
				"rule %q is missing 'end'", name)
			return
		case SectionQuery:
			name := sectionName(sec)
			pc.record(drlErrors.MalformedQueryError, drlErrors.ConstructSkipped, name, sec.Start, sec.Header,
				"query %q is missing 'end'", name)
			return
		case SectionFunction:
			name := sectionName(sec)
			pc.record(drlErrors.MalformedFunctionError, drlErrors.ConstructSkipped, name, sec.Start, sec.Header,
				"function %q has unbalanced braces", name)
			return
		}
	}

	switch sec.Kind {
	case SectionRule:
		if rule := parseRule(pc, sec); rule != nil {
			file.Rules = append(file.Rules, rule)
		}
	case SectionQuery:
		if query := parseQuery(pc, sec); query != nil {
			file.Queries = append(file.Queries, query)
		}
	case SectionFunction:
		if fn := parseFunction(pc, sec); fn != nil {
			file.Functions = append(file.Functions, fn)
		}
	case SectionDeclaredType:
		if dt := parseDeclaredType(pc, sec); dt != nil {
			file.DeclaredTypes = append(file.DeclaredTypes, dt)
		}
	}
}

// sectionName extracts a best-effort construct name for error reports.
func sectionName(sec Section) string {
	switch sec.Kind {
	case SectionRule:
		if m := ruleHeader.FindStringSubmatch(sec.Header); m != nil {
			return unquoteName(m[1])
		}
	case SectionQuery:
		if m := anchorPatterns[SectionQuery].FindStringSubmatch(sec.Header); m != nil {
			return unquoteName(m[1])
		}
	case SectionFunction:
		header := sec.Header
		if open := strings.IndexByte(header, '('); open >= 0 {
			header = header[:open]
		}
		if fields := strings.Fields(header); len(fields) > 0 {
			return fields[len(fields)-1]
		}
	case SectionDeclaredType:
		if m := declareHeader.FindStringSubmatch(sec.Header); m != nil {
			return m[2]
		}
	}
	return ""
}
