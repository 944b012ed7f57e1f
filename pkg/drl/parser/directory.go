package parser

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"drools-graph/drlx/pkg/drl/ast"
	drlErrors "drools-graph/drlx/pkg/drl/errors"
)

// DirectoryResult holds the outcome of parsing a directory tree.
type DirectoryResult struct {
	Root     string
	Files    []*FileResult      // Successfully read files, in path order
	Failures []*drlErrors.Error // Files that could not be read, in path order
	Duration time.Duration
}

// RuleFiles returns the parsed files in path order.
func (r *DirectoryResult) RuleFiles() []*ast.RuleFile {
	files := make([]*ast.RuleFile, 0, len(r.Files))
	for _, f := range r.Files {
		files = append(files, f.File)
	}
	return files
}

// ErrorCount returns the number of errors recorded across all files,
// read failures included.
func (r *DirectoryResult) ErrorCount() int {
	n := len(r.Failures)
	for _, f := range r.Files {
		n += len(f.Errors)
	}
	return n
}

// ParseDirectory parses every rule file under dir.
//
// A file that cannot be read is recorded as a FileParsingError and left out
// of the result; its siblings are unaffected. A directory without rule files
// yields an empty slice. The error is non-nil only if dir itself cannot be
// walked or ctx is cancelled.
func (p *Parser) ParseDirectory(ctx context.Context, dir string) ([]*ast.RuleFile, error) {
	res, err := p.ParseDirectoryDetailed(ctx, dir)
	if err != nil {
		return nil, err
	}
	return res.RuleFiles(), nil
}

// ParseDirectoryDetailed is ParseDirectory returning per-file results.
func (p *Parser) ParseDirectoryDetailed(ctx context.Context, dir string) (*DirectoryResult, error) {
	ctx, span := p.tracer.Start(ctx, "drl.ParseDirectory",
		trace.WithAttributes(attribute.String("drl.dir", dir)))
	defer span.End()

	start := time.Now()
	paths, err := p.discover(dir)
	if err != nil {
		ferr := drlErrors.NewFileError(dir, "cannot read directory", err)
		rec := drlErrors.NewRecorder()
		rec.Record(ferr)
		p.absorb(rec)
		span.RecordError(ferr)
		span.SetStatus(codes.Error, ferr.Message)
		return nil, ferr
	}
	span.SetAttributes(attribute.Int("drl.files", len(paths)))

	results := make([]*FileResult, len(paths))
	failures := make([]*drlErrors.Error, len(paths))
	recorders := make([]*drlErrors.Recorder, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec := drlErrors.NewRecorder()
			recorders[i] = rec
			res, ferr := p.parseFile(gctx, path, rec)
			if ferr != nil {
				failures[i] = ferr
				return nil
			}
			results[i] = res
			return nil
		})
	}
	waitErr := g.Wait()

	// Merge in input order so the cumulative error list is deterministic.
	merged := drlErrors.NewRecorder()
	for _, rec := range recorders {
		merged.Merge(rec)
	}
	p.absorb(merged)

	if waitErr != nil {
		span.RecordError(waitErr)
		span.SetStatus(codes.Error, waitErr.Error())
		return nil, fmt.Errorf("parse directory %s: %w", dir, waitErr)
	}

	out := &DirectoryResult{
		Root:     dir,
		Files:    make([]*FileResult, 0, len(paths)),
		Failures: make([]*drlErrors.Error, 0),
	}
	for i := range paths {
		if failures[i] != nil {
			out.Failures = append(out.Failures, failures[i])
			continue
		}
		out.Files = append(out.Files, results[i])
	}
	out.Duration = time.Since(start)

	p.metrics.RecordDirectory(out.Duration, len(paths))
	p.logger.Info("parsed rule directory",
		"dir", dir,
		"files", len(out.Files),
		"failed", len(out.Failures),
		"errors", out.ErrorCount(),
		"duration", out.Duration,
	)
	return out, nil
}

// discover lists the rule files under dir in sorted order. Hidden files and
// directories are skipped.
func (p *Parser) discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			p.logger.Warn("skipping unreadable path", "path", path, "error", err)
			return nil
		}

		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != dir && !p.recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if !p.matches(path) {
			return nil
		}
		if p.sniff && !sniffFile(path) {
			p.logger.Debug("skipping file without DRL content", "file", path)
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(paths)
	return paths, nil
}

func (p *Parser) matches(path string) bool {
	return slices.Contains(p.extensions, strings.ToLower(filepath.Ext(path)))
}

// sniffFile reports whether the head of path looks like DRL. Files that
// cannot be opened are kept so that the read failure gets recorded.
func sniffFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return true
	}
	return LooksLikeRuleFile(head[:n])
}
