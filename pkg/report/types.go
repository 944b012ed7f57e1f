package report

import (
	"time"

	"drools-graph/drlx/pkg/drl/ast"
	"drools-graph/drlx/pkg/drl/parser"
)

// Report summarises one parse run.
type Report struct {
	ID          string        `json:"id" yaml:"id"`
	StartedAt   time.Time     `json:"started_at" yaml:"started_at"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
	Trigger     string        `json:"trigger" yaml:"trigger"`
	Root        string        `json:"root" yaml:"root"`
	GitURL      string        `json:"git_url,omitempty" yaml:"git_url,omitempty"`
	GitCommit   string        `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
	TotalFiles  int           `json:"total_files" yaml:"total_files"`
	FailedFiles int           `json:"failed_files" yaml:"failed_files"`

	Rules         int `json:"rules" yaml:"rules"`
	Queries       int `json:"queries" yaml:"queries"`
	Functions     int `json:"functions" yaml:"functions"`
	DeclaredTypes int `json:"declared_types" yaml:"declared_types"`

	ErrorCount  int            `json:"error_count" yaml:"error_count"`
	ErrorCounts map[string]int `json:"error_counts,omitempty" yaml:"error_counts,omitempty"`
	Files       []FileSummary  `json:"files,omitempty" yaml:"files,omitempty"`
}

// FileSummary is the per-file part of a report.
type FileSummary struct {
	Path   string `json:"path" yaml:"path"`
	Rules  int    `json:"rules" yaml:"rules"`
	Errors int    `json:"errors" yaml:"errors"`
	Failed bool   `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// Clean reports whether the run recorded no errors.
func (r *Report) Clean() bool {
	return r.ErrorCount == 0
}

// New builds a report from a directory parse. Only non-zero error kinds are
// kept in ErrorCounts.
func New(id, trigger string, started time.Time, res *parser.DirectoryResult) *Report {
	r := &Report{
		ID:          id,
		StartedAt:   started.UTC(),
		Trigger:     trigger,
		ErrorCounts: make(map[string]int),
	}
	if res == nil {
		return r
	}

	r.Root = res.Root
	r.Duration = res.Duration
	r.AddFiles(res.Files...)
	for _, failure := range res.Failures {
		r.AddFailure(failure.Location.File, failure.Kind.String())
	}
	return r
}

// AddFiles adds parsed files to the report.
func (r *Report) AddFiles(files ...*parser.FileResult) {
	for _, f := range files {
		stats := ast.CollectStats(f.File)
		r.TotalFiles++
		r.Rules += stats.Rules
		r.Queries += stats.Queries
		r.Functions += stats.Functions
		r.DeclaredTypes += stats.DeclaredTypes
		r.ErrorCount += len(f.Errors)
		for _, e := range f.Errors {
			r.ErrorCounts[e.Kind.String()]++
		}
		r.Files = append(r.Files, FileSummary{
			Path:   f.File.Path,
			Rules:  stats.Rules,
			Errors: len(f.Errors),
		})
	}
}

// AddFailure adds a file that could not be read.
func (r *Report) AddFailure(path, kind string) {
	r.TotalFiles++
	r.FailedFiles++
	r.ErrorCount++
	r.ErrorCounts[kind]++
	r.Files = append(r.Files, FileSummary{Path: path, Errors: 1, Failed: true})
}
