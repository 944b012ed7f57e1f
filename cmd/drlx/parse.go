package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"drools-graph/drlx/pkg/cli"
	"drools-graph/drlx/pkg/drl/ast"
	drlErrors "drools-graph/drlx/pkg/drl/errors"
	"drools-graph/drlx/pkg/drl/parser"
	"drools-graph/drlx/pkg/report"
	"drools-graph/drlx/pkg/telemetry/logging"
)

var parseFlags struct {
	format         string
	recursive      bool
	workers        int
	variablePolicy string
	gitURL         string
	gitBranch      string
	gitPath        string
	record         bool
	progress       bool
}

var parseCmd = &cobra.Command{
	Use:   "parse [paths...]",
	Short: "Parse DRL files and print the model",
	Long: `Parse DRL rule files and directories and print the result.

Text output renders every parsed file back as DRL; json and yaml output the
full model followed by the error summary.

Examples:
  # Parse a directory
  drlx parse rules/

  # JSON model of two files
  drlx parse a.drl b.drl --format json

  # Keep '$' on every variable name
  drlx parse rules/ --variable-policy preserve

  # Parse the rules of a Git repository and record a report
  drlx parse --git-url https://github.com/acme/rules.git --git-path drl --record`,
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseFlags.format, "format", "o", "text", "output format: text, json, yaml")
	parseCmd.Flags().BoolVarP(&parseFlags.recursive, "recursive", "r", true, "descend into sub-directories")
	parseCmd.Flags().IntVarP(&parseFlags.workers, "workers", "w", 0, "files parsed concurrently (default: config or GOMAXPROCS)")
	parseCmd.Flags().StringVar(&parseFlags.variablePolicy, "variable-policy", "", "'$' handling: strip-bindings, preserve, strip-all")
	parseCmd.Flags().StringVar(&parseFlags.gitURL, "git-url", "", "parse rule files from this Git repository")
	parseCmd.Flags().StringVar(&parseFlags.gitBranch, "git-branch", "", "branch to check out (default: main)")
	parseCmd.Flags().StringVar(&parseFlags.gitPath, "git-path", "", "directory inside the repository")
	parseCmd.Flags().BoolVar(&parseFlags.record, "record", false, "store a report of this run")
	parseCmd.Flags().BoolVar(&parseFlags.progress, "progress", false, "draw a progress bar on stderr")
}

// parseOutput is the json/yaml document written by parse.
type parseOutput struct {
	Files   []*ast.RuleFile   `json:"files"`
	Summary drlErrors.Summary `json:"summary"`
}

// parseRun is what one invocation of parse or lint collected.
type parseRun struct {
	parser *parser.Parser
	report *report.Report
	files  []*parser.FileResult
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(parseFlags.format)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	applyParserFlags(cmd, a)
	a.applyGitFlags(parseFlags.gitURL, parseFlags.gitBranch, parseFlags.gitPath)

	ctx := contextOf(cmd)
	run, err := collect(ctx, cmd, a, args, "parse")
	if err != nil {
		return cli.NewCommandError("parse", err)
	}

	if err := recordRun(ctx, a, run.report, parseFlags.record); err != nil {
		return cli.NewCommandError("parse", err)
	}

	out := cmd.OutOrStdout()
	files := make([]*ast.RuleFile, 0, len(run.files))
	for _, f := range run.files {
		files = append(files, f.File)
	}

	if format != cli.FormatText {
		return cli.NewFormatter(format).FormatTo(out, parseOutput{
			Files:   files,
			Summary: run.parser.ErrorReport(),
		})
	}

	for _, f := range files {
		fmt.Fprintf(out, "// %s\n", f.Path)
		if err := cli.NewFormatter(cli.FormatText).FormatTo(out, f); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	writeTextSummary(out, run.report, ast.CollectStats(files...))
	return nil
}

// applyParserFlags copies flags the user set onto the parser configuration.
func applyParserFlags(cmd *cobra.Command, a *app) {
	flags := cmd.Flags()
	if flags.Changed("recursive") {
		a.cfg.Parser.Recursive = parseFlags.recursive
	}
	if parseFlags.workers > 0 {
		a.cfg.Parser.Workers = parseFlags.workers
	}
	if parseFlags.variablePolicy != "" {
		a.cfg.Parser.VariablePolicy = parseFlags.variablePolicy
	}
}

// collect parses every path (or the Git checkout when one is configured)
// and builds the run report.
func collect(ctx context.Context, cmd *cobra.Command, a *app, paths []string, trigger string) (*parseRun, error) {
	p, err := a.newParser()
	if err != nil {
		return nil, err
	}

	started := time.Now()
	rep := report.New(uuid.NewString(), trigger, started, nil)
	ctx = logging.WithRunID(ctx, rep.ID)

	if a.cfg.Git.Repository != "" {
		repo, commit, err := a.checkout(ctx)
		if err != nil {
			return nil, err
		}
		rep.GitURL = a.cfg.Git.Repository
		rep.GitCommit = commit.SHA
		paths = []string{repo.RulesDir()}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input: pass at least one file or directory, or --git-url")
	}
	rep.Root = strings.Join(paths, ",")

	var progress cli.ProgressReporter
	if parseFlags.progress && len(paths) > 1 {
		progress = cli.NewProgressReporter(cmd.ErrOrStderr())
		progress.Start(len(paths))
		defer progress.Finish()
	}

	run := &parseRun{parser: p, report: rep}
	for _, path := range paths {
		info, err := os.Stat(path)
		switch {
		case err == nil && info.IsDir():
			res, err := p.ParseDirectoryDetailed(ctx, path)
			if err != nil {
				return nil, err
			}
			run.files = append(run.files, res.Files...)
			rep.AddFiles(res.Files...)
			for _, f := range res.Failures {
				rep.AddFailure(f.Location.File, f.Kind.String())
			}
		default:
			res, err := p.ParseFileDetailed(path)
			if err != nil {
				a.logger.WarnContext(ctx, "file could not be parsed", "file", path, "error", err)
				rep.AddFailure(path, drlErrors.FileParsingError.String())
				break
			}
			run.files = append(run.files, res)
			rep.AddFiles(res)
		}
		if progress != nil {
			progress.Increment(path)
		}
	}

	rep.Duration = time.Since(started)
	p.LogErrorSummary()
	return run, nil
}

func recordRun(ctx context.Context, a *app, rep *report.Report, record bool) error {
	store, err := a.openStore(record)
	if err != nil || store == nil {
		return err
	}
	defer store.Close()

	if err := store.Save(ctx, rep); err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "parse report recorded", "report_id", rep.ID)
	return nil
}

func writeTextSummary(w io.Writer, rep *report.Report, stats ast.Stats) {
	fmt.Fprintf(w, "Parsed %d file(s): %d rule(s), %d query(ies), %d function(s), %d declared type(s)\n",
		stats.Files, stats.Rules, stats.Queries, stats.Functions, stats.DeclaredTypes)
	fmt.Fprintf(w, "Patterns: %d condition(s), %d constraint(s), %d action(s)\n",
		stats.Conditions, stats.Constraints, stats.Actions)
	if rep.FailedFiles > 0 {
		fmt.Fprintf(w, "Unreadable: %d file(s)\n", rep.FailedFiles)
	}
	if rep.ErrorCount == 0 {
		fmt.Fprintln(w, "No errors")
		return
	}
	fmt.Fprintf(w, "Errors: %d\n", rep.ErrorCount)
	for _, kind := range drlErrors.Kinds() {
		if n := rep.ErrorCounts[kind.String()]; n > 0 {
			fmt.Fprintf(w, "  %-28s %d\n", kind.String(), n)
		}
	}
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
