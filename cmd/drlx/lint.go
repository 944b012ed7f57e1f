package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"drools-graph/drlx/pkg/cli"
	drlErrors "drools-graph/drlx/pkg/drl/errors"
)

var lintFlags struct {
	strict bool
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Report problems in DRL files",
	Long: `Parse DRL files and report every problem with its location and the
surrounding source lines.

Without --strict the command succeeds even when problems are found, since the
parser recovered from all of them. With --strict any problem exits with code 1.

Examples:
  # Lint a directory
  drlx lint rules/

  # Fail CI on any finding
  drlx lint rules/ --strict

  # Machine-readable output
  drlx lint rules/ --format json`,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().BoolVar(&lintFlags.strict, "strict", false, "exit with code 1 when any problem is found")
	lintCmd.Flags().StringVarP(&lintFlags.format, "format", "o", "text", "output format: text, json, yaml")
}

// lintOutput is the json/yaml document written by lint.
type lintOutput struct {
	Files   int               `json:"files"`
	Clean   bool              `json:"clean"`
	Summary drlErrors.Summary `json:"summary"`
}

func runLint(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(lintFlags.format)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	run, err := collect(contextOf(cmd), cmd, a, args, "lint")
	if err != nil {
		return cli.NewCommandError("lint", err)
	}

	summary := run.parser.ErrorReport()
	out := cmd.OutOrStdout()

	if format != cli.FormatText {
		if err := cli.NewFormatter(format).FormatTo(out, lintOutput{
			Files:   run.report.TotalFiles,
			Clean:   summary.Total == 0,
			Summary: summary,
		}); err != nil {
			return err
		}
	} else {
		for _, e := range run.parser.Errors() {
			fmt.Fprintf(out, "%s: %s\n\n", severity(e), e.Error())
		}
		if summary.Total == 0 {
			fmt.Fprintf(out, "%d file(s) checked, no problems\n", run.report.TotalFiles)
		} else {
			fmt.Fprintf(out, "%d problem(s) in %d file(s) checked\n", summary.Total, run.report.TotalFiles)
		}
	}

	if lintFlags.strict && summary.Total > 0 {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

// severity labels an error by how much of the input it cost.
func severity(e *drlErrors.Error) string {
	switch e.Disposition {
	case drlErrors.FileAborted, drlErrors.ConstructSkipped:
		return "error"
	default:
		return "warning"
	}
}
