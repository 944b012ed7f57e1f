package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"drools-graph/drlx/pkg/cli"
	drlErrors "drools-graph/drlx/pkg/drl/errors"
	"drools-graph/drlx/pkg/report"
)

var historyFlags struct {
	limit  int
	format string
	kind   string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded parse runs",
	Long: `List parse reports recorded by 'drlx parse --record' and 'drlx watch',
newest first.

Examples:
  drlx history
  drlx history --limit 5 --format json

  # Recent runs that hit a malformed condition
  drlx history --kind MalformedConditionError`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "maximum number of reports (0 = all)")
	historyCmd.Flags().StringVarP(&historyFlags.format, "format", "o", "text", "output format: text, json, yaml")
	historyCmd.Flags().StringVar(&historyFlags.kind, "kind", "", "only runs that recorded this error kind (e.g. MalformedRuleError)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(historyFlags.format)
	if err != nil {
		return err
	}

	var kind drlErrors.Kind
	if historyFlags.kind != "" {
		var ok bool
		if kind, ok = drlErrors.ParseKind(historyFlags.kind); !ok {
			return cli.NewConfigError("kind", fmt.Sprintf("unknown error kind %q", historyFlags.kind))
		}
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	store, err := report.Open(&a.cfg.Reports)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer store.Close()

	reports, err := store.List(contextOf(cmd), historyFlags.limit)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	if historyFlags.kind != "" {
		reports = withKind(reports, kind)
	}

	out := cmd.OutOrStdout()
	if format != cli.FormatText {
		return cli.NewFormatter(format).FormatTo(out, reports)
	}

	if len(reports) == 0 {
		fmt.Fprintln(out, "No parse reports recorded")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tID\tTRIGGER\tFILES\tRULES\tERRORS\tDURATION\tSOURCE")
	for _, r := range reports {
		source := r.Root
		if r.GitURL != "" {
			source = r.GitURL + "@" + shortSHA(r.GitCommit)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			r.StartedAt.Local().Format(time.DateTime),
			shortID(r.ID),
			r.Trigger,
			r.TotalFiles,
			r.Rules,
			r.ErrorCount,
			r.Duration.Round(time.Millisecond),
			source,
		)
	}
	return tw.Flush()
}

// withKind keeps the reports that recorded at least one error of kind.
func withKind(reports []*report.Report, kind drlErrors.Kind) []*report.Report {
	out := make([]*report.Report, 0, len(reports))
	for _, r := range reports {
		if r.ErrorCounts[kind.String()] > 0 {
			out = append(out, r)
		}
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
