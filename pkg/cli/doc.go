/*
Package cli provides helpers shared by the drlx commands.

Output Formatting:

Parse results and reports are written as text, JSON or YAML:

	format, err := cli.ParseOutputFormat(flagFormat)
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).FormatTo(os.Stdout, files); err != nil {
		return err
	}

Text output uses the value's String method, so RuleFiles print as DRL.

Progress Reporting:

When several paths are parsed, a progress bar can be drawn on stderr:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(len(paths))
	for _, path := range paths {
		// parse path
		progress.Increment(path)
	}
	progress.Finish()

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
