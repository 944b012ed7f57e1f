// Package watch keeps a rule directory parsed while it changes.
//
// A Runner parses the directory once, then again whenever a rule file is
// written, created, renamed or removed (fsnotify events, debounced) and on
// an optional cron schedule. Requests that arrive while a parse is running
// share its result instead of starting another one.
//
//	runner := watch.NewRunner(p, "rules/").
//		WithDebounce(500 * time.Millisecond).
//		WithSchedule("@every 5m").
//		OnRun(func(ctx context.Context, run *watch.Run) {
//			log.Printf("%s: %d errors", run.Trigger, run.Result.ErrorCount())
//		})
//	err := runner.Run(ctx)
package watch
