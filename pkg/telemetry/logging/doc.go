// Package logging provides structured logging for drlx.
//
// The package wraps log/slog with:
//   - JSON, text and console formats
//   - run_id, file and trigger fields taken from the context
//   - redaction of Git tokens and URL credentials
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:         "info",
//	    Format:        "json",
//	    RedactSecrets: true,
//	})
//
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "parse completed", "files", 12)
//
//	p := parser.NewParser().WithLogger(logger.Slog())
package logging
