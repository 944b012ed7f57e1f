package logging

import (
	"context"
	"log/slog"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for parse run IDs.
	RunIDKey contextKey = "run_id"

	// FileKey is the context key for the rule file being processed.
	FileKey contextKey = "file"

	// TriggerKey is the context key for what started a watch re-parse.
	TriggerKey contextKey = "trigger"
)

// WithRunID adds a parse run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the parse run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithFile adds a rule file path to the context.
func WithFile(ctx context.Context, file string) context.Context {
	return context.WithValue(ctx, FileKey, file)
}

// GetFile retrieves the rule file path from the context.
func GetFile(ctx context.Context) string {
	if file, ok := ctx.Value(FileKey).(string); ok {
		return file
	}
	return ""
}

// WithTrigger adds a re-parse trigger to the context.
func WithTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, TriggerKey, trigger)
}

// GetTrigger retrieves the re-parse trigger from the context.
func GetTrigger(ctx context.Context) string {
	if trigger, ok := ctx.Value(TriggerKey).(string); ok {
		return trigger
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any
	if runID := GetRunID(ctx); runID != "" {
		fields = append(fields, string(RunIDKey), runID)
	}
	if file := GetFile(ctx); file != "" {
		fields = append(fields, string(FileKey), file)
	}
	if trigger := GetTrigger(ctx); trigger != "" {
		fields = append(fields, string(TriggerKey), trigger)
	}
	return fields
}

// contextHandler adds the context fields to records logged with a context.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if fields := extractContextFields(ctx); len(fields) > 0 {
		r = r.Clone()
		r.Add(fields...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}
