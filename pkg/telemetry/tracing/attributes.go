package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys used by drlx.
const (
	AttrFile      = "drl.file"
	AttrDir       = "drl.dir"
	AttrFiles     = "drl.files"
	AttrRules     = "drl.rules"
	AttrErrors    = "drl.errors"
	AttrRunID     = "drl.run_id"
	AttrGitURL    = "drl.git.url"
	AttrGitCommit = "drl.git.commit"
	AttrTrigger   = "drl.watch.trigger"
)

// RunAttributes returns the attributes describing one parse run.
func RunAttributes(runID, dir string, files, errors int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrRunID, runID),
		attribute.String(AttrDir, dir),
		attribute.Int(AttrFiles, files),
		attribute.Int(AttrErrors, errors),
	}
}

// TraceID returns the trace ID from the context as a string.
// Returns empty string if no trace context exists.
func TraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// SetStatus records err on the span and sets its status.
// If err is nil, status is set to OK.
func SetStatus(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
