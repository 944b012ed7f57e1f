package logging

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// Redactor masks credentials in log output: Git access tokens, passwords
// embedded in repository URLs, bearer tokens and key=value secrets.
type Redactor struct {
	patterns []redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Pattern names.
const (
	PatternURLCredentials = "url_credentials"
	PatternGitHubToken    = "github_token"
	PatternGitLabToken    = "gitlab_token"
	PatternBearerToken    = "bearer_token"
	PatternPassword       = "password"
)

// NewRedactor creates a Redactor with the built-in patterns.
func NewRedactor() *Redactor {
	return &Redactor{patterns: []redactPattern{
		{
			name:        PatternURLCredentials,
			regex:       regexp.MustCompile(`(\w+://)[^/@\s:]+(:[^/@\s]*)?@`),
			replacement: "${1}***@",
		},
		{
			name:        PatternGitHubToken,
			regex:       regexp.MustCompile(`\b(gh[pousr]_)[A-Za-z0-9]{20,}`),
			replacement: "${1}***",
		},
		{
			name:        PatternGitLabToken,
			regex:       regexp.MustCompile(`\b(glpat-)[A-Za-z0-9_\-]{20,}`),
			replacement: "${1}***",
		},
		{
			name:        PatternBearerToken,
			regex:       regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`),
			replacement: "Bearer ***",
		},
		{
			name:        PatternPassword,
			regex:       regexp.MustCompile(`(password|passwd|passphrase|token)[:=]\s*[^\s]+`),
			replacement: "$1=***",
		},
	}}
}

// RedactString masks credentials in a string value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// RedactAttr masks an attribute: completely when its key names a secret,
// by pattern otherwise.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		if isSensitiveKey(a.Key) && a.Value.String() != "" {
			return slog.String(a.Key, "***")
		}
		return slog.String(a.Key, r.RedactString(a.Value.String()))
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]any, len(attrs))
		for i, ga := range attrs {
			out[i] = r.RedactAttr(ga)
		}
		return slog.Group(a.Key, out...)
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
	}
	return a
}

// isSensitiveKey checks if a key name indicates sensitive data.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitive := range []string{"password", "passphrase", "secret", "token", "authorization"} {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}

// RedactingHandler is a slog.Handler that passes every attribute through a
// Redactor before the wrapped handler sees it.
type RedactingHandler struct {
	next     slog.Handler
	redactor *Redactor
}

// NewRedactingHandler wraps next.
func NewRedactingHandler(next slog.Handler, redactor *Redactor) *RedactingHandler {
	return &RedactingHandler{next: next, redactor: redactor}
}

// Enabled reports whether the wrapped handler handles level.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle redacts the message and attributes of r.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, h.redactor.RedactString(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redactor.RedactAttr(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs redacts attrs once and returns a handler carrying them.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactor.RedactAttr(a)
	}
	return &RedactingHandler{next: h.next.WithAttrs(redacted), redactor: h.redactor}
}

// WithGroup returns a handler for the named group.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name), redactor: h.redactor}
}
