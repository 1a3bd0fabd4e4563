package logging

import (
	"log/slog"
	"strings"
)

// RedactedValue replaces the value of a redacted attribute.
const RedactedValue = "[REDACTED]"

// Redactor hides the values of selected log attributes.
type Redactor struct {
	keys map[string]bool
}

// NewRedactor creates a redactor for the given attribute keys. Matching is
// case-insensitive.
func NewRedactor(keys []string) *Redactor {
	r := &Redactor{keys: make(map[string]bool, len(keys))}
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			r.keys[strings.ToLower(k)] = true
		}
	}
	return r
}

// Enabled returns true if at least one key is redacted.
func (r *Redactor) Enabled() bool {
	return len(r.keys) > 0
}

// ShouldRedact reports whether values under key are hidden.
func (r *Redactor) ShouldRedact(key string) bool {
	return r.keys[strings.ToLower(key)]
}

// ReplaceAttr is a slog.HandlerOptions.ReplaceAttr hook.
func (r *Redactor) ReplaceAttr(_ []string, a slog.Attr) slog.Attr {
	if !r.Enabled() {
		return a
	}
	if r.ShouldRedact(a.Key) {
		return slog.String(a.Key, RedactedValue)
	}
	return a
}

// RedactArgs applies redaction to alternating key/value arguments.
func (r *Redactor) RedactArgs(args ...any) []any {
	if !r.Enabled() {
		return args
	}
	out := make([]any, len(args))
	copy(out, args)
	for i := 0; i+1 < len(out); i += 2 {
		if key, ok := out[i].(string); ok && r.ShouldRedact(key) {
			out[i+1] = RedactedValue
		}
	}
	return out
}
