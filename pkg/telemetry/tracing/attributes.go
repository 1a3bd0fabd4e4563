package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrRuleID       = "rules.rule.id"
	AttrRuleName     = "rules.rule.name"
	AttrRuleString   = "rules.rule.string"
	AttrRuleCount    = "rules.combine.count"
	AttrConnective   = "rules.combine.connective"
	AttrResult       = "rules.evaluate.result"
	AttrErrorKind    = "rules.error.kind"
	AttrRequestID    = "rules.request_id"
	AttrRecordFields = "rules.record.fields"
)

// SetRuleAttributes sets the rule id and name on span. Empty values are skipped.
func SetRuleAttributes(span trace.Span, id, name string) {
	attrs := make([]attribute.KeyValue, 0, 2)
	if id != "" {
		attrs = append(attrs, attribute.String(AttrRuleID, id))
	}
	if name != "" {
		attrs = append(attrs, attribute.String(AttrRuleName, name))
	}
	span.SetAttributes(attrs...)
}

// SetErrorKind tags span with the engine error kind.
func SetErrorKind(span trace.Span, kind string) {
	if kind != "" {
		span.SetAttributes(attribute.String(AttrErrorKind, kind))
	}
}
