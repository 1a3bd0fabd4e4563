package errors

import (
	goerrors "errors"
	"fmt"
	"strings"
)

// Kind categorizes an engine failure.
type Kind string

const (
	KindUnbalancedParentheses      Kind = "unbalanced_parentheses"        // Bracket counter went negative or ended non-zero
	KindUnmatchedCloseParen        Kind = "unmatched_close_paren"         // ")" with no open group on the parse stack
	KindInvalidConditionFormat     Kind = "invalid_condition_format"      // Identifier not followed by comparator and literal
	KindEmptyOrMalformedExpression Kind = "empty_or_malformed_expression" // Stack did not reduce to one node
	KindMalformedOperand           Kind = "malformed_operand"             // Condition is not "field comparator literal"
	KindFieldNotFound              Kind = "field_not_found"               // Record lacks the referenced field
	KindTypeMismatch               Kind = "type_mismatch"                 // Numeric comparison on non-numeric data
	KindUnsupportedOperator        Kind = "unsupported_operator"          // Unknown connective or comparator
	KindEmptyRuleSet               Kind = "empty_rule_set"                // Combine called with no rules
	KindRuleStringMismatch         Kind = "rule_string_mismatch"          // Combine called with len(asts) != len(strings)
	KindInvalidTree                Kind = "invalid_tree"                  // Stored tree cannot be decoded
)

// Phase returns the engine phase that produces errors of this kind:
// "parse", "evaluate", "combine", or "decode".
func (k Kind) Phase() string {
	switch k {
	case KindUnbalancedParentheses, KindUnmatchedCloseParen, KindInvalidConditionFormat, KindEmptyOrMalformedExpression:
		return "parse"
	case KindMalformedOperand, KindFieldNotFound, KindTypeMismatch, KindUnsupportedOperator:
		return "evaluate"
	case KindEmptyRuleSet, KindRuleStringMismatch:
		return "combine"
	case KindInvalidTree:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is a rule engine failure.
type Error struct {
	Kind       Kind   // Category of error
	Message    string // Human-readable description
	Fragment   string // Offending token or rule fragment (optional)
	Field      string // Offending record field (optional)
	Value      any    // Offending record or literal value (optional)
	Suggestion string // Suggested fix (optional)
	Cause      error  // Underlying error (optional)
}

// Sentinels matching any error of the corresponding kind via errors.Is.
var (
	ErrUnbalancedParentheses      = &Error{Kind: KindUnbalancedParentheses}
	ErrUnmatchedCloseParen        = &Error{Kind: KindUnmatchedCloseParen}
	ErrInvalidConditionFormat     = &Error{Kind: KindInvalidConditionFormat}
	ErrEmptyOrMalformedExpression = &Error{Kind: KindEmptyOrMalformedExpression}
	ErrMalformedOperand           = &Error{Kind: KindMalformedOperand}
	ErrFieldNotFound              = &Error{Kind: KindFieldNotFound}
	ErrTypeMismatch               = &Error{Kind: KindTypeMismatch}
	ErrUnsupportedOperator        = &Error{Kind: KindUnsupportedOperator}
	ErrEmptyRuleSet               = &Error{Kind: KindEmptyRuleSet}
	ErrRuleStringMismatch         = &Error{Kind: KindRuleStringMismatch}
	ErrInvalidTree                = &Error{Kind: KindInvalidTree}
)

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind with an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// WithFragment sets the offending fragment and returns e.
func (e *Error) WithFragment(fragment string) *Error {
	e.Fragment = fragment
	return e
}

// WithField sets the offending field and value and returns e.
func (e *Error) WithField(field string, value any) *Error {
	e.Field = field
	e.Value = value
	return e
}

// WithSuggestion sets the suggestion and returns e.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s", e.Kind, e.Message))
	if e.Fragment != "" {
		sb.WriteString(fmt.Sprintf(" (near %q)", e.Fragment))
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	if e.Suggestion != "" {
		sb.WriteString("; ")
		sb.WriteString(e.Suggestion)
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if goerrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	ok := goerrors.As(err, &e)
	return e, ok
}
