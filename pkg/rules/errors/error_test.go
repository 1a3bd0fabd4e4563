package errors

import (
	goerrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Is(t *testing.T) {
	err := New(KindFieldNotFound, `field "salary" not present in input record`).WithField("salary", nil)

	if !goerrors.Is(err, ErrFieldNotFound) {
		t.Error("errors.Is(err, ErrFieldNotFound) = false, want true")
	}
	if goerrors.Is(err, ErrTypeMismatch) {
		t.Error("errors.Is(err, ErrTypeMismatch) = true, want false")
	}

	wrapped := fmt.Errorf("evaluating rule 42: %w", err)
	if !goerrors.Is(wrapped, ErrFieldNotFound) {
		t.Error("errors.Is(wrapped, ErrFieldNotFound) = false, want true")
	}
	if got := KindOf(wrapped); got != KindFieldNotFound {
		t.Errorf("KindOf(wrapped) = %q, want %q", got, KindFieldNotFound)
	}
}

func TestKindOf_NonEngineError(t *testing.T) {
	if got := KindOf(goerrors.New("boom")); got != "" {
		t.Errorf("KindOf() = %q, want empty", got)
	}
	if got := KindOf(nil); got != "" {
		t.Errorf("KindOf(nil) = %q, want empty", got)
	}
}

func TestError_Message(t *testing.T) {
	err := New(KindInvalidConditionFormat, "expected comparator and literal after identifier").
		WithFragment("age").
		WithSuggestion(SuggestComparator())

	msg := err.Error()
	for _, want := range []string{"[invalid_condition_format]", `near "age"`, "Valid comparators"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := goerrors.New("unexpected end of JSON input")
	err := Wrap(KindInvalidTree, "invalid node encoding", cause)

	if !goerrors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if !strings.Contains(err.Error(), cause.Error()) {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
}

func TestKind_Phase(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindUnbalancedParentheses, "parse"},
		{KindUnmatchedCloseParen, "parse"},
		{KindInvalidConditionFormat, "parse"},
		{KindEmptyOrMalformedExpression, "parse"},
		{KindMalformedOperand, "evaluate"},
		{KindFieldNotFound, "evaluate"},
		{KindTypeMismatch, "evaluate"},
		{KindUnsupportedOperator, "evaluate"},
		{KindEmptyRuleSet, "combine"},
		{KindRuleStringMismatch, "combine"},
		{KindInvalidTree, "decode"},
		{Kind("other"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.Phase(); got != tt.want {
				t.Errorf("Phase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSuggestField(t *testing.T) {
	tests := []struct {
		name      string
		unknown   string
		available []string
		want      string
	}{
		{
			name:      "close match",
			unknown:   "salery",
			available: []string{"age", "salary", "department"},
			want:      "Did you mean 'salary'?",
		},
		{
			name:      "no close match lists fields",
			unknown:   "zzzzzzzz",
			available: []string{"department", "age"},
			want:      "Available fields: age, department",
		},
		{
			name:      "empty record",
			unknown:   "age",
			available: nil,
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuggestField(tt.unknown, tt.available); got != tt.want {
				t.Errorf("SuggestField() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"age", "age", 0},
		{"age", "", 3},
		{"kitten", "sitting", 3},
		{"salary", "salery", 1},
	}

	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
