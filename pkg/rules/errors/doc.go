// Package errors provides the typed error values returned by the rule engine.
//
// Every failure of the tokenizer, parser, evaluator, or combiner is an *Error
// carrying a Kind, a message, and the offending fragment, field, or value.
// Nothing in the engine panics or substitutes a default result for an error.
//
// # Kinds
//
// Parse time: KindUnbalancedParentheses, KindUnmatchedCloseParen,
// KindInvalidConditionFormat, KindEmptyOrMalformedExpression
//
// Evaluation time: KindMalformedOperand, KindFieldNotFound, KindTypeMismatch,
// KindUnsupportedOperator
//
// Combination time: KindEmptyRuleSet, KindRuleStringMismatch
//
// Decoding stored trees: KindInvalidTree
//
// # Matching
//
// Each kind has a sentinel that matches any error of that kind:
//
//	result, err := evaluator.Evaluate(tree, record)
//	if errors.Is(err, rerrors.ErrFieldNotFound) {
//	    // ask the caller for the missing field
//	}
//
// KindOf extracts the kind from any error chain:
//
//	switch rerrors.KindOf(err) {
//	case rerrors.KindTypeMismatch:
//	    ...
//	}
//
// # Suggestions
//
// FieldNotFound errors carry a suggestion computed with Levenshtein distance
// against the fields that are present in the record:
//
//	SuggestField("salery", []string{"salary", "age"})
//	// Returns: "Did you mean 'salary'?"
package errors
