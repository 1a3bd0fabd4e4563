// Package evaluator decides whether an input record satisfies a rule AST.
//
// AND and OR short-circuit: the right subtree is not visited when the left
// one already decides the result, so errors it would raise are never seen.
// Evaluation uses an explicit stack and does not recurse.
//
// Comparators >, <, >= and <= parse the literal as an integer and require a
// numeric record value. = compares the record value's string form with the
// literal after surrounding quotes are stripped.
//
//	e := evaluator.New(logger)
//	ok, err := e.Evaluate(tree, evaluator.Record{"age": 35, "department": "Sales"})
package evaluator
