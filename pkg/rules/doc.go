// Package rules is the entry point to the rule language.
//
// A rule is boolean text over record fields:
//
//	age > 30 AND (department = 'Sales' OR tenure >= 5)
//
// Conditions have the form "field comparator literal" with comparators
// =, >, <, >= and <=. Conditions are joined with AND and OR, which have equal
// precedence and associate left to right; parentheses group.
//
// # Architecture
//
// The package is organized into subpackages:
//
// - ast: tree types and the JSON interchange shape
// - parser: normalization, tokenization, and stack-based parsing
// - evaluator: short-circuit evaluation against a record
// - combiner: majority-connective merging of several rules
// - errors: typed errors with offending fragments and suggestions
//
// # Basic Usage
//
//	res, err := rules.Parse("age > 30 AND department = 'Sales'")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ok, err := rules.Evaluate(res.AST, rules.Record{"age": 35, "department": "Sales"})
//	// ok == true
//
//	merged, err := rules.Combine([]ast.Node{a, b}, []string{"age > 30", "age < 20"})
//	// merged.RuleString == "(age > 30 OR (age < 20))"
package rules
