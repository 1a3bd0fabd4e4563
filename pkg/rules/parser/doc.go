// Package parser turns rule text into an AST.
//
// Parsing runs in three stages:
//
//  1. Canonicalize pads symbols with spaces, checks bracket balance, and
//     collapses parenthesis pairs that directly wrap another pair.
//  2. Tokenize scans the canonical text into parentheses, words,
//     connectives (AND, OR), and comparators (=, >, <, >=, <=). Any other
//     non-space character is an InvalidConditionFormat error.
//  3. Parser.Parse builds the tree with an explicit stack. Each ")" folds
//     its group left to right; the remaining stack is folded the same way.
//
// # Precedence
//
// AND and OR have equal precedence and associate to the left outside of
// parentheses:
//
//	age > 30 AND dept = 'Sales' OR tenure >= 5
//	// parses as ((age > 30 AND dept = 'Sales') OR tenure >= 5)
//
// Stored trees depend on this grouping, so it must not change.
//
// # Basic Usage
//
//	p := parser.NewParser()
//	res, err := p.ParseString("age > 30 AND (department = 'Sales' OR tenure >= 5)")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.RuleString) // canonical text
//	fmt.Println(res.AST)        // fully parenthesized tree
//
// # Limits
//
// WithMaxLength bounds the raw rule length and WithMaxDepth bounds
// parenthesis nesting. Both fail with KindEmptyOrMalformedExpression.
package parser
