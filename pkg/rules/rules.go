package rules

import (
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/ast"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/combiner"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/evaluator"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/parser"
)

// Record is an input record for evaluation.
type Record = evaluator.Record

// Parse parses rule text with the default parser limits.
func Parse(ruleString string) (*parser.Result, error) {
	return parser.NewParser().ParseString(ruleString)
}

// Evaluate reports whether record satisfies tree.
func Evaluate(tree ast.Node, record Record) (bool, error) {
	return evaluator.New(nil).Evaluate(tree, record)
}

// Combine merges trees with their dominant connective.
func Combine(trees []ast.Node, ruleStrings []string) (*combiner.Result, error) {
	return combiner.Combine(trees, ruleStrings)
}

// ParseAndEvaluate parses rule text and evaluates it against record.
func ParseAndEvaluate(ruleString string, record Record) (bool, error) {
	res, err := Parse(ruleString)
	if err != nil {
		return false, err
	}
	return Evaluate(res.AST, record)
}
