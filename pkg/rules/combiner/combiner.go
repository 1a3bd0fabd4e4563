// Package combiner merges several rule ASTs into one.
//
// The connective used to join the rules is the one that occurs most often
// across all inputs. AND wins only with a strictly greater count, so ties
// (including rules without any connective) resolve to OR. Rules are folded
// strictly left to right: combining r1, r2, r3 yields ((r1 OP r2) OP r3).
package combiner

import (
	"fmt"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/ast"
	rerrors "github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/errors"
)

// Counts holds connective frequencies over a set of trees.
type Counts struct {
	And int
	Or  int
}

// Dominant returns AND if it occurs strictly more often than OR, otherwise OR.
func (c Counts) Dominant() ast.Connective {
	if c.And > c.Or {
		return ast.And
	}
	return ast.Or
}

// CountConnectives counts AND and OR operator nodes across every tree.
// Connectives other than AND and OR are not counted.
func CountConnectives(trees []ast.Node) Counts {
	var c Counts
	for _, tree := range trees {
		ast.Walk(tree, func(n ast.Node) bool {
			if op, ok := n.(*ast.Operator); ok {
				switch op.Connective {
				case ast.And:
					c.And++
				case ast.Or:
					c.Or++
				}
			}
			return true
		})
	}
	return c
}

// DominantConnective returns the connective used to join trees.
func DominantConnective(trees []ast.Node) ast.Connective {
	return CountConnectives(trees).Dominant()
}

// Result is a combined rule.
type Result struct {
	AST        ast.Node       // Left-leaning chain joining the inputs
	RuleString string         // Text equivalent of AST
	Connective ast.Connective // Connective chosen by majority
	Counts     Counts         // Frequencies the choice was based on
}

// Combine joins trees with their dominant connective. ruleStrings holds the
// original text of each tree, in the same order.
//
// The result references the input trees as its subtrees; they are not copied.
func Combine(trees []ast.Node, ruleStrings []string) (*Result, error) {
	if len(trees) == 0 {
		return nil, rerrors.New(rerrors.KindEmptyRuleSet, "at least one rule is required")
	}
	if len(trees) != len(ruleStrings) {
		return nil, rerrors.New(rerrors.KindRuleStringMismatch,
			fmt.Sprintf("got %d trees but %d rule strings", len(trees), len(ruleStrings)))
	}
	for i, tree := range trees {
		if tree == nil {
			return nil, rerrors.New(rerrors.KindInvalidTree, fmt.Sprintf("rule %d has no tree", i))
		}
	}

	counts := CountConnectives(trees)
	op := counts.Dominant()

	combined := trees[0]
	text := ruleStrings[0]
	for i := 1; i < len(trees); i++ {
		combined = ast.NewOperator(op, combined, trees[i])
		text = fmt.Sprintf("(%s %s (%s))", text, op, ruleStrings[i])
	}

	return &Result{
		AST:        combined,
		RuleString: text,
		Connective: op,
		Counts:     counts,
	}, nil
}
