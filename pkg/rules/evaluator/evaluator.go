package evaluator

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/ast"
	rerrors "github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/errors"
)

// Evaluator evaluates rule ASTs against records. It holds no per-call state
// and is safe for concurrent use.
type Evaluator struct {
	logger *slog.Logger
}

// New creates an evaluator. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{logger: logger.With("component", "evaluator")}
}

// frame is a pending operator whose left child has been pushed.
type frame struct {
	op         *ast.Operator
	rightTaken bool
}

// Evaluate reports whether record satisfies the tree rooted at node.
func (e *Evaluator) Evaluate(node ast.Node, record Record) (bool, error) {
	if node == nil {
		return false, rerrors.New(rerrors.KindInvalidTree, "cannot evaluate nil node")
	}

	var (
		stack  []frame
		result bool
		cur    = node
	)

	for {
		// Descend along left children to a leaf.
		for cur != nil {
			switch n := cur.(type) {
			case *ast.Operand:
				matched, err := e.evaluateOperand(n, record)
				if err != nil {
					return false, err
				}
				result = matched
				cur = nil
			case *ast.Operator:
				if n.Left == nil || n.Right == nil {
					return false, rerrors.New(rerrors.KindInvalidTree,
						fmt.Sprintf("operator %s is missing a child", n.Connective))
				}
				stack = append(stack, frame{op: n})
				cur = n.Left
			default:
				return false, rerrors.New(rerrors.KindInvalidTree, fmt.Sprintf("unknown node %T", n))
			}
		}

		// Climb until an operator still needs its right child.
	climb:
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.rightTaken {
				stack = stack[:len(stack)-1]
				continue
			}

			switch top.op.Connective {
			case ast.And:
				if !result {
					stack = stack[:len(stack)-1]
					continue climb
				}
			case ast.Or:
				if result {
					stack = stack[:len(stack)-1]
					continue climb
				}
			default:
				return false, rerrors.New(rerrors.KindUnsupportedOperator,
					fmt.Sprintf("unsupported connective %q", top.op.Connective)).
					WithFragment(string(top.op.Connective))
			}

			top.rightTaken = true
			cur = top.op.Right
			break climb
		}

		if cur == nil {
			return result, nil
		}
	}
}

// evaluateOperand applies one condition to the record.
func (e *Evaluator) evaluateOperand(o *ast.Operand, record Record) (bool, error) {
	condition := o.Condition()
	if len(strings.Fields(condition)) != 3 {
		return false, rerrors.New(rerrors.KindMalformedOperand,
			"condition must have the form 'field comparator literal'").
			WithFragment(condition)
	}

	actual, ok := record[o.Field]
	if !ok {
		return false, rerrors.New(rerrors.KindFieldNotFound,
			fmt.Sprintf("field %q not present in input record", o.Field)).
			WithFragment(condition).
			WithField(o.Field, nil).
			WithSuggestion(rerrors.SuggestField(o.Field, record.Keys()))
	}

	expected := unquote(o.Literal)

	var matched bool
	switch {
	case o.Comparator == ast.Eq:
		matched = toString(actual) == expected

	case o.Comparator.IsNumeric():
		want, err := strconv.ParseInt(expected, 10, 64)
		if err != nil {
			return false, rerrors.Wrap(rerrors.KindTypeMismatch,
				fmt.Sprintf("literal %q is not an integer", o.Literal), err).
				WithFragment(condition).
				WithField(o.Field, o.Literal)
		}
		matched, err = compareNumeric(o.Comparator, actual, want)
		if err != nil {
			return false, rerrors.Wrap(rerrors.KindTypeMismatch,
				fmt.Sprintf("field %q has non-numeric value %v", o.Field, actual), err).
				WithFragment(condition).
				WithField(o.Field, actual)
		}

	default:
		return false, rerrors.New(rerrors.KindUnsupportedOperator,
			fmt.Sprintf("unsupported comparator %q", o.Comparator)).
			WithFragment(condition).
			WithSuggestion(rerrors.SuggestComparator())
	}

	e.logger.Debug("condition evaluated",
		"condition", condition,
		"actual", actual,
		"matched", matched,
	)

	return matched, nil
}
