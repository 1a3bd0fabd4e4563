package ast

import (
	"fmt"
	"strings"
)

// NodeType is the discriminator written to the interchange shape.
type NodeType string

const (
	NodeTypeOperand  NodeType = "operand"  // field comparator literal
	NodeTypeOperator NodeType = "operator" // AND / OR over two children
)

// Comparator is the comparison symbol of an operand condition.
type Comparator string

const (
	Eq  Comparator = "="
	Gt  Comparator = ">"
	Lt  Comparator = "<"
	Gte Comparator = ">="
	Lte Comparator = "<="
)

// Comparators lists every comparator the language supports.
var Comparators = []Comparator{Eq, Gt, Lt, Gte, Lte}

// IsValid returns true if c is one of the supported comparators.
func (c Comparator) IsValid() bool {
	switch c {
	case Eq, Gt, Lt, Gte, Lte:
		return true
	}
	return false
}

// IsNumeric returns true if the comparator orders values numerically.
func (c Comparator) IsNumeric() bool {
	return c == Gt || c == Lt || c == Gte || c == Lte
}

// Connective is the logical keyword of an operator node.
type Connective string

const (
	And Connective = "AND"
	Or  Connective = "OR"
)

// IsValid returns true if c is AND or OR.
func (c Connective) IsValid() bool {
	return c == And || c == Or
}

// Node is a node of a rule AST. It is implemented only by *Operand and *Operator.
type Node interface {
	// Type returns the interchange discriminator of the node.
	Type() NodeType

	// String renders the subtree as rule text.
	String() string

	node()
}

// Operand is a leaf condition comparing a record field against a literal.
type Operand struct {
	Field      string     // Record field name
	Comparator Comparator // Comparison symbol
	Literal    string     // Literal as written in the rule, quotes included
}

// NewOperand creates an operand node.
func NewOperand(field string, cmp Comparator, literal string) *Operand {
	return &Operand{Field: field, Comparator: cmp, Literal: literal}
}

// Type returns NodeTypeOperand.
func (o *Operand) Type() NodeType { return NodeTypeOperand }

// Condition returns the "field comparator literal" text stored in the interchange shape.
func (o *Operand) Condition() string {
	return fmt.Sprintf("%s %s %s", o.Field, o.Comparator, o.Literal)
}

// String returns the condition text.
func (o *Operand) String() string { return o.Condition() }

func (o *Operand) node() {}

// Operator joins two subtrees with a logical connective.
type Operator struct {
	Connective Connective // AND or OR
	Left       Node       // Evaluated first
	Right      Node       // Evaluated only when Left does not decide the result
}

// NewOperator creates an operator node owning left and right.
func NewOperator(c Connective, left, right Node) *Operator {
	return &Operator{Connective: c, Left: left, Right: right}
}

// Type returns NodeTypeOperator.
func (o *Operator) Type() NodeType { return NodeTypeOperator }

// String renders the subtree with every operator wrapped in parentheses.
func (o *Operator) String() string {
	var sb strings.Builder
	writeNode(&sb, o)
	return sb.String()
}

func (o *Operator) node() {}

// writeNode renders n without recursion. Operators are emitted as "(left OP right)".
func writeNode(sb *strings.Builder, n Node) {
	type item struct {
		node Node
		text string // emitted verbatim when node is nil
	}
	stack := []item{{node: n}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch v := it.node.(type) {
		case nil:
			sb.WriteString(it.text)
		case *Operand:
			sb.WriteString(v.Condition())
		case *Operator:
			// Pushed in reverse so they pop in reading order.
			stack = append(stack,
				item{text: ")"},
				item{node: v.Right},
				item{text: " " + string(v.Connective) + " "},
				item{node: v.Left},
				item{text: "("},
			)
		}
	}
}

// IsWellFormed returns true if every operator has both children and every
// operand has a non-empty literal.
func IsWellFormed(n Node) bool {
	if n == nil {
		return false
	}
	ok := true
	Walk(n, func(node Node) bool {
		switch v := node.(type) {
		case *Operator:
			if v.Left == nil || v.Right == nil {
				ok = false
			}
		case *Operand:
			if v.Literal == "" {
				ok = false
			}
		}
		return ok
	})
	return ok
}

// Equal reports whether a and b have the same shape and contents.
func Equal(a, b Node) bool {
	type pair struct{ a, b Node }
	stack := []pair{{a, b}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch x := p.a.(type) {
		case nil:
			if p.b != nil {
				return false
			}
		case *Operand:
			y, ok := p.b.(*Operand)
			if !ok || *x != *y {
				return false
			}
		case *Operator:
			y, ok := p.b.(*Operator)
			if !ok || x.Connective != y.Connective {
				return false
			}
			stack = append(stack, pair{x.Left, y.Left}, pair{x.Right, y.Right})
		default:
			return false
		}
	}
	return true
}
