// Package ast provides the Abstract Syntax Tree (AST) for the rule language.
//
// A rule such as
//
//	age > 30 AND (department = 'Sales' OR tenure >= 5)
//
// is represented as a strict binary tree built from two node kinds:
//
// Operand: a leaf condition of the form "field comparator literal"
//
// Operator: an internal node joining two subtrees with AND or OR
//
// Node is a closed sum type: only *Operand and *Operator implement it. Every
// non-root node is owned by exactly one parent and trees never share subtrees,
// except when the combiner wraps existing trees in new Operator nodes.
//
// # Interchange Shape
//
// Trees serialize to a canonical JSON shape used for persistence:
//
//	{"node_type": "operand", "value": "age > 30"}
//
//	{
//	    "node_type": "operator",
//	    "value": "AND",
//	    "left":  {"node_type": "operand", "value": "age > 30"},
//	    "right": {"node_type": "operand", "value": "department = 'Sales'"}
//	}
//
// Use Marshal and Unmarshal (or MarshalIndent) to convert between trees and
// this shape. Both directions walk the tree with an explicit stack, so deeply
// nested rules cannot exhaust the goroutine stack.
package ast
