package ast

// Walk visits every node of the tree rooted at n in pre-order (node, left,
// right). Traversal stops early when fn returns false. Nil children are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil {
		return
	}
	stack := []Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(cur) {
			return
		}
		if op, ok := cur.(*Operator); ok {
			if op.Right != nil {
				stack = append(stack, op.Right)
			}
			if op.Left != nil {
				stack = append(stack, op.Left)
			}
		}
	}
}

// Operands returns the leaf conditions of the tree in left-to-right order.
func Operands(n Node) []*Operand {
	var out []*Operand
	Walk(n, func(node Node) bool {
		if o, ok := node.(*Operand); ok {
			out = append(out, o)
		}
		return true
	})
	return out
}

// Fields returns the distinct field names referenced by the tree, in first-use order.
func Fields(n Node) []string {
	seen := make(map[string]bool)
	var out []string
	for _, o := range Operands(n) {
		if !seen[o.Field] {
			seen[o.Field] = true
			out = append(out, o.Field)
		}
	}
	return out
}

// Depth returns the number of nodes on the longest root-to-leaf path.
func Depth(n Node) int {
	if n == nil {
		return 0
	}
	type item struct {
		node  Node
		level int
	}
	deepest := 0
	stack := []item{{n, 1}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if it.level > deepest {
			deepest = it.level
		}
		if op, ok := it.node.(*Operator); ok {
			if op.Left != nil {
				stack = append(stack, item{op.Left, it.level + 1})
			}
			if op.Right != nil {
				stack = append(stack, item{op.Right, it.level + 1})
			}
		}
	}
	return deepest
}
