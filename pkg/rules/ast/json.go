package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	rerrors "github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/errors"
)

// Marshal encodes the tree rooted at n in the interchange shape.
func Marshal(n Node) ([]byte, error) {
	if n == nil {
		return nil, rerrors.New(rerrors.KindInvalidTree, "cannot marshal nil node")
	}

	type item struct {
		node Node
		text string
	}

	var buf bytes.Buffer
	stack := []item{{node: n}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch v := it.node.(type) {
		case nil:
			buf.WriteString(it.text)
		case *Operand:
			value, err := quote(v.Condition())
			if err != nil {
				return nil, err
			}
			buf.WriteString(`{"node_type":"operand","value":`)
			buf.Write(value)
			buf.WriteString(`}`)
		case *Operator:
			if v.Left == nil || v.Right == nil {
				return nil, rerrors.New(rerrors.KindInvalidTree,
					fmt.Sprintf("operator %s is missing a child", v.Connective))
			}
			value, err := quote(string(v.Connective))
			if err != nil {
				return nil, err
			}
			buf.WriteString(`{"node_type":"operator","value":`)
			buf.Write(value)
			buf.WriteString(`,"left":`)
			stack = append(stack,
				item{text: `}`},
				item{node: v.Right},
				item{text: `,"right":`},
				item{node: v.Left},
			)
		default:
			return nil, rerrors.New(rerrors.KindInvalidTree, fmt.Sprintf("unknown node %T", v))
		}
	}
	return buf.Bytes(), nil
}

// quote encodes s as a JSON string without HTML escaping so that comparators
// stay readable in stored trees.
func quote(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalIndent is like Marshal but indents the output. Indenting goes through
// encoding/json and shares its nesting limit.
func MarshalIndent(n Node, prefix, indent string) ([]byte, error) {
	data, err := Marshal(n)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, prefix, indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Unmarshal decodes a tree from the interchange shape.
//
// Operand values must split into exactly three whitespace-separated pieces
// (KindMalformedOperand). Comparators and connectives are not checked here;
// the evaluator rejects unsupported ones when it reaches them.
//
// The input is read as a token stream with an explicit stack of open nodes,
// so each byte is scanned once and depth is not limited by encoding/json.
func Unmarshal(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, invalidEncoding("$", err)
	}
	if tok == nil {
		return nil, rerrors.New(rerrors.KindInvalidTree, "missing node").WithFragment("$")
	}
	if tok != json.Delim('{') {
		return nil, rerrors.New(rerrors.KindInvalidTree, "node must be a JSON object").WithFragment("$")
	}

	var root Node
	stack := []*wireFrame{{path: "$"}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]

		tok, err := dec.Token()
		if err != nil {
			return nil, invalidEncoding(top.path, err)
		}

		if tok == json.Delim('}') {
			node, err := top.build()
			if err != nil {
				return nil, err
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				root = node
				break
			}
			stack[len(stack)-1].setChild(node)
			continue
		}

		key, _ := tok.(string)
		switch key {
		case "node_type", "value":
			var v string
			if err := dec.Decode(&v); err != nil {
				return nil, invalidEncoding(top.path+"."+key, err)
			}
			if key == "node_type" {
				top.nodeType = NodeType(v)
			} else {
				top.value = v
			}

		case "left", "right":
			tok, err := dec.Token()
			if err != nil {
				return nil, invalidEncoding(top.path+"."+key, err)
			}
			switch tok {
			case nil:
			case json.Delim('{'):
				top.pending = key
				stack = append(stack, &wireFrame{path: top.path + "." + key})
			default:
				return nil, rerrors.New(rerrors.KindInvalidTree, "node must be a JSON object").
					WithFragment(top.path + "." + key)
			}

		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, invalidEncoding(top.path, err)
			}
		}
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, rerrors.New(rerrors.KindInvalidTree, "unexpected data after tree").WithFragment("$")
	}
	return root, nil
}

// wireFrame collects the fields of one node while its object is open.
type wireFrame struct {
	path        string
	nodeType    NodeType
	value       string
	left, right Node
	pending     string // "left" or "right" while that child is open
}

func (f *wireFrame) setChild(n Node) {
	if f.pending == "left" {
		f.left = n
	} else {
		f.right = n
	}
	f.pending = ""
}

func (f *wireFrame) build() (Node, error) {
	switch f.nodeType {
	case NodeTypeOperand:
		parts := strings.Fields(f.value)
		if len(parts) != 3 {
			return nil, rerrors.New(rerrors.KindMalformedOperand,
				fmt.Sprintf("condition must have the form 'field comparator literal', got %d part(s)", len(parts))).
				WithFragment(f.value)
		}
		return NewOperand(parts[0], Comparator(parts[1]), parts[2]), nil

	case NodeTypeOperator:
		if f.left == nil {
			return nil, rerrors.New(rerrors.KindInvalidTree, "missing node").WithFragment(f.path + ".left")
		}
		if f.right == nil {
			return nil, rerrors.New(rerrors.KindInvalidTree, "missing node").WithFragment(f.path + ".right")
		}
		return &Operator{Connective: Connective(f.value), Left: f.left, Right: f.right}, nil

	default:
		return nil, rerrors.New(rerrors.KindInvalidTree,
			fmt.Sprintf("unknown node_type %q", f.nodeType)).WithFragment(f.path)
	}
}

func invalidEncoding(path string, err error) error {
	return rerrors.Wrap(rerrors.KindInvalidTree, "invalid node encoding", err).WithFragment(path)
}

// Tree wraps a root node so that it can be embedded in JSON documents.
// encoding/json rejects documents nested deeper than 10000 levels, so an
// embedded Tree is bounded by that; Marshal and Unmarshal are not.
type Tree struct {
	Root Node
}

// MarshalJSON implements json.Marshaler.
func (t Tree) MarshalJSON() ([]byte, error) {
	if t.Root == nil {
		return []byte("null"), nil
	}
	return Marshal(t.Root)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tree) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Root = nil
		return nil
	}
	root, err := Unmarshal(data)
	if err != nil {
		return err
	}
	t.Root = root
	return nil
}

// MarshalJSON implements json.Marshaler using the interchange shape.
func (o *Operand) MarshalJSON() ([]byte, error) { return Marshal(o) }

// MarshalJSON implements json.Marshaler using the interchange shape.
func (o *Operator) MarshalJSON() ([]byte, error) { return Marshal(o) }
