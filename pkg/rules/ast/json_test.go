package ast

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	rerrors "github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/errors"
)

func TestMarshal_Shape(t *testing.T) {
	tree := NewOperator(And, NewOperand("age", Gt, "30"), NewOperand("department", Eq, "'Sales'"))

	data, err := Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"node_type":"operator","value":"AND",` +
		`"left":{"node_type":"operand","value":"age > 30"},` +
		`"right":{"node_type":"operand","value":"department = 'Sales'"}}`
	if string(data) != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", data, want)
	}
	if !json.Valid(data) {
		t.Error("Marshal() produced invalid JSON")
	}
}

func TestMarshal_OperandHasNoChildren(t *testing.T) {
	data, err := Marshal(NewOperand("age", Lt, "20"))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"node_type":"operand","value":"age < 20"}` {
		t.Errorf("Marshal() = %s", data)
	}
}

func TestMarshal_Errors(t *testing.T) {
	if _, err := Marshal(nil); !errors.Is(err, rerrors.ErrInvalidTree) {
		t.Errorf("Marshal(nil) error = %v, want InvalidTree", err)
	}
	if _, err := Marshal(NewOperator(Or, NewOperand("a", Eq, "1"), nil)); !errors.Is(err, rerrors.ErrInvalidTree) {
		t.Errorf("Marshal(missing child) error = %v, want InvalidTree", err)
	}
}

func TestRoundTrip(t *testing.T) {
	trees := []Node{
		NewOperand("age", Gt, "30"),
		sampleTree(),
		NewOperator(Or, NewOperand("age", Gt, "30"), NewOperator(And,
			NewOperand("age", Lt, "20"), NewOperand("name", Eq, "'bob'"))),
	}

	for _, tree := range trees {
		t.Run(tree.String(), func(t *testing.T) {
			data, err := Marshal(tree)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			got, err := Unmarshal(data)
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !Equal(got, tree) {
				t.Errorf("round trip = %s, want %s", got, tree)
			}
		})
	}
}

func TestRoundTrip_Deep(t *testing.T) {
	var tree Node = NewOperand("f0", Eq, "0")
	for i := 1; i < 1000; i++ {
		tree = NewOperator(And, tree, NewOperand("f", Eq, "1"))
	}

	data, err := Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if Depth(got) != 1000 {
		t.Errorf("Depth() = %d, want 1000", Depth(got))
	}
}

func TestRoundTrip_BeyondEncodingJSONDepth(t *testing.T) {
	var tree Node = NewOperand("f0", Eq, "0")
	for i := 1; i < 20000; i++ {
		tree = NewOperator(Or, tree, NewOperand("f", Eq, "1"))
	}

	data, err := Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if Depth(got) != 20000 {
		t.Errorf("Depth() = %d, want 20000", Depth(got))
	}
}

func TestUnmarshal_FieldOrder(t *testing.T) {
	data := `{"left":{"value":"a = 1","node_type":"operand"},"extra":[1,{"x":2}],` +
		`"right":{"node_type":"operand","value":"b = 2"},"value":"OR","node_type":"operator"}`
	n, err := Unmarshal([]byte(data))
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got := n.String(); got != "(a = 1 OR b = 2)" {
		t.Errorf("String() = %q, want %q", got, "(a = 1 OR b = 2)")
	}
}

func TestUnmarshal_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		kind rerrors.Kind
	}{
		{"null", `null`, rerrors.KindInvalidTree},
		{"not json", `{`, rerrors.KindInvalidTree},
		{"unknown type", `{"node_type":"leaf","value":"x"}`, rerrors.KindInvalidTree},
		{"missing right", `{"node_type":"operator","value":"AND","left":{"node_type":"operand","value":"a = 1"}}`, rerrors.KindInvalidTree},
		{"null left", `{"node_type":"operator","value":"AND","left":null,"right":{"node_type":"operand","value":"a = 1"}}`, rerrors.KindInvalidTree},
		{"child not object", `{"node_type":"operator","value":"AND","left":"a = 1","right":{"node_type":"operand","value":"a = 1"}}`, rerrors.KindInvalidTree},
		{"value not string", `{"node_type":"operand","value":7}`, rerrors.KindInvalidTree},
		{"trailing data", `{"node_type":"operand","value":"a = 1"} {}`, rerrors.KindInvalidTree},
		{"array", `[]`, rerrors.KindInvalidTree},
		{"two part operand", `{"node_type":"operand","value":"age >"}`, rerrors.KindMalformedOperand},
		{"four part operand", `{"node_type":"operand","value":"a = b c"}`, rerrors.KindMalformedOperand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data))
			if err == nil {
				t.Fatal("Unmarshal() error = nil, want error")
			}
			if got := rerrors.KindOf(err); got != tt.kind {
				t.Errorf("KindOf() = %q, want %q (err: %v)", got, tt.kind, err)
			}
		})
	}
}

func TestUnmarshal_KeepsUnknownConnective(t *testing.T) {
	data := `{"node_type":"operator","value":"XOR",` +
		`"left":{"node_type":"operand","value":"a = 1"},"right":{"node_type":"operand","value":"b = 2"}}`
	n, err := Unmarshal([]byte(data))
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	op, ok := n.(*Operator)
	if !ok {
		t.Fatalf("Unmarshal() = %T, want *Operator", n)
	}
	if op.Connective != "XOR" {
		t.Errorf("Connective = %q, want XOR", op.Connective)
	}
}

func TestTree_JSON(t *testing.T) {
	type doc struct {
		ID   string `json:"id"`
		Tree Tree   `json:"ast"`
	}

	in := doc{ID: "r1", Tree: Tree{Root: sampleTree()}}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"node_type":"operator"`) {
		t.Errorf("json.Marshal() = %s, missing interchange shape", data)
	}

	var out doc
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if !Equal(out.Tree.Root, in.Tree.Root) {
		t.Errorf("decoded tree = %s, want %s", out.Tree.Root, in.Tree.Root)
	}

	var empty doc
	if err := json.Unmarshal([]byte(`{"id":"x","ast":null}`), &empty); err != nil {
		t.Fatalf("json.Unmarshal(null) error = %v", err)
	}
	if empty.Tree.Root != nil {
		t.Errorf("Root = %v, want nil", empty.Tree.Root)
	}
}

func TestMarshalIndent(t *testing.T) {
	data, err := MarshalIndent(NewOperand("age", Gt, "30"), "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent() error = %v", err)
	}
	if !strings.Contains(string(data), "\n  \"node_type\": \"operand\"") {
		t.Errorf("MarshalIndent() = %s", data)
	}
}
