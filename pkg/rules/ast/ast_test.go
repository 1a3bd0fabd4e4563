package ast

import (
	"testing"
)

func sampleTree() Node {
	// ((age > 30 AND department = 'Sales') OR salary > 50000)
	return NewOperator(Or,
		NewOperator(And,
			NewOperand("age", Gt, "30"),
			NewOperand("department", Eq, "'Sales'"),
		),
		NewOperand("salary", Gt, "50000"),
	)
}

func TestOperator_String(t *testing.T) {
	got := sampleTree().String()
	want := "((age > 30 AND department = 'Sales') OR salary > 50000)"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestOperand_Condition(t *testing.T) {
	o := NewOperand("age", Gte, "18")
	if got := o.Condition(); got != "age >= 18" {
		t.Errorf("Condition() = %q, want %q", got, "age >= 18")
	}
	if o.Type() != NodeTypeOperand {
		t.Errorf("Type() = %q, want %q", o.Type(), NodeTypeOperand)
	}
}

func TestComparator_IsValid(t *testing.T) {
	for _, c := range Comparators {
		if !c.IsValid() {
			t.Errorf("Comparator(%q).IsValid() = false, want true", c)
		}
	}
	for _, c := range []Comparator{"==", "!=", "=>", ""} {
		if c.IsValid() {
			t.Errorf("Comparator(%q).IsValid() = true, want false", c)
		}
	}
	if Eq.IsNumeric() {
		t.Error("Eq.IsNumeric() = true, want false")
	}
	if !Lte.IsNumeric() {
		t.Error("Lte.IsNumeric() = false, want true")
	}
}

func TestWalk_PreOrder(t *testing.T) {
	var got []string
	Walk(sampleTree(), func(n Node) bool {
		switch v := n.(type) {
		case *Operator:
			got = append(got, string(v.Connective))
		case *Operand:
			got = append(got, v.Field)
		}
		return true
	})

	want := []string{"OR", "AND", "age", "department", "salary"}
	if len(got) != len(want) {
		t.Fatalf("Walk visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("visit[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWalk_StopsEarly(t *testing.T) {
	count := 0
	Walk(sampleTree(), func(n Node) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Errorf("visited %d nodes, want 2", count)
	}
}

func TestFieldsAndDepth(t *testing.T) {
	tree := NewOperator(And, NewOperand("age", Gt, "30"), NewOperator(Or,
		NewOperand("age", Lt, "60"), NewOperand("experience", Gt, "5")))

	fields := Fields(tree)
	if len(fields) != 2 || fields[0] != "age" || fields[1] != "experience" {
		t.Errorf("Fields() = %v, want [age experience]", fields)
	}
	if got := len(Operands(tree)); got != 3 {
		t.Errorf("len(Operands()) = %d, want 3", got)
	}
	if got := Depth(tree); got != 3 {
		t.Errorf("Depth() = %d, want 3", got)
	}
	if got := Depth(NewOperand("age", Gt, "1")); got != 1 {
		t.Errorf("Depth(operand) = %d, want 1", got)
	}
	if got := Depth(nil); got != 0 {
		t.Errorf("Depth(nil) = %d, want 0", got)
	}
}

func TestIsWellFormed(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want bool
	}{
		{"nil", nil, false},
		{"operand", NewOperand("age", Gt, "30"), true},
		{"tree", sampleTree(), true},
		{"missing right", NewOperator(And, NewOperand("age", Gt, "30"), nil), false},
		{"empty literal", NewOperand("age", Gt, ""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWellFormed(tt.node); got != tt.want {
				t.Errorf("IsWellFormed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	if !Equal(sampleTree(), sampleTree()) {
		t.Error("Equal(same trees) = false, want true")
	}
	other := NewOperator(And,
		NewOperator(And, NewOperand("age", Gt, "30"), NewOperand("department", Eq, "'Sales'")),
		NewOperand("salary", Gt, "50000"))
	if Equal(sampleTree(), other) {
		t.Error("Equal(different connective) = true, want false")
	}
	if Equal(NewOperand("age", Gt, "30"), sampleTree()) {
		t.Error("Equal(operand, operator) = true, want false")
	}
}

func BenchmarkString(b *testing.B) {
	tree := sampleTree()
	for i := 0; i < b.N; i++ {
		_ = tree.String()
	}
}
