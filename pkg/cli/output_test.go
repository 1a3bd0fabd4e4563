package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/ast"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/store"
)

func sampleRules() []*store.Rule {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return []*store.Rule{
		{
			ID:         "id-1",
			Name:       "adults",
			RuleString: "age >= 18",
			AST:        ast.NewOperand("age", ast.Gte, "18"),
			CreatedAt:  created,
		},
		{
			ID:         "id-2",
			Name:       "sales",
			RuleString: "department = 'Sales' AND age > 30",
			AST: ast.NewOperator(ast.And,
				ast.NewOperand("department", ast.Eq, "'Sales'"),
				ast.NewOperand("age", ast.Gt, "30")),
			CreatedAt: created,
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteJSON_NoHTMLEscape(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteJSON(buf, map[string]string{"rule": "a >= 1"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"a >= 1"`) {
		t.Errorf("WriteJSON() = %s, want unescaped comparator", buf.String())
	}
}

func TestRenderRules_Table(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := RenderRules(buf, sampleRules(), FormatTable); err != nil {
		t.Fatalf("RenderRules() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"ID", "Name", "adults", "department = 'Sales' AND age > 30", "2 rule(s)", "2024-01-02T03:04:05Z"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderRules_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := RenderRules(buf, sampleRules(), FormatJSON); err != nil {
		t.Fatalf("RenderRules() error = %v", err)
	}

	var views []RuleView
	if err := json.Unmarshal(buf.Bytes(), &views); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("len(views) = %d, want 2", len(views))
	}
	if views[1].Name != "sales" || views[1].AST != nil {
		t.Errorf("views[1] = %+v, want sales without tree", views[1])
	}
}

func TestRenderRules_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := RenderRules(buf, nil, FormatJSON); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("RenderRules(nil) = %q, want []", buf.String())
	}
}

func TestNewRuleView_WithAST(t *testing.T) {
	v := NewRuleView(sampleRules()[1], true)
	if v.AST == nil || v.AST.Root.String() != "(department = 'Sales' AND age > 30)" {
		t.Errorf("AST = %v, want combined tree", v.AST)
	}
}

func TestRenderTree(t *testing.T) {
	root := ast.NewOperator(ast.Or,
		ast.NewOperator(ast.And,
			ast.NewOperand("age", ast.Gt, "30"),
			ast.NewOperand("department", ast.Eq, "'Sales'")),
		ast.NewOperand("salary", ast.Gt, "50000"))

	buf := &bytes.Buffer{}
	if err := RenderTree(buf, root); err != nil {
		t.Fatalf("RenderTree() error = %v", err)
	}

	out := buf.String()
	order := []string{"OR", "  AND", "    age > 30", "    department = 'Sales'", "  salary > 50000"}
	last := -1
	for _, want := range order {
		idx := strings.Index(out, want)
		if idx < 0 {
			t.Fatalf("tree output missing %q:\n%s", want, out)
		}
		if idx < last {
			t.Errorf("%q rendered out of order:\n%s", want, out)
		}
		last = idx
	}
}

func TestRenderTree_Nil(t *testing.T) {
	if err := RenderTree(&bytes.Buffer{}, nil); err == nil {
		t.Error("RenderTree(nil) succeeded, want error")
	}
}
