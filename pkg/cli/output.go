package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/ast"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/store"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatTable renders a go-pretty table (default).
	FormatTable OutputFormat = "table"
	// FormatJSON is indented JSON output.
	FormatJSON OutputFormat = "json"
)

// maxRuleColumnWidth wraps long rule strings in tables.
const maxRuleColumnWidth = 60

// ParseFormat validates an --output flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatTable, FormatJSON:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", NewConfigError("output", fmt.Sprintf("unknown format %q (want table or json)", s))
	}
}

// WriteJSON writes v as indented JSON without HTML escaping, so comparators
// such as ">=" stay readable.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// RuleView is the JSON shape of a stored rule in CLI output.
type RuleView struct {
	ID         string    `json:"id"`
	Name       string    `json:"rule_name"`
	RuleString string    `json:"rule_string"`
	AST        *ast.Tree `json:"rule_ast,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewRuleView converts a stored rule. The tree is included when withAST is set.
func NewRuleView(rule *store.Rule, withAST bool) RuleView {
	v := RuleView{
		ID:         rule.ID,
		Name:       rule.Name,
		RuleString: rule.RuleString,
		CreatedAt:  rule.CreatedAt,
	}
	if withAST && rule.AST != nil {
		v.AST = &ast.Tree{Root: rule.AST}
	}
	return v
}

// RenderRules writes rules as a table or JSON array.
func RenderRules(w io.Writer, rules []*store.Rule, format OutputFormat) error {
	if format == FormatJSON {
		views := make([]RuleView, 0, len(rules))
		for _, r := range rules {
			views = append(views, NewRuleView(r, false))
		}
		return WriteJSON(w, views)
	}

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"ID", "Name", "Rule", "Created"})
	wrapped := false
	for _, r := range rules {
		if len(r.RuleString) > maxRuleColumnWidth {
			wrapped = true
		}
		tw.AppendRow(table.Row{r.ID, r.Name, r.RuleString, r.CreatedAt.Format(time.RFC3339)})
	}
	tw.AppendFooter(table.Row{"", "", fmt.Sprintf("%d rule(s)", len(rules)), ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: maxRuleColumnWidth},
	})

	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	// Only separate rows when a rule wraps onto several lines.
	style.Options.SeparateRows = wrapped
	tw.SetStyle(style)

	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

// RenderTree writes the tree one node per row, children indented under
// their operator, left before right.
func RenderTree(w io.Writer, root ast.Node) error {
	if root == nil {
		return fmt.Errorf("cannot render empty tree")
	}

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Node", "Type", "Depth"})

	type item struct {
		node  ast.Node
		depth int
	}
	stack := []item{{node: root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		indent := strings.Repeat("  ", it.depth)
		switch n := it.node.(type) {
		case *ast.Operator:
			tw.AppendRow(table.Row{indent + string(n.Connective), "operator", it.depth})
			stack = append(stack, item{n.Right, it.depth + 1}, item{n.Left, it.depth + 1})
		case *ast.Operand:
			tw.AppendRow(table.Row{indent + n.Condition(), "operand", it.depth})
		default:
			return fmt.Errorf("unknown node %T", n)
		}
	}

	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)

	_, err := fmt.Fprintln(w, tw.Render())
	return err
}
