package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/cli"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/ast"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/combiner"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/parser"
)

var parseFlags struct {
	tree bool
}

var parseCmd = &cobra.Command{
	Use:   "parse <rule>",
	Short: "Parse a rule and print its tree",
	Long: `Parse a rule string without storing it. Prints the canonical rule text and
the tree in its JSON interchange shape, or as an indented table with --tree.

Examples:
  ruleengine parse "((age > 30 AND department = 'Sales'))"
  ruleengine parse "a = 1 OR b > 2" --tree
  ruleengine parse "a = 1" -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

var combineCmd = &cobra.Command{
	Use:   "combine <rule> <rule>...",
	Short: "Combine rules without storing them",
	Long: `Combine rule strings with their dominant connective: the connective that
appears most often across all rules, OR on a tie.

Example:
  ruleengine combine "age > 30 AND department = 'Sales'" "salary > 50000 OR experience > 5"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCombine,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(combineCmd)

	parseCmd.Flags().BoolVar(&parseFlags.tree, "tree", false, "render the tree as an indented table")
	combineCmd.Flags().BoolVar(&parseFlags.tree, "tree", false, "render the combined tree as an indented table")
}

// parseResult is the JSON shape of parse and combine output.
type parseResult struct {
	RuleString string   `json:"rule_string"`
	Connective string   `json:"connective,omitempty"`
	AST        ast.Tree `json:"rule_ast"`
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := outputFormat()
	if err != nil {
		return err
	}

	res, err := newParser(cfg).ParseString(strings.Join(args, " "))
	if err != nil {
		return cli.NewCommandError("parse", err)
	}
	return printTree(cmd.OutOrStdout(), format, parseResult{RuleString: res.RuleString, AST: ast.Tree{Root: res.AST}})
}

func runCombine(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := outputFormat()
	if err != nil {
		return err
	}

	res, err := combineStrings(newParser(cfg), args)
	if err != nil {
		return cli.NewCommandError("combine", err)
	}
	return printTree(cmd.OutOrStdout(), format, parseResult{
		RuleString: res.RuleString,
		Connective: string(res.Connective),
		AST:        ast.Tree{Root: res.AST},
	})
}

// combineStrings parses each rule and combines the canonical forms.
func combineStrings(p *parser.Parser, raw []string) (*combiner.Result, error) {
	trees := make([]ast.Node, len(raw))
	texts := make([]string, len(raw))
	for i, r := range raw {
		res, err := p.ParseString(r)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		trees[i] = res.AST
		texts[i] = res.RuleString
	}
	return combiner.Combine(trees, texts)
}

func printTree(w io.Writer, format cli.OutputFormat, res parseResult) error {
	if format == cli.FormatJSON {
		return cli.WriteJSON(w, res)
	}

	fmt.Fprintf(w, "Rule: %s\n", res.RuleString)
	if res.Connective != "" {
		fmt.Fprintf(w, "Connective: %s\n", res.Connective)
	}
	if parseFlags.tree {
		return cli.RenderTree(w, res.AST.Root)
	}
	data, err := ast.MarshalIndent(res.AST.Root, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
