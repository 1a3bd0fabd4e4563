package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/cli"
	rerrors "github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/errors"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/parser"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/ruleset"
)

var lintCmd = &cobra.Command{
	Use:   "lint <file>...",
	Short: "Validate rule definition files",
	Long: `Validate rule definition files without storing anything.

Every entry is parsed; all problems in a file are reported together with
the entry index and name.

Examples:
  # Lint a file
  ruleengine lint rules.yaml

  # JSON output for CI/CD
  ruleengine lint rules.yaml -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: lintRulesets,
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

// lintProblem is one invalid entry in JSON output.
type lintProblem struct {
	Index   int    `json:"index"`
	Name    string `json:"name,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// lintReport is the JSON shape of one linted file.
type lintReport struct {
	File     string        `json:"file"`
	Valid    bool          `json:"valid"`
	Rules    int           `json:"rules"`
	Problems []lintProblem `json:"problems,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func lintRulesets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := outputFormat()
	if err != nil {
		return err
	}

	p := newParser(cfg)
	reports := make([]lintReport, 0, len(args))
	invalid := 0
	for _, file := range args {
		report := lintFile(file, p)
		if !report.Valid {
			invalid++
		}
		reports = append(reports, report)
	}

	out := cmd.OutOrStdout()
	if format == cli.FormatJSON {
		if err := cli.WriteJSON(out, reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			switch {
			case r.Valid:
				fmt.Fprintf(out, "✓ %s: %d rule(s) valid\n", r.File, r.Rules)
			case r.Error != "":
				fmt.Fprintf(out, "✗ %s: %s\n", r.File, r.Error)
			default:
				fmt.Fprintf(out, "✗ %s: %d invalid rule(s)\n", r.File, len(r.Problems))
				for _, pr := range r.Problems {
					fmt.Fprintf(out, "  rules[%d] %s: %s\n", pr.Index, pr.Name, pr.Message)
				}
			}
		}
	}

	if invalid > 0 {
		return cli.NewCommandError("lint", fmt.Errorf("%d of %d file(s) invalid", invalid, len(args)))
	}
	return nil
}

// lintFile loads one file and turns its problems into a report.
func lintFile(file string, p *parser.Parser) lintReport {
	report := lintReport{File: file}

	set, err := ruleset.Load(file, p)
	if err == nil {
		report.Valid = true
		report.Rules = len(set.Rules)
		return report
	}

	var loadErr *ruleset.LoadError
	if !errors.As(err, &loadErr) {
		report.Error = err.Error()
		return report
	}
	for _, e := range loadErr.Errors {
		report.Problems = append(report.Problems, lintProblem{
			Index:   e.Index,
			Name:    e.Name,
			Kind:    string(rerrors.KindOf(e.Err)),
			Message: e.Err.Error(),
		})
	}
	return report
}
