package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/cli"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/evaluator"
)

var evalFlags struct {
	data     string
	dataFile string
}

var evalCmd = &cobra.Command{
	Use:   "eval <rule>",
	Short: "Evaluate a rule against a JSON record",
	Long: `Parse a rule and evaluate it against one JSON object. Numbers keep full
precision; string comparisons use the field's text form.

Examples:
  ruleengine eval "age > 30 AND department = 'Sales'" --data '{"age": 35, "department": "Sales"}'
  ruleengine eval "salary > 50000" --data-file record.json
  cat record.json | ruleengine eval "salary > 50000" --data-file -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVarP(&evalFlags.data, "data", "d", "", "JSON record")
	evalCmd.Flags().StringVar(&evalFlags.dataFile, "data-file", "", `file holding the JSON record ("-" for stdin)`)
}

// evalResult is the JSON shape of evaluation output.
type evalResult struct {
	RuleString string `json:"rule_string,omitempty"`
	Result     bool   `json:"result"`
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := outputFormat()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr(), nil)
	if err != nil {
		return err
	}

	record, err := readRecord(cmd.InOrStdin())
	if err != nil {
		return err
	}

	res, err := newParser(cfg).ParseString(strings.Join(args, " "))
	if err != nil {
		return cli.NewCommandError("eval", err)
	}
	ok, err := evaluator.New(logger).Evaluate(res.AST, record)
	if err != nil {
		return cli.NewCommandError("eval", err)
	}
	return printResult(cmd.OutOrStdout(), format, evalResult{RuleString: res.RuleString, Result: ok})
}

// readRecord decodes the record given by --data or --data-file.
func readRecord(stdin io.Reader) (evaluator.Record, error) {
	var data []byte
	switch {
	case evalFlags.data != "" && evalFlags.dataFile != "":
		return nil, cli.NewConfigError("data", "use either --data or --data-file, not both")
	case evalFlags.data != "":
		data = []byte(evalFlags.data)
	case evalFlags.dataFile == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read record from stdin: %w", err)
		}
		data = b
	case evalFlags.dataFile != "":
		b, err := os.ReadFile(evalFlags.dataFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		data = b
	default:
		return nil, cli.NewConfigError("data", "a record is required (--data or --data-file)")
	}

	record, err := evaluator.DecodeRecord(data)
	if err != nil {
		return nil, cli.NewConfigError("data", err.Error())
	}
	return record, nil
}

func printResult(w io.Writer, format cli.OutputFormat, res evalResult) error {
	if format == cli.FormatJSON {
		return cli.WriteJSON(w, res)
	}
	_, err := fmt.Fprintln(w, res.Result)
	return err
}
