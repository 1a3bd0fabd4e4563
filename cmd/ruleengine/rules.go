package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/cli"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/service"
)

var rulesFlags struct {
	tree bool
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage rules in the configured store",
	Long: `Create, list, inspect, delete, combine and evaluate rules held in the store
named by storage.backend. With the default in-memory backend nothing persists
between invocations; configure the sqlite backend for a durable store.

Examples:
  ruleengine rules create senior_sales "age > 30 AND department = 'Sales'" -c config.yaml
  ruleengine rules list -c config.yaml
  ruleengine rules evaluate <id> --data '{"age": 35, "department": "Sales"}' -c config.yaml`,
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, "rules list", func(ctx context.Context, svc *service.Service) error {
			rules, err := svc.ListRules(ctx)
			if err != nil {
				return err
			}
			format, err := outputFormat()
			if err != nil {
				return err
			}
			return cli.RenderRules(cmd.OutOrStdout(), rules, format)
		})
	},
}

var rulesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a stored rule and its tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, "rules get", func(ctx context.Context, svc *service.Service) error {
			rule, err := svc.GetRule(ctx, args[0])
			if err != nil {
				return err
			}
			format, err := outputFormat()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == cli.FormatJSON {
				return cli.WriteJSON(out, cli.NewRuleView(rule, true))
			}
			fmt.Fprintf(out, "ID:   %s\nName: %s\nRule: %s\n", rule.ID, rule.Name, rule.RuleString)
			if rulesFlags.tree {
				return cli.RenderTree(out, rule.AST)
			}
			return nil
		})
	},
}

var rulesCreateCmd = &cobra.Command{
	Use:   "create <name> <rule>",
	Short: "Parse and store a rule",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, "rules create", func(ctx context.Context, svc *service.Service) error {
			rule, err := svc.CreateRule(ctx, args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return printRule(cmd, "Created", rule.ID, rule.Name, rule.RuleString)
		})
	},
}

var rulesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, "rules delete", func(ctx context.Context, svc *service.Service) error {
			if err := svc.DeleteRule(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		})
	},
}

var rulesCombineCmd = &cobra.Command{
	Use:   "combine <name> <id> [id...]",
	Short: "Combine stored rules into a new stored rule",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, "rules combine", func(ctx context.Context, svc *service.Service) error {
			res, err := svc.CombineRules(ctx, args[0], args[1:])
			if err != nil {
				return err
			}
			return printRule(cmd, "Combined ("+string(res.Connective)+")", res.Rule.ID, res.Rule.Name, res.Rule.RuleString)
		})
	},
}

var rulesEvaluateCmd = &cobra.Command{
	Use:   "evaluate <id>",
	Short: "Evaluate a stored rule against a JSON record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		record, err := readRecord(cmd.InOrStdin())
		if err != nil {
			return err
		}
		return withService(cmd, "rules evaluate", func(ctx context.Context, svc *service.Service) error {
			ok, err := svc.EvaluateRule(ctx, args[0], record)
			if err != nil {
				return err
			}
			format, err := outputFormat()
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), format, evalResult{Result: ok})
		})
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd, rulesGetCmd, rulesCreateCmd, rulesDeleteCmd, rulesCombineCmd, rulesEvaluateCmd)

	rulesGetCmd.Flags().BoolVar(&rulesFlags.tree, "tree", false, "render the tree as an indented table")
	rulesEvaluateCmd.Flags().StringVarP(&evalFlags.data, "data", "d", "", "JSON record")
	rulesEvaluateCmd.Flags().StringVar(&evalFlags.dataFile, "data-file", "", `file holding the JSON record ("-" for stdin)`)
}

// withService opens the configured store, runs fn and closes the store.
func withService(cmd *cobra.Command, name string, fn func(context.Context, *service.Service) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr(), nil)
	if err != nil {
		return err
	}

	st, _, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := service.New(st, service.Options{Parser: newParser(cfg), Logger: logger})
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return cli.NewCommandError(name, fn(ctx, svc))
}

func printRule(cmd *cobra.Command, verb, id, name, ruleString string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if format == cli.FormatJSON {
		return cli.WriteJSON(out, map[string]string{"id": id, "rule_name": name, "rule_string": ruleString})
	}
	_, err = fmt.Fprintf(out, "%s %s %q: %s\n", verb, id, name, ruleString)
	return err
}
