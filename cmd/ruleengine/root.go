package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/cli"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/config"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/parser"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	output  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ruleengine",
	Short: "Rule engine for boolean eligibility rules",
	Long: `Ruleengine parses rule strings into abstract syntax trees, stores them,
combines several rules into one and evaluates rules against JSON records.

Rules compare record fields with literals and join conditions with AND/OR:

  (age > 30 AND department = 'Sales') OR (salary > 50000 AND experience > 5)

Run "ruleengine serve" for the HTTP API, or use the subcommands directly.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return cli.ExitCode(err)
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: built-in defaults)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format: table, json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadConfig loads the configuration named by --config with environment
// overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("config", err.Error())
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}

// newLogger builds the process logger from the logging section. A non-nil
// level lets the caller change the level later.
func newLogger(cfg *config.Config, w io.Writer, level *slog.LevelVar) (*slog.Logger, error) {
	logger, err := logging.New(logging.Config{
		Level:      cfg.Telemetry.Logging.Level,
		Format:     cfg.Telemetry.Logging.Format,
		AddSource:  cfg.Telemetry.Logging.AddSource,
		RedactKeys: cfg.Telemetry.Logging.RedactKeys,
		Writer:     w,
		LevelVar:   level,
	})
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	return logger, nil
}

// newParser applies the engine limits.
func newParser(cfg *config.Config) *parser.Parser {
	return parser.NewParser().
		WithMaxLength(cfg.Engine.MaxRuleLength).
		WithMaxDepth(cfg.Engine.MaxDepth)
}

// outputFormat validates --output.
func outputFormat() (cli.OutputFormat, error) {
	return cli.ParseFormat(output)
}
