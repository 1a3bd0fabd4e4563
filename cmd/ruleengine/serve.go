package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/cli"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/config"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/parser"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/ruleset"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/server"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/service"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/store"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/telemetry/metrics"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/telemetry/tracing"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the rule HTTP API",
	Long: `Start the HTTP API with the specified configuration.

The server stores rules in the configured backend, loads the rule definition
file when one is configured and exposes health, version and metrics endpoints.

Examples:
  # Start with default config (in-memory store on 127.0.0.1:8080)
  ruleengine serve

  # Start with custom config
  ruleengine serve --config /etc/ruleengine/config.yaml

  # Override listen address
  ruleengine serve --listen 0.0.0.0:8080

  # Validate config without starting server
  ruleengine serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	applyServeOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("flags", err.Error())
	}
	config.SetConfig(cfg)

	level := &slog.LevelVar{}
	logger, err := newLogger(cfg, cmd.ErrOrStderr(), level)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if serveFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	return cli.NewCommandError("serve", serve(ctx, cfg, logger, level))
}

// applyServeOverrides applies command-line flags on top of a loaded
// configuration. It runs again after every reload.
func applyServeOverrides(cfg *config.Config) {
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}
}

// serve wires the components together and blocks until ctx is cancelled.
// SIGHUP reloads the configuration file while serving.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, level *slog.LevelVar) error {
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Telemetry.Tracing.Timeout)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}()

	st, sqliteStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if sqliteStore != nil {
		scheduler := store.NewCheckpointScheduler(
			checkpointRecorder{target: sqliteStore, metrics: collector},
			cfg.Storage.SQLite.CheckpointSchedule,
			logger,
		)
		if err := scheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start checkpoint scheduler: %w", err)
		}
		defer scheduler.Stop()
	}

	p := newParser(cfg)
	svc := service.New(st, service.Options{
		Parser:  p,
		Logger:  logger,
		Metrics: collector,
		Tracer:  tracer,
	})

	if path := cfg.Ruleset.Path; path != "" {
		if err := syncRuleset(ctx, path, p, svc, logger); err != nil {
			return err
		}
		if cfg.Ruleset.Watch {
			stopWatch, err := watchRuleset(ctx, cfg, p, svc, logger)
			if err != nil {
				return err
			}
			defer stopWatch()
		}
	}
	svc.RefreshMetrics(ctx)

	r := &reloader{
		path:   cfgFile,
		level:  level,
		logger: logger,
		resync: func(ctx context.Context, next *config.Config) error {
			return syncRuleset(ctx, next.Ruleset.Path, newParser(next), svc, logger)
		},
	}
	hangups, stopHangups := cli.NotifyReload()
	defer stopHangups()
	go r.run(ctx, hangups)

	srv := server.New(cfg, svc, server.Options{
		Logger:  logger,
		Metrics: collector,
		Tracer:  tracer,
		Build:   server.BuildInfo{Version: Version, Commit: GitCommit, BuildTime: BuildDate},
	})

	logger.Info("rule engine starting",
		"version", Version,
		"storage", cfg.Storage.Backend,
		"metrics", cfg.Telemetry.Metrics.Enabled,
		"tracing", cfg.Telemetry.Tracing.Enabled,
	)
	return srv.Start(ctx)
}

// syncRuleset loads the definition file and stores rules that are missing.
func syncRuleset(ctx context.Context, path string, p *parser.Parser, svc *service.Service, logger *slog.Logger) error {
	set, err := ruleset.Load(path, p)
	if err != nil {
		return err
	}
	res, err := set.Sync(ctx, svc.Store(), logger)
	if err != nil {
		return err
	}
	logger.Info("ruleset synchronized",
		"path", path,
		"created", len(res.Created),
		"skipped", len(res.Skipped),
	)
	svc.RefreshMetrics(ctx)
	return nil
}

// watchRuleset reloads the definition file on change until ctx ends.
func watchRuleset(ctx context.Context, cfg *config.Config, p *parser.Parser, svc *service.Service, logger *slog.Logger) (func(), error) {
	w, err := ruleset.NewWatcher(cfg.Ruleset.Path, cfg.Ruleset.DebounceInterval, logger)
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := w.Watch(ctx, func(ctx context.Context) error {
			return syncRuleset(ctx, cfg.Ruleset.Path, p, svc, logger)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("ruleset watcher exited", "error", err)
		}
	}()

	return func() {
		if err := w.Stop(); err != nil {
			logger.Warn("failed to stop ruleset watcher", "error", err)
		}
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}, nil
}
