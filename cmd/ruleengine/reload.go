package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/config"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/telemetry/logging"
)

// reloader re-reads the configuration file on SIGHUP and applies the parts a
// running server can change: the log level and the rule definition file.
// Listener, storage and telemetry settings need a restart.
type reloader struct {
	path   string
	level  *slog.LevelVar
	resync func(ctx context.Context, cfg *config.Config) error
	logger *slog.Logger
}

// reload swaps in the configuration at r.path. A failed load or validation
// leaves the current configuration and log level untouched.
func (r *reloader) reload(ctx context.Context) error {
	if err := config.ReloadConfig(r.path); err != nil {
		return err
	}

	next := *config.MustGetConfig()
	applyServeOverrides(&next)
	if err := config.Validate(&next); err != nil {
		return fmt.Errorf("invalid configuration after flag overrides: %w", err)
	}
	level, err := logging.ParseLevel(next.Telemetry.Logging.Level)
	if err != nil {
		return err
	}
	config.SetConfig(&next)
	r.level.Set(level)

	if next.Ruleset.Path != "" && r.resync != nil {
		if err := r.resync(ctx, &next); err != nil {
			return fmt.Errorf("failed to resync ruleset: %w", err)
		}
	}

	r.logger.Info("configuration reloaded",
		"path", r.path,
		"log_level", level.String(),
		"ruleset", next.Ruleset.Path,
	)
	return nil
}

// run reloads once per received signal until ctx ends.
func (r *reloader) run(ctx context.Context, signals <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-signals:
			if err := r.reload(ctx); err != nil {
				r.logger.Error("configuration reload failed", "path", r.path, "error", err)
			}
		}
	}
}
