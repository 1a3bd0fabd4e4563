package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/cli"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/config"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/store"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/telemetry/metrics"
)

// openStore creates the configured rule store. The SQLite store is also
// returned on its own so callers can schedule checkpoints.
func openStore(cfg *config.Config, logger *slog.Logger) (store.Store, *store.SQLiteStore, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return store.NewMemoryStore(), nil, nil
	case "sqlite":
		sc := cfg.Storage.SQLite
		st, err := store.NewSQLiteStore(&store.SQLiteConfig{
			Path:         sc.Path,
			Driver:       sc.Driver,
			MaxOpenConns: sc.MaxOpenConns,
			BusyTimeout:  sc.BusyTimeout,
			Logger:       logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open SQLite store: %w", err)
		}
		return st, st, nil
	default:
		return nil, nil, cli.NewConfigError("storage.backend",
			fmt.Sprintf("unsupported backend %q", cfg.Storage.Backend))
	}
}

// checkpointRecorder counts checkpoint outcomes.
type checkpointRecorder struct {
	target  store.Checkpointer
	metrics *metrics.Collector
}

func (c checkpointRecorder) Checkpoint(ctx context.Context) error {
	err := c.target.Checkpoint(ctx)
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	c.metrics.RecordCheckpoint(status)
	return err
}
