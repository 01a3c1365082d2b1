package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/attendance-portal/internal/config"
	"github.com/example/attendance-portal/internal/persistence"
	"github.com/example/attendance-portal/internal/persistence/postgres"
	"github.com/example/attendance-portal/internal/persistence/sqlite"
)

// connectStore opens the configured backend without touching its schema.
func connectStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (persistence.Store, error) {
	var (
		store persistence.Store
		err   error
	)
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		store, err = sqlite.Open(ctx, cfg.SQLitePath, logger)
	case config.DriverPostgres:
		store, err = postgres.Open(ctx, cfg.PostgresDSN, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DatabaseDriver, err)
	}
	return store, nil
}

// openStore connects to the configured backend and applies its migrations.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (persistence.Store, error) {
	store, err := connectStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrate %s store: %w", cfg.DatabaseDriver, err)
	}
	logger.InfoContext(ctx, "store ready", "driver", cfg.DatabaseDriver)
	return store, nil
}

func closeStore(ctx context.Context, store persistence.Store, logger *slog.Logger) {
	if err := store.Close(); err != nil {
		logger.ErrorContext(ctx, "failed to close storage", "error", err)
	}
}
