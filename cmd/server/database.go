package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/postgres"
)

// setupAppDatabase opens the PostgreSQL pool described by cfg.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	if cfg.Database.Backend != config.BackendPostgres {
		return nil, fmt.Errorf("database backend %q has no SQL database", cfg.Database.Backend)
	}

	db, err := postgres.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Database connection established",
		"url", postgres.MaskURL(cfg.Database.URL))
	return db, nil
}
