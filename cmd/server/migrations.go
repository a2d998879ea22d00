package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/postgres"
)

// handleMigrations runs a single goose command against the configured
// database and closes the connection afterwards.
func handleMigrations(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	command string,
	args ...string,
) error {
	if !postgres.IsMigrationCommand(command) {
		return fmt.Errorf("unknown migration command %q", command)
	}

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("Error closing database connection", "error", cerr)
		}
	}()

	logger.Info("Executing migrations", "command", command)
	if err := postgres.Migrate(ctx, db, logger, command, args...); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	logger.Info("Migrations completed", "command", command)
	return nil
}
