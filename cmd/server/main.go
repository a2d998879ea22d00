// Package main implements the entry point for the task API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/logger"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (defaults to ./config.yaml when present)")
	migrateCmd := flag.String("migrate", "", "run a migration command (up, up-by-one, down, redo, reset, status, version) and exit")
	flag.Parse()

	if err := run(context.Background(), *configPath, *migrateCmd, flag.Args()); err != nil {
		slog.Error("task-api exited with error", "error", err)
		os.Exit(1)
	}
}

// run loads configuration, sets up logging, and either runs a migration
// command or serves HTTP until shutdown.
func run(ctx context.Context, configPath, migrateCmd string, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"backend", cfg.Database.Backend,
		"auth_enabled", cfg.Auth.Enabled,
		"idempotency_enabled", cfg.Redis.URL != "")

	if migrateCmd != "" {
		return handleMigrations(ctx, cfg, log, migrateCmd, args...)
	}

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
