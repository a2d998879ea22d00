package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/task-api/internal/api/middleware"
	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/idempotency"
	"github.com/phrazzld/task-api/internal/platform/memory"
	"github.com/phrazzld/task-api/internal/platform/postgres"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 5 * time.Second

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil for the memory backend.
	db *sql.DB
	// redis is nil when idempotent create is disabled.
	redis *redis.Client

	taskStore   store.TaskStore
	taskService service.TaskService

	// jwtService is nil when authentication is disabled.
	jwtService       auth.JWTService
	idempotencyStore idempotency.Store

	registry *prometheus.Registry
	metrics  *middleware.Metrics
}

// newApplication creates a new application instance with all dependencies
// initialized from cfg. Resources already opened are released on failure.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}
	ready := false
	defer func() {
		if !ready {
			app.cleanup()
		}
	}()

	var err error

	switch cfg.Database.Backend {
	case config.BackendPostgres:
		app.db, err = setupAppDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to set up database: %w", err)
		}
		app.taskStore = postgres.NewPostgresTaskStore(app.db, logger)
	case config.BackendMemory:
		logger.Warn("Using in-memory task store; tasks are lost on restart")
		app.taskStore = memory.NewTaskStore(logger)
	default:
		return nil, fmt.Errorf("unsupported database backend %q", cfg.Database.Backend)
	}

	app.taskService, err = service.NewTaskService(app.taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	if cfg.Auth.Enabled {
		app.jwtService, err = auth.NewJWTService(cfg.Auth)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
		}
		logger.Info("JWT authentication service initialized",
			"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)
	}

	if cfg.Redis.URL != "" {
		if err = app.setupIdempotency(ctx); err != nil {
			return nil, err
		}
	}

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics, err = middleware.NewMetrics(app.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	ready = true
	logger.Info("Application initialized successfully")
	return app, nil
}

// setupIdempotency connects to Redis and creates the idempotency key store.
func (app *application) setupIdempotency(ctx context.Context) error {
	opts, err := redis.ParseURL(app.config.Redis.URL)
	if err != nil {
		return fmt.Errorf("invalid redis url: %w", err)
	}
	app.redis = redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := app.redis.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := time.Duration(app.config.Redis.IdempotencyTTLMinutes) * time.Minute
	app.idempotencyStore = idempotency.NewRedisStore(app.redis, ttl)
	app.logger.Info("Idempotent create enabled", "ttl", ttl.String())
	return nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
		app.redis = nil
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
		app.db = nil
	}

	app.logger.Info("Application shutdown completed")
}
