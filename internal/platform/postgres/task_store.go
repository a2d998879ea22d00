package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

const taskColumns = `id, title, description, done, created_at, updated_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
// Every method issues exactly one statement, so concurrent writers on the
// same row are ordered by PostgreSQL's row locks.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Done,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

// Create implements store.TaskStore.Create.
// Returns store.ErrDuplicate if a task with the same ID already exists and
// store.ErrInvalidEntity if a column constraint rejects the row.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		task.Done,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		switch {
		case IsUniqueViolation(err):
			log.Warn("task id already exists", slog.String("task_id", task.ID.String()))
		case IsCheckConstraintViolation(err):
			log.Warn("task rejected by check constraint",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()))
		default:
			log.Error("failed to create task",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()))
		}
		return store.NewStoreError("task", "create", "insert failed", MapError(err))
	}

	log.Debug("task created", slog.String("task_id", task.ID.String()))
	return nil
}

// List implements store.TaskStore.List.
func (s *PostgresTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		ORDER BY created_at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "query failed", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("task", "list", "scan failed", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "row iteration failed", MapError(err))
	}

	log.Debug("tasks listed", slog.Int("count", len(tasks)))
	return tasks, nil
}

// GetByID implements store.TaskStore.GetByID.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1
	`
	t, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, s.rowError(log, "get", id, err)
	}
	return t, nil
}

// Update implements store.TaskStore.Update.
// Unset fields are kept by COALESCE, so the read and the write happen in one
// statement under the row lock.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET title = COALESCE($2, title),
			description = COALESCE($3, description),
			done = COALESCE($4, done),
			updated_at = GREATEST($5, created_at)
		WHERE id = $1
		RETURNING ` + taskColumns
	t, err := scanTask(s.db.QueryRowContext(
		ctx,
		query,
		id,
		update.Title,
		update.Description,
		update.Done,
		domain.Now(),
	))
	if err != nil {
		return nil, s.rowError(log, "update", id, err)
	}

	log.Debug("task updated", slog.String("task_id", id.String()))
	return t, nil
}

// Delete implements store.TaskStore.Delete and returns the deleted row.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM tasks
		WHERE id = $1
		RETURNING ` + taskColumns
	t, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, s.rowError(log, "delete", id, err)
	}

	log.Debug("task deleted", slog.String("task_id", id.String()))
	return t, nil
}

// rowError converts a single-row statement failure into a store error.
func (s *PostgresTaskStore) rowError(log *slog.Logger, op string, id uuid.UUID, err error) error {
	if IsNotFoundError(err) {
		log.Debug("task not found",
			slog.String("operation", op),
			slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}

	log.Error(fmt.Sprintf("failed to %s task", op),
		slog.String("error", err.Error()),
		slog.String("task_id", id.String()))
	return store.NewStoreError("task", op, "statement failed", MapError(err))
}
