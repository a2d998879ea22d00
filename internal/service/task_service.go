package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

// CreateTaskInput carries the caller-supplied fields of a new task.
type CreateTaskInput struct {
	Title       string `json:"title"       validate:"required,text,notblank,max=255"`
	Description string `json:"description" validate:"required,text,notblank,max=10000"`
}

// UpdateTaskInput carries a partial update. A nil field is left unchanged.
type UpdateTaskInput struct {
	Title       *string `json:"title"       validate:"omitnil,text,notblank,max=255"`
	Description *string `json:"description" validate:"omitnil,text,notblank,max=10000"`
	Done        *bool   `json:"done"`
}

// TaskService provides the task use cases.
type TaskService interface {
	// Create validates input and persists a new task with a generated ID and Done=false.
	Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error)

	// FindAll returns every task, ordered by creation time. Never nil.
	FindAll(ctx context.Context) ([]*domain.Task, error)

	// FindOne returns the task with the given ID.
	FindOne(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update replaces the fields set in input and returns the resulting task.
	Update(ctx context.Context, id uuid.UUID, input UpdateTaskInput) (*domain.Task, error)

	// Remove deletes the task and returns it as it was immediately before deletion.
	Remove(ctx context.Context, id uuid.UUID) (*domain.Task, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks     store.TaskStore
	validator *validator.Validate
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService backed by tasks.
// It returns an error if the store is nil.
func NewTaskService(tasks store.TaskStore, logger *slog.Logger) (TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:     tasks,
		validator: newValidator(),
		logger:    logger.With(slog.String("component", "task_service")),
	}, nil
}

// storeError translates a store failure into the service taxonomy.
func storeError(operation string, id uuid.UUID, err error) error {
	if store.IsNotFoundError(err) {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return NewTaskServiceError(operation, "store operation failed", err)
}

// Create implements TaskService.Create
func (s *taskServiceImpl) Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.validator.Struct(input); err != nil {
		vErr := toValidationError(err)
		log.Debug("create task input rejected", slog.String("error", vErr.Error()))
		return nil, vErr
	}

	task := domain.NewTask(input.Title, input.Description)
	if err := s.tasks.Create(ctx, task); err != nil {
		if store.IsDuplicateError(err) {
			log.Error("generated task id already exists",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()))
			return nil, NewTaskServiceError("create", "task id collision", err)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return nil, NewTaskServiceError("create", "failed to save task", err)
	}

	log.Info("task created", slog.String("task_id", task.ID.String()))
	return task, nil
}

// FindAll implements TaskService.FindAll
func (s *taskServiceImpl) FindAll(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("find_all", "failed to list tasks", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	log.Debug("listed tasks", slog.Int("count", len(tasks)))
	return tasks, nil
}

// FindOne implements TaskService.FindOne
func (s *taskServiceImpl) FindOne(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to retrieve task",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
		}
		return nil, storeError("find_one", id, err)
	}

	return task, nil
}

// Update implements TaskService.Update
func (s *taskServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	input UpdateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.validator.Struct(input); err != nil {
		vErr := toValidationError(err)
		log.Debug("update task input rejected",
			slog.String("error", vErr.Error()),
			slog.String("task_id", id.String()))
		return nil, vErr
	}

	update := domain.TaskUpdate{
		Title:       input.Title,
		Description: input.Description,
		Done:        input.Done,
	}
	if update.IsEmpty() {
		log.Debug("update sets no fields; only updated_at moves",
			slog.String("task_id", id.String()))
	}

	task, err := s.tasks.Update(ctx, id, update)
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to update task",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
		}
		return nil, storeError("update", id, err)
	}

	log.Info("task updated", slog.String("task_id", id.String()))
	return task, nil
}

// Remove implements TaskService.Remove
func (s *taskServiceImpl) Remove(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.Delete(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to remove task",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
		}
		return nil, storeError("remove", id, err)
	}

	log.Info("task removed", slog.String("task_id", id.String()))
	return task, nil
}
