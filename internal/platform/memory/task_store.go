package memory

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

// TaskStore keeps tasks in a map guarded by a RWMutex.
// Callers always receive copies, never the stored values.
type TaskStore struct {
	mu     sync.RWMutex
	tasks  map[uuid.UUID]*domain.Task
	logger *slog.Logger
}

// NewTaskStore creates an empty in-memory task store.
// If logger is nil, a default logger will be used.
func NewTaskStore(logger *slog.Logger) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		tasks:  make(map[uuid.UUID]*domain.Task),
		logger: logger.With(slog.String("component", "memory_task_store")),
	}
}

var _ store.TaskStore = (*TaskStore)(nil)

func checkContext(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return store.NewStoreError("task", op, "context done", err)
	}
	return nil
}

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := checkContext(ctx, "create"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return store.NewStoreError("task", "create", "insert failed",
			fmt.Errorf("%w: task %s", store.ErrDuplicate, task.ID))
	}
	s.tasks[task.ID] = task.Clone()

	logger.FromContextOrDefault(ctx, s.logger).Debug("task created",
		slog.String("task_id", task.ID.String()))
	return nil
}

// List implements store.TaskStore.List.
func (s *TaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	if err := checkContext(ctx, "list"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	tasks := make([]*domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t.Clone())
	}
	s.mu.RUnlock()

	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return tasks, nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if err := checkContext(ctx, "get"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return t.Clone(), nil
}

// Update implements store.TaskStore.Update.
func (s *TaskStore) Update(ctx context.Context, id uuid.UUID, update domain.TaskUpdate) (*domain.Task, error) {
	if err := checkContext(ctx, "update"); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}

	now := domain.Now()
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.Apply(update, now)

	logger.FromContextOrDefault(ctx, s.logger).Debug("task updated",
		slog.String("task_id", id.String()))
	return t.Clone(), nil
}

// Delete implements store.TaskStore.Delete.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if err := checkContext(ctx, "delete"); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	delete(s.tasks, id)

	logger.FromContextOrDefault(ctx, s.logger).Debug("task deleted",
		slog.String("task_id", id.String()))
	return t, nil
}
