package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/task-api/internal/domain"
)

// TaskStore defines the persistence contract for tasks.
// Every method is a single backend operation; implementations must report a
// missing task with ErrTaskNotFound and keep it distinguishable from
// connectivity or constraint failures.
type TaskStore interface {
	// Create inserts a new task. The task's ID is generated by the caller
	// (see domain.NewTask) and is never reassigned by the store.
	Create(ctx context.Context, task *domain.Task) error

	// List returns every stored task ordered by creation time, then ID.
	// Returns an empty, non-nil slice when no tasks exist.
	List(ctx context.Context) ([]*domain.Task, error)

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update replaces the fields set in update and returns the resulting task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id uuid.UUID, update domain.TaskUpdate) (*domain.Task, error)

	// Delete removes a task and returns it as it was immediately before deletion.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error)
}
