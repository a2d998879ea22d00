package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service"
)

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	CreateFn  func(ctx context.Context, input service.CreateTaskInput) (*domain.Task, error)
	FindAllFn func(ctx context.Context) ([]*domain.Task, error)
	FindOneFn func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	UpdateFn  func(ctx context.Context, id uuid.UUID, input service.UpdateTaskInput) (*domain.Task, error)
	RemoveFn  func(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Default return values
	Task         *domain.Task
	Tasks        []*domain.Task
	DefaultError error
}

var _ service.TaskService = (*MockTaskService)(nil)

// Create implements service.TaskService.Create
func (m *MockTaskService) Create(ctx context.Context, input service.CreateTaskInput) (*domain.Task, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, input)
	}
	return m.Task, m.DefaultError
}

// FindAll implements service.TaskService.FindAll
func (m *MockTaskService) FindAll(ctx context.Context) ([]*domain.Task, error) {
	if m.FindAllFn != nil {
		return m.FindAllFn(ctx)
	}
	return m.Tasks, m.DefaultError
}

// FindOne implements service.TaskService.FindOne
func (m *MockTaskService) FindOne(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.FindOneFn != nil {
		return m.FindOneFn(ctx, id)
	}
	return m.Task, m.DefaultError
}

// Update implements service.TaskService.Update
func (m *MockTaskService) Update(
	ctx context.Context,
	id uuid.UUID,
	input service.UpdateTaskInput,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, input)
	}
	return m.Task, m.DefaultError
}

// Remove implements service.TaskService.Remove
func (m *MockTaskService) Remove(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, id)
	}
	return m.Task, m.DefaultError
}
