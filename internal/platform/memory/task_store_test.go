package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/memory"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestTaskStore_CRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.NewTaskStore(nil)

	task := domain.NewTask("Buy milk", "2%")
	require.NoError(t, s.Create(ctx, task))

	got, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, got)

	updated, err := s.Update(ctx, task.ID, domain.TaskUpdate{Done: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Done)
	assert.Equal(t, "Buy milk", updated.Title)
	assert.Equal(t, "2%", updated.Description)

	deleted, err := s.Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, deleted)

	_, err = s.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	_, err = s.Update(ctx, task.ID, domain.TaskUpdate{Title: strPtr("x")})
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	_, err = s.Delete(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskStore_ReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.NewTaskStore(nil)

	task := domain.NewTask("Original", "description")
	require.NoError(t, s.Create(ctx, task))

	// Mutating the caller's value after Create must not leak into the store
	task.Title = "changed by caller"

	got, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Title)

	got.Title = "changed again"
	again, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Title)
}

func TestTaskStore_Duplicate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.NewTaskStore(nil)

	task := domain.NewTask("Once", "only")
	require.NoError(t, s.Create(ctx, task))
	assert.ErrorIs(t, s.Create(ctx, task), store.ErrDuplicate)
}

func TestTaskStore_ListOrdering(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.NewTaskStore(nil)

	empty, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	base := domain.Now()
	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		task := domain.NewTask("task", "description")
		task.CreatedAt = base.Add(time.Duration(4-i) * time.Second)
		task.UpdatedAt = task.CreatedAt
		require.NoError(t, s.Create(ctx, task))
		ids = append(ids, task.ID)
	}

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 4)
	for i, task := range tasks {
		assert.Equal(t, ids[3-i], task.ID)
	}
}

func TestTaskStore_CancelledContext(t *testing.T) {
	t.Parallel()

	s := memory.NewTaskStore(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Create(ctx, domain.NewTask("t", "d"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, store.ErrNotFound)

	_, err = s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// Concurrent updates and removes on one id: exactly one remove succeeds and
// every operation after it observes NotFound.
func TestTaskStore_ConcurrentRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.NewTaskStore(nil)

	task := domain.NewTask("Contended", "row")
	require.NoError(t, s.Create(ctx, task))

	const workers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	removed := 0

	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := s.Delete(ctx, task.ID); err == nil {
				mu.Lock()
				removed++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, store.ErrTaskNotFound)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := s.Update(ctx, task.ID, domain.TaskUpdate{Done: boolPtr(true)}); err != nil {
				assert.ErrorIs(t, err, store.ErrTaskNotFound)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, removed)
	_, err := s.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}
