package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task is a single to-do item. Its ID is generated once by NewTask and is
// never supplied by callers.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a Task with a fresh random UUID and Done set to false.
// Field constraints are checked by the service layer before the task is built.
func NewTask(title, description string) *Task {
	now := Now()
	return &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Done:        false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Now returns the current UTC time at the microsecond precision that
// PostgreSQL timestamps keep, so stored and in-memory values compare equal.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// TaskUpdate is a partial field set for an existing task.
// A nil field leaves the stored value unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
	Done        *bool
}

// IsEmpty reports whether the update sets no fields.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Done == nil
}

// Apply replaces the fields set in u and bumps UpdatedAt.
func (t *Task) Apply(u TaskUpdate, now time.Time) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Done != nil {
		t.Done = *u.Done
	}
	t.UpdatedAt = now.UTC()
}

// Clone returns a copy of the task that shares no state with t.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
