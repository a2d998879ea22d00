package service

import (
	"errors"
	"fmt"
)

// Task service sentinel errors. Callers check them with errors.Is.
// The API layer maps ErrTaskNotFound to 404 and ErrPersistenceFailure to 500.
var (
	// ErrTaskNotFound indicates no task exists with the requested ID.
	ErrTaskNotFound = errors.New("task not found")

	// ErrPersistenceFailure indicates the storage backend failed
	// (connectivity, constraint, timeout or cancellation).
	ErrPersistenceFailure = errors.New("persistence failure")
)

// TaskServiceError is returned for backend failures. It matches
// ErrPersistenceFailure and unwraps to the backend error for logging.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrPersistenceFailure.
func (e *TaskServiceError) Is(target error) bool {
	return target == ErrPersistenceFailure
}

// NewTaskServiceError creates a new TaskServiceError.
func NewTaskServiceError(operation, message string, err error) *TaskServiceError {
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
