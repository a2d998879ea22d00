// Package service contains the application-level task use cases. It validates
// caller input, builds domain entities, and delegates persistence to the
// store.TaskStore it is constructed with, translating store failures into the
// service error taxonomy:
//
//   - ErrTaskNotFound when the task does not exist
//   - ErrPersistenceFailure (as *TaskServiceError) when the backend fails
//   - domain.ErrValidation (as *domain.ValidationError) when input is invalid
//
// The service keeps no task state between calls and adds no locking or
// retries; each operation is exactly one store call.
package service
