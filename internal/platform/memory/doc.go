// Package memory provides an in-process implementation of store.TaskStore.
// It backs the server when database.backend is "memory" and is used by the
// service and API tests.
package memory
