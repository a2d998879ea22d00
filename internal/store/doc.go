// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, so the service layer can run against
// PostgreSQL in production and an in-memory store in tests.
package store
