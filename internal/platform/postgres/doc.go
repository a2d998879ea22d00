// Package postgres provides the PostgreSQL implementation of the task store
// defined in the internal/store package. It also owns the schema: migrations
// are embedded in the binary and applied with goose.
package postgres
