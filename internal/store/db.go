package store

import (
	"context"
	"database/sql"
)

// DBTX abstracts the database handle used by SQL-backed stores.
// It is satisfied by both *sql.DB and *sql.Tx, so a store can run against a
// pooled connection or inside a caller-managed transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
