// Package store provides the database handle and the scoped session layer:
// one session per unit of work, committed or rolled back at its end.
package store

import (
	"context"
	"database/sql"
)

// DBTX abstracts the database access layer. It is implemented by *sql.DB,
// *sql.Tx and *Session, so data-access code can run against a connection or
// inside a unit of work without caring which.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
