package store

import (
	"context"
	"database/sql"
)

// DBTX is the database access contract shared by plain queries and
// transactions. Both *sql.DB and *sql.Tx satisfy it, which lets the
// stores' WithTx variants join the generation success-path transaction
// without duplicating query code.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
