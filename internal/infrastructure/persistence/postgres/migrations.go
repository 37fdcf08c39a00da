package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// DefaultTable is the snapshot table name.
const DefaultTable = "grade_snapshots"

// createTableSQL returns the DDL for the snapshot table.
// One row per named snapshot; the tracker only ever uses one name.
func createTableSQL(table string) string {
	ident := pgx.Identifier{table}.Sanitize()
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    name TEXT PRIMARY KEY,
    body JSONB NOT NULL,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT %s CHECK (jsonb_typeof(body) = 'array')
)`, ident, pgx.Identifier{table + "_body_is_array"}.Sanitize())
}

// EnsureSchema creates the snapshot table if it does not exist.
func EnsureSchema(ctx context.Context, conn *Connection, table string) error {
	if _, err := conn.Pool().Exec(ctx, createTableSQL(table)); err != nil {
		return fmt.Errorf("postgres: create %s: %w", table, err)
	}
	return nil
}
