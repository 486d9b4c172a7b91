package db

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// Migrate creates the tables and indexes if they do not exist yet.
// Every statement in schema.sql is idempotent, so it is safe on every boot.
func Migrate(ctx context.Context, q DBTX) error {
	// No arguments: pgx sends this over the simple protocol, which accepts
	// several statements in one call.
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema failed: %w", err)
	}
	return nil
}
