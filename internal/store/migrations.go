package store

import (
	"context"
	"database/sql"
	"fmt"
)

// schema contains the DDL for the journal. Each statement uses
// IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS block_updates (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		instance   TEXT NOT NULL DEFAULT '',
		reason     TEXT NOT NULL,
		exit_code  INTEGER NOT NULL DEFAULT 0,
		full_text  TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_block_updates_name ON block_updates(name)`,
	`CREATE INDEX IF NOT EXISTS idx_block_updates_created_at ON block_updates(created_at)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
