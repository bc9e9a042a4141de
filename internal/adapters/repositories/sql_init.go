package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the Postgres account tables and seeds the single
// operation-counters row. Safe to run repeatedly.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createUsersQuery := `
	CREATE TABLE IF NOT EXISTS users (
		username      TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createCountersQuery := `
	CREATE TABLE IF NOT EXISTS operation_counts (
		id           TEXT PRIMARY KEY,
		create_count BIGINT NOT NULL DEFAULT 0,
		read_count   BIGINT NOT NULL DEFAULT 0,
		update_count BIGINT NOT NULL DEFAULT 0,
		delete_count BIGINT NOT NULL DEFAULT 0
	);
	`

	seedCountersQuery := `
	INSERT INTO operation_counts (id) VALUES ('` + countersRowID + `')
	ON CONFLICT (id) DO NOTHING;
	`

	statements := []string{
		createUsersQuery,
		createCountersQuery,
		seedCountersQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
