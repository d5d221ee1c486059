package database

import (
	"context"
	"fmt"
	"strings"
)

// schemaSteps are applied in order; PRAGMA user_version records how many have run.
var schemaSteps = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS blobs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			mime TEXT,
			size INTEGER NOT NULL DEFAULT 0,
			data BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
	},
	{
		`ALTER TABLE blobs ADD COLUMN project_id TEXT`,
		`CREATE INDEX IF NOT EXISTS idx_blobs_project ON blobs(project_id)`,
	},
}

// SchemaVersion is the user_version a fully migrated database reports.
func SchemaVersion() int {
	return len(schemaSteps)
}

func (d *Database) migrate(ctx context.Context) error {
	return d.withDBContext(ctx, func(ctx context.Context) error {
		var version int
		if err := d.DB.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		for i := version; i < len(schemaSteps); i++ {
			for _, stmt := range schemaSteps[i] {
				if _, err := d.DB.ExecContext(ctx, stmt); err != nil && !isIgnorableMigrationErr(err) {
					return fmt.Errorf("migration %d: %w", i+1, err)
				}
			}
			// PRAGMA does not accept bound parameters.
			if _, err := d.DB.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
				return fmt.Errorf("record schema version %d: %w", i+1, err)
			}
		}
		return nil
	})
}

func isIgnorableMigrationErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate column name") || strings.Contains(msg, "already exists")
}
