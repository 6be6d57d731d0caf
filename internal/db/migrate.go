package db

import (
	"context"
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS initiatives (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL CHECK(length(trim(name)) > 0),
		description     TEXT NOT NULL DEFAULT '',
		color           TEXT NOT NULL DEFAULT '#ef4444',
		icon            TEXT NOT NULL DEFAULT '',
		estimated_hours REAL CHECK(estimated_hours IS NULL OR estimated_hours >= 0),
		closed_at       TEXT,
		created_at      TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS scheduled_initiatives (
		id            TEXT PRIMARY KEY,
		initiative_id TEXT NOT NULL REFERENCES initiatives(id),
		start_date    TEXT NOT NULL,
		end_date      TEXT NOT NULL,
		hours_per_day TEXT NOT NULL DEFAULT '{}',
		created_at    TEXT NOT NULL,
		CHECK(start_date <= end_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scheduled_initiatives_initiative ON scheduled_initiatives(initiative_id)`,
	`CREATE INDEX IF NOT EXISTS idx_scheduled_initiatives_range ON scheduled_initiatives(start_date, end_date)`,
	`CREATE TABLE IF NOT EXISTS closed_days (
		id             TEXT PRIMARY KEY,
		date           TEXT NOT NULL UNIQUE,
		closed_at      TEXT NOT NULL,
		consumed_hours TEXT NOT NULL DEFAULT '{}'
	)`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateTruncateDates(db); err != nil {
		return fmt.Errorf("truncating stored dates: %w", err)
	}
	return nil
}

// dateColumns lists every column that holds a calendar date.
var dateColumns = []struct{ table, column string }{
	{"scheduled_initiatives", "start_date"},
	{"scheduled_initiatives", "end_date"},
	{"closed_days", "date"},
}

// migrateTruncateDates rewrites date columns that were stored as full
// timestamps ("2024-06-03T00:00:00Z", "2024-06-03 00:00:00+00") down to
// yyyy-MM-dd. Idempotent: rows already in date form are untouched.
func migrateTruncateDates(db *sql.DB) error {
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration transaction: %w", err)
	}
	for _, dc := range dateColumns {
		q := fmt.Sprintf(`UPDATE %s SET %s = substr(%s, 1, 10) WHERE length(%s) > 10`,
			dc.table, dc.column, dc.column, dc.column)
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%s.%s: %w", dc.table, dc.column, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing date migration: %w", err)
	}
	return nil
}
