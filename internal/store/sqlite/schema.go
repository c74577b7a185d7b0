package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS drivers (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		ref           TEXT NOT NULL UNIQUE,
		number        TEXT,
		code          TEXT,
		forename      TEXT NOT NULL DEFAULT '',
		surname       TEXT NOT NULL DEFAULT '',
		date_of_birth TEXT,
		nationality   TEXT,
		created_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS driver_constructor (
		driver_id      INTEGER NOT NULL REFERENCES drivers (id),
		constructor_id INTEGER NOT NULL,
		year           INTEGER NOT NULL,
		PRIMARY KEY (driver_id, constructor_id, year)
	)`,
	`CREATE INDEX IF NOT EXISTS driver_constructor_team_year_idx
		ON driver_constructor (constructor_id, year)`,
	`CREATE TABLE IF NOT EXISTS team_log (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		constructor_id INTEGER NOT NULL,
		action         TEXT NOT NULL,
		details        TEXT NOT NULL,
		batch_id       TEXT,
		ip_address     TEXT,
		user_agent     TEXT,
		created_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS team_log_team_created_idx
		ON team_log (constructor_id, created_at DESC)`,
}

func bootstrap(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap statement %d: %w", i+1, err)
		}
	}
	return nil
}
