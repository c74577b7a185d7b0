package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements create the tables the importer writes to. Every statement
// is idempotent so Bootstrap can run on each start.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS drivers (
		id            BIGSERIAL PRIMARY KEY,
		ref           TEXT NOT NULL UNIQUE,
		number        TEXT,
		code          TEXT,
		forename      TEXT NOT NULL DEFAULT '',
		surname       TEXT NOT NULL DEFAULT '',
		date_of_birth DATE,
		nationality   TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS driver_constructor (
		driver_id      BIGINT NOT NULL REFERENCES drivers (id),
		constructor_id BIGINT NOT NULL,
		year           INTEGER NOT NULL,
		PRIMARY KEY (driver_id, constructor_id, year)
	)`,
	`CREATE INDEX IF NOT EXISTS driver_constructor_team_year_idx
		ON driver_constructor (constructor_id, year)`,
	`CREATE TABLE IF NOT EXISTS team_log (
		id             BIGSERIAL PRIMARY KEY,
		constructor_id BIGINT NOT NULL,
		action         TEXT NOT NULL,
		details        JSONB NOT NULL,
		batch_id       UUID,
		ip_address     INET,
		user_agent     TEXT,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS team_log_team_created_idx
		ON team_log (constructor_id, created_at DESC)`,
}

// Bootstrap creates the roster tables if they do not exist.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap statement %d: %w", i+1, err)
		}
	}
	return nil
}
