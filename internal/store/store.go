// Package store opens the core.Store selected by configuration.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/JonMunkholm/roster/internal/config"
	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/store/postgres"
	"github.com/JonMunkholm/roster/internal/store/sqlite"
)

// Open connects to the configured database, bootstrapping the schema when
// enabled. The returned close func releases the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (core.Store, func(), error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		// The SQLite store always creates missing tables on open.
		s, err := sqlite.Open(ctx, cfg.URL)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("connected to database", "driver", cfg.Driver, "path", s.Path())
		return s, func() { _ = s.Close() }, nil

	case config.DriverPostgres, "":
		pool, err := postgres.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if cfg.BootstrapSchema {
			if err := postgres.Bootstrap(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, err
			}
			slog.Info("schema bootstrapped")
		}
		slog.Info("connected to database", "driver", config.DriverPostgres, "name", databaseName(cfg.URL))
		return postgres.New(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// databaseName extracts the database name from a connection URL for logs.
func databaseName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
