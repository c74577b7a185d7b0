package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/JonMunkholm/roster/internal/config"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, URL: filepath.Join(t.TempDir(), "roster.db")}

	s, closeFn, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer closeFn()

	n, err := s.CountTeamDrivers(context.Background(), 1, 2026)
	if err != nil {
		t.Fatalf("CountTeamDrivers() error = %v", err)
	}
	if n != 0 {
		t.Errorf("CountTeamDrivers() = %d, want 0", n)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, _, err := Open(context.Background(), config.DatabaseConfig{Driver: "mysql", URL: "x"})
	if err == nil {
		t.Fatal("Open() expected error for unknown driver")
	}
}

func TestDatabaseName(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@localhost:5432/roster?sslmode=disable": "roster",
		"postgres://localhost":                                 "",
		"::not a url":                                          "",
	}
	for in, want := range tests {
		if got := databaseName(in); got != want {
			t.Errorf("databaseName(%q) = %q, want %q", in, got, want)
		}
	}
}
