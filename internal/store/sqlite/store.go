// Package sqlite implements core.Store on an embedded SQLite database for
// local runs and tests that need real transactions without a server.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/JonMunkholm/roster/internal/core"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05.000000000"
)

// Store is a core.Store over a single SQLite connection. SQLite allows one
// writer, so batches serialize on the connection.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and bootstraps the
// schema. ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = "roster.db"
	}
	dsn := "file::memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
		dsn = "file:" + path
	}
	dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	// An idle in-memory connection must never be closed or the data is lost.
	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := bootstrap(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for tests.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

func (s *Store) Begin(ctx context.Context) (core.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify(err)
	}
	return &sqliteTx{tx: tx}, nil
}

const searchTeamDriversSQL = `
SELECT DISTINCT d.id, d.ref, d.number, d.code, d.forename, d.surname, d.date_of_birth, d.nationality
FROM drivers d
JOIN driver_constructor dc ON dc.driver_id = d.id
WHERE dc.constructor_id = ?
  AND (d.forename || ' ' || d.surname) LIKE '%' || ? || '%' ESCAPE '\'
ORDER BY d.surname, d.forename, d.id
LIMIT ?`

func (s *Store) SearchTeamDrivers(ctx context.Context, teamID int64, term string, limit int) ([]core.Driver, error) {
	rows, err := s.db.QueryContext(ctx, searchTeamDriversSQL, teamID, escapeLike(term), limit)
	if err != nil {
		return nil, classify(err)
	}
	defer func() { _ = rows.Close() }()

	var drivers []core.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return drivers, nil
}

func (s *Store) CountTeamDrivers(ctx context.Context, teamID int64, year int) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT driver_id) FROM driver_constructor WHERE constructor_id = ? AND year = ?`,
		teamID, year,
	).Scan(&n)
	if err != nil {
		return 0, classify(err)
	}
	return n, nil
}

const listTeamLogSQL = `
SELECT id, constructor_id, action, details, batch_id, ip_address, user_agent, created_at
FROM team_log
WHERE constructor_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?`

func (s *Store) ListTeamLog(ctx context.Context, teamID int64, limit int) ([]core.TeamLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, listTeamLogSQL, teamID, limit)
	if err != nil {
		return nil, classify(err)
	}
	defer func() { _ = rows.Close() }()

	var entries []core.TeamLogEntry
	for rows.Next() {
		var (
			e         core.TeamLogEntry
			action    string
			details   string
			batchID   sql.NullString
			ipAddress sql.NullString
			userAgent sql.NullString
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.TeamID, &action, &details, &batchID, &ipAddress, &userAgent, &createdAt); err != nil {
			return nil, fmt.Errorf("scan team_log: %w", err)
		}
		if err := json.Unmarshal([]byte(details), &e.Details); err != nil {
			return nil, fmt.Errorf("decode team_log %d details: %w", e.ID, err)
		}
		ts, err := time.ParseInLocation(timestampLayout, createdAt, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("decode team_log %d created_at: %w", e.ID, err)
		}
		e.Action = core.AuditAction(action)
		e.BatchID = batchID.String
		e.IPAddress = ipAddress.String
		e.UserAgent = userAgent.String
		e.CreatedAt = ts
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDriver(row rowScanner) (core.Driver, error) {
	var (
		d           core.Driver
		number      sql.NullString
		code        sql.NullString
		dob         sql.NullString
		nationality sql.NullString
	)
	if err := row.Scan(&d.ID, &d.Ref, &number, &code, &d.Forename, &d.Surname, &dob, &nationality); err != nil {
		return core.Driver{}, fmt.Errorf("scan driver: %w", err)
	}
	d.Number = number.String
	d.Code = code.String
	d.Nationality = nationality.String
	if dob.Valid && dob.String != "" {
		t, err := time.ParseInLocation(dateLayout, dob.String, time.UTC)
		if err != nil {
			return core.Driver{}, fmt.Errorf("decode driver %d date_of_birth: %w", d.ID, err)
		}
		d.BirthDate = &t
	}
	return d, nil
}

// sqliteTx adapts sql.Tx to core.Tx.
type sqliteTx struct {
	tx *sql.Tx
}

func (t *sqliteTx) FindDriverByRef(ctx context.Context, ref string) (int64, bool, error) {
	var id int64
	err := t.tx.QueryRowContext(ctx, `SELECT id FROM drivers WHERE ref = ?`, ref).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, classify(err)
	}
	return id, true, nil
}

const insertDriverSQL = `
INSERT INTO drivers (ref, number, code, forename, surname, date_of_birth, nationality, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (ref) DO NOTHING
RETURNING id`

func (t *sqliteTx) InsertDriver(ctx context.Context, d core.Driver) (int64, bool, error) {
	var id int64
	err := t.tx.QueryRowContext(ctx, insertDriverSQL,
		d.Ref,
		nullString(d.Number),
		nullString(d.Code),
		d.Forename,
		d.Surname,
		nullDate(d.BirthDate),
		nullString(d.Nationality),
		time.Now().UTC().Format(timestampLayout),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, classify(err)
	}
	return id, true, nil
}

func (t *sqliteTx) LinkDriverTeam(ctx context.Context, driverID, teamID int64, year int) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO driver_constructor (driver_id, constructor_id, year) VALUES (?, ?, ?)
		 ON CONFLICT (driver_id, constructor_id, year) DO NOTHING`,
		driverID, teamID, year,
	)
	return classify(err)
}

func (t *sqliteTx) AppendTeamLog(ctx context.Context, e core.TeamLogEntry) error {
	details, err := e.DetailsJSON()
	if err != nil {
		return fmt.Errorf("encode details: %w", err)
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err = t.tx.ExecContext(ctx,
		`INSERT INTO team_log (constructor_id, action, details, batch_id, ip_address, user_agent, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.TeamID,
		string(e.Action),
		string(details),
		nullString(e.BatchID),
		nullString(e.IPAddress),
		nullString(e.UserAgent),
		createdAt.UTC().Format(timestampLayout),
	)
	return classify(err)
}

func (t *sqliteTx) Savepoint(ctx context.Context, name string) error {
	_, err := t.tx.ExecContext(ctx, "SAVEPOINT "+quoteIdent(name))
	return classify(err)
}

func (t *sqliteTx) RollbackToSavepoint(ctx context.Context, name string) error {
	_, err := t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+quoteIdent(name))
	return classify(err)
}

func (t *sqliteTx) ReleaseSavepoint(ctx context.Context, name string) error {
	_, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+quoteIdent(name))
	return classify(err)
}

func (t *sqliteTx) Commit(_ context.Context) error {
	return classify(t.tx.Commit())
}

func (t *sqliteTx) Rollback(_ context.Context) error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(dateLayout), Valid: true}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}
