// Package postgres implements core.Store on PostgreSQL with pgx.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/roster/internal/config"
	"github.com/JonMunkholm/roster/internal/core"
)

// Connect opens and pings a pool sized from cfg.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// Store is a core.Store backed by a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store using pool. The caller owns the pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Begin starts a read-committed transaction for one batch.
func (s *Store) Begin(ctx context.Context) (core.Tx, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, classify(err)
	}
	return &pgTx{tx: tx}, nil
}

const searchTeamDriversSQL = `
SELECT DISTINCT d.id, d.ref, d.number, d.code, d.forename, d.surname, d.date_of_birth, d.nationality
FROM drivers d
JOIN driver_constructor dc ON dc.driver_id = d.id
WHERE dc.constructor_id = $1
  AND (d.forename || ' ' || d.surname) ILIKE '%' || $2 || '%' ESCAPE '\'
ORDER BY d.surname, d.forename, d.id
LIMIT $3`

// SearchTeamDrivers returns drivers ever associated with teamID whose full
// name contains term.
func (s *Store) SearchTeamDrivers(ctx context.Context, teamID int64, term string, limit int) ([]core.Driver, error) {
	rows, err := s.pool.Query(ctx, searchTeamDriversSQL, teamID, escapeLike(term), limit)
	if err != nil {
		return nil, classify(err)
	}
	drivers, err := pgx.CollectRows(rows, scanDriver)
	if err != nil {
		return nil, classify(err)
	}
	return drivers, nil
}

// CountTeamDrivers counts distinct drivers associated with teamID for year.
func (s *Store) CountTeamDrivers(ctx context.Context, teamID int64, year int) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT driver_id) FROM driver_constructor WHERE constructor_id = $1 AND year = $2`,
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
WHERE constructor_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`

// ListTeamLog returns the newest team_log entries of teamID.
func (s *Store) ListTeamLog(ctx context.Context, teamID int64, limit int) ([]core.TeamLogEntry, error) {
	rows, err := s.pool.Query(ctx, listTeamLogSQL, teamID, limit)
	if err != nil {
		return nil, classify(err)
	}
	entries, err := pgx.CollectRows(rows, scanTeamLog)
	if err != nil {
		return nil, classify(err)
	}
	return entries, nil
}

func scanDriver(row pgx.CollectableRow) (core.Driver, error) {
	var (
		d           core.Driver
		number      pgtype.Text
		code        pgtype.Text
		dob         pgtype.Date
		nationality pgtype.Text
	)
	if err := row.Scan(&d.ID, &d.Ref, &number, &code, &d.Forename, &d.Surname, &dob, &nationality); err != nil {
		return core.Driver{}, err
	}
	d.Number = number.String
	d.Code = code.String
	d.Nationality = nationality.String
	if dob.Valid {
		t := dob.Time
		d.BirthDate = &t
	}
	return d, nil
}

func scanTeamLog(row pgx.CollectableRow) (core.TeamLogEntry, error) {
	var (
		e         core.TeamLogEntry
		action    string
		details   []byte
		batchID   pgtype.UUID
		ipAddress *netip.Addr
		userAgent pgtype.Text
		createdAt pgtype.Timestamptz
	)
	err := row.Scan(&e.ID, &e.TeamID, &action, &details, &batchID, &ipAddress, &userAgent, &createdAt)
	if err != nil {
		return core.TeamLogEntry{}, err
	}
	if err := json.Unmarshal(details, &e.Details); err != nil {
		return core.TeamLogEntry{}, fmt.Errorf("decode team_log %d details: %w", e.ID, err)
	}

	e.Action = core.AuditAction(action)
	if batchID.Valid {
		e.BatchID = uuid.UUID(batchID.Bytes).String()
	}
	if ipAddress != nil {
		e.IPAddress = ipAddress.String()
	}
	e.UserAgent = userAgent.String
	e.CreatedAt = createdAt.Time
	return e, nil
}

// pgTx adapts pgx.Tx to core.Tx.
type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) FindDriverByRef(ctx context.Context, ref string) (int64, bool, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `SELECT id FROM drivers WHERE ref = $1`, ref).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, classify(err)
	}
	return id, true, nil
}

const insertDriverSQL = `
INSERT INTO drivers (ref, number, code, forename, surname, date_of_birth, nationality)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (ref) DO NOTHING
RETURNING id`

func (t *pgTx) InsertDriver(ctx context.Context, d core.Driver) (int64, bool, error) {
	var id int64
	err := t.tx.QueryRow(ctx, insertDriverSQL,
		d.Ref,
		toPgText(d.Number),
		toPgText(d.Code),
		d.Forename,
		d.Surname,
		toPgDate(d.BirthDate),
		toPgText(d.Nationality),
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, classify(err)
	}
	return id, true, nil
}

func (t *pgTx) LinkDriverTeam(ctx context.Context, driverID, teamID int64, year int) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO driver_constructor (driver_id, constructor_id, year) VALUES ($1, $2, $3)
		 ON CONFLICT (driver_id, constructor_id, year) DO NOTHING`,
		driverID, teamID, year,
	)
	return classify(err)
}

const insertTeamLogSQL = `
INSERT INTO team_log (constructor_id, action, details, batch_id, ip_address, user_agent, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (t *pgTx) AppendTeamLog(ctx context.Context, e core.TeamLogEntry) error {
	details, err := e.DetailsJSON()
	if err != nil {
		return fmt.Errorf("encode details: %w", err)
	}
	_, err = t.tx.Exec(ctx, insertTeamLogSQL,
		e.TeamID,
		string(e.Action),
		details,
		toPgUUID(e.BatchID),
		toInet(e.IPAddress),
		toPgText(e.UserAgent),
		pgtype.Timestamptz{Time: e.CreatedAt, Valid: !e.CreatedAt.IsZero()},
	)
	return classify(err)
}

func (t *pgTx) Savepoint(ctx context.Context, name string) error {
	_, err := t.tx.Exec(ctx, "SAVEPOINT "+pgx.Identifier{name}.Sanitize())
	return classify(err)
}

func (t *pgTx) RollbackToSavepoint(ctx context.Context, name string) error {
	_, err := t.tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+pgx.Identifier{name}.Sanitize())
	return classify(err)
}

func (t *pgTx) ReleaseSavepoint(ctx context.Context, name string) error {
	_, err := t.tx.Exec(ctx, "RELEASE SAVEPOINT "+pgx.Identifier{name}.Sanitize())
	return classify(err)
}

func (t *pgTx) Commit(ctx context.Context) error {
	return classify(t.tx.Commit(ctx))
}

// Rollback is a no-op on a finished transaction.
func (t *pgTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

func toPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func toPgDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}

func toPgUUID(s string) pgtype.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: id, Valid: true}
}

// toInet strips a port and returns nil for anything that is not an address.
func toInet(s string) *netip.Addr {
	host := s
	if h, _, err := net.SplitHostPort(s); err == nil {
		host = h
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return nil
	}
	return &addr
}

// escapeLike escapes LIKE wildcards so term matches literally.
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}
