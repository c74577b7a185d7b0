package core

import (
	"context"
	"encoding/json"
	"time"
)

// Store is the persistence boundary used by the import engine and the read
// endpoints. Implementations live in internal/store.
type Store interface {
	// Begin opens the transaction that scopes one batch.
	Begin(ctx context.Context) (Tx, error)

	SearchTeamDrivers(ctx context.Context, teamID int64, term string, limit int) ([]Driver, error)
	CountTeamDrivers(ctx context.Context, teamID int64, year int) (int, error)
	ListTeamLog(ctx context.Context, teamID int64, limit int) ([]TeamLogEntry, error)
}

// Tx is a single batch transaction. Every write of a batch goes through the
// same Tx so that the batch commits or rolls back as a unit.
type Tx interface {
	// FindDriverByRef looks a driver up by its natural key.
	FindDriverByRef(ctx context.Context, ref string) (id int64, found bool, err error)

	// InsertDriver inserts d unless a driver with the same ref exists. inserted
	// is false when the ref was already taken, in which case id is zero.
	InsertDriver(ctx context.Context, d Driver) (id int64, inserted bool, err error)

	// LinkDriverTeam records the (driver, team, year) association. Re-linking
	// an existing triple is a no-op.
	LinkDriverTeam(ctx context.Context, driverID, teamID int64, year int) error

	AppendTeamLog(ctx context.Context, entry TeamLogEntry) error

	Savepoint(ctx context.Context, name string) error
	RollbackToSavepoint(ctx context.Context, name string) error
	ReleaseSavepoint(ctx context.Context, name string) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// ImportRow is one normalized record of an upload.
type ImportRow struct {
	Ref         string
	Number      string
	Code        string
	Forename    string
	Surname     string
	BirthDate   *time.Time
	Nationality string

	// Line is the 1-based source line, zero when the row did not come from a file.
	Line int
	// Invalid is set when a cell could not be converted. The row is reported
	// as failed without touching the store.
	Invalid error
}

// Driver returns the persisted shape of the row.
func (r ImportRow) Driver() Driver {
	return Driver{
		Ref:         r.Ref,
		Number:      r.Number,
		Code:        r.Code,
		Forename:    r.Forename,
		Surname:     r.Surname,
		BirthDate:   r.BirthDate,
		Nationality: r.Nationality,
	}
}

// Driver is a persisted driver. Ref is unique and never changes after creation.
type Driver struct {
	ID          int64      `json:"id"`
	Ref         string     `json:"driverRef"`
	Number      string     `json:"number,omitempty"`
	Code        string     `json:"code,omitempty"`
	Forename    string     `json:"forename"`
	Surname     string     `json:"surname"`
	BirthDate   *time.Time `json:"dob,omitempty"`
	Nationality string     `json:"nationality,omitempty"`
}

// RowFailure is a row that could not be reconciled. RowKey is the row's ref,
// empty when the ref itself was missing.
type RowFailure struct {
	RowKey  string `json:"record"`
	Message string `json:"error"`
}

// BatchOutcome summarizes one import batch.
type BatchOutcome struct {
	Created  int           `json:"count"`
	Existing int           `json:"existingCount"`
	Failures []RowFailure  `json:"failures"`
	Message  string        `json:"message"`
	BatchID  string        `json:"batchId,omitempty"`
	TeamID   int64         `json:"teamId,omitempty"`
	Period   int           `json:"year,omitempty"`
	Duration time.Duration `json:"-"`
}

// Processed returns the number of rows that reached a terminal state.
func (o BatchOutcome) Processed() int {
	return o.Created + o.Existing + len(o.Failures)
}

// AuditAction tags a team_log entry.
type AuditAction string

const (
	ActionImportDrivers AuditAction = "import_drivers"
)

// AuditDetails is the JSON payload stored in team_log.details.
type AuditDetails struct {
	Count         int `json:"count"`
	ExistingCount int `json:"existingCount"`
	Errors        int `json:"errors"`
}

// TeamLogEntry is one row of the team activity log.
type TeamLogEntry struct {
	ID        int64        `json:"id"`
	TeamID    int64        `json:"constructorId"`
	Action    AuditAction  `json:"action"`
	Details   AuditDetails `json:"details"`
	BatchID   string       `json:"batchId,omitempty"`
	IPAddress string       `json:"ipAddress,omitempty"`
	UserAgent string       `json:"userAgent,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// DetailsJSON encodes Details for storage.
func (e TeamLogEntry) DetailsJSON() ([]byte, error) {
	return json.Marshal(e.Details)
}
