package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/store/sqlite"
)

var fixedNow = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// StoreSuite runs the import engine against a real SQLite database.
type StoreSuite struct {
	suite.Suite
	store   *sqlite.Store
	service *core.Service
	ctx     context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()

	store, err := sqlite.Open(s.ctx, filepath.Join(s.T().TempDir(), "roster.db"))
	s.Require().NoError(err)
	s.store = store
	s.service = core.NewService(store, core.WithClock(clock))
}

func (s *StoreSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *StoreSuite) count(query string, args ...any) int {
	var n int
	s.Require().NoError(s.store.DB().QueryRowContext(s.ctx, query, args...).Scan(&n))
	return n
}

func (s *StoreSuite) tableCounts() (drivers, links, logs int) {
	return s.count(`SELECT COUNT(*) FROM drivers`),
		s.count(`SELECT COUNT(*) FROM driver_constructor`),
		s.count(`SELECT COUNT(*) FROM team_log`)
}

func driverRow(ref, forename, surname string) core.ImportRow {
	return core.ImportRow{Ref: ref, Forename: forename, Surname: surname}
}

func (s *StoreSuite) TestCountsAddUpToInput() {
	rows := []core.ImportRow{
		driverRow("verstappen", "Max", "Verstappen"),
		driverRow("", "Nobody", ""),
		driverRow("perez", "Sergio", "Perez"),
		{Ref: "lawson", Invalid: errors.New(`invalid date for "dob": "31/31/2001"`)},
	}
	_, err := s.service.RunBatch(s.ctx, []core.ImportRow{driverRow("perez", "Sergio", "Perez")}, 9)
	s.Require().NoError(err)

	out, err := s.service.RunBatch(s.ctx, rows, 9)
	s.Require().NoError(err)
	s.Equal(1, out.Created)
	s.Equal(1, out.Existing)
	s.Len(out.Failures, 2)
	s.Equal(len(rows), out.Processed())
}

func (s *StoreSuite) TestMissingRefScenario() {
	rows := []core.ImportRow{
		driverRow("hamilton", "Lewis", "Hamilton"),
		driverRow("", "Missing", "Ref"),
		driverRow("russell", "George", "Russell"),
	}

	out, err := s.service.RunBatch(s.ctx, rows, 131)
	s.Require().NoError(err)
	s.Equal(2, out.Created)
	s.Equal(0, out.Existing)
	s.Require().Len(out.Failures, 1)
	s.Equal("", out.Failures[0].RowKey)
	s.Contains(out.Failures[0].Message, "missing driver reference")

	s.Equal(2, s.count(`SELECT COUNT(*) FROM drivers`))
	s.Equal(2, s.count(`SELECT COUNT(*) FROM driver_constructor WHERE constructor_id = 131 AND year = 2026`))
}

func (s *StoreSuite) TestReimportIsIdempotent() {
	rows := []core.ImportRow{
		driverRow("leclerc", "Charles", "Leclerc"),
		driverRow("sainz", "Carlos", "Sainz"),
		driverRow("", "x", "y"),
	}

	first, err := s.service.RunBatch(s.ctx, rows, 6)
	s.Require().NoError(err)
	s.Equal(2, first.Created)

	second, err := s.service.RunBatch(s.ctx, rows, 6)
	s.Require().NoError(err)
	s.Equal(0, second.Created)
	s.Equal(first.Created+first.Existing, second.Existing)

	drivers, links, logs := s.tableCounts()
	s.Equal(2, drivers)
	s.Equal(2, links)
	s.Equal(2, logs)
}

func (s *StoreSuite) TestExistingDriverFieldsAreNotMutated() {
	dob := time.Date(1981, time.July, 29, 0, 0, 0, 0, time.UTC)
	_, err := s.service.RunBatch(s.ctx, []core.ImportRow{
		{Ref: "alonso", Number: "14", Code: "ALO", Forename: "Fernando", Surname: "Alonso", BirthDate: &dob, Nationality: "Spanish"},
	}, 117)
	s.Require().NoError(err)

	other := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	out, err := s.service.RunBatch(s.ctx, []core.ImportRow{
		{Ref: "alonso", Number: "99", Code: "XXX", Forename: "F.", Surname: "A.", BirthDate: &other, Nationality: "Other"},
	}, 117)
	s.Require().NoError(err)
	s.Equal(1, out.Existing)

	found, err := s.service.SearchTeamDrivers(s.ctx, 117, "fernando", 0)
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	d := found[0]
	s.Equal("14", d.Number)
	s.Equal("ALO", d.Code)
	s.Equal("Alonso", d.Surname)
	s.Equal("Spanish", d.Nationality)
	s.Require().NotNil(d.BirthDate)
	s.True(d.BirthDate.Equal(dob))
}

func (s *StoreSuite) TestDuplicateRefWithinBatch() {
	rows := []core.ImportRow{
		driverRow("norris", "Lando", "Norris"),
		driverRow("norris", "Lando", "Norris"),
	}

	out, err := s.service.RunBatch(s.ctx, rows, 1)
	s.Require().NoError(err)
	s.Equal(1, out.Created)
	s.Equal(1, out.Existing)
	s.Empty(out.Failures)

	s.Equal(1, s.count(`SELECT COUNT(*) FROM drivers WHERE ref = 'norris'`))
	s.Equal(1, s.count(`SELECT COUNT(*) FROM driver_constructor WHERE constructor_id = 1`))
}

func (s *StoreSuite) TestSameDriverDifferentTeams() {
	_, err := s.service.RunBatch(s.ctx, []core.ImportRow{driverRow("bearman", "Oliver", "Bearman")}, 210)
	s.Require().NoError(err)
	out, err := s.service.RunBatch(s.ctx, []core.ImportRow{driverRow("bearman", "Oliver", "Bearman")}, 215)
	s.Require().NoError(err)
	s.Equal(1, out.Existing)

	s.Equal(1, s.count(`SELECT COUNT(*) FROM drivers`))
	s.Equal(2, s.count(`SELECT COUNT(*) FROM driver_constructor`))
}

func (s *StoreSuite) TestEmptyBatchWritesNothing() {
	_, err := s.service.RunBatch(s.ctx, nil, 9)

	var inputErr *core.InputError
	s.Require().ErrorAs(err, &inputErr)
	s.ErrorIs(err, core.ErrEmptyBatch)

	drivers, links, logs := s.tableCounts()
	s.Zero(drivers + links + logs)
}

func (s *StoreSuite) TestAuditRowDetails() {
	ctx := core.ContextWithRequestMeta(s.ctx, core.RequestMeta{IPAddress: "198.51.100.4", UserAgent: "curl/8.5"})
	out, err := s.service.RunBatch(ctx, []core.ImportRow{
		driverRow("albon", "Alexander", "Albon"),
		driverRow("", "", ""),
	}, 3)
	s.Require().NoError(err)

	var details string
	s.Require().NoError(s.store.DB().QueryRowContext(s.ctx,
		`SELECT details FROM team_log WHERE constructor_id = 3`).Scan(&details))
	s.JSONEq(`{"count":1,"existingCount":0,"errors":1}`, details)

	entries, err := s.service.TeamLog(s.ctx, 3, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	e := entries[0]
	s.Equal(core.ActionImportDrivers, e.Action)
	s.Equal(out.BatchID, e.BatchID)
	s.Equal("198.51.100.4", e.IPAddress)
	s.Equal("curl/8.5", e.UserAgent)
	s.True(e.CreatedAt.Equal(fixedNow))
}

func (s *StoreSuite) TestStatementFailureRollsBackToSavepoint() {
	_, err := s.store.DB().ExecContext(s.ctx, `
		CREATE TRIGGER reject_banned BEFORE INSERT ON drivers
		WHEN NEW.ref = 'banned'
		BEGIN SELECT RAISE(ABORT, 'driver is banned'); END`)
	s.Require().NoError(err)

	out, err := s.service.RunBatch(s.ctx, []core.ImportRow{
		driverRow("ocon", "Esteban", "Ocon"),
		driverRow("banned", "Ban", "Ned"),
		driverRow("gasly", "Pierre", "Gasly"),
	}, 214)
	s.Require().NoError(err)
	s.Equal(2, out.Created)
	s.Require().Len(out.Failures, 1)
	s.Equal("banned", out.Failures[0].RowKey)
	s.Contains(out.Failures[0].Message, "driver is banned")

	drivers, links, logs := s.tableCounts()
	s.Equal(2, drivers)
	s.Equal(2, links)
	s.Equal(1, logs)
}

func (s *StoreSuite) TestAuditFailureLeavesNoRows() {
	failing := &failingAuditStore{Store: s.store}
	service := core.NewService(failing, core.WithClock(clock))

	out, err := service.RunBatch(s.ctx, []core.ImportRow{
		driverRow("tsunoda", "Yuki", "Tsunoda"),
		driverRow("hadjar", "Isack", "Hadjar"),
	}, 215)

	var txErr *core.TransactionError
	s.Require().ErrorAs(err, &txErr)
	s.Equal("audit", txErr.Op)
	s.Equal(2, txErr.Partial.Created)
	s.Zero(out.Created)

	drivers, links, logs := s.tableCounts()
	s.Zero(drivers)
	s.Zero(links)
	s.Zero(logs)
}

func (s *StoreSuite) TestQueries() {
	_, err := s.service.RunBatch(s.ctx, []core.ImportRow{
		driverRow("antonelli", "Andrea Kimi", "Antonelli"),
		driverRow("russell", "George", "Russell"),
		driverRow("under_score", "Under", "Score"),
	}, 131)
	s.Require().NoError(err)

	n, err := s.service.ActiveDriverCount(s.ctx, 131)
	s.Require().NoError(err)
	s.Equal(3, n)

	found, err := s.service.SearchTeamDrivers(s.ctx, 131, "GEORGE", 0)
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal("russell", found[0].Ref)

	found, err = s.service.SearchTeamDrivers(s.ctx, 131, "george rus", 0)
	s.Require().NoError(err)
	s.Require().Len(found, 1, "full name matches across forename and surname")
	s.Equal("russell", found[0].Ref)

	found, err = s.service.SearchTeamDrivers(s.ctx, 131, "_", 0)
	s.Require().NoError(err)
	s.Empty(found, "underscore must match literally")

	found, err = s.service.SearchTeamDrivers(s.ctx, 131, "", 2)
	s.Require().NoError(err)
	s.Require().Len(found, 2)
	s.Equal("Antonelli", found[0].Surname)

	none, err := s.service.SearchTeamDrivers(s.ctx, 999, "", 0)
	s.Require().NoError(err)
	s.Empty(none)
}

func TestOpen_InMemory(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	service := core.NewService(store, core.WithClock(clock))
	out, err := service.RunBatch(ctx, []core.ImportRow{driverRow("zhou", "Guanyu", "Zhou")}, 15)
	require.NoError(t, err)
	require.Equal(t, 1, out.Created)

	entries, err := service.TeamLog(ctx, 15, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "roster.db")

	store, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	_, err = core.NewService(store, core.WithClock(clock)).
		RunBatch(ctx, []core.ImportRow{driverRow("hulkenberg", "Nico", "Hulkenberg")}, 15)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	require.True(t, strings.HasSuffix(store.Path(), "roster.db"))
	n, err := core.NewService(store, core.WithClock(clock)).ActiveDriverCount(ctx, 15)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

// failingAuditStore wraps a real store and fails the team_log write.
type failingAuditStore struct {
	*sqlite.Store
}

func (f *failingAuditStore) Begin(ctx context.Context) (core.Tx, error) {
	tx, err := f.Store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return failingAuditTx{Tx: tx}, nil
}

type failingAuditTx struct {
	core.Tx
}

func (failingAuditTx) AppendTeamLog(context.Context, core.TeamLogEntry) error {
	return errors.New("team_log is read-only")
}
