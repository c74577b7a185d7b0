package core_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/JonMunkholm/roster/internal/core"
)

// memStore is an in-memory core.Store with snapshot savepoints. Writes made
// through a tx become visible only on Commit.
type memStore struct {
	mu     sync.Mutex
	state  memState
	begins int
	// nextID behaves like a database sequence and is not rolled back.
	nextID int64
	// beginDelay slows Begin down for timeout tests.
	beginDelay time.Duration

	// insertErrs makes InsertDriver fail for the given refs.
	insertErrs map[string]error
	// linkErrs makes LinkDriverTeam fail for the given driver ids.
	linkErrs map[int64]error
}

type linkKey struct {
	driverID, teamID int64
	year             int
}

type memState struct {
	drivers map[string]core.Driver
	links   map[linkKey]struct{}
	log     []core.TeamLogEntry
}

func newMemStore() *memStore {
	return &memStore{
		state: memState{
			drivers: map[string]core.Driver{},
			links:   map[linkKey]struct{}{},
		},
		insertErrs: map[string]error{},
		linkErrs:   map[int64]error{},
	}
}

func (s memState) clone() memState {
	c := memState{
		drivers: make(map[string]core.Driver, len(s.drivers)),
		links:   make(map[linkKey]struct{}, len(s.links)),
		log:     append([]core.TeamLogEntry(nil), s.log...),
	}
	for k, v := range s.drivers {
		c.drivers[k] = v
	}
	for k := range s.links {
		c.links[k] = struct{}{}
	}
	return c
}

// seed adds a committed driver and returns its id.
func (s *memStore) seed(d core.Driver) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	d.ID = s.nextID
	s.state.drivers[d.Ref] = d
	return d.ID
}

func (s *memStore) snapshot() memState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *memStore) Begin(ctx context.Context) (core.Tx, error) {
	time.Sleep(s.beginDelay)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begins++
	return &memTx{store: s, work: s.state.clone(), savepoints: map[string]memState{}}, nil
}

func (s *memStore) SearchTeamDrivers(ctx context.Context, teamID int64, term string, limit int) ([]core.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Driver
	for _, d := range s.state.drivers {
		linked := false
		for k := range s.state.links {
			if k.driverID == d.ID && k.teamID == teamID {
				linked = true
				break
			}
		}
		name := strings.ToLower(d.Forename + " " + d.Surname)
		if linked && strings.Contains(name, strings.ToLower(term)) {
			out = append(out, d)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) CountTeamDrivers(ctx context.Context, teamID int64, year int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k := range s.state.links {
		if k.teamID == teamID && k.year == year {
			n++
		}
	}
	return n, nil
}

func (s *memStore) ListTeamLog(ctx context.Context, teamID int64, limit int) ([]core.TeamLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.TeamLogEntry
	for i := len(s.state.log) - 1; i >= 0 && len(out) < limit; i-- {
		if s.state.log[i].TeamID == teamID {
			out = append(out, s.state.log[i])
		}
	}
	return out, nil
}

type memTx struct {
	store      *memStore
	work       memState
	savepoints map[string]memState
	done       bool
}

var errTxDone = errors.New("transaction already finished")

func (t *memTx) FindDriverByRef(ctx context.Context, ref string) (int64, bool, error) {
	if t.done {
		return 0, false, errTxDone
	}
	d, ok := t.work.drivers[ref]
	return d.ID, ok, nil
}

func (t *memTx) InsertDriver(ctx context.Context, d core.Driver) (int64, bool, error) {
	if t.done {
		return 0, false, errTxDone
	}
	if err := t.store.insertErrs[d.Ref]; err != nil {
		return 0, false, err
	}
	if _, exists := t.work.drivers[d.Ref]; exists {
		return 0, false, nil
	}
	t.store.mu.Lock()
	t.store.nextID++
	d.ID = t.store.nextID
	t.store.mu.Unlock()
	t.work.drivers[d.Ref] = d
	return d.ID, true, nil
}

func (t *memTx) LinkDriverTeam(ctx context.Context, driverID, teamID int64, year int) error {
	if t.done {
		return errTxDone
	}
	if err := t.store.linkErrs[driverID]; err != nil {
		return err
	}
	t.work.links[linkKey{driverID, teamID, year}] = struct{}{}
	return nil
}

func (t *memTx) AppendTeamLog(ctx context.Context, entry core.TeamLogEntry) error {
	if t.done {
		return errTxDone
	}
	entry.ID = int64(len(t.work.log) + 1)
	t.work.log = append(t.work.log, entry)
	return nil
}

func (t *memTx) Savepoint(ctx context.Context, name string) error {
	t.savepoints[name] = t.work.clone()
	return nil
}

func (t *memTx) RollbackToSavepoint(ctx context.Context, name string) error {
	sp, ok := t.savepoints[name]
	if !ok {
		return errors.New("no such savepoint " + name)
	}
	t.work = sp.clone()
	return nil
}

func (t *memTx) ReleaseSavepoint(ctx context.Context, name string) error {
	if _, ok := t.savepoints[name]; !ok {
		return errors.New("no such savepoint " + name)
	}
	delete(t.savepoints, name)
	return nil
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return errTxDone
	}
	t.done = true
	t.store.mu.Lock()
	t.store.state = t.work
	t.store.mu.Unlock()
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	t.done = true
	return nil
}
