package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/consultorio/painel/internal/database"
	"github.com/consultorio/painel/internal/database/repository"
	"github.com/consultorio/painel/internal/remote"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrations(db))
	return db
}

// fakeRemote is an in-memory remote store with per-table failure switches.
type fakeRemote struct {
	mu          sync.Mutex
	records     map[string]json.RawMessage
	goals       map[string]json.RawMessage
	failRecords bool
	failGoals   bool
	failUpserts bool
	upserts     int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		records: map[string]json.RawMessage{},
		goals:   map[string]json.RawMessage{},
	}
}

func (f *fakeRemote) ListRecords(ctx context.Context) ([]remote.DailyRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRecords {
		return nil, fmt.Errorf("%w: records table down", remote.ErrUnavailable)
	}
	var rows []remote.DailyRow
	for date, data := range f.records {
		rows = append(rows, remote.DailyRow{Date: date, Data: data})
	}
	return rows, nil
}

func (f *fakeRemote) UpsertRecord(ctx context.Context, date string, data json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpserts {
		return fmt.Errorf("%w: upsert refused", remote.ErrUnavailable)
	}
	f.records[date] = append(json.RawMessage(nil), data...)
	f.upserts++
	return nil
}

func (f *fakeRemote) ListGoals(ctx context.Context) ([]remote.GoalRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGoals {
		return nil, fmt.Errorf("%w: goals table down", remote.ErrUnavailable)
	}
	var rows []remote.GoalRow
	for scope, data := range f.goals {
		rows = append(rows, remote.GoalRow{Scope: scope, Data: data})
	}
	return rows, nil
}

func (f *fakeRemote) UpsertGoals(ctx context.Context, scope string, data json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpserts {
		return fmt.Errorf("%w: upsert refused", remote.ErrUnavailable)
	}
	f.goals[scope] = append(json.RawMessage(nil), data...)
	f.upserts++
	return nil
}

func newRecords(t *testing.T, db *sql.DB, store RemoteStore) *Records {
	t.Helper()
	return &Records{
		Repo:   repository.NewRecordRepo(db),
		Goals:  repository.NewGoalRepo(db),
		Remote: store,
	}
}
