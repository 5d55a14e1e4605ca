package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/leapmodel/internal/testutil"
	"github.com/leapstack-labs/leapmodel/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:", testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// clock returns a now func that advances a second per call.
func clock(start time.Time) func() time.Time {
	cur := start
	return func() time.Time {
		cur = cur.Add(time.Second)
		return cur
	}
}

func TestOpen_Migrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	s, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	v, err := Version(context.Background(), s.db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	// Reopening an existing ledger is a no-op migration.
	require.NoError(t, s.Close())
	s2, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestRecordAndList(t *testing.T) {
	s := openMemory(t)
	s.now = clock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	pass := engine.RunGate(testutil.BaselineModel, testutil.AdditiveModel, false)
	fail := engine.RunGate(testutil.BaselineModel, testutil.TypeChangeModel, false)

	first, err := s.Record(ctx, NewEntry("base.yaml", "add.yaml", pass))
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := s.Record(ctx, NewEntry("base.yaml", "type.yaml", fail))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	latest := entries[0]
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, "type.yaml", latest.Candidate)
	assert.Equal(t, engine.DecisionFailOnBreaking, latest.Decision)
	assert.False(t, latest.GatePassed)
	assert.Equal(t, []string{"Field type changed: Order.total_amount"}, latest.BreakingChanges)
	assert.True(t, latest.RecordedAt.Equal(second.RecordedAt))

	assert.Equal(t, first.ID, entries[1].ID)
	assert.True(t, entries[1].GatePassed)
	assert.Empty(t, entries[1].BreakingChanges)
	assert.NotNil(t, entries[1].BreakingChanges)
}

func TestList_Limit(t *testing.T) {
	s := openMemory(t)
	s.now = clock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for range 5 {
		_, err := s.Record(ctx, Entry{Decision: engine.DecisionPass, GatePassed: true})
		require.NoError(t, err)
	}

	entries, err := s.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i-1].RecordedAt.After(entries[i].RecordedAt))
	}
}

func TestList_Empty(t *testing.T) {
	entries, err := openMemory(t).List(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestNewEntry_ValidationFailure(t *testing.T) {
	res := engine.RunGate(testutil.BaselineModel, testutil.InvalidModel, false)
	e := NewEntry("a", "b", res)

	assert.Equal(t, engine.DecisionFailOnValidation, e.Decision)
	assert.Equal(t, engine.MessageValidationFailed, e.Message)
	assert.Empty(t, e.BreakingChanges)
}

func TestStore_NotOpen(t *testing.T) {
	s := &Store{}
	_, err := s.Record(context.Background(), Entry{})
	assert.ErrorIs(t, err, ErrNotOpen)
	_, err = s.List(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.NoError(t, s.Close())
}

func TestStore_DatabaseErrors(t *testing.T) {
	columns := []string{"id", "recorded_at", "baseline", "candidate", "decision", "gate_passed", "message", "breaking_changes"}

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		run       func(s *Store) error
		wantErr   string
	}{
		{
			name: "insert fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO gate_runs").WillReturnError(errors.New("disk full"))
			},
			run: func(s *Store) error {
				_, err := s.Record(context.Background(), Entry{})
				return err
			},
			wantErr: "failed to record gate run: disk full",
		},
		{
			name: "query fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM gate_runs").WillReturnError(errors.New("locked"))
			},
			run: func(s *Store) error {
				_, err := s.List(context.Background(), 5)
				return err
			},
			wantErr: "failed to list gate runs: locked",
		},
		{
			name: "bad timestamp",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM gate_runs").
					WillReturnRows(sqlmock.NewRows(columns).
						AddRow("r1", "yesterday", "a", "b", "PASS", true, "ok", "[]"))
			},
			run: func(s *Store) error {
				_, err := s.List(context.Background(), 5)
				return err
			},
			wantErr: "gate run r1 has bad timestamp",
		},
		{
			name: "bad breaking changes",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM gate_runs").
					WillReturnRows(sqlmock.NewRows(columns).
						AddRow("r2", "2026-03-01T00:00:00.000000000Z", "a", "b", "PASS", true, "ok", "{"))
			},
			run: func(s *Store) error {
				_, err := s.List(context.Background(), 5)
				return err
			},
			wantErr: "gate run r2 has bad breaking changes",
		},
		{
			name: "row iteration fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM gate_runs").
					WillReturnRows(sqlmock.NewRows(columns).
						AddRow("r3", "2026-03-01T00:00:00.000000000Z", "a", "b", "PASS", true, "ok", "[]").
						RowError(0, errors.New("io")))
			},
			run: func(s *Store) error {
				_, err := s.List(context.Background(), 5)
				return err
			},
			wantErr: "io",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			tt.setupMock(mock)
			err = tt.run(New(db, nil))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
