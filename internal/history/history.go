// Package history keeps a SQLite ledger of gate decisions.
//
// The ledger is optional. The CLI writes to it on `gate --record` and reads it
// back with the `history` command.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapmodel/pkg/engine"
	_ "modernc.org/sqlite" // register the "sqlite" driver
)

// DefaultLimit is used by List when limit is not positive.
const DefaultLimit = 20

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrNotOpen is returned when the store has no database.
var ErrNotOpen = errors.New("history store not opened")

// Entry is one recorded gate run.
type Entry struct {
	ID              string          `json:"id"`
	RecordedAt      time.Time       `json:"recorded_at"`
	Baseline        string          `json:"baseline"`
	Candidate       string          `json:"candidate"`
	Decision        engine.Decision `json:"decision"`
	GatePassed      bool            `json:"gate_passed"`
	Message         string          `json:"message"`
	BreakingChanges []string        `json:"breaking_changes"`
}

// NewEntry builds an entry from a gate result.
func NewEntry(baseline, candidate string, res *engine.GateResult) Entry {
	e := Entry{
		Baseline:        baseline,
		Candidate:       candidate,
		Decision:        res.Decision,
		GatePassed:      res.GatePassed,
		Message:         res.Message,
		BreakingChanges: []string{},
	}
	if res.Diff != nil {
		e.BreakingChanges = append(e.BreakingChanges, res.Diff.BreakingChanges...)
	}
	return e
}

// Store reads and writes gate runs.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// New wraps an open database. It does not run migrations.
func New(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{db: db, logger: logger, now: time.Now}
}

// Open opens (creating if needed) the ledger at path and migrates it.
// Use ":memory:" for a throwaway ledger.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create history directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// An in-memory database lives and dies with its connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := New(db, logger)
	s.logger.Debug("history store opened", slog.String("path", path))
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores e, assigning its ID and timestamp.
func (s *Store) Record(ctx context.Context, e Entry) (*Entry, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	e.ID = uuid.New().String()
	e.RecordedAt = s.now().UTC()
	if e.BreakingChanges == nil {
		e.BreakingChanges = []string{}
	}

	changes, err := json.Marshal(e.BreakingChanges)
	if err != nil {
		return nil, fmt.Errorf("failed to encode breaking changes: %w", err)
	}

	s.logger.Debug("recording gate run",
		slog.String("id", e.ID),
		slog.String("decision", string(e.Decision)))

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO gate_runs (id, recorded_at, baseline, candidate, decision, gate_passed, message, breaking_changes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.RecordedAt.Format(timeLayout), e.Baseline, e.Candidate,
		string(e.Decision), e.GatePassed, e.Message, string(changes),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record gate run: %w", err)
	}

	return &e, nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, recorded_at, baseline, candidate, decision, gate_passed, message, breaking_changes
		 FROM gate_runs
		 ORDER BY recorded_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list gate runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []Entry{}
	for rows.Next() {
		var (
			e        Entry
			recorded string
			decision string
			changes  string
		)
		if err := rows.Scan(&e.ID, &recorded, &e.Baseline, &e.Candidate,
			&decision, &e.GatePassed, &e.Message, &changes); err != nil {
			return nil, fmt.Errorf("failed to scan gate run: %w", err)
		}

		e.Decision = engine.Decision(decision)
		if e.RecordedAt, err = time.Parse(timeLayout, recorded); err != nil {
			return nil, fmt.Errorf("gate run %s has bad timestamp: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(changes), &e.BreakingChanges); err != nil {
			return nil, fmt.Errorf("gate run %s has bad breaking changes: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list gate runs: %w", err)
	}

	return entries, nil
}
