// Package store persists the intake session and the finalized report
// across client restarts within a bounded freshness window.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Hcrab/clinicAI/internal/backend"
	"github.com/Hcrab/clinicAI/internal/conversation"
)

// SessionTTL is the freshness window: a stored session older than this
// is discarded on load.
const SessionTTL = 30 * time.Minute

// Store is the single-writer persistence surface for the orchestrator.
// It holds two keyed slots: the serialized turn history with its
// last-write timestamp, and the final report handoff.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultPath returns the on-disk database location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "clinicai", "session.sqlite")
}

// Open opens (and if needed creates) the store at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS session (
			slot INTEGER PRIMARY KEY CHECK (slot = 1),
			turns TEXT NOT NULL,
			savedAt REAL NOT NULL
		);

		CREATE TABLE IF NOT EXISTS report (
			slot INTEGER PRIMARY KEY CHECK (slot = 1),
			payload TEXT NOT NULL,
			savedAt REAL NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes the full turn history and stamps the current time.
// Repeated calls with the same data are idempotent.
func (s *Store) Save(history conversation.History) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO session (slot, turns, savedAt) VALUES (1, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET turns = excluded.turns, savedAt = excluded.savedAt
	`, string(data), unixFloat(s.now()))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns the stored history if its timestamp is still within the
// freshness window. An expired entry is cleared and an empty history
// returned. Read or parse failures are treated the same as absence;
// loading never fails the UI path.
func (s *Store) Load() conversation.History {
	row := s.db.QueryRow(`SELECT turns, savedAt FROM session WHERE slot = 1`)

	var raw string
	var savedAt float64
	if err := row.Scan(&raw, &savedAt); err != nil {
		return nil
	}

	if s.now().Sub(timeFromUnix(savedAt)) >= SessionTTL {
		s.Clear()
		return nil
	}

	var history conversation.History
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil
	}
	return history
}

// Clear removes the stored turns and timestamp unconditionally.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session WHERE slot = 1`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// SaveReport writes the finalized report to the handoff slot read by
// the report view.
func (s *Store) SaveReport(report backend.FinalReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO report (slot, payload, savedAt) VALUES (1, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, savedAt = excluded.savedAt
	`, string(data), unixFloat(s.now()))
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// LoadReport reads the handoff slot. Absence or a parse failure
// returns ok=false.
func (s *Store) LoadReport() (backend.FinalReport, bool) {
	row := s.db.QueryRow(`SELECT payload FROM report WHERE slot = 1`)

	var raw string
	if err := row.Scan(&raw); err != nil {
		return backend.FinalReport{}, false
	}

	var report backend.FinalReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return backend.FinalReport{}, false
	}
	return report, true
}

func unixFloat(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
