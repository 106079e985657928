package event

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLSink persists events to a pure-Go SQLite database for ad-hoc
// querying of a run's history without re-parsing the JSON trace file.
// The teacher reaches for modernc.org/sqlite alongside a cgo driver for
// exactly this cgo-free-query reason (internal/state); this repo keeps
// only the pure-Go driver, see DESIGN.md.
type SQLSink struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// NewSQLSink opens (creating if needed) a SQLite database at path and
// prepares the event_trace table.
func NewSQLSink(path string) (*SQLSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("event: open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS event_trace (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp INTEGER NOT NULL,
		type TEXT NOT NULL,
		tick_number INTEGER,
		entity_id TEXT,
		payload TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("event: create table: %w", err)
	}

	stmt, err := db.Prepare(`INSERT INTO event_trace (timestamp, type, tick_number, entity_id, payload) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("event: prepare insert: %w", err)
	}
	return &SQLSink{db: db, stmt: stmt}, nil
}

func (s *SQLSink) Write(ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("event: marshal for sqlite: %w", err)
	}
	_, err = s.stmt.Exec(ev.Timestamp, string(ev.Type), ev.TickNumber, ev.EntityID, string(payload))
	return err
}

func (s *SQLSink) Close() error {
	s.stmt.Close()
	return s.db.Close()
}
