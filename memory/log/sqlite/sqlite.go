// Package sqlite implements the chronological log on an embedded SQLite
// database (pure-Go driver, no cgo). One row per turn, ordered by a
// monotonic rowid so per-session ordering survives identical timestamps.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/substratehq/substrate/core"
	"github.com/substratehq/substrate/memory"
)

const schema = `
CREATE TABLE IF NOT EXISTS turns (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	timestamp  TEXT NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_turns_session ON turns (session_id, id);
`

// Log is a SQLite-backed chronological log.
type Log struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and ensures
// the schema exists. The parent directory is created as needed.
func Open(path string) (*Log, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	log.Debugf("[SQLITE] Opened chronological log at %s", path)
	return &Log{db: db}, nil
}

// Append implements memory.Log.
func (l *Log) Append(ctx context.Context, turn memory.Turn) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO turns (session_id, timestamp, role, content) VALUES (?, ?, ?, ?)`,
		turn.SessionID,
		turn.Timestamp.UTC().Format(time.RFC3339Nano),
		string(turn.Role),
		turn.Content,
	)
	if err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}
	return nil
}

// Recent implements memory.Log. Rows are selected newest-first by rowid
// and reversed so callers get chronological (oldest-first) order.
func (l *Log) Recent(ctx context.Context, sessionID string, limit int) ([]memory.Turn, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT timestamp, role, content FROM turns
		 WHERE session_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select turns: %w", err)
	}
	defer rows.Close()

	var turns []memory.Turn
	for rows.Next() {
		var ts, role, content string
		if err := rows.Scan(&ts, &role, &content); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse turn timestamp: %w", err)
		}
		turns = append(turns, memory.Turn{
			SessionID: sessionID,
			Timestamp: parsed,
			Role:      core.Role(role),
			Content:   content,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	// Reverse newest-first into chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// Close implements memory.Log. The database handle rejects further
// queries once closed.
func (l *Log) Close() error {
	return l.db.Close()
}
