package turnlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"reelchat/internal/recommend"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS turns (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    request_id TEXT NOT NULL DEFAULT '',
    intent TEXT NOT NULL,
    query_json TEXT NOT NULL DEFAULT '{}',
    result_count INTEGER NOT NULL DEFAULT 0,
    response_chars INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_turns_created_at ON turns(created_at);
`

// Turn is one persisted audit row.
type Turn struct {
	ID            int64
	RequestID     string
	Intent        string
	QueryJSON     string
	ResultCount   int
	ResponseChars int
	Duration      time.Duration
	CreatedAt     time.Time
}

// Store manages turn persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the turn database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure turn log directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts an audit row for a completed turn.
func (s *Store) Record(ctx context.Context, record recommend.TurnRecord) error {
	queryJSON := "{}"
	if len(record.Query) > 0 {
		encoded, err := json.Marshal(record.Query)
		if err != nil {
			return fmt.Errorf("marshal query: %w", err)
		}
		queryJSON = string(encoded)
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO turns (
            request_id, intent, query_json, result_count,
            response_chars, duration_ms, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.RequestID,
		record.Intent,
		queryJSON,
		record.ResultCount,
		record.ResponseChars,
		record.Duration.Milliseconds(),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}
	return nil
}

// Recent returns the newest turns, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Turn, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, request_id, intent, query_json, result_count,
            response_chars, duration_ms, created_at
        FROM turns ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var (
			turn       Turn
			durationMS int64
			createdAt  string
		)
		if err := rows.Scan(
			&turn.ID,
			&turn.RequestID,
			&turn.Intent,
			&turn.QueryJSON,
			&turn.ResultCount,
			&turn.ResponseChars,
			&durationMS,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turn.Duration = time.Duration(durationMS) * time.Millisecond
		if parsed, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			turn.CreatedAt = parsed
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}
	return turns, nil
}
