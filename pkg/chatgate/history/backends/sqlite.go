// Package backends provides the storage backend implementations for the
// exchange log.
package backends

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteConfig holds SQLite-specific configuration.
type SQLiteConfig struct {
	Path        string
	JournalMode string
	BusyTimeout int
}

// SQLiteStore is the default zero-configuration exchange store.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS exchanges (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_message TEXT NOT NULL,
	ai_response TEXT NOT NULL,
	created_at TEXT NOT NULL,
	client_key TEXT NOT NULL,
	session_id TEXT,
	model_used TEXT
);
CREATE INDEX IF NOT EXISTS idx_exchanges_client ON exchanges(client_key, id);
CREATE INDEX IF NOT EXISTS idx_exchanges_created ON exchanges(created_at);
`

// OpenSQLite opens or creates the SQLite exchange store.
func OpenSQLite(config SQLiteConfig) (*SQLiteStore, error) {
	if config.Path == "" {
		config.Path = "./data/chatgate.db"
	}
	if config.JournalMode == "" {
		config.JournalMode = "WAL"
	}
	if config.BusyTimeout == 0 {
		config.BusyTimeout = 5000
	}

	// Ensure parent directory exists
	dir := filepath.Dir(config.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory %q: %w", dir, err)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=%s&_busy_timeout=%d", config.Path, config.JournalMode, config.BusyTimeout)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite tolerates a single writer; keep the pool at one connection to
	// avoid SQLITE_BUSY churn under concurrent requests.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create exchanges schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, ex *Exchange) error {
	if ex.Timestamp.IsZero() {
		ex.Timestamp = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO exchanges (user_message, ai_response, created_at, client_key, session_id, model_used)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ex.UserMessage,
		ex.AIResponse,
		ex.Timestamp.UTC().Format(time.RFC3339Nano),
		ex.ClientKey,
		nullable(ex.SessionID),
		nullable(ex.ModelUsed),
	)
	if err != nil {
		return fmt.Errorf("append exchange: %w", err)
	}
	ex.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("exchange id: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, clientKey string, limit int) ([]Exchange, error) {
	limit = ClampLimit(limit)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_message, ai_response, created_at, session_id, model_used
		FROM exchanges
		WHERE client_key = ?
		ORDER BY id DESC
		LIMIT ?`, clientKey, limit)
	if err != nil {
		return nil, fmt.Errorf("list exchanges: %w", err)
	}
	defer rows.Close()

	var out []Exchange
	for rows.Next() {
		var (
			ex        Exchange
			createdAt string
			sessionID sql.NullString
			modelUsed sql.NullString
		)
		if err := rows.Scan(&ex.ID, &ex.UserMessage, &ex.AIResponse, &createdAt, &sessionID, &modelUsed); err != nil {
			return nil, fmt.Errorf("scan exchange: %w", err)
		}
		ex.Timestamp, _ = time.Parse(time.RFC3339Nano, createdAt)
		ex.ClientKey = clientKey
		ex.SessionID = sessionID.String
		ex.ModelUsed = modelUsed.String
		out = append(out, ex)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Purge(ctx context.Context, clientKey string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM exchanges WHERE client_key = ?", clientKey)
	if err != nil {
		return 0, fmt.Errorf("purge exchanges: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM exchanges WHERE created_at < ?",
		cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("purge old exchanges: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM exchanges").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count exchanges: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) CountDistinctClients(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT client_key) FROM exchanges").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count distinct clients: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// nullable maps "" to NULL so optional columns stay genuinely optional.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
