package backends

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

// PostgreSQLConfig holds PostgreSQL-specific configuration.
type PostgreSQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// PostgreSQLStore is the exchange store for deployments with a shared
// database (DATABASE_URL pointing at postgres).
type PostgreSQLStore struct {
	db *sql.DB
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS exchanges (
	id BIGSERIAL PRIMARY KEY,
	user_message TEXT NOT NULL,
	ai_response TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	client_key VARCHAR(100) NOT NULL,
	session_id VARCHAR(100),
	model_used VARCHAR(100)
);
CREATE INDEX IF NOT EXISTS idx_exchanges_client ON exchanges(client_key, id);
CREATE INDEX IF NOT EXISTS idx_exchanges_created ON exchanges(created_at);
`

// OpenPostgreSQL opens a PostgreSQL-backed exchange store.
func OpenPostgreSQL(config PostgreSQLConfig) (*PostgreSQLStore, error) {
	if config.DSN == "" {
		return nil, fmt.Errorf("postgres DSN required")
	}
	if config.MaxOpenConns == 0 {
		config.MaxOpenConns = 25
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 10
	}
	if config.ConnMaxLifetime == 0 {
		config.ConnMaxLifetime = 30 * time.Minute
	}
	if config.ConnMaxIdleTime == 0 {
		config.ConnMaxIdleTime = 5 * time.Minute
	}

	db, err := sql.Open("pgx", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create exchanges schema: %w", err)
	}

	return &PostgreSQLStore{db: db}, nil
}

func (s *PostgreSQLStore) Append(ctx context.Context, ex *Exchange) error {
	if ex.Timestamp.IsZero() {
		ex.Timestamp = time.Now().UTC()
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO exchanges (user_message, ai_response, created_at, client_key, session_id, model_used)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		ex.UserMessage,
		ex.AIResponse,
		ex.Timestamp.UTC(),
		ex.ClientKey,
		nullable(ex.SessionID),
		nullable(ex.ModelUsed),
	).Scan(&ex.ID)
	if err != nil {
		return fmt.Errorf("append exchange: %w", err)
	}
	return nil
}

func (s *PostgreSQLStore) List(ctx context.Context, clientKey string, limit int) ([]Exchange, error) {
	limit = ClampLimit(limit)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_message, ai_response, created_at, session_id, model_used
		FROM exchanges
		WHERE client_key = $1
		ORDER BY id DESC
		LIMIT $2`, clientKey, limit)
	if err != nil {
		return nil, fmt.Errorf("list exchanges: %w", err)
	}
	defer rows.Close()

	var out []Exchange
	for rows.Next() {
		var (
			ex        Exchange
			sessionID sql.NullString
			modelUsed sql.NullString
		)
		if err := rows.Scan(&ex.ID, &ex.UserMessage, &ex.AIResponse, &ex.Timestamp, &sessionID, &modelUsed); err != nil {
			return nil, fmt.Errorf("scan exchange: %w", err)
		}
		ex.ClientKey = clientKey
		ex.SessionID = sessionID.String
		ex.ModelUsed = modelUsed.String
		out = append(out, ex)
	}
	return out, rows.Err()
}

func (s *PostgreSQLStore) Purge(ctx context.Context, clientKey string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM exchanges WHERE client_key = $1", clientKey)
	if err != nil {
		return 0, fmt.Errorf("purge exchanges: %w", err)
	}
	return res.RowsAffected()
}

func (s *PostgreSQLStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM exchanges WHERE created_at < $1", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge old exchanges: %w", err)
	}
	return res.RowsAffected()
}

func (s *PostgreSQLStore) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM exchanges").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count exchanges: %w", err)
	}
	return n, nil
}

func (s *PostgreSQLStore) CountDistinctClients(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT client_key) FROM exchanges").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count distinct clients: %w", err)
	}
	return n, nil
}

func (s *PostgreSQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgreSQLStore) Close() error {
	return s.db.Close()
}
