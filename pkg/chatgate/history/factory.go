package history

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/averko/chatgate/pkg/chatgate/history/backends"
)

// BackendType identifies the storage backend.
type BackendType string

const (
	BackendSQLite     BackendType = "sqlite"
	BackendPostgreSQL BackendType = "postgresql"
)

// DetectBackend picks the backend type from a connection string.
// postgres:// and postgresql:// URLs select PostgreSQL; anything else —
// including an empty string — is treated as a SQLite file path.
func DetectBackend(dsn string) BackendType {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return BackendPostgreSQL
	}
	return BackendSQLite
}

// Open builds a Store from a connection string. An empty dsn opens the
// default SQLite file, so the service runs with zero configuration.
func Open(dsn string, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "history")

	switch backend := DetectBackend(dsn); backend {
	case BackendPostgreSQL:
		store, err := backends.OpenPostgreSQL(backends.PostgreSQLConfig{DSN: dsn})
		if err != nil {
			return nil, fmt.Errorf("open postgresql store: %w", err)
		}
		logger.Info("history store ready", "backend", backend)
		return store, nil
	default:
		store, err := backends.OpenSQLite(backends.SQLiteConfig{Path: dsn})
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("history store ready", "backend", backend, "path", dsn)
		return store, nil
	}
}
