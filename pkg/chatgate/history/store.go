// Package history provides the append-only exchange log with pluggable
// storage backends (SQLite by default, PostgreSQL via DATABASE_URL).
package history

import (
	"github.com/averko/chatgate/pkg/chatgate/history/backends"
)

// Exchange is one persisted user-message/model-response pair. Created once
// per chat request and immutable afterwards; deleted only via Purge.
type Exchange = backends.Exchange

const (
	// DefaultLimit is used when a history query does not specify one.
	DefaultLimit = backends.DefaultLimit

	// MaxLimit caps caller-supplied limits so a single request cannot pull
	// an unbounded result set.
	MaxLimit = backends.MaxLimit
)

// ClampLimit normalizes a caller-supplied limit.
func ClampLimit(limit int) int {
	return backends.ClampLimit(limit)
}

// Store is the exchange log. Keys are opaque client keys — the HTTP layer
// derives them from the request, storage does not care what they mean.
type Store = backends.Store
