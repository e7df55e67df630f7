package backends

import (
	"context"
	"time"
)

// Exchange is one persisted user-message/model-response pair. Created once
// per chat request and immutable afterwards; deleted only via Purge.
type Exchange struct {
	ID          int64     `json:"id"`
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	Timestamp   time.Time `json:"timestamp"`
	ClientKey   string    `json:"-"`
	SessionID   string    `json:"session_id,omitempty"`
	ModelUsed   string    `json:"model_used,omitempty"`
}

const (
	// DefaultLimit is used when a history query does not specify one.
	DefaultLimit = 20

	// MaxLimit caps caller-supplied limits so a single request cannot pull
	// an unbounded result set.
	MaxLimit = 200
)

// ClampLimit normalizes a caller-supplied limit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Store is the exchange log. Keys are opaque client keys — the HTTP layer
// derives them from the request, storage does not care what they mean.
type Store interface {
	// Append inserts the exchange and fills in its assigned ID.
	Append(ctx context.Context, ex *Exchange) error

	// List returns the most recent exchanges for a client key, newest first.
	List(ctx context.Context, clientKey string, limit int) ([]Exchange, error)

	// Purge deletes all exchanges for a client key and returns the count.
	Purge(ctx context.Context, clientKey string) (int64, error)

	// PurgeOlderThan deletes exchanges older than cutoff across all clients.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// CountAll returns the total number of stored exchanges.
	CountAll(ctx context.Context) (int64, error)

	// CountDistinctClients returns the number of distinct client keys.
	CountDistinctClients(ctx context.Context) (int64, error)

	// Ping checks connectivity.
	Ping(ctx context.Context) error

	// Close releases the underlying connections.
	Close() error
}
