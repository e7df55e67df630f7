package backends

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAssignsID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	ex := &Exchange{
		UserMessage: "hello",
		AIResponse:  "hi",
		ClientKey:   "10.0.0.1",
	}
	if err := store.Append(ctx, ex); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if ex.ID == 0 {
		t.Error("Append did not assign an id")
	}
	if ex.Timestamp.IsZero() {
		t.Error("Append did not assign a timestamp")
	}
}

func TestListNewestFirstScopedToClient(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i, msg := range []string{"first", "second", "third"} {
		ex := &Exchange{
			UserMessage: msg,
			AIResponse:  "reply",
			ClientKey:   "10.0.0.1",
			Timestamp:   time.Now().UTC().Add(time.Duration(i) * time.Second),
		}
		if err := store.Append(ctx, ex); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	other := &Exchange{UserMessage: "noise", AIResponse: "r", ClientKey: "10.0.0.2"}
	if err := store.Append(ctx, other); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := store.List(ctx, "10.0.0.1", 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List returned %d exchanges, want 3", len(got))
	}
	if got[0].UserMessage != "third" || got[2].UserMessage != "first" {
		t.Errorf("unexpected order: %q ... %q, want newest first", got[0].UserMessage, got[2].UserMessage)
	}

	limited, err := store.List(ctx, "10.0.0.1", 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(limited) != 1 || limited[0].UserMessage != "third" {
		t.Errorf("List(limit=1) = %+v, want only the most recent", limited)
	}
}

func TestPurgeThenListEmpty(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		ex := &Exchange{UserMessage: "m", AIResponse: "r", ClientKey: "10.0.0.1"}
		if err := store.Append(ctx, ex); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	keep := &Exchange{UserMessage: "m", AIResponse: "r", ClientKey: "10.0.0.2"}
	if err := store.Append(ctx, keep); err != nil {
		t.Fatalf("Append: %v", err)
	}

	deleted, err := store.Purge(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if deleted != 4 {
		t.Errorf("Purge deleted %d, want 4", deleted)
	}

	got, err := store.List(ctx, "10.0.0.1", 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List after purge returned %d exchanges, want 0", len(got))
	}

	// The other client's history is untouched.
	total, err := store.CountAll(ctx)
	if err != nil {
		t.Fatalf("CountAll: %v", err)
	}
	if total != 1 {
		t.Errorf("CountAll = %d, want 1", total)
	}
}

func TestCounts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"a", "a", "b", "c"} {
		ex := &Exchange{UserMessage: "m", AIResponse: "r", ClientKey: key}
		if err := store.Append(ctx, ex); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	total, err := store.CountAll(ctx)
	if err != nil {
		t.Fatalf("CountAll: %v", err)
	}
	if total != 4 {
		t.Errorf("CountAll = %d, want 4", total)
	}

	clients, err := store.CountDistinctClients(ctx)
	if err != nil {
		t.Fatalf("CountDistinctClients: %v", err)
	}
	if clients != 3 {
		t.Errorf("CountDistinctClients = %d, want 3", clients)
	}
}

func TestPurgeOlderThan(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	old := &Exchange{
		UserMessage: "old", AIResponse: "r", ClientKey: "a",
		Timestamp: time.Now().UTC().Add(-48 * time.Hour),
	}
	fresh := &Exchange{
		UserMessage: "fresh", AIResponse: "r", ClientKey: "a",
		Timestamp: time.Now().UTC(),
	}
	for _, ex := range []*Exchange{old, fresh} {
		if err := store.Append(ctx, ex); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	deleted, err := store.PurgeOlderThan(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("PurgeOlderThan: %v", err)
	}
	if deleted != 1 {
		t.Errorf("PurgeOlderThan deleted %d, want 1", deleted)
	}

	got, err := store.List(ctx, "a", 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].UserMessage != "fresh" {
		t.Errorf("remaining = %+v, want only the fresh exchange", got)
	}
}

func TestSessionIDRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	ex := &Exchange{
		UserMessage: "m", AIResponse: "r", ClientKey: "a",
		SessionID: "sess-123", ModelUsed: "gemini-2.5-flash",
	}
	if err := store.Append(ctx, ex); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := store.List(ctx, "a", 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got[0].SessionID != "sess-123" || got[0].ModelUsed != "gemini-2.5-flash" {
		t.Errorf("round trip lost optional fields: %+v", got[0])
	}
}
