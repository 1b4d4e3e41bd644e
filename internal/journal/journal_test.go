package journal_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"btlinkd/internal/journal"
)

func openStore(t *testing.T) *journal.Store {
	t.Helper()
	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecentOrdering(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	kinds := []string{journal.KindSessionStart, journal.KindConnect, journal.KindDisconnect}
	for _, kind := range kinds {
		err := store.Record(ctx, journal.Event{
			SessionID: "s1",
			Kind:      kind,
			Device:    "AA:BB:CC:DD:EE:FF",
		})
		if err != nil {
			t.Fatalf("record %s: %v", kind, err)
		}
	}

	events, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	// Newest first.
	if events[0].Kind != journal.KindDisconnect || events[2].Kind != journal.KindSessionStart {
		t.Fatalf("unexpected ordering: %v %v %v", events[0].Kind, events[1].Kind, events[2].Kind)
	}
	for _, e := range events {
		if e.SessionID != "s1" {
			t.Fatalf("unexpected session id: %q", e.SessionID)
		}
		if e.CreatedAt.IsZero() {
			t.Fatal("expected created_at to be populated")
		}
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := store.Record(ctx, journal.Event{SessionID: "s1", Kind: journal.KindConnect}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	events, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
}

func TestRecordPreservesExplicitTimestamp(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := store.Record(ctx, journal.Event{Kind: journal.KindBackoff, CreatedAt: ts}); err != nil {
		t.Fatalf("record: %v", err)
	}
	events, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if !events[0].CreatedAt.Equal(ts) {
		t.Fatalf("timestamp mismatch: got %v want %v", events[0].CreatedAt, ts)
	}
}

func TestOpenIsIdempotentAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	first, err := journal.Open(path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	if err := first.Record(context.Background(), journal.Event{Kind: journal.KindSessionStart}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := journal.Open(path)
	if err != nil {
		t.Fatalf("reopen journal: %v", err)
	}
	defer second.Close()
	events, err := second.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected persisted event after reopen, got %d", len(events))
	}
}
