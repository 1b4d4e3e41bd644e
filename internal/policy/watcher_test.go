package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"btlinkd/internal/logging"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func startWatcher(t *testing.T, store *Store, reloads chan error) *Watcher {
	t.Helper()
	w := NewWatcher(store, logging.NewNop(), func(err error) { reloads <- err })
	w.debounce = 50 * time.Millisecond
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	t.Cleanup(w.Stop)
	return w
}

func awaitReload(t *testing.T, reloads chan error) error {
	t.Helper()
	select {
	case err := <-reloads:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
		return nil
	}
}

func TestWatcherReloadsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.json")
	writeFile(t, path, `{"inactivity_timeout": 300, "auto_connect": true, "device_address": "AA:BB:CC:DD:EE:FF"}`)

	store := NewStore(path, logging.NewNop())
	reloads := make(chan error, 4)
	startWatcher(t, store, reloads)

	writeFile(t, path, `{"inactivity_timeout": 600, "auto_connect": true, "device_address": "AA:BB:CC:DD:EE:FF"}`)
	if err := awaitReload(t, reloads); err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	if got := store.Get().IdleTimeout; got != 600*time.Second {
		t.Fatalf("expected reloaded timeout 600s, got %v", got)
	}
}

func TestWatcherRollsBackOnCorruptEdit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.json")
	writeFile(t, path, `{"inactivity_timeout": 300, "auto_connect": true, "device_address": "AA:BB:CC:DD:EE:FF"}`)

	store := NewStore(path, logging.NewNop())
	valid := store.Get()
	reloads := make(chan error, 4)
	startWatcher(t, store, reloads)

	writeFile(t, path, "definitely not json")
	if err := awaitReload(t, reloads); err == nil {
		t.Fatal("expected reload error for corrupt file")
	}
	if got := store.Get(); got != valid {
		t.Fatalf("expected rollback to %+v, got %+v", valid, got)
	}
}

func TestWatcherCoalescesRapidWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.json")
	writeFile(t, path, `{"inactivity_timeout": 300, "auto_connect": true, "device_address": "AA:BB:CC:DD:EE:FF"}`)

	store := NewStore(path, logging.NewNop())
	reloads := make(chan error, 16)
	startWatcher(t, store, reloads)

	// A burst of writes inside the debounce window must produce one reload.
	for i := 0; i < 5; i++ {
		writeFile(t, path, `{"inactivity_timeout": 450, "auto_connect": true, "device_address": "AA:BB:CC:DD:EE:FF"}`)
		time.Sleep(5 * time.Millisecond)
	}
	if err := awaitReload(t, reloads); err != nil {
		t.Fatalf("reload returned error: %v", err)
	}

	select {
	case err := <-reloads:
		t.Fatalf("expected a single coalesced reload, got another: %v", err)
	case <-time.After(300 * time.Millisecond):
	}
	if got := store.Get().IdleTimeout; got != 450*time.Second {
		t.Fatalf("expected coalesced timeout 450s, got %v", got)
	}
}
