package ipc_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"btlinkd/internal/audio"
	"btlinkd/internal/bluetooth"
	"btlinkd/internal/config"
	"btlinkd/internal/daemon"
	"btlinkd/internal/ipc"
	"btlinkd/internal/journal"
	"btlinkd/internal/logging"
)

func startTestDaemon(t *testing.T) (*daemon.Daemon, string) {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.PolicyFile = filepath.Join(base, "policy.json")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.JournalPath = filepath.Join(base, "journal.db")
	cfg.Paths.SocketPath = filepath.Join(base, "btlinkd.sock")

	contents := `{"inactivity_timeout": 300, "auto_connect": true, "device_address": "AA:BB:CC:DD:EE:FF"}`
	if err := os.MkdirAll(filepath.Dir(cfg.Paths.PolicyFile), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(cfg.Paths.PolicyFile, []byte(contents), 0o644); err != nil {
		t.Fatalf("write policy: %v", err)
	}

	d, err := daemon.New(&cfg, audio.NewFakeSensor(), bluetooth.NewFakeActuator(), logging.NewNop())
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d, cfg.Paths.SocketPath
}

func TestStatusRoundTrip(t *testing.T) {
	d, socket := startTestDaemon(t)

	server, err := ipc.NewServer(context.Background(), socket, d, logging.NewNop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	server.Serve()
	t.Cleanup(server.Close)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	status, err := client.Status()
	if err != nil {
		t.Fatalf("status call: %v", err)
	}
	if status.Running {
		t.Fatal("daemon not started; expected running=false")
	}
	if status.DeviceAddress != "AA:BB:CC:DD:EE:FF" {
		t.Fatalf("unexpected device address: %q", status.DeviceAddress)
	}
	if status.IdleTimeoutSeconds != 300 {
		t.Fatalf("unexpected idle timeout: %d", status.IdleTimeoutSeconds)
	}
	if status.SessionID == "" {
		t.Fatal("expected session id in status")
	}
}

func TestPolicyAndEventsRoundTrip(t *testing.T) {
	d, socket := startTestDaemon(t)

	if err := d.Journal().Record(context.Background(), journal.Event{
		SessionID: d.SessionID(),
		Kind:      journal.KindConnect,
		Device:    "AA:BB:CC:DD:EE:FF",
	}); err != nil {
		t.Fatalf("seed journal: %v", err)
	}

	server, err := ipc.NewServer(context.Background(), socket, d, logging.NewNop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	server.Serve()
	t.Cleanup(server.Close)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	pol, err := client.Policy()
	if err != nil {
		t.Fatalf("policy call: %v", err)
	}
	if pol.Current.DeviceAddress != "AA:BB:CC:DD:EE:FF" || pol.Current.InactivityTimeoutSeconds != 300 {
		t.Fatalf("unexpected current policy: %+v", pol.Current)
	}
	if pol.Backup != pol.Current {
		t.Fatalf("fresh store must report backup == current, got %+v", pol)
	}

	events, err := client.Events(10)
	if err != nil {
		t.Fatalf("events call: %v", err)
	}
	if len(events.Events) != 1 || events.Events[0].Kind != journal.KindConnect {
		t.Fatalf("unexpected events: %+v", events.Events)
	}
}
