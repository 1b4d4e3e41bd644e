package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"btlinkd/internal/audio"
	"btlinkd/internal/bluetooth"
	"btlinkd/internal/config"
	"btlinkd/internal/journal"
	"btlinkd/internal/logging"
	"btlinkd/internal/monitor"
	"btlinkd/internal/policy"
)

// Daemon owns the background tasks and enforces single-instance execution.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	policies  *policy.Store
	watcher   *policy.Watcher
	monitor   *monitor.Monitor
	journal   *journal.Store
	sessionID string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	SessionID    string
	LockPath     string
	JournalPath  string
	PolicyPath   string
	Policy       policy.Policy
	Monitor      monitor.Status
}

// New constructs a daemon with initialized dependencies. The sensor and
// actuator are injected so tests can substitute deterministic fakes. A journal
// that fails to open is logged and skipped; journaling is best-effort.
func New(cfg *config.Config, sensor audio.Sensor, actuator bluetooth.Actuator, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || sensor == nil || actuator == nil {
		return nil, errors.New("daemon requires config, sensor, and actuator")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	sessionID := uuid.NewString()
	logger = logger.With(logging.String(logging.FieldSessionID, sessionID))

	store := policy.NewStore(cfg.Paths.PolicyFile, logger)

	journalStore, err := journal.Open(cfg.Paths.JournalPath)
	if err != nil {
		logger.Warn("journal unavailable, continuing without it",
			logging.String("path", cfg.Paths.JournalPath),
			logging.Error(err),
		)
		journalStore = nil
	}

	var recorder monitor.Recorder
	if journalStore != nil {
		recorder = journalStore
	}

	mon, err := monitor.New(store, sensor, actuator, logger, monitor.Options{
		Tick: cfg.TickInterval(),
		Retry: monitor.RetryPolicy{
			FailureThreshold: cfg.Monitor.FailureThreshold,
			Backoff:          cfg.BackoffDuration(),
		},
		SessionID: sessionID,
		Recorder:  recorder,
	})
	if err != nil {
		return nil, err
	}

	d := &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		policies:  store,
		monitor:   mon,
		journal:   journalStore,
		sessionID: sessionID,
		lockPath:  filepath.Join(cfg.Paths.LogDir, "btlinkd.lock"),
	}
	d.lock = flock.New(d.lockPath)
	d.watcher = policy.NewWatcher(store, logger, d.recordReload)
	return d, nil
}

// SessionID returns the per-run identifier tagged on logs and journal rows.
func (d *Daemon) SessionID() string {
	return d.sessionID
}

// Journal returns the event store, or nil when journaling is disabled.
func (d *Daemon) Journal() *journal.Store {
	return d.journal
}

// BackupPolicy returns the last-known-good policy.
func (d *Daemon) BackupPolicy() policy.Policy {
	return d.policies.Backup()
}

// Start acquires the instance lock and launches the watcher and decision loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another btlinkd instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.watcher.Start(runCtx); err != nil {
		cancel()
		d.cancel = nil
		_ = d.lock.Unlock()
		return fmt.Errorf("start policy watcher: %w", err)
	}
	if err := d.monitor.Start(runCtx); err != nil {
		d.watcher.Stop()
		cancel()
		d.cancel = nil
		_ = d.lock.Unlock()
		return fmt.Errorf("start monitor: %w", err)
	}

	d.running.Store(true)
	d.record(runCtx, journal.KindSessionStart, "")
	d.logger.Info("btlinkd started",
		logging.String("lock", d.lockPath),
		logging.String("policy", d.policies.Path()),
		logging.Int("pid", os.Getpid()),
	)
	return nil
}

// Stop stops background tasks and releases the instance lock. The decision
// loop finishes its in-flight tick before exiting.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.monitor.Stop()
	d.watcher.Stop()
	d.record(context.Background(), journal.KindSessionStop, "")

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("btlinkd stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.journal != nil {
		return d.journal.Close()
	}
	return nil
}

// Status reports runtime information for the IPC surface.
func (d *Daemon) Status() Status {
	return Status{
		Running:     d.running.Load(),
		PID:         os.Getpid(),
		SessionID:   d.sessionID,
		LockPath:    d.lockPath,
		JournalPath: d.cfg.Paths.JournalPath,
		PolicyPath:  d.policies.Path(),
		Policy:      d.policies.Get(),
		Monitor:     d.monitor.Snapshot(),
	}
}

func (d *Daemon) recordReload(err error) {
	if err != nil {
		d.record(context.Background(), journal.KindPolicyRollback, err.Error())
		return
	}
	d.record(context.Background(), journal.KindPolicyReload, "")
}

func (d *Daemon) record(ctx context.Context, kind, detail string) {
	if d.journal == nil {
		return
	}
	event := journal.Event{
		SessionID: d.sessionID,
		Kind:      kind,
		Device:    d.policies.Get().DeviceAddress,
		Detail:    detail,
	}
	if err := d.journal.Record(ctx, event); err != nil {
		d.logger.Warn("journal write failed", logging.String("kind", kind), logging.Error(err))
	}
}
