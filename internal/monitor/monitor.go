package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"btlinkd/internal/audio"
	"btlinkd/internal/bluetooth"
	"btlinkd/internal/journal"
	"btlinkd/internal/logging"
	"btlinkd/internal/policy"
)

// DefaultTick is the baseline decision-loop cadence.
const DefaultTick = time.Second

// RetryPolicy bounds consecutive-failure handling. Kept as an explicit named
// value rather than inline constants so it stays independently tunable.
type RetryPolicy struct {
	FailureThreshold int
	Backoff          time.Duration
}

// DefaultRetryPolicy matches the shipped settings: three strikes, then a
// 30 second pause.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{FailureThreshold: 3, Backoff: 30 * time.Second}
}

// Recorder receives journal events from the loop. Failures are logged and
// otherwise ignored; journaling never fails a tick.
type Recorder interface {
	Record(ctx context.Context, event journal.Event) error
}

// Options tunes a Monitor.
type Options struct {
	Tick      time.Duration
	Retry     RetryPolicy
	SessionID string
	Recorder  Recorder
}

// Status is a point-in-time snapshot of loop state for the IPC surface.
type Status struct {
	Running           bool
	SessionID         string
	LastActivity      time.Time
	ConsecutiveErrors int
	ConnectsIssued    int64
	DisconnectsIssued int64
}

// Monitor owns the decision loop.
type Monitor struct {
	policies *policy.Store
	sensor   audio.Sensor
	actuator bluetooth.Actuator
	recorder Recorder
	logger   *slog.Logger

	tick      time.Duration
	retry     RetryPolicy
	sessionID string

	// Injected clock; tests replace both to drive time deterministically.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)

	// Guarded by mu; the loop goroutine is the only writer.
	lastActivity      time.Time
	consecutiveErrors int

	mu          sync.Mutex
	running     bool
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	connects    int64
	disconnects int64
}

// New constructs a monitor. Store, sensor, and actuator are required.
func New(store *policy.Store, sensor audio.Sensor, actuator bluetooth.Actuator, logger *slog.Logger, opts Options) (*Monitor, error) {
	if store == nil || sensor == nil || actuator == nil {
		return nil, errors.New("monitor requires policy store, sensor, and actuator")
	}

	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultTick
	}
	retry := opts.Retry
	if retry.FailureThreshold <= 0 {
		retry.FailureThreshold = DefaultRetryPolicy().FailureThreshold
	}
	if retry.Backoff <= 0 {
		retry.Backoff = DefaultRetryPolicy().Backoff
	}

	return &Monitor{
		policies:  store,
		sensor:    sensor,
		actuator:  actuator,
		recorder:  opts.Recorder,
		logger:    logging.NewComponentLogger(logger, "monitor"),
		tick:      tick,
		retry:     retry,
		sessionID: opts.SessionID,
		now:       time.Now,
		sleep:     sleepContext,
	}, nil
}

// Start launches the decision loop goroutine.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return errors.New("monitor already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true

	m.wg.Add(1)
	go m.loop(runCtx)
	return nil
}

// Stop cancels the loop and waits for it to exit. The current tick always
// completes; cancellation is observed only between ticks.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

// Snapshot returns current loop state for status reporting.
func (m *Monitor) Snapshot() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{
		Running:           m.running,
		SessionID:         m.sessionID,
		ConsecutiveErrors: m.consecutiveErrors,
		ConnectsIssued:    m.connects,
		DisconnectsIssued: m.disconnects,
		LastActivity:      m.lastActivity,
	}
}

func (m *Monitor) loop(ctx context.Context) {
	defer m.wg.Done()

	m.setLastActivity(m.now())
	m.logger.Info("decision loop started",
		logging.Duration("tick", m.tick),
		logging.Int("failure_threshold", m.retry.FailureThreshold),
		logging.Duration("backoff", m.retry.Backoff),
	)

	for ctx.Err() == nil {
		errored := m.runTick(ctx)

		if errored {
			m.bumpErrors()
		} else {
			m.resetErrors()
		}

		if m.errorCount() >= m.retry.FailureThreshold {
			m.logger.Error("too many consecutive errors, backing off",
				logging.Int("consecutive_errors", m.errorCount()),
				logging.Duration("backoff", m.retry.Backoff),
			)
			m.record(ctx, journal.KindBackoff, "", m.retry.Backoff.String())
			m.sleep(ctx, m.retry.Backoff)
			m.resetErrors()
		}

		m.sleep(ctx, m.tick)
	}

	m.logger.Info("decision loop stopped")
}

// runTick executes one iteration and reports whether any sensor or actuator
// call failed.
func (m *Monitor) runTick(ctx context.Context) bool {
	p := m.policies.Get()

	active, err := m.sensor.Active(ctx)
	if err != nil {
		// Sensor failure: no timer update and no actuation this tick.
		m.logger.Error("audio sensor query failed",
			logging.String(logging.FieldOperation, "sensor"),
			logging.Error(err),
		)
		m.record(ctx, journal.KindSensorError, "", err.Error())
		return true
	}

	now := m.now()
	if active {
		m.setLastActivity(now)
		if p.AutoConnect {
			return m.issueConnect(ctx, p.DeviceAddress)
		}
		return false
	}

	if now.Sub(m.lastActivityValue()) > p.IdleTimeout {
		return m.issueDisconnect(ctx, p.DeviceAddress)
	}
	return false
}

func (m *Monitor) issueConnect(ctx context.Context, address string) bool {
	m.record(ctx, journal.KindConnect, address, "")
	m.mu.Lock()
	m.connects++
	m.mu.Unlock()

	if err := m.actuator.Connect(ctx, address); err != nil {
		m.logger.Error("connect command failed",
			logging.String(logging.FieldOperation, "connect"),
			logging.String(logging.FieldDevice, address),
			logging.Error(err),
		)
		m.record(ctx, journal.KindActuatorError, address, err.Error())
		return true
	}
	return false
}

func (m *Monitor) issueDisconnect(ctx context.Context, address string) bool {
	m.record(ctx, journal.KindDisconnect, address, "")
	m.mu.Lock()
	m.disconnects++
	m.mu.Unlock()

	if err := m.actuator.Disconnect(ctx, address); err != nil {
		m.logger.Error("disconnect command failed",
			logging.String(logging.FieldOperation, "disconnect"),
			logging.String(logging.FieldDevice, address),
			logging.Error(err),
		)
		m.record(ctx, journal.KindActuatorError, address, err.Error())
		return true
	}
	return false
}

func (m *Monitor) record(ctx context.Context, kind, device, detail string) {
	if m.recorder == nil {
		return
	}
	event := journal.Event{
		SessionID: m.sessionID,
		Kind:      kind,
		Device:    device,
		Detail:    detail,
	}
	if err := m.recorder.Record(ctx, event); err != nil {
		m.logger.Warn("journal write failed", logging.String("kind", kind), logging.Error(err))
	}
}

func (m *Monitor) setLastActivity(t time.Time) {
	m.mu.Lock()
	m.lastActivity = t
	m.mu.Unlock()
}

func (m *Monitor) lastActivityValue() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastActivity
}

func (m *Monitor) bumpErrors() {
	m.mu.Lock()
	m.consecutiveErrors++
	m.mu.Unlock()
}

func (m *Monitor) resetErrors() {
	m.mu.Lock()
	m.consecutiveErrors = 0
	m.mu.Unlock()
}

func (m *Monitor) errorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.consecutiveErrors
}

// sleepContext pauses for d or until ctx is cancelled, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
