package policy

import (
	"log/slog"
	"sync"

	"btlinkd/internal/logging"
)

// Store holds the current operating policy and the last-known-good backup.
// The decision loop reads snapshots through Get; the watcher is the only
// writer for the process lifetime.
type Store struct {
	mu      sync.RWMutex
	current Policy
	backup  Policy
	path    string
	logger  *slog.Logger
}

// NewStore constructs a store by loading the policy file at path, falling back
// to the hardcoded default when no valid file exists. Startup never fails on a
// bad policy file.
func NewStore(path string, logger *slog.Logger) *Store {
	logger = logging.NewComponentLogger(logger, "policy")

	p, err := Load(path)
	if err != nil {
		logger.Warn("policy file unusable, starting with defaults",
			logging.String("path", path),
			logging.Error(err),
		)
		p = Default()
	} else {
		logger.Info("policy loaded",
			logging.String("path", path),
			logging.Duration("inactivity_timeout", p.IdleTimeout),
			logging.Bool("auto_connect", p.AutoConnect),
			logging.String(logging.FieldDevice, p.DeviceAddress),
		)
	}

	return &Store{
		current: p,
		backup:  p,
		path:    path,
		logger:  logger,
	}
}

// Get returns an immutable snapshot of the current policy. Reads do not block
// other reads; they exclude only an in-progress swap.
func (s *Store) Get() Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Path returns the location of the persisted policy file.
func (s *Store) Path() string {
	return s.path
}

// Reload attempts to replace the current policy from the persisted file.
// On success the previous current becomes the backup; on failure the current
// policy is rolled back to the backup and the load error is returned. Either
// way Get always observes a previously-validated policy.
func (s *Store) Reload() error {
	p, err := Load(s.path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.current = s.backup
		return err
	}

	s.backup = s.current
	s.current = p
	return nil
}

// snapshot returns current and backup together, for tests and status reporting.
func (s *Store) snapshot() (current, backup Policy) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.backup
}

// Backup returns the last-known-good policy.
func (s *Store) Backup() Policy {
	_, b := s.snapshot()
	return b
}
