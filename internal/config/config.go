package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations.
type Paths struct {
	PolicyFile  string `toml:"policy_file"`
	LogDir      string `toml:"log_dir"`
	JournalPath string `toml:"journal_path"`
	SocketPath  string `toml:"socket_path"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Monitor contains decision-loop tuning.
type Monitor struct {
	TickSeconds      int `toml:"tick_seconds"`
	FailureThreshold int `toml:"failure_threshold"`
	BackoffSeconds   int `toml:"backoff_seconds"`
}

// Config centralizes every static knob the daemon and CLI need.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Logging Logging `toml:"logging"`
	Monitor Monitor `toml:"monitor"`
}

// DefaultConfigPath returns the standard location of the settings file.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "btlinkd", "config.toml"), nil
}

// Load reads settings from path, or from the default location when path is
// empty. A missing file yields defaults; exists reports whether a file was
// found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	resolved := path
	if resolved == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, "", false, err
		}
		resolved = defaultPath
	}
	expanded, err := expandPath(resolved)
	if err != nil {
		return nil, "", false, fmt.Errorf("config path: %w", err)
	}
	resolved = expanded

	cfg := Default()
	exists := true
	raw, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		exists = false
	case err != nil:
		return nil, resolved, false, fmt.Errorf("read config %s: %w", resolved, err)
	default:
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return nil, resolved, true, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, resolved, exists, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, resolved, exists, err
	}
	return &cfg, resolved, exists, nil
}

// ExpandPath resolves a leading ~ to the user's home directory and cleans the
// result.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// WriteSample writes the embedded sample settings file to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// EnsureDirectories creates the directories the daemon writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.LogDir,
		filepath.Dir(c.Paths.PolicyFile),
		filepath.Dir(c.Paths.JournalPath),
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogPath returns the daemon's fixed log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "btlinkd.log")
}

// TickInterval returns the decision-loop cadence as a duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Monitor.TickSeconds) * time.Second
}

// BackoffDuration returns the consecutive-failure pause as a duration.
func (c *Config) BackoffDuration() time.Duration {
	return time.Duration(c.Monitor.BackoffSeconds) * time.Second
}
