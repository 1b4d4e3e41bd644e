package config

import (
	"errors"
	"fmt"
)

// Validate ensures the settings are usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateMonitor()
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateMonitor() error {
	if c.Monitor.TickSeconds < 1 {
		return errors.New("monitor.tick_seconds must be at least 1")
	}
	if c.Monitor.FailureThreshold < 1 {
		return errors.New("monitor.failure_threshold must be at least 1")
	}
	if c.Monitor.BackoffSeconds < 1 {
		return errors.New("monitor.backoff_seconds must be at least 1")
	}
	return nil
}
