// Package logging assembles the structured slog loggers used across btlinkd.
//
// It owns the JSON and console handlers, centralizes level and output plumbing,
// and exposes typed attribute helpers plus standardized field keys so every
// component tags log lines the same way (component, device address, operation,
// session id). A no-op logger is provided for tests and wiring code that cannot
// fail.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape as the rest of the daemon.
package logging
