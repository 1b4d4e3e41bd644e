// Package journal persists a lightweight history of what the daemon did and
// why: link commands issued, policy reloads and rollbacks, sensor and actuator
// failures, and backoff pauses.
//
// The store is SQLite in WAL mode. Writes are best-effort from the decision
// loop's point of view; a journal failure is logged and never fails a tick.
// The CLI reads recent rows to render the events table.
package journal
