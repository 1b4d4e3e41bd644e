// Package policy owns the hot-reloadable operating policy for btlinkd.
//
// It defines the Policy value type (idle timeout, auto-connect, target device
// address), the JSON persistence format, and validation rules. The Store keeps
// the current policy together with the last-known-good backup behind a
// reader-writer lock so the decision loop always reads a fully-validated
// snapshot. The Watcher reloads the policy file on change, coalescing rapid
// edits, and rolls back to the backup when the new contents fail validation.
package policy
