// Package daemon coordinates the long-running btlinkd process.
//
// It wires the policy store and watcher, the decision loop, the event journal,
// and the capability implementations into a single lifecycle with flock-based
// locking to prevent multiple instances. The daemon focuses on startup,
// shutdown, and status reporting; the decision logic itself lives in the
// monitor package.
package daemon
