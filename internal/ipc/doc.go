// Package ipc exposes the daemon over JSON-RPC Unix sockets and ships the
// matching client used by the CLI.
//
// The surface is read-only: status, the current policy snapshot, and recent
// journal events. Policy changes go through the policy file and its watcher,
// never through IPC. The socket is filesystem-local; the daemon opens no
// network ports.
package ipc
