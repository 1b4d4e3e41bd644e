// Package main hosts the btlinkd CLI entrypoint and command graph.
//
// The Cobra-based command tree runs the daemon in the foreground, queries it
// over the IPC socket for status and recent events, and scaffolds or validates
// configuration. Heavy lifting lives in the internal packages; commands here
// stay declarative.
package main
