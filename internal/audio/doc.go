// Package audio reports whether anything is currently playing on the local
// machine.
//
// The Sensor interface hides the OS integration so the decision loop can be
// driven by a deterministic fake in tests. The real implementation asks the
// session D-Bus for MPRIS media players and treats any player whose
// PlaybackStatus is "Playing" as activity; an empty player list is ordinary
// silence, not an error.
package audio
