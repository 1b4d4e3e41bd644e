package audio

import (
	"context"
	"errors"
)

var (
	// ErrEnumerator marks failures listing playback session owners on the bus.
	ErrEnumerator = errors.New("audio session enumerator error")
	// ErrEndpoint marks failures reaching the audio session endpoint (the bus itself).
	ErrEndpoint = errors.New("audio endpoint error")
	// ErrSessionManager marks failures talking to a player's properties interface.
	ErrSessionManager = errors.New("audio session manager error")
	// ErrSessionEnum marks failures reading an individual playback session.
	ErrSessionEnum = errors.New("audio session enumeration error")
)

// Sensor reports whether any audio-rendering session is currently active.
type Sensor interface {
	Active(ctx context.Context) (bool, error)
}
