package audio

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	mprisPrefix     = "org.mpris.MediaPlayer2."
	playerPath      = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	playerIface     = "org.mpris.MediaPlayer2.Player"
	propsIface      = "org.freedesktop.DBus.Properties"
	statusPlaying   = "Playing"
	listNamesMethod = "org.freedesktop.DBus.ListNames"
)

// MPRISSensor detects playback by querying MPRIS media players on the session
// bus. Every well-behaved Linux media player (browsers included) publishes an
// org.mpris.MediaPlayer2.* name with a PlaybackStatus property.
//
// The bus connection is established lazily on first use so a missing session
// bus at startup surfaces as per-tick sensor errors the decision loop can
// retry, not as a fatal condition.
type MPRISSensor struct {
	mu   sync.Mutex
	conn *dbus.Conn
}

// NewMPRISSensor constructs a sensor; no bus traffic happens until Active.
func NewMPRISSensor() *MPRISSensor {
	return &MPRISSensor{}
}

// Close releases the bus connection, if one was established.
func (s *MPRISSensor) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *MPRISSensor) bus() (*dbus.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return s.conn, nil
	}
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("%w: connect to session bus: %w", ErrEndpoint, err)
	}
	s.conn = conn
	return conn, nil
}

// dropBus discards a connection that produced a transport-level failure so the
// next tick reconnects.
func (s *MPRISSensor) dropBus(conn *dbus.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == conn {
		_ = s.conn.Close()
		s.conn = nil
	}
}

// Active returns true when at least one media player reports a Playing status.
// An empty player list is ordinary silence, not an error.
func (s *MPRISSensor) Active(ctx context.Context) (bool, error) {
	conn, err := s.bus()
	if err != nil {
		return false, err
	}

	var names []string
	call := conn.BusObject().CallWithContext(ctx, listNamesMethod, 0)
	if call.Err != nil {
		s.dropBus(conn)
		return false, fmt.Errorf("%w: list bus names: %w", ErrEnumerator, call.Err)
	}
	if err := call.Store(&names); err != nil {
		return false, fmt.Errorf("%w: decode bus names: %w", ErrEnumerator, err)
	}

	for _, name := range names {
		if !strings.HasPrefix(name, mprisPrefix) {
			continue
		}
		playing, err := s.playerActive(ctx, conn, name)
		if err != nil {
			return false, err
		}
		if playing {
			return true, nil
		}
	}
	return false, nil
}

func (s *MPRISSensor) playerActive(ctx context.Context, conn *dbus.Conn, name string) (bool, error) {
	obj := conn.Object(name, playerPath)
	var status dbus.Variant
	call := obj.CallWithContext(ctx, propsIface+".Get", 0, playerIface, "PlaybackStatus")
	if call.Err != nil {
		// Players can drop off the bus between ListNames and the property
		// read; that is silence for this player, not a sensor failure.
		if isUnknownName(call.Err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: read PlaybackStatus of %s: %w", ErrSessionEnum, name, call.Err)
	}
	if err := call.Store(&status); err != nil {
		return false, fmt.Errorf("%w: decode PlaybackStatus of %s: %w", ErrSessionManager, name, err)
	}
	value, ok := status.Value().(string)
	if !ok {
		return false, fmt.Errorf("%w: PlaybackStatus of %s is not a string", ErrSessionManager, name)
	}
	return value == statusPlaying, nil
}

func isUnknownName(err error) bool {
	dbusErr, ok := err.(dbus.Error)
	if !ok {
		return false
	}
	switch dbusErr.Name {
	case "org.freedesktop.DBus.Error.ServiceUnknown",
		"org.freedesktop.DBus.Error.NameHasNoOwner",
		"org.freedesktop.DBus.Error.NoReply":
		return true
	}
	return false
}
