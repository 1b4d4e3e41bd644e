package bluetooth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"

	"btlinkd/internal/logging"
)

const (
	busName      = "org.bluez"
	adapterPath  = "/org/bluez/hci0"
	deviceIface  = "org.bluez.Device1"
	propsIface   = "org.freedesktop.DBus.Properties"

	// Hands-Free Profile service class UUID, the telephony-audio profile the
	// daemon toggles on the target device.
	handsfreeUUID = "0000111e-0000-1000-8000-00805f9b34fb"
)

// deviceObjectPath converts a MAC address like "AA:BB:CC:DD:EE:FF" to
// "/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF".
func deviceObjectPath(addr string) dbus.ObjectPath {
	escaped := strings.ReplaceAll(addr, ":", "_")
	return dbus.ObjectPath(adapterPath + "/dev_" + escaped)
}

// BlueZActuator drives the hands-free profile through bluetoothd over the
// system D-Bus. The bus connection is established lazily on first use so a
// stopped bluetooth.service surfaces as per-tick actuator errors the decision
// loop can retry, not as a fatal startup condition.
type BlueZActuator struct {
	logger *slog.Logger

	mu   sync.Mutex
	conn *dbus.Conn
}

// NewBlueZActuator constructs an actuator; no bus traffic happens until the
// first command.
func NewBlueZActuator(logger *slog.Logger) *BlueZActuator {
	return &BlueZActuator{logger: logging.NewComponentLogger(logger, "bluez")}
}

// Close releases the bus connection, if one was established.
func (b *BlueZActuator) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		return nil
	}
	err := b.conn.Close()
	b.conn = nil
	return err
}

func (b *BlueZActuator) bus() (*dbus.Conn, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn != nil {
		return b.conn, nil
	}

	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("%w: connect to system bus: %w", ErrEnumeration, err)
	}

	var names []string
	if err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: list bus names: %w", ErrEnumeration, err)
	}
	found := false
	for _, n := range names {
		if n == busName {
			found = true
			break
		}
	}
	if !found {
		conn.Close()
		return nil, fmt.Errorf("%w: org.bluez not on system bus; is bluetooth.service running?", ErrEnumeration)
	}

	b.conn = conn
	return conn, nil
}

// Connect locates the device by address, pairs it if needed, and enables the
// hands-free profile. Safe to reissue while the profile is already up; BlueZ
// answers a redundant ConnectProfile with AlreadyConnected, which is
// swallowed here.
func (b *BlueZActuator) Connect(ctx context.Context, address string) error {
	conn, err := b.bus()
	if err != nil {
		return err
	}

	path, err := b.findDevice(ctx, conn, address)
	if err != nil {
		return err
	}
	obj := conn.Object(busName, path)

	paired, err := b.getBool(ctx, conn, path, "Paired")
	if err != nil {
		return fmt.Errorf("%w: read Paired of %s: %w", ErrEnumeration, address, err)
	}
	if !paired {
		b.logger.Info("device not paired, pairing", logging.String(logging.FieldDevice, address))
		if call := obj.CallWithContext(ctx, deviceIface+".Pair", 0); call.Err != nil {
			return fmt.Errorf("%w: pair %s: %w", ErrAuthentication, address, call.Err)
		}
	}

	if call := obj.CallWithContext(ctx, deviceIface+".ConnectProfile", 0, handsfreeUUID); call.Err != nil {
		if isAlreadyConnected(call.Err) {
			return nil
		}
		return fmt.Errorf("%w: enable hands-free profile on %s: %w", ErrServiceState, address, call.Err)
	}
	return nil
}

// Disconnect locates the device without any discovery pass and disables the
// hands-free profile. Reissued every idle tick by the decision loop; a link
// that is already down answers NotConnected, which is swallowed here.
func (b *BlueZActuator) Disconnect(ctx context.Context, address string) error {
	conn, err := b.bus()
	if err != nil {
		return err
	}

	path, err := b.findDevice(ctx, conn, address)
	if err != nil {
		return err
	}

	obj := conn.Object(busName, path)
	if call := obj.CallWithContext(ctx, deviceIface+".DisconnectProfile", 0, handsfreeUUID); call.Err != nil {
		if isNotConnected(call.Err) {
			return nil
		}
		return fmt.Errorf("%w: disable hands-free profile on %s: %w", ErrServiceState, address, call.Err)
	}
	return nil
}

// findDevice resolves the device object path, confirming bluetoothd actually
// manages it. Paired devices stay managed across reboots, so no inquiry scan
// is needed for the common case.
func (b *BlueZActuator) findDevice(ctx context.Context, conn *dbus.Conn, address string) (dbus.ObjectPath, error) {
	path := deviceObjectPath(address)

	var objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	call := conn.Object(busName, "/").CallWithContext(
		ctx, "org.freedesktop.DBus.ObjectManager.GetManagedObjects", 0,
	)
	if call.Err != nil {
		return "", fmt.Errorf("%w: enumerate managed objects: %w", ErrEnumeration, call.Err)
	}
	if err := call.Store(&objects); err != nil {
		return "", fmt.Errorf("%w: decode managed objects: %w", ErrEnumeration, err)
	}

	ifaces, ok := objects[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrDeviceNotFound, address)
	}
	if _, ok := ifaces[deviceIface]; !ok {
		return "", fmt.Errorf("%w: %s", ErrDeviceNotFound, address)
	}
	return path, nil
}

func (b *BlueZActuator) getBool(ctx context.Context, conn *dbus.Conn, path dbus.ObjectPath, prop string) (bool, error) {
	obj := conn.Object(busName, path)
	var v dbus.Variant
	call := obj.CallWithContext(ctx, propsIface+".Get", 0, deviceIface, prop)
	if call.Err != nil {
		return false, call.Err
	}
	if err := call.Store(&v); err != nil {
		return false, err
	}
	value, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("property %s is not bool", prop)
	}
	return value, nil
}

func isAlreadyConnected(err error) bool {
	return hasDBusErrorName(err, "org.bluez.Error.AlreadyConnected")
}

func isNotConnected(err error) bool {
	return hasDBusErrorName(err, "org.bluez.Error.NotConnected")
}

func hasDBusErrorName(err error, name string) bool {
	dbusErr, ok := err.(dbus.Error)
	return ok && dbusErr.Name == name
}
