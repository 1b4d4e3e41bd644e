package bluetooth

import (
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestDeviceObjectPath(t *testing.T) {
	got := deviceObjectPath("AA:BB:CC:DD:EE:FF")
	want := dbus.ObjectPath("/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF")
	if got != want {
		t.Fatalf("deviceObjectPath: got %q want %q", got, want)
	}
}

func TestBlueZErrorNameMatching(t *testing.T) {
	already := dbus.Error{Name: "org.bluez.Error.AlreadyConnected"}
	if !isAlreadyConnected(already) {
		t.Fatal("expected AlreadyConnected to match")
	}
	notConn := dbus.Error{Name: "org.bluez.Error.NotConnected"}
	if !isNotConnected(notConn) {
		t.Fatal("expected NotConnected to match")
	}
	other := dbus.Error{Name: "org.bluez.Error.Failed"}
	if isAlreadyConnected(other) || isNotConnected(other) {
		t.Fatal("unrelated error must not match")
	}
}
