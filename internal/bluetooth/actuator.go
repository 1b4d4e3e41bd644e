package bluetooth

import (
	"context"
	"errors"
)

var (
	// ErrDeviceNotFound marks commands against an address no known device carries.
	ErrDeviceNotFound = errors.New("bluetooth device not found")
	// ErrAuthentication marks pairing/authentication failures.
	ErrAuthentication = errors.New("bluetooth authentication error")
	// ErrServiceState marks failures enabling or disabling the hands-free profile.
	ErrServiceState = errors.New("bluetooth service state error")
	// ErrEnumeration marks failures listing the adapter's known devices.
	ErrEnumeration = errors.New("bluetooth enumeration error")
)

// Actuator issues link commands against a paired device's hands-free profile.
// Both calls block with OS-default timeouts; callers impose no additional
// deadline and must tolerate redundant invocations.
type Actuator interface {
	Connect(ctx context.Context, address string) error
	Disconnect(ctx context.Context, address string) error
}
