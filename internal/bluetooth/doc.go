// Package bluetooth drives the hands-free audio link of a paired device.
//
// The Actuator interface exposes connect and disconnect commands keyed by the
// device's MAC address. The BlueZ implementation talks to bluetoothd over the
// system D-Bus: it locates the device among the adapter's managed objects,
// pairs it when necessary, and enables or disables the hands-free profile by
// UUID. Commands are intentionally safe to reissue; the decision loop repeats
// them every tick while their trigger condition holds and never caches the
// resulting link state.
package bluetooth
