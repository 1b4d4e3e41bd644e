package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"
)

var (
	// ErrValidation marks policies that fail schema, range, or format checks.
	ErrValidation = errors.New("policy validation error")
	// ErrIO marks read or write failures against the persisted policy file.
	ErrIO = errors.New("policy io error")
)

// addressPattern matches the canonical device address form: six uppercase hex
// byte-pairs separated by colons, total length 17.
var addressPattern = regexp.MustCompile(`^([0-9A-F]{2}:){5}[0-9A-F]{2}$`)

const (
	defaultIdleTimeout = 300 * time.Second
	defaultAutoConnect = true

	// PlaceholderAddress is the non-functional default written before the user
	// configures a real device. Every actuation against it fails with a
	// device-not-found error until corrected.
	PlaceholderAddress = "XX:XX:XX:XX:XX:XX"
)

// Policy is the validated configuration governing link actuation.
type Policy struct {
	IdleTimeout   time.Duration
	AutoConnect   bool
	DeviceAddress string
}

// policyFile is the on-disk JSON representation.
type policyFile struct {
	InactivityTimeout int64  `json:"inactivity_timeout"`
	AutoConnect       bool   `json:"auto_connect"`
	DeviceAddress     string `json:"device_address"`
}

// Default returns the hardcoded fallback policy used when no valid file
// exists. Its placeholder address deliberately fails Validate; it reaches the
// store only through the startup fallback path, never through Load or Save.
func Default() Policy {
	return Policy{
		IdleTimeout:   defaultIdleTimeout,
		AutoConnect:   defaultAutoConnect,
		DeviceAddress: PlaceholderAddress,
	}
}

// Validate ensures the policy is fully usable. A Policy is either valid per
// every rule here or rejected outright; partially-valid values never escape.
func (p Policy) Validate() error {
	if p.IdleTimeout <= 0 {
		return fmt.Errorf("%w: inactivity_timeout must be greater than 0", ErrValidation)
	}
	if !addressPattern.MatchString(p.DeviceAddress) {
		return fmt.Errorf("%w: device_address %q must be 6 uppercase colon-separated hex byte-pairs", ErrValidation, p.DeviceAddress)
	}
	return nil
}

// ValidAddress reports whether addr is a usable (non-placeholder) canonical
// device address.
func ValidAddress(addr string) bool {
	return addressPattern.MatchString(addr)
}

// Load reads, parses, and validates the policy file at path. It never mutates
// store state; callers decide what to do with the result.
func Load(path string) (Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("%w: read %s: %w", ErrIO, path, err)
	}

	var file policyFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return Policy{}, fmt.Errorf("%w: parse %s: %w", ErrValidation, path, err)
	}

	p := Policy{
		IdleTimeout:   time.Duration(file.InactivityTimeout) * time.Second,
		AutoConnect:   file.AutoConnect,
		DeviceAddress: file.DeviceAddress,
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Save validates, serializes, and persists a policy to path.
func Save(path string, p Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}

	file := policyFile{
		InactivityTimeout: int64(p.IdleTimeout / time.Second),
		AutoConnect:       p.AutoConnect,
		DeviceAddress:     p.DeviceAddress,
	}
	raw, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: serialize policy: %w", ErrValidation, err)
	}
	raw = append(raw, '\n')

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
	}
	return nil
}
