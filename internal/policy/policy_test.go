package policy_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"btlinkd/internal/policy"
)

func writePolicyFile(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "policy.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write policy file: %v", err)
	}
	return path
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.json")
	want := policy.Policy{
		IdleTimeout:   90 * time.Second,
		AutoConnect:   true,
		DeviceAddress: "AA:BB:CC:DD:EE:FF",
	}

	if err := policy.Save(path, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, err := policy.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestValidateRejectsZeroTimeout(t *testing.T) {
	p := policy.Policy{
		IdleTimeout:   0,
		AutoConnect:   true,
		DeviceAddress: "AA:BB:CC:DD:EE:FF",
	}
	err := p.Validate()
	if !errors.Is(err, policy.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestValidateRejectsMalformedAddresses(t *testing.T) {
	bad := []string{
		"",
		"AA:BB:CC:DD:EE",         // too short
		"AA:BB:CC:DD:EE:FF:00",   // too long
		"aa:bb:cc:dd:ee:ff",      // lowercase
		"AA-BB-CC-DD-EE-FF",      // wrong separator
		"GG:BB:CC:DD:EE:FF",      // non-hex
		"AABBCCDDEEFF",           // no separators
		policy.PlaceholderAddress, // unconfigured placeholder
	}
	for _, addr := range bad {
		p := policy.Policy{IdleTimeout: time.Minute, DeviceAddress: addr}
		if err := p.Validate(); !errors.Is(err, policy.ErrValidation) {
			t.Fatalf("address %q: expected ErrValidation, got %v", addr, err)
		}
	}
}

func TestLoadMissingFileReturnsIOError(t *testing.T) {
	_, err := policy.Load(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, policy.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestLoadMalformedJSONReturnsValidationError(t *testing.T) {
	path := writePolicyFile(t, t.TempDir(), `{"inactivity_timeout": 300, "auto`)
	_, err := policy.Load(path)
	if !errors.Is(err, policy.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestLoadRejectsOutOfRangeValues(t *testing.T) {
	path := writePolicyFile(t, t.TempDir(),
		`{"inactivity_timeout": 0, "auto_connect": true, "device_address": "AA:BB:CC:DD:EE:FF"}`)
	if _, err := policy.Load(path); !errors.Is(err, policy.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSaveRejectsInvalidPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.json")
	p := policy.Policy{IdleTimeout: time.Minute, DeviceAddress: "nope"}
	if err := policy.Save(path, p); !errors.Is(err, policy.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatal("invalid policy must not be persisted")
	}
}

func TestDefaultUsesPlaceholderAddress(t *testing.T) {
	def := policy.Default()
	if def.IdleTimeout != 300*time.Second {
		t.Fatalf("unexpected default timeout: %v", def.IdleTimeout)
	}
	if !def.AutoConnect {
		t.Fatal("expected auto_connect enabled by default")
	}
	if def.DeviceAddress != policy.PlaceholderAddress {
		t.Fatalf("unexpected default address: %q", def.DeviceAddress)
	}
	if policy.ValidAddress(def.DeviceAddress) {
		t.Fatal("placeholder address must not count as a usable address")
	}
}
