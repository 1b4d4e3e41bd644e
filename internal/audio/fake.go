package audio

import (
	"context"
	"sync"
)

// Reading is one scripted Active result.
type Reading struct {
	Active bool
	Err    error
}

// FakeSensor replays a scripted sequence of readings; the final reading
// repeats once the script is exhausted. It is safe for concurrent use.
type FakeSensor struct {
	mu       sync.Mutex
	readings []Reading
	index    int
	calls    int
}

// NewFakeSensor builds a sensor from the given script. An empty script reports
// permanent silence.
func NewFakeSensor(readings ...Reading) *FakeSensor {
	return &FakeSensor{readings: readings}
}

func (f *FakeSensor) Active(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.readings) == 0 {
		return false, nil
	}
	r := f.readings[f.index]
	if f.index < len(f.readings)-1 {
		f.index++
	}
	return r.Active, r.Err
}

// Calls reports how many times Active has been invoked.
func (f *FakeSensor) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
