package bluetooth

import (
	"context"
	"sync"
)

// Command records one actuation issued against the fake.
type Command struct {
	Op      string // "connect" or "disconnect"
	Address string
}

// FakeActuator records issued commands and returns scripted errors. It is safe
// for concurrent use.
type FakeActuator struct {
	mu            sync.Mutex
	commands      []Command
	connectErr    error
	disconnectErr error
}

// NewFakeActuator builds an actuator where every command succeeds.
func NewFakeActuator() *FakeActuator {
	return &FakeActuator{}
}

// FailConnect makes subsequent Connect calls return err (nil restores success).
func (f *FakeActuator) FailConnect(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connectErr = err
}

// FailDisconnect makes subsequent Disconnect calls return err.
func (f *FakeActuator) FailDisconnect(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnectErr = err
}

func (f *FakeActuator) Connect(_ context.Context, address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, Command{Op: "connect", Address: address})
	return f.connectErr
}

func (f *FakeActuator) Disconnect(_ context.Context, address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, Command{Op: "disconnect", Address: address})
	return f.disconnectErr
}

// Commands returns a copy of every command issued so far.
func (f *FakeActuator) Commands() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Command, len(f.commands))
	copy(out, f.commands)
	return out
}

// Count returns how many commands with the given op were issued.
func (f *FakeActuator) Count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.commands {
		if c.Op == op {
			n++
		}
	}
	return n
}
