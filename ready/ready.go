// Package ready provides process-wide readiness signals.
package ready

import (
	"context"
	"sync"
)

// Flag is a level-triggered signal. Once set it stays set until cleared;
// Wait returns immediately while it is set.
type Flag struct {
	mu  sync.Mutex
	set bool
	ch  chan struct{}
}

func (f *Flag) init() {
	if f.ch == nil {
		f.ch = make(chan struct{})
	}
}

// Set raises the flag and wakes every waiter. Setting a set flag is a no-op.
func (f *Flag) Set() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.init()
	if !f.set {
		f.set = true
		close(f.ch)
	}
}

// Clear lowers the flag. Later Wait calls block again.
func (f *Flag) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.set {
		f.set = false
		f.ch = make(chan struct{})
	}
}

func (f *Flag) IsSet() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.set
}

// Wait blocks until the flag is set or ctx is done.
func (f *Flag) Wait(ctx context.Context) error {
	f.mu.Lock()
	f.init()
	ch := f.ch
	f.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Flags are the signals shared by the gateway's tasks.
type Flags struct {
	// Display is set once the status surface is serving.
	Display Flag
	// Cloud is set while the cloud session is connected.
	Cloud Flag
}
