// Package latch provides a one-shot gate that defers work until it opens.
package latch

import (
	"context"
	"sync"
)

// Deferrer schedules work after the current segment. *loop.Loop satisfies it.
type Deferrer interface {
	Defer(fn func())
}

// Gate is a two-state latch: closed until the first Open, open forever after.
//
// Work registered with Then never runs synchronously: it is handed to the
// Deferrer once the gate is open, so it always runs after the segment that
// opened the gate (or that registered it, if the gate was already open).
type Gate struct {
	mu      sync.Mutex
	d       Deferrer
	open    bool
	waiters []func()
	done    chan struct{}
}

// New returns a closed gate that schedules waiters on d.
func New(d Deferrer) *Gate {
	return &Gate{d: d, done: make(chan struct{})}
}

// Open opens the gate and schedules every waiter in registration order.
// Only the first call has an effect; it returns true.
func (g *Gate) Open() bool {
	g.mu.Lock()
	if g.open {
		g.mu.Unlock()
		return false
	}
	g.open = true
	waiters := g.waiters
	g.waiters = nil
	close(g.done)
	g.mu.Unlock()

	for _, fn := range waiters {
		g.d.Defer(fn)
	}
	return true
}

// IsOpen reports whether Open has been called.
func (g *Gate) IsOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open
}

// Then runs fn after the gate opens.
func (g *Gate) Then(fn func()) {
	if fn == nil {
		return
	}
	g.mu.Lock()
	if !g.open {
		g.waiters = append(g.waiters, fn)
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()
	g.d.Defer(fn)
}

// Done returns a channel closed when the gate opens.
func (g *Gate) Done() <-chan struct{} {
	return g.done
}

// Wait blocks until the gate opens or ctx is done.
// Never call it from the loop goroutine before the gate is opened elsewhere.
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
