package testutil

import (
	"sync"
	"time"

	"github.com/renato0307/outpost/internal/loop"
)

// ManualClock is a clock that only moves when told to.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock frozen at start
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the frozen time
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Step moves clock forward by d, firing every timer of l that falls due on
// the way at its own deadline, in order
func Step(l *loop.Loop, clock *ManualClock, d time.Duration) {
	target := clock.Now().Add(d)
	for {
		l.RunPending()
		next, ok := l.NextDeadline()
		if !ok || next.After(target) {
			break
		}
		if next.After(clock.Now()) {
			clock.Set(next)
		}
	}
	clock.Set(target)
	l.RunPending()
}
