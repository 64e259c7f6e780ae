package loop

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/renato0307/outpost/internal/ports"
)

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns time.Now
func (SystemClock) Now() time.Time { return time.Now() }

// Loop is the single-threaded scheduler. Post, AfterFunc and Stop are safe
// from any goroutine; callbacks only ever run inside RunPending.
type Loop struct {
	clock ports.Clock

	mu     sync.Mutex
	posted []func()
	seq    uint64
	timers timerHeap
	wake   chan struct{} // buffered, size 1
}

// Verify interface compliance at compile time
var _ ports.Scheduler = (*Loop)(nil)

// New creates a loop reading time from clock
func New(clock ports.Clock) *Loop {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Loop{
		clock:  clock,
		posted: make([]func(), 0, 16),
		wake:   make(chan struct{}, 1),
	}
}

// Now returns the loop's current time
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// Post queues fn to run on the next pass of the loop
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.posted = append(l.posted, fn)
	l.mu.Unlock()
	l.signal()
}

// AfterFunc schedules fn to run once d has elapsed on the loop's clock
func (l *Loop) AfterFunc(d time.Duration, fn func()) ports.Timer {
	l.mu.Lock()
	l.seq++
	t := &Timer{
		fn:    fn,
		index: -1,
		loop:  l,
		seq:   l.seq,
		when:  l.clock.Now().Add(d),
	}
	heap.Push(&l.timers, t)
	l.mu.Unlock()
	l.signal()
	return t
}

// Call runs fn on the loop and waits for it to finish. Must not be called
// from a loop callback.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NextDeadline returns when the earliest pending timer is due
func (l *Loop) NextDeadline() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.timers) == 0 {
		return time.Time{}, false
	}
	return l.timers[0].when, true
}

// RunPending executes posted callbacks and due timers until none are left.
// Timers due at the same instant run in scheduling order. Returns the number
// of callbacks executed.
func (l *Loop) RunPending() int {
	ran := 0
	for {
		l.mu.Lock()
		batch := l.posted
		l.posted = make([]func(), 0, 16)
		l.mu.Unlock()

		for _, fn := range batch {
			fn()
			ran++
		}

		fn, ok := l.popDue()
		if ok {
			fn()
			ran++
		}

		if len(batch) == 0 && !ok {
			return ran
		}
	}
}

// Run drives the loop on the wall clock until ctx is cancelled
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.RunPending()

		var timerC <-chan time.Time
		if deadline, ok := l.NextDeadline(); ok {
			t := time.NewTimer(time.Until(deadline))
			timerC = t.C
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-l.wake:
				t.Stop()
			case <-timerC:
			}
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Pending reports the number of queued callbacks and timers
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.posted) + len(l.timers)
}

func (l *Loop) popDue() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.timers) == 0 {
		return nil, false
	}
	now := l.clock.Now()
	if l.timers[0].when.After(now) {
		return nil, false
	}
	t := heap.Pop(&l.timers).(*Timer)
	return t.fn, true
}

// signal wakes Run without blocking; the buffer of 1 coalesces signals
func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Timer is a scheduled callback
type Timer struct {
	fn    func()
	index int
	loop  *Loop
	seq   uint64
	when  time.Time
}

// Stop cancels the timer. Returns false if it already fired or was stopped.
func (t *Timer) Stop() bool {
	l := t.loop
	l.mu.Lock()
	defer l.mu.Unlock()
	if t.index < 0 {
		return false
	}
	heap.Remove(&l.timers, t.index)
	return true
}

// timerHeap orders timers by deadline, then by scheduling order
type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
