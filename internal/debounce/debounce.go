// Package debounce collapses bursts of calls into one delivery after the
// input has been quiet for a fixed interval.
package debounce

import (
	"sync"
	"time"
)

// Debouncer delivers the last value passed to Call once no further call has
// arrived for the configured delay. Each Call resets the timer.
type Debouncer[T any] struct {
	delay time.Duration
	out   chan T

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	pending *T
	stopped bool
}

// New creates a Debouncer with the given quiet interval
func New[T any](delay time.Duration) *Debouncer[T] {
	return &Debouncer[T]{
		delay: delay,
		out:   make(chan T, 1),
	}
}

// C returns the delivery channel. It holds at most one undelivered value;
// a newer delivery replaces an unread one.
func (d *Debouncer[T]) C() <-chan T {
	return d.out
}

// Call schedules v for delivery, replacing any pending value
func (d *Debouncer[T]) Call(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.resetLocked()
	d.pending = &v
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(seq)
	})
}

// Cancel drops the pending value, if any. Returns true if something was pending.
func (d *Debouncer[T]) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	had := d.pending != nil
	d.resetLocked()
	return had
}

// Flush delivers the pending value immediately. Returns false if nothing was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending == nil || d.stopped {
		return false
	}
	v := *d.pending
	d.resetLocked()
	d.deliver(v)
	return true
}

// Pending reports whether a value is waiting for the timer
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop cancels any pending value; later calls are ignored
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
	d.stopped = true
}

func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// superseded by a later Call, Cancel or Flush
	if seq != d.seq || d.pending == nil {
		return
	}
	v := *d.pending
	d.pending = nil
	d.timer = nil
	d.deliver(v)
}

func (d *Debouncer[T]) resetLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.seq++
}

// deliver must be called with mu held
func (d *Debouncer[T]) deliver(v T) {
	select {
	case d.out <- v:
		return
	default:
	}
	select {
	case <-d.out:
	default:
	}
	select {
	case d.out <- v:
	default:
	}
}
