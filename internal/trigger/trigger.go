// Package trigger schedules recomputation after input settles. A Debouncer runs only the most recent of a burst of triggers: each Trigger supersedes any pending,
// not-yet-started function.
package trigger

import (
	"sync"
	"time"
)

// Debouncer delays functions by a fixed quiet period. The zero value is not usable; use New.
//
// Functions run on their own goroutine (via time.AfterFunc), one at a time per Trigger, and never after being superseded or stopped. A function that has already
// started is not interrupted.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	gen     uint64 // incremented by every Trigger/Stop; a timer only fires its fn if gen still matches
	timer   *time.Timer
	pending func()
	stopped bool
}

// New returns a Debouncer that waits delay after the latest Trigger before running it. A delay <= 0 runs triggered functions immediately (still asynchronously).
func New(delay time.Duration) *Debouncer {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the quiet period, cancelling any pending function. It returns false (and schedules nothing) if d is stopped.
func (d *Debouncer) Trigger(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return false
	}
	d.cancelLocked()
	gen := d.gen
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(gen)
	})
	return true
}

// Flush runs the pending function now, on the calling goroutine, if there is one. It reports whether a function ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.pending
	if fn == nil || d.stopped {
		d.mu.Unlock()
		return false
	}
	d.cancelLocked()
	d.mu.Unlock()

	fn()
	return true
}

// Pending reports whether a function is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop cancels the pending function and makes future Triggers no-ops. It is safe to call more than once.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.stopped {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// cancelLocked invalidates the current generation. d.mu must be held.
func (d *Debouncer) cancelLocked() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}
