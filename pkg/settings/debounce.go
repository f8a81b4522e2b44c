package settings

import (
	"sync"
	"time"
)

// Debouncer coalesces calls arriving within a window into one call of fn,
// made once the window has passed without a new Trigger.
type Debouncer struct {
	wait time.Duration
	fn   func()

	mu    sync.Mutex
	timer *time.Timer
	token uint64
}

// NewDebouncer returns a Debouncer that calls fn wait after the last Trigger.
func NewDebouncer(wait time.Duration, fn func()) *Debouncer {
	return &Debouncer{wait: wait, fn: fn}
}

// Trigger cancels any pending call and schedules a new one.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.token++
	token := d.token
	d.timer = time.AfterFunc(d.wait, func() { d.fire(token) })
}

func (d *Debouncer) fire(token uint64) {
	d.mu.Lock()
	if token != d.token || d.timer == nil {
		// Superseded by a later Trigger, Flush or Stop.
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn()
}

// Flush runs a pending call immediately. It reports whether one was pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.timer == nil {
		d.mu.Unlock()
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.token++
	d.mu.Unlock()

	d.fn()
	return true
}

// Stop drops a pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.token++
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
