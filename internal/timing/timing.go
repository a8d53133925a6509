// Package timing provides debounce and throttle wrappers for callbacks.
package timing

import (
	"sync"
	"time"
)

// Debouncer delays fn until calls have stopped for wait.
// In immediate mode fn runs on the leading edge of a burst instead.
type Debouncer struct {
	mu        sync.Mutex
	fn        func()
	wait      time.Duration
	immediate bool
	timer     *time.Timer
	gen       uint64
}

// NewDebouncer creates a Debouncer for fn.
func NewDebouncer(fn func(), wait time.Duration, immediate bool) *Debouncer {
	return &Debouncer{fn: fn, wait: wait, immediate: immediate}
}

// Call registers a call and restarts the quiet period.
func (d *Debouncer) Call() {
	d.mu.Lock()
	callNow := d.immediate && d.timer == nil
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.wait, func() { d.fire(gen) })
	d.mu.Unlock()

	if callNow {
		d.fn()
	}
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// A newer Call superseded this timer.
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	trailing := !d.immediate
	d.mu.Unlock()

	if trailing {
		d.fn()
	}
}

// Cancel drops any pending trailing call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Debounce wraps fn and returns the debounced call and a cancel function.
func Debounce(fn func(), wait time.Duration, immediate bool) (call func(), cancel func()) {
	d := NewDebouncer(fn, wait, immediate)
	return d.Call, d.Cancel
}

// Throttler runs fn at most once per limit. Calls inside the window are dropped.
type Throttler struct {
	mu      sync.Mutex
	fn      func()
	limit   time.Duration
	blocked bool
}

// NewThrottler creates a Throttler for fn.
func NewThrottler(fn func(), limit time.Duration) *Throttler {
	return &Throttler{fn: fn, limit: limit}
}

// Call runs fn unless a previous call is still inside its window.
// Reports whether fn ran.
func (t *Throttler) Call() bool {
	t.mu.Lock()
	if t.blocked {
		t.mu.Unlock()
		return false
	}
	t.blocked = true
	time.AfterFunc(t.limit, func() {
		t.mu.Lock()
		t.blocked = false
		t.mu.Unlock()
	})
	t.mu.Unlock()

	t.fn()
	return true
}

// Throttle wraps fn so it runs at most once per limit.
func Throttle(fn func(), limit time.Duration) func() {
	t := NewThrottler(fn, limit)
	return func() { t.Call() }
}
