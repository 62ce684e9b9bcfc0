package watcher

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of change events into a single flush. Each
// markDirty restarts the timer, so the flush fires once the burst goes quiet
// for the full delay.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	dirty   bool
	changes int
	timer   *time.Timer
	flushFn func(changes int)
}

func newDebouncer(delay time.Duration, flushFn func(changes int)) *debouncer {
	return &debouncer{delay: delay, flushFn: flushFn}
}

// markDirty records one change and restarts the flush timer.
func (d *debouncer) markDirty() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dirty = true
	d.changes++
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *debouncer) flush() {
	d.mu.Lock()
	if !d.dirty {
		d.mu.Unlock()
		return
	}
	n := d.changes
	d.dirty = false
	d.changes = 0
	d.mu.Unlock()

	d.flushFn(n)
}
