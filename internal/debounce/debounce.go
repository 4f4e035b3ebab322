// Package debounce holds computation back until input events settle. A
// new schedule cancels any pending-but-not-yet-started task and
// restarts the quiet-period timer, so rapid edits trigger exactly one
// run, evaluated against the final input.
package debounce

import (
	"sync"
	"time"

	"github.com/spec-kit/support-desk/internal/clock"
)

// Debouncer schedules delayed tasks, one pending at a time. Each task
// carries a generation number; a completion whose generation is no
// longer current belongs to input that has since changed and must be
// discarded by the caller (see Stale).
type Debouncer struct {
	mu         sync.Mutex
	clock      clock.Clock
	delay      time.Duration
	pending    *clock.Timer
	generation uint64
}

// New creates a Debouncer with the given quiet period.
func New(clk clock.Clock, delay time.Duration) *Debouncer {
	return &Debouncer{clock: clk, delay: delay}
}

// Schedule queues fn to run after the quiet period, cancelling any task
// still pending. fn receives the generation it was scheduled under and
// runs on the clock's timer goroutine.
func (d *Debouncer) Schedule(fn func(generation uint64)) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
	}
	d.generation++
	generation := d.generation
	d.pending = d.clock.AfterFunc(d.delay, func() {
		fn(generation)
	})
	return generation
}

// Cancel stops any pending task and invalidates in-flight generations.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.generation++
}

// Stale reports whether a completion tagged with generation belongs to
// superseded input.
func (d *Debouncer) Stale(generation uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return generation != d.generation
}
