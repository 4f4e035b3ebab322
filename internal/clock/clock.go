// Package clock abstracts time so simulated latency and debounce
// timers are deterministic under test. Production code injects
// System(); tests inject Fake() and advance it explicitly.
package clock

import "time"

// Clock provides the time operations the services depend on.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives once duration d elapses.
	// If d <= 0 the channel receives immediately.
	After(d time.Duration) <-chan time.Time

	// AfterFunc waits for duration d, then calls f. The returned Timer
	// cancels the pending call with Stop.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer represents a scheduled callback from AfterFunc.
type Timer struct {
	stopFunc  func() bool
	resetFunc func(time.Duration) bool
}

// Stop prevents the timer from firing. It returns false if the timer
// already fired or was stopped.
func (t *Timer) Stop() bool { return t.stopFunc() }

// Reset changes the timer to fire after duration d. It returns true if
// the timer was still pending.
func (t *Timer) Reset(d time.Duration) bool { return t.resetFunc(d) }

type systemClock struct{}

// System returns a clock backed by the time package.
func System() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now().UTC() }

func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

func (systemClock) AfterFunc(d time.Duration, f func()) *Timer {
	timer := time.AfterFunc(d, f)
	return &Timer{stopFunc: timer.Stop, resetFunc: timer.Reset}
}
