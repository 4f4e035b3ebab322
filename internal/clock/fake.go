package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock initialized to the given time. Time stands
// still until Advance is called; pending After channels and AfterFunc
// callbacks fire when the clock moves past their deadline.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial.UTC()}
}

// FakeClock is a deterministic Clock for tests. AfterFunc callbacks run
// synchronously inside Advance, in deadline order.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	waiters []*fakeWaiter
}

type fakeWaiter struct {
	deadline time.Time
	channel  chan time.Time
	callback func()
	stopped  bool
	fired    bool
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// After registers a channel waiter firing at now+d. If d <= 0 the
// channel receives immediately.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- c.current
		return channel
	}
	c.waiters = append(c.waiters, &fakeWaiter{deadline: c.current.Add(d), channel: channel})
	return channel
}

// AfterFunc registers a callback waiter firing at now+d. If d <= 0 the
// callback runs synchronously before AfterFunc returns.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	c.mu.Lock()

	if d <= 0 {
		c.mu.Unlock()
		f()
		return &Timer{
			stopFunc:  func() bool { return false },
			resetFunc: func(time.Duration) bool { return false },
		}
	}

	waiter := &fakeWaiter{deadline: c.current.Add(d), callback: f}
	c.waiters = append(c.waiters, waiter)
	c.mu.Unlock()

	return &Timer{
		stopFunc: func() bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			if waiter.stopped || waiter.fired {
				return false
			}
			waiter.stopped = true
			return true
		},
		resetFunc: func(d time.Duration) bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			active := !waiter.stopped && !waiter.fired
			waiter.stopped = false
			waiter.fired = false
			waiter.deadline = c.current.Add(d)
			return active
		},
	}
}

// Advance moves the clock forward by d, firing every waiter whose
// deadline falls within the window, in deadline order.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.current.Add(d)

	for {
		next := c.nextDueLocked(target)
		if next == nil {
			break
		}
		next.fired = true
		c.current = next.deadline
		if next.channel != nil {
			next.channel <- next.deadline
			continue
		}
		callback := next.callback
		c.mu.Unlock()
		callback()
		c.mu.Lock()
	}

	c.current = target
	c.pruneLocked()
	c.mu.Unlock()
}

func (c *FakeClock) nextDueLocked(target time.Time) *fakeWaiter {
	due := make([]*fakeWaiter, 0, len(c.waiters))
	for _, w := range c.waiters {
		if !w.stopped && !w.fired && !w.deadline.After(target) {
			due = append(due, w)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool { return due[i].deadline.Before(due[j].deadline) })
	return due[0]
}

func (c *FakeClock) pruneLocked() {
	kept := c.waiters[:0]
	for _, w := range c.waiters {
		if !w.stopped && !w.fired {
			kept = append(kept, w)
		}
	}
	c.waiters = kept
}
