package testutils

import (
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// FakeClock is a manually advanced backoff.Clock.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock returns a clock frozen at a fixed instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// NewTimer returns a timer factory whose timers fire immediately, moving the
// clock forward by the requested duration.
func (c *FakeClock) NewTimer() backoff.Timer {
	return &fakeTimer{clock: c, ch: make(chan time.Time, 1)}
}

type fakeTimer struct {
	clock *FakeClock
	ch    chan time.Time
}

func (t *fakeTimer) Start(d time.Duration) { t.ch <- t.clock.Advance(d) }
func (t *fakeTimer) Stop()                 {}
func (t *fakeTimer) C() <-chan time.Time   { return t.ch }
