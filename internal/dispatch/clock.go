package dispatch

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Stopper cancels a scheduled callback. Stop reports whether the call
// prevented the callback from running.
type Stopper interface {
	Stop() bool
}

// Clock schedules callbacks after a delay.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Stopper
}

type clock struct {
	clockwork.Clock
}

func (c clock) AfterFunc(d time.Duration, f func()) Stopper {
	return c.Clock.AfterFunc(d, f)
}

// RealClock returns a Clock backed by the time package.
func RealClock() Clock { return clock{clockwork.NewRealClock()} }

// ManualClock is a Clock whose time only moves when Advance is called.
// clockwork fires due callbacks on goroutines of its own; ManualClock hands
// them back so they run on the goroutine calling Advance, in deadline order.
type ManualClock struct {
	fake  *clockwork.FakeClock
	fired chan *manualTimer

	mu     sync.Mutex
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	clock *ManualClock
	timer clockwork.Timer
	at    time.Time
	seq   uint64
	f     func()

	delivered bool
	cancelled bool
	done      bool
}

// NewManualClock creates a ManualClock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{
		fake:  clockwork.NewFakeClockAt(start),
		fired: make(chan *manualTimer),
	}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time { return c.fake.Now() }

// AfterFunc schedules f to run once the clock has advanced by d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Stopper {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &manualTimer{clock: c, at: c.fake.Now().Add(d), seq: c.seq, f: f}
	t.timer = c.fake.AfterFunc(d, func() { c.fired <- t })
	c.timers = append(c.timers, t)
	return t
}

// Pending returns the number of callbacks that have not run or been stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, running every callback that falls
// due on the way. Callbacks scheduled by callbacks run too if they fall due
// within the same window.
func (c *ManualClock) Advance(d time.Duration) {
	end := c.fake.Now().Add(d)
	for {
		next := c.nextDue(end)
		if next == nil {
			break
		}
		if wait := next.at.Sub(c.fake.Now()); wait > 0 {
			c.fake.Advance(wait)
		}
		c.collect()

		c.mu.Lock()
		skip := next.done
		next.done = true
		c.mu.Unlock()
		if !skip {
			next.f()
		}
	}
	if rest := end.Sub(c.fake.Now()); rest > 0 {
		c.fake.Advance(rest)
	}
	c.compact()
}

func (c *ManualClock) nextDue(end time.Time) *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var next *manualTimer
	for _, t := range c.timers {
		if t.done || t.at.After(end) {
			continue
		}
		if next == nil || t.at.Before(next.at) || (t.at.Equal(next.at) && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

// collect waits for clockwork to hand over every callback due by now.
func (c *ManualClock) collect() {
	now := c.fake.Now()
	for {
		c.mu.Lock()
		waiting := 0
		for _, t := range c.timers {
			if !t.delivered && !t.cancelled && !t.at.After(now) {
				waiting++
			}
		}
		c.mu.Unlock()
		if waiting == 0 {
			return
		}

		t := <-c.fired
		c.mu.Lock()
		t.delivered = true
		c.mu.Unlock()
	}
}

func (c *ManualClock) compact() {
	c.mu.Lock()
	defer c.mu.Unlock()
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.done || (!t.delivered && !t.cancelled) {
			live = append(live, t)
		}
	}
	clear(c.timers[len(live):])
	c.timers = live
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	t.cancelled = t.timer.Stop()
	return true
}
