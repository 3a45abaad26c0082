package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffinity(t *testing.T) {
	var a Affinity
	assert.False(t, a.Bound())
	assert.False(t, a.HasAccess())

	a.Bind()
	assert.True(t, a.Bound())
	assert.True(t, a.HasAccess())

	other := make(chan bool)
	go func() { other <- a.HasAccess() }()
	assert.False(t, <-other)

	a.Unbind()
	assert.False(t, a.HasAccess())
}

func TestLoop_RunsPostedInOrder(t *testing.T) {
	l := NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	var mu sync.Mutex
	var got []int
	var access []bool
	finished := make(chan struct{})

	for i := 0; i < 5; i++ {
		i := i
		l.Post(func() {
			mu.Lock()
			got = append(got, i)
			access = append(access, l.HasAccess())
			mu.Unlock()
			if i == 4 {
				close(finished)
			}
		})
	}

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("posted functions did not run")
	}

	mu.Lock()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	assert.Equal(t, []bool{true, true, true, true, true}, access)
	mu.Unlock()

	assert.False(t, l.HasAccess(), "test goroutine must not have access")

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestLoop_PostFromInsideIsNotReentrant(t *testing.T) {
	l := NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	var order []string
	finished := make(chan struct{})
	l.Post(func() {
		order = append(order, "outer-start")
		l.Post(func() {
			order = append(order, "inner")
			close(finished)
		})
		order = append(order, "outer-end")
	})

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("inner function did not run")
	}
	assert.Equal(t, []string{"outer-start", "outer-end", "inner"}, order)
}

func TestImmediate_Trampoline(t *testing.T) {
	d := NewImmediate()
	assert.True(t, d.HasAccess())

	var order []string
	d.Post(func() {
		order = append(order, "a-start")
		d.Post(func() { order = append(order, "b") })
		order = append(order, "a-end")
	})
	d.Post(func() { order = append(order, "c") })
	d.Post(nil)

	assert.Equal(t, []string{"a-start", "a-end", "b", "c"}, order)
}

func TestImmediate_HoldsForeignPostsForOwner(t *testing.T) {
	d := NewImmediate()
	assert.True(t, d.HasAccess())

	var ran []string
	access := make(chan bool)
	go func() {
		d.Post(func() { ran = append(ran, "foreign") })
		access <- d.HasAccess()
	}()
	assert.False(t, <-access)
	assert.Empty(t, ran)
	assert.Equal(t, 1, d.Pending())

	d.Post(func() { ran = append(ran, "owner") })
	assert.Equal(t, []string{"foreign", "owner"}, ran)
	assert.Zero(t, d.Drain())
}

func TestImmediate_DrainOffOwnerIsNoop(t *testing.T) {
	d := NewImmediate()
	d.mu.Lock()
	d.queue = append(d.queue, func() {})
	d.mu.Unlock()

	drained := make(chan int)
	go func() { drained <- d.Drain() }()
	assert.Zero(t, <-drained)
	assert.Equal(t, 1, d.Drain())
}

func TestManualClock_Advance(t *testing.T) {
	start := time.Unix(1000, 0)
	c := NewManualClock(start)

	var fired []string
	c.AfterFunc(2*time.Second, func() { fired = append(fired, "2s") })
	c.AfterFunc(1*time.Second, func() {
		fired = append(fired, "1s")
		c.AfterFunc(500*time.Millisecond, func() { fired = append(fired, "1.5s") })
	})
	stopped := c.AfterFunc(1500*time.Millisecond, func() { fired = append(fired, "stopped") })
	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())

	c.Advance(999 * time.Millisecond)
	assert.Empty(t, fired)

	c.Advance(time.Millisecond)
	assert.Equal(t, []string{"1s"}, fired)

	c.Advance(2 * time.Second)
	assert.Equal(t, []string{"1s", "1.5s", "2s"}, fired)
	assert.Equal(t, start.Add(3*time.Second), c.Now())
	assert.Zero(t, c.Pending())
}

func TestTimer_FiresOnceAfterInterval(t *testing.T) {
	c := NewManualClock(time.Unix(0, 0))
	d := NewImmediate()
	ticks := 0
	timer := NewTimer(c, d, 3*time.Second, func() { ticks++ })

	assert.False(t, timer.Running())
	timer.Start()
	assert.True(t, timer.Running())

	c.Advance(2999 * time.Millisecond)
	assert.Equal(t, 0, ticks)

	c.Advance(time.Millisecond)
	assert.Equal(t, 1, ticks)
	assert.False(t, timer.Running())

	c.Advance(10 * time.Second)
	assert.Equal(t, 1, ticks, "timer must not repeat")
}

func TestTimer_RestartAndStop(t *testing.T) {
	c := NewManualClock(time.Unix(0, 0))
	d := NewImmediate()
	ticks := 0
	timer := NewTimer(c, d, time.Second, func() { ticks++ })

	timer.Start()
	c.Advance(600 * time.Millisecond)
	timer.Start()
	c.Advance(600 * time.Millisecond)
	assert.Equal(t, 0, ticks, "restart must push the deadline out")

	c.Advance(400 * time.Millisecond)
	assert.Equal(t, 1, ticks)

	timer.Start()
	timer.Stop()
	c.Advance(5 * time.Second)
	assert.Equal(t, 1, ticks)

	timer.SetInterval(2 * time.Second)
	assert.Equal(t, 2*time.Second, timer.Interval())
}

func TestTimer_PauseResume(t *testing.T) {
	c := NewManualClock(time.Unix(0, 0))
	d := NewImmediate()
	ticks := 0
	timer := NewTimer(c, d, time.Second, func() { ticks++ })

	timer.Resume()
	assert.False(t, timer.Running(), "resume without pause does nothing")

	timer.Start()
	c.Advance(400 * time.Millisecond)
	timer.Pause()
	assert.True(t, timer.Paused())
	assert.False(t, timer.Running())
	c.Advance(time.Minute)
	assert.Equal(t, 0, ticks)

	timer.Resume()
	c.Advance(599 * time.Millisecond)
	assert.Equal(t, 0, ticks)
	c.Advance(time.Millisecond)
	assert.Equal(t, 1, ticks)
	assert.False(t, timer.Paused())

	timer.Start()
	timer.Pause()
	timer.Stop()
	assert.False(t, timer.Paused(), "stop forgets a pause")
}

// queuedDispatcher holds posted functions until flush, simulating a tick
// that is already in flight on a busy loop.
type queuedDispatcher struct {
	queue []func()
}

func (d *queuedDispatcher) HasAccess() bool { return true }
func (d *queuedDispatcher) Post(fn func()) { d.queue = append(d.queue, fn) }
func (d *queuedDispatcher) flush() {
	for len(d.queue) > 0 {
		fn := d.queue[0]
		d.queue = d.queue[1:]
		fn()
	}
}

func TestTimer_DiscardsInFlightTickAfterStop(t *testing.T) {
	c := NewManualClock(time.Unix(0, 0))
	d := &queuedDispatcher{}
	ticks := 0
	timer := NewTimer(c, d, time.Second, func() { ticks++ })

	timer.Start()
	c.Advance(time.Second)
	require.Len(t, d.queue, 1, "tick should be posted but not yet run")

	timer.Stop()
	d.flush()
	assert.Equal(t, 0, ticks)
}

func TestTimer_RealClockTickWaitsForOwner(t *testing.T) {
	d := NewImmediate()
	ticks := 0
	timer := NewTimer(RealClock(), d, time.Millisecond, func() { ticks++ })
	timer.Start()

	deadline := time.Now().Add(2 * time.Second)
	for d.Pending() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, 0, ticks, "tick must not run on the timer goroutine")
	assert.Equal(t, 1, d.Drain())
	assert.Equal(t, 1, ticks)
	assert.False(t, timer.Running())
}

func TestManualClock_StopBeforeDue(t *testing.T) {
	c := NewManualClock(time.Unix(0, 0))
	fired := 0
	s := c.AfterFunc(time.Second, func() { fired++ })
	c.AfterFunc(time.Second, func() { fired += 10 })

	assert.Equal(t, 2, c.Pending())
	assert.True(t, s.Stop())
	c.Advance(time.Second)
	assert.Equal(t, 10, fired)
	assert.Zero(t, c.Pending())
}

func TestRealClock(t *testing.T) {
	c := RealClock()
	assert.WithinDuration(t, time.Now(), c.Now(), time.Second)

	fired := make(chan struct{})
	c.AfterFunc(time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("real clock callback did not fire")
	}
}
