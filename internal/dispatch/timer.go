package dispatch

import "time"

// Timer is a one-shot, restartable timer whose tick runs on a Dispatcher.
// Start, Pause, Resume, Stop and SetInterval must be called on the dispatcher's context.
//
// A tick that was already in flight when the timer was stopped or restarted
// is discarded, so a tick never runs against a newer Start.
type Timer struct {
	clock    Clock
	disp     Dispatcher
	interval time.Duration
	tick     func()

	pending   Stopper
	gen       uint64
	deadline  time.Time
	remaining time.Duration
	paused    bool
}

// NewTimer creates a stopped Timer.
func NewTimer(clock Clock, disp Dispatcher, interval time.Duration, tick func()) *Timer {
	if clock == nil {
		clock = RealClock()
	}
	return &Timer{
		clock:    clock,
		disp:     disp,
		interval: interval,
		tick:     tick,
	}
}

// Interval returns the configured interval.
func (t *Timer) Interval() time.Duration { return t.interval }

// SetInterval changes the interval used by the next Start.
func (t *Timer) SetInterval(d time.Duration) { t.interval = d }

// Running reports whether a tick is scheduled.
func (t *Timer) Running() bool { return t.pending != nil }

// Paused reports whether Pause holds time left on the timer.
func (t *Timer) Paused() bool { return t.paused }

// Start (re)schedules the tick one interval from now.
func (t *Timer) Start() {
	t.schedule(t.interval)
}

// Pause stops a running timer and keeps the time left on it for Resume.
func (t *Timer) Pause() {
	if t.pending == nil {
		return
	}
	remaining := max(t.deadline.Sub(t.clock.Now()), 0)
	t.Stop()
	t.remaining = remaining
	t.paused = true
}

// Resume schedules the tick after the time that was left at Pause.
// It does nothing unless the timer is paused.
func (t *Timer) Resume() {
	if !t.paused {
		return
	}
	t.schedule(t.remaining)
}

func (t *Timer) schedule(d time.Duration) {
	t.Stop()

	gen := t.gen
	t.deadline = t.clock.Now().Add(d)
	t.pending = t.clock.AfterFunc(d, func() {
		t.disp.Post(func() {
			if gen != t.gen {
				return
			}
			t.pending = nil
			t.gen++
			t.tick()
		})
	})
}

// Stop cancels the scheduled tick, if any, and forgets a pause.
func (t *Timer) Stop() {
	t.paused = false
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	t.gen++
}
