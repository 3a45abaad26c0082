package gesture

import "time"

// velocityWindow bounds how far back Tracker looks when estimating velocity.
const velocityWindow = 100 * time.Millisecond

type point struct {
	x  float64
	at time.Time
}

// Tracker converts raw pointer positions into Samples. Positions are in the
// same units as the thresholds; callers scale terminal columns first.
type Tracker struct {
	origin   float64
	points   []point
	tracking bool
}

// Begin starts tracking from x.
func (t *Tracker) Begin(x float64, at time.Time) {
	t.origin = x
	t.points = append(t.points[:0], point{x: x, at: at})
	t.tracking = true
}

// Tracking reports whether Begin has been called without a matching End.
func (t *Tracker) Tracking() bool { return t.tracking }

// Move records a position and returns the resulting sample.
func (t *Tracker) Move(x float64, at time.Time) Sample {
	if !t.tracking {
		return Sample{}
	}
	t.points = append(t.points, point{x: x, at: at})
	t.trim(at)
	return Sample{TranslationX: x - t.origin, VelocityX: t.velocity()}
}

// End records the final position and stops tracking.
func (t *Tracker) End(x float64, at time.Time) Sample {
	s := t.Move(x, at)
	t.tracking = false
	return s
}

// Cancel stops tracking without producing a sample.
func (t *Tracker) Cancel() {
	t.tracking = false
	t.points = t.points[:0]
}

func (t *Tracker) trim(now time.Time) {
	cutoff := now.Add(-velocityWindow)
	i := 0
	for i < len(t.points)-2 && t.points[i].at.Before(cutoff) {
		i++
	}
	t.points = t.points[i:]
}

// velocity is the average over the retained window in units per millisecond.
func (t *Tracker) velocity() float64 {
	if len(t.points) < 2 {
		return 0
	}
	first := t.points[0]
	last := t.points[len(t.points)-1]
	ms := float64(last.at.Sub(first.at)) / float64(time.Millisecond)
	if ms <= 0 {
		return 0
	}
	return (last.x - first.x) / ms
}
