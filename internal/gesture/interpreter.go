// Package gesture turns horizontal drag samples into a swipe-to-dismiss
// decision.
//
// Distances are in device-independent units and velocities in units per
// millisecond. Only rightward movement counts.
package gesture

// Default thresholds.
const (
	// DefaultSwipeSpeed is the velocity a swipe must exceed to count as fast.
	DefaultSwipeSpeed = 1.0
	// DefaultSwipeDistance dismisses at any speed once exceeded.
	DefaultSwipeDistance = 90.0
	// DefaultMinSwipeDistance must be exceeded by a fast swipe, filtering jitter.
	DefaultMinSwipeDistance = 20.0
)

// Thresholds configures the dismiss rule.
type Thresholds struct {
	SwipeSpeed       float64
	SwipeDistance    float64
	MinSwipeDistance float64
}

// DefaultThresholds returns the default dismiss thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SwipeSpeed:       DefaultSwipeSpeed,
		SwipeDistance:    DefaultSwipeDistance,
		MinSwipeDistance: DefaultMinSwipeDistance,
	}
}

// Sample is one drag observation: cumulative translation since the drag
// started and the current linear velocity.
type Sample struct {
	TranslationX float64
	VelocityX    float64
}

// Decision is the result of a completed drag.
type Decision int

const (
	// DecisionSpringBack returns the toast to its resting offset.
	DecisionSpringBack Decision = iota
	// DecisionDismiss hides the toast as a user dismissal.
	DecisionDismiss
)

// String returns the string representation of Decision.
func (d Decision) String() string {
	switch d {
	case DecisionSpringBack:
		return "spring_back"
	case DecisionDismiss:
		return "dismiss"
	default:
		return "unknown"
	}
}

// Decide applies the dismiss rule to a final sample: a fast swipe that
// travelled past the minimum distance, or any swipe past the full distance.
func Decide(th Thresholds, s Sample) Decision {
	fast := s.VelocityX > th.SwipeSpeed && s.TranslationX > th.MinSwipeDistance
	far := s.TranslationX > th.SwipeDistance
	if fast || far {
		return DecisionDismiss
	}
	return DecisionSpringBack
}

// Offset returns the visual offset for a cumulative translation.
// Leftward translation clamps to zero; there is no upper bound.
func Offset(translationX float64) float64 {
	if translationX < 0 {
		return 0
	}
	return translationX
}

// Interpreter tracks one drag gesture at a time.
type Interpreter struct {
	thresholds Thresholds
	active     bool
	offset     float64
}

// NewInterpreter creates an Interpreter with the given thresholds.
func NewInterpreter(th Thresholds) *Interpreter {
	return &Interpreter{thresholds: th}
}

// Thresholds returns the active thresholds.
func (i *Interpreter) Thresholds() Thresholds { return i.thresholds }

// SetThresholds replaces the thresholds used by the next Complete.
func (i *Interpreter) SetThresholds(th Thresholds) { i.thresholds = th }

// Active reports whether a drag is in progress.
func (i *Interpreter) Active() bool { return i.active }

// Offset returns the current visual offset.
func (i *Interpreter) Offset() float64 { return i.offset }

// Start begins a drag at offset zero.
func (i *Interpreter) Start() {
	i.active = true
	i.offset = 0
}

// Update records an in-progress sample and returns the visual offset.
func (i *Interpreter) Update(s Sample) float64 {
	if !i.active {
		return i.offset
	}
	i.offset = Offset(s.TranslationX)
	return i.offset
}

// Complete ends the drag and decides its fate. A spring back resets the
// offset to zero; a dismissal leaves it for the hide animation.
func (i *Interpreter) Complete(s Sample) Decision {
	i.active = false
	d := Decide(i.thresholds, s)
	if d == DecisionSpringBack {
		i.offset = 0
	} else {
		i.offset = Offset(s.TranslationX)
	}
	return d
}

// Reset abandons any drag and zeroes the offset.
func (i *Interpreter) Reset() {
	i.active = false
	i.offset = 0
}
