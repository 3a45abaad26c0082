package frame

import "log/slog"

// TransitionController maps logical toast states onto a Surface and tells a
// drag-triggered hide apart from the silent hide used when advancing.
type TransitionController struct {
	surface    Surface
	storyboard Storyboard
	state      VisualState
	dismissing bool

	onDismissed func()
	logger      *slog.Logger
}

// NewTransitionController creates a detached controller. onDismissed runs
// when a hide started by Dismiss has finished.
func NewTransitionController(onDismissed func(), logger *slog.Logger) *TransitionController {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransitionController{
		state:       ToastHidden,
		onDismissed: onDismissed,
		logger:      logger,
	}
}

// Attach binds the controller to a surface and resets it to hidden without
// animation. sb may be nil.
func (c *TransitionController) Attach(surface Surface, sb Storyboard) {
	c.surface = surface
	c.storyboard = sb
	c.dismissing = false
	if sb != nil {
		sb.OnCompleted(c.storyboardCompleted)
	}
	c.goToState(ToastHidden, false)
}

// State returns the last requested state.
func (c *TransitionController) State() VisualState {
	return c.state
}

// Dismissing reports whether a drag-triggered hide is in flight.
func (c *TransitionController) Dismissing() bool {
	return c.dismissing
}

// GoHidden requests the hidden state. Any pending dismissal is abandoned.
func (c *TransitionController) GoHidden(animated bool) {
	c.dismissing = false
	c.goToState(ToastHidden, animated)
}

// GoVisible requests the visible state. Any pending dismissal is abandoned.
func (c *TransitionController) GoVisible(animated bool) {
	c.dismissing = false
	c.goToState(ToastVisible, animated)
}

// GoDragging requests the dragging state.
func (c *TransitionController) GoDragging() {
	c.goToState(ToastDragging, false)
}

// Dismiss plays the animated hide that follows a successful swipe and
// reports the dismissal once it completes. Without a storyboard there is
// nothing to wait for, so the dismissal is reported straight away.
func (c *TransitionController) Dismiss() {
	c.goToState(ToastHidden, true)
	if c.storyboard == nil {
		c.onDismissed()
		return
	}
	c.dismissing = true
}

func (c *TransitionController) storyboardCompleted() {
	if !c.dismissing {
		c.logger.Debug("ignoring storyboard completion", "state", c.state)
		return
	}
	c.dismissing = false
	c.onDismissed()
}

func (c *TransitionController) goToState(state VisualState, animated bool) {
	c.state = state
	if c.surface == nil {
		return
	}
	c.surface.GoToState(state, animated)
}
