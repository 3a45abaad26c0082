// Package frame implements the toast queue and presentation state machine:
// it serializes toast requests into a single visible toast, records exactly
// one outcome per toast, and coordinates show/hide transitions with
// swipe-to-dismiss gestures.
//
// A Frame lives on a single UI context supplied as a dispatch.Dispatcher.
// Mutators called from anywhere else fail with ErrInvalidOperation.
package frame

import (
	"log/slog"
	"time"

	"github.com/jmylchreest/toastframe/internal/dispatch"
	"github.com/jmylchreest/toastframe/internal/gesture"
	"github.com/jmylchreest/toastframe/internal/model"
)

const (
	// DefaultTimeout is how long a toast stays up without interaction.
	DefaultTimeout = 3 * time.Second
	// DefaultHideGap is the pause between hiding one toast and showing the next.
	DefaultHideGap = 250 * time.Millisecond
)

// Settings are the tunables that can change while the frame is running.
// Zero durations and thresholds fall back to the defaults.
type Settings struct {
	Timeout    time.Duration
	HideGap    time.Duration
	Thresholds gesture.Thresholds
}

func (s Settings) withDefaults() Settings {
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	if s.HideGap <= 0 {
		s.HideGap = DefaultHideGap
	}
	if s.Thresholds == (gesture.Thresholds{}) {
		s.Thresholds = gesture.DefaultThresholds()
	}
	return s
}

// Options configures a new Frame.
type Options struct {
	// Dispatcher is the UI context. Defaults to a dispatch.Immediate owned
	// by the goroutine calling New; clock ticks then wait for that goroutine
	// to call back into the frame.
	Dispatcher dispatch.Dispatcher
	// Clock schedules the timeout and hide gap. Defaults to the real clock.
	Clock    dispatch.Clock
	Settings Settings
	Logger   *slog.Logger
	Observer Observer
}

// Frame hosts the toast area and the status bar.
type Frame struct {
	disp     dispatch.Dispatcher
	logger   *slog.Logger
	observer Observer

	queue       *Queue
	transitions *TransitionController
	gestures    *gesture.Interpreter
	timeout     *dispatch.Timer
	gap         *dispatch.Timer
	switching   bool

	parts     toastParts
	statusBar *StatusBar
}

type toastParts struct {
	outer    Translatable
	title    TextElement
	text     TextElement
	normal   Element
	info     Element
	infoText TextElement
}

// New creates a Frame with no template applied. Until ApplyTemplate is
// called the queue works but nothing is rendered.
func New(opts Options) *Frame {
	if opts.Dispatcher == nil {
		opts.Dispatcher = dispatch.NewImmediate()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}
	settings := opts.Settings.withDefaults()

	f := &Frame{
		disp:     opts.Dispatcher,
		logger:   opts.Logger,
		observer: opts.Observer,
		queue:    NewQueue(),
		gestures: gesture.NewInterpreter(settings.Thresholds),
	}
	f.transitions = NewTransitionController(f.dismissed, opts.Logger)
	f.timeout = dispatch.NewTimer(opts.Clock, opts.Dispatcher, settings.Timeout, f.timedOut)
	f.gap = dispatch.NewTimer(opts.Clock, opts.Dispatcher, settings.HideGap, f.presentNext)
	f.statusBar = newStatusBar(opts.Dispatcher, opts.Logger)
	return f
}

// StatusBar returns the frame's status bar.
func (f *Frame) StatusBar() *StatusBar {
	return f.statusBar
}

// IsToastVisible reports whether a toast occupies the visible slot.
func (f *Frame) IsToastVisible() bool {
	f.poll()
	return f.queue.Current() != nil
}

// Pending returns the number of toasts waiting behind the visible one.
func (f *Frame) Pending() int {
	f.poll()
	return f.queue.Len()
}

// poll runs held ticks when called on the UI context.
func (f *Frame) poll() {
	if f.disp.HasAccess() {
		pump(f.disp)
	}
}

// Settings returns the active settings.
func (f *Frame) Settings() Settings {
	return Settings{
		Timeout:    f.timeout.Interval(),
		HideGap:    f.gap.Interval(),
		Thresholds: f.gestures.Thresholds(),
	}
}

// Configure replaces the settings. A toast already on screen keeps the
// timeout it was presented with.
func (f *Frame) Configure(s Settings) error {
	if err := checkAccess(f.disp, "configure"); err != nil {
		return err
	}
	s = s.withDefaults()
	f.timeout.SetInterval(s.Timeout)
	f.gap.SetInterval(s.HideGap)
	f.gestures.SetThresholds(s.Thresholds)
	f.logger.Debug("frame reconfigured",
		"timeout", s.Timeout,
		"hide_gap", s.HideGap,
		"swipe_distance", s.Thresholds.SwipeDistance,
	)
	return nil
}

// ApplyTemplate looks up the template's parts and wires its gestures.
// Missing parts, or parts of the wrong type, disable the matching feature.
func (f *Frame) ApplyTemplate(t Template) error {
	if err := checkAccess(f.disp, "apply template"); err != nil {
		return err
	}

	var p toastParts
	p.outer, _ = lookup[Translatable](t, PartOuterToast)
	p.title, _ = lookup[TextElement](t, PartToastTitle)
	p.text, _ = lookup[TextElement](t, PartToastText)
	p.normal, _ = lookup[Element](t, PartNormalToast)
	p.info, _ = lookup[Element](t, PartInfoToast)
	p.infoText, _ = lookup[TextElement](t, PartInfoToastText)
	f.parts = p

	storyboard, ok := lookup[Storyboard](t, PartDraggingToHiddenStoryboard)
	if !ok {
		f.logger.Debug("template has no dismiss storyboard")
	}
	f.transitions.Attach(t, storyboard)

	if src, ok := lookup[GestureSource](t, PartOuterToast); ok {
		src.OnTapped(f.tapped)
		src.OnDragStarted(f.dragStarted)
		src.OnDragDelta(f.dragDelta)
		src.OnDragCompleted(f.dragCompleted)
	} else {
		f.logger.Debug("template toast does not accept gestures")
	}

	bar, ok := lookup[StatusBarPart](t, PartStatusBar)
	if !ok {
		f.logger.Debug("template has no status bar")
	}
	f.statusBar.attach(bar)

	// Re-render whatever is on screen into the new parts.
	if cur := f.queue.Current(); cur != nil && !f.switching {
		f.render(cur)
		f.transitions.GoVisible(false)
	}
	return nil
}

// ShowInfoToast queues a single-line informational toast.
func (f *Frame) ShowInfoToast(text string) error {
	if err := checkAccess(f.disp, "show info toast"); err != nil {
		return err
	}
	r, err := model.NewRequest(model.KindInformational, model.Toast{Text: text})
	if err != nil {
		return err
	}
	f.enqueue(r)
	return nil
}

// ShowToast queues an actionable toast.
func (f *Frame) ShowToast(t model.Toast) error {
	if err := checkAccess(f.disp, "show toast"); err != nil {
		return err
	}
	r, err := model.NewRequest(model.KindActionable, t)
	if err != nil {
		return err
	}
	f.enqueue(r)
	return nil
}

// HideToast takes the visible toast down without recording an outcome and
// moves on to the next one. It does nothing when idle.
func (f *Frame) HideToast() error {
	if err := checkAccess(f.disp, "hide toast"); err != nil {
		return err
	}
	if f.queue.Current() == nil {
		return nil
	}
	f.logger.Debug("hiding toast", "toast_id", f.queue.Current().ID())
	f.advance()
	return nil
}

// ClearAllToasts drops every pending toast and hides the visible one.
// The visible toast's callback is not invoked.
func (f *Frame) ClearAllToasts() error {
	if err := checkAccess(f.disp, "clear all toasts"); err != nil {
		return err
	}
	if n := f.queue.Clear(); n > 0 {
		f.logger.Debug("cleared pending toasts", "count", n)
		f.observer.QueueCleared(n)
	}
	if f.queue.Current() != nil {
		f.advance()
	}
	return nil
}

func (f *Frame) enqueue(r *model.Request) {
	f.queue.Enqueue(r)
	f.logger.Debug("toast queued",
		"toast_id", r.ID(),
		"kind", r.Kind(),
		"pending", f.queue.Len(),
	)
	f.observer.ToastQueued(r, f.queue.Len())

	if f.queue.Current() == nil {
		f.advance()
	}
}

// advance vacates the visible slot and moves to the next request. While a
// hide gap is pending it does nothing; presentNext resumes the sequence.
func (f *Frame) advance() {
	if f.switching {
		return
	}
	f.timeout.Stop()
	f.gestures.Reset()

	if cur := f.queue.Current(); cur != nil {
		silent := f.queue.MarkHandled()
		f.observer.ToastVacated(cur, silent)
	}

	if f.queue.Len() == 0 {
		f.queue.ClearCurrent()
		f.transitions.GoHidden(true)
		return
	}

	if f.queue.Current() != nil {
		f.transitions.GoHidden(true)
		f.switching = true
		f.gap.Start()
		return
	}

	f.presentNext()
}

func (f *Frame) presentNext() {
	f.switching = false

	r := f.queue.Dequeue()
	if r == nil {
		// Cleared during the gap; the toast is already hidden.
		f.queue.ClearCurrent()
		return
	}

	f.queue.SetCurrent(r)
	f.render(r)
	if f.parts.outer != nil {
		f.parts.outer.SetOffsetX(0)
	}
	f.transitions.GoVisible(true)
	f.timeout.Start()

	f.logger.Debug("toast presented",
		"toast_id", r.ID(),
		"kind", r.Kind(),
		"pending", f.queue.Len(),
	)
	f.observer.ToastPresented(r, f.queue.Len())
}

// recordOutcome is the single gate through which outcomes pass.
func (f *Frame) recordOutcome(outcome model.Outcome) {
	r := f.queue.Current()
	if r == nil || f.switching || !f.queue.MarkHandled() {
		return
	}

	f.logger.Debug("toast handled",
		"toast_id", r.ID(),
		"outcome", outcome,
		"age", time.Since(r.QueuedAt()),
	)
	f.observer.ToastHandled(r, outcome)
	r.Handle(outcome)

	// The callback may already have moved the queue on.
	if f.queue.Current() != r || f.switching {
		return
	}
	f.advance()
}

func (f *Frame) timedOut() {
	f.recordOutcome(model.OutcomeTimedOut)
}

func (f *Frame) dismissed() {
	f.recordOutcome(model.OutcomeDismissed)
}

// interactive reports whether the visible toast accepts taps and swipes.
func (f *Frame) interactive() bool {
	cur := f.queue.Current()
	return cur != nil && !cur.IsInformational() && !f.queue.Handled() && !f.switching
}

func (f *Frame) tapped() {
	if !f.interactive() || f.gestures.Active() || f.transitions.Dismissing() {
		return
	}
	f.recordOutcome(model.OutcomeActivated)
}

func (f *Frame) dragStarted() {
	if !f.interactive() || f.transitions.Dismissing() {
		return
	}
	f.timeout.Pause()
	f.gestures.Start()
	f.transitions.GoDragging()
}

func (f *Frame) dragDelta(s gesture.Sample) {
	if !f.gestures.Active() {
		return
	}
	offset := f.gestures.Update(s)
	if f.parts.outer != nil {
		f.parts.outer.SetOffsetX(offset)
	}
}

func (f *Frame) dragCompleted(s gesture.Sample) {
	if !f.gestures.Active() {
		return
	}
	decision := f.gestures.Complete(s)
	f.logger.Debug("drag completed",
		"translation", s.TranslationX,
		"velocity", s.VelocityX,
		"decision", decision,
	)

	if decision == gesture.DecisionDismiss {
		f.transitions.Dismiss()
		return
	}
	if f.parts.outer != nil {
		f.parts.outer.SetOffsetX(0)
	}
	f.transitions.GoVisible(true)
	f.timeout.Resume()
}

func (f *Frame) render(r *model.Request) {
	p := f.parts
	if r.IsInformational() {
		setVisible(p.normal, false)
		setVisible(p.info, true)
		setText(p.infoText, r.Text())
		return
	}

	setVisible(p.info, false)
	setVisible(p.normal, true)
	setText(p.text, r.Text())
	setText(p.title, r.Title())
	setVisible(p.title, r.HasTitle())
}

func setVisible(e Element, visible bool) {
	if e != nil {
		e.SetVisible(visible)
	}
}

func setText(e TextElement, text string) {
	if e != nil {
		e.SetText(text)
	}
}
