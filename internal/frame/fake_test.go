package frame

import (
	"github.com/jmylchreest/toastframe/internal/gesture"
	"github.com/jmylchreest/toastframe/internal/model"
)

type stateCall struct {
	state    VisualState
	animated bool
}

type fakeText struct {
	text    string
	visible bool
}

func (t *fakeText) SetText(text string)     { t.text = text }
func (t *fakeText) SetVisible(visible bool) { t.visible = visible }

type fakePanel struct {
	visible bool
}

func (p *fakePanel) SetVisible(visible bool) { p.visible = visible }

type fakeToast struct {
	offset    float64
	tapped    func()
	started   func()
	delta     func(gesture.Sample)
	completed func(gesture.Sample)
}

func (t *fakeToast) SetOffsetX(x float64)                    { t.offset = x }
func (t *fakeToast) OnTapped(fn func())                      { t.tapped = fn }
func (t *fakeToast) OnDragStarted(fn func())                 { t.started = fn }
func (t *fakeToast) OnDragDelta(fn func(gesture.Sample))     { t.delta = fn }
func (t *fakeToast) OnDragCompleted(fn func(gesture.Sample)) { t.completed = fn }

func (t *fakeToast) tap() { t.tapped() }

func (t *fakeToast) swipe(samples ...gesture.Sample) {
	t.started()
	for _, s := range samples[:len(samples)-1] {
		t.delta(s)
	}
	t.completed(samples[len(samples)-1])
}

type fakeStoryboard struct {
	done func()
}

func (s *fakeStoryboard) OnCompleted(fn func()) { s.done = fn }
func (s *fakeStoryboard) complete()             { s.done() }

type fakeStatusBar struct {
	states []stateCall
	status StatusBarState
	pushes int
}

func (b *fakeStatusBar) GoToState(state VisualState, animated bool) {
	b.states = append(b.states, stateCall{state, animated})
}

func (b *fakeStatusBar) SetStatus(state StatusBarState) {
	b.status = state
	b.pushes++
}

type fakeTemplate struct {
	states []stateCall
	parts  map[string]any

	outer      *fakeToast
	title      *fakeText
	text       *fakeText
	normal     *fakePanel
	info       *fakePanel
	infoText   *fakeText
	storyboard *fakeStoryboard
	statusBar  *fakeStatusBar
}

func newFakeTemplate() *fakeTemplate {
	t := &fakeTemplate{
		outer:      &fakeToast{},
		title:      &fakeText{},
		text:       &fakeText{},
		normal:     &fakePanel{},
		info:       &fakePanel{},
		infoText:   &fakeText{},
		storyboard: &fakeStoryboard{},
		statusBar:  &fakeStatusBar{},
	}
	t.parts = map[string]any{
		PartOuterToast:                 t.outer,
		PartToastTitle:                 t.title,
		PartToastText:                  t.text,
		PartNormalToast:                t.normal,
		PartInfoToast:                  t.info,
		PartInfoToastText:              t.infoText,
		PartDraggingToHiddenStoryboard: t.storyboard,
		PartStatusBar:                  t.statusBar,
	}
	return t
}

func (t *fakeTemplate) GoToState(state VisualState, animated bool) {
	t.states = append(t.states, stateCall{state, animated})
}

func (t *fakeTemplate) Part(name string) any { return t.parts[name] }

func (t *fakeTemplate) lastState() VisualState {
	if len(t.states) == 0 {
		return ""
	}
	return t.states[len(t.states)-1].state
}

type outcomeCall struct {
	outcome model.Outcome
	state   any
}

// recorder collects callback invocations per toast text.
type recorder struct {
	calls map[string][]outcomeCall
	order []string
}

func newRecorder() *recorder {
	return &recorder{calls: make(map[string][]outcomeCall)}
}

func (r *recorder) toast(text string) model.Toast {
	return model.Toast{
		Text: text,
		OnHandled: func(outcome model.Outcome, state any) {
			r.calls[text] = append(r.calls[text], outcomeCall{outcome, state})
			r.order = append(r.order, text)
		},
		State: text + "-state",
	}
}

// eventLog is an Observer that records presentation order.
type eventLog struct {
	NopObserver
	presented []string
	vacated   map[string]bool
	cleared   []int
	queued    int
}

func newEventLog() *eventLog {
	return &eventLog{vacated: make(map[string]bool)}
}

func (l *eventLog) ToastQueued(*model.Request, int) { l.queued++ }

func (l *eventLog) ToastPresented(r *model.Request, _ int) {
	l.presented = append(l.presented, r.Text())
}

func (l *eventLog) ToastVacated(r *model.Request, silent bool) {
	l.vacated[r.Text()] = silent
}

func (l *eventLog) QueueCleared(n int) { l.cleared = append(l.cleared, n) }

type denyDispatcher struct{}

func (denyDispatcher) HasAccess() bool { return false }
func (denyDispatcher) Post(fn func())  { fn() }
