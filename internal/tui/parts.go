package tui

import (
	"github.com/jmylchreest/toastframe/internal/frame"
	"github.com/jmylchreest/toastframe/internal/gesture"
)

// element is a collapsible block in the toast.
type element struct {
	visible bool
}

func (e *element) SetVisible(visible bool) { e.visible = visible }
func (e *element) Visible() bool           { return e.visible }

// textElement is a collapsible line of text limited to maxLines rows.
type textElement struct {
	element
	text     string
	maxLines int
}

// newTextElement returns a text element that is shown until told otherwise.
func newTextElement(maxLines int) *textElement {
	return &textElement{element: element{visible: true}, maxLines: maxLines}
}

func (e *textElement) SetText(text string) { e.text = text }
func (e *textElement) Text() string        { return e.text }

// toastPart is the outer toast container. It can be offset while dragged.
type toastPart struct {
	offsetX float64
}

func (p *toastPart) SetOffsetX(x float64) { p.offsetX = x }
func (p *toastPart) OffsetX() float64     { return p.offsetX }

// draggableToast is a toastPart that also delivers pointer gestures.
type draggableToast struct {
	toastPart

	tapped        func()
	dragStarted   func()
	dragDelta     func(gesture.Sample)
	dragCompleted func(gesture.Sample)
}

func (p *draggableToast) OnTapped(fn func())                      { p.tapped = fn }
func (p *draggableToast) OnDragStarted(fn func())                 { p.dragStarted = fn }
func (p *draggableToast) OnDragDelta(fn func(gesture.Sample))     { p.dragDelta = fn }
func (p *draggableToast) OnDragCompleted(fn func(gesture.Sample)) { p.dragCompleted = fn }

func (p *draggableToast) tap() {
	if p.tapped != nil {
		p.tapped()
	}
}

func (p *draggableToast) startDrag() {
	if p.dragStarted != nil {
		p.dragStarted()
	}
}

func (p *draggableToast) moveDrag(s gesture.Sample) {
	if p.dragDelta != nil {
		p.dragDelta(s)
	}
}

func (p *draggableToast) completeDrag(s gesture.Sample) {
	if p.dragCompleted != nil {
		p.dragCompleted(s)
	}
}

// storyboard fires its completion handler when the surface finishes the
// dragging-to-hidden animation.
type storyboard struct {
	completed func()
}

func (s *storyboard) OnCompleted(fn func()) { s.completed = fn }

func (s *storyboard) fire() {
	if s.completed != nil {
		s.completed()
	}
}

// statusBarPart holds what the status bar renders.
type statusBarPart struct {
	state   frame.StatusBarState
	visible bool
}

func (p *statusBarPart) GoToState(state frame.VisualState, _ bool) {
	switch state {
	case frame.StatusBarVisible:
		p.visible = true
	case frame.StatusBarHidden:
		p.visible = false
	}
}

func (p *statusBarPart) SetStatus(state frame.StatusBarState) { p.state = state }
