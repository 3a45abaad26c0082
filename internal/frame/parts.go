package frame

import "github.com/jmylchreest/toastframe/internal/gesture"

// VisualState names a state the presentation surface can enter.
type VisualState string

// Visual states requested by the frame and the status bar.
const (
	ToastHidden      VisualState = "ToastHidden"
	ToastVisible     VisualState = "ToastVisible"
	ToastDragging    VisualState = "ToastDragging"
	StatusBarVisible VisualState = "StatusBarVisible"
	StatusBarHidden  VisualState = "StatusBarHidden"
)

// Template part names.
const (
	PartOuterToast                 = "OuterToast"
	PartToastTitle                 = "ToastTitle"
	PartToastText                  = "ToastText"
	PartNormalToast                = "NormalToast"
	PartInfoToast                  = "InfoToast"
	PartInfoToastText              = "InfoToastText"
	PartStatusBar                  = "StatusBar"
	PartDraggingToHiddenStoryboard = "DraggingToHiddenStoryboard"
)

// Surface enters named visual states.
type Surface interface {
	GoToState(state VisualState, animated bool)
}

// Template is a Surface whose named parts can be looked up.
// Part returns nil for parts the template does not declare.
type Template interface {
	Surface
	Part(name string) any
}

// Element can be shown or collapsed.
type Element interface {
	SetVisible(visible bool)
}

// TextElement displays a string.
type TextElement interface {
	Element
	SetText(text string)
}

// Translatable can be offset horizontally while dragged.
type Translatable interface {
	SetOffsetX(x float64)
}

// GestureSource delivers tap and horizontal drag events.
// Registering a handler replaces the previous one.
type GestureSource interface {
	OnTapped(fn func())
	OnDragStarted(fn func())
	OnDragDelta(fn func(gesture.Sample))
	OnDragCompleted(fn func(gesture.Sample))
}

// Storyboard reports when its animation has finished.
type Storyboard interface {
	OnCompleted(fn func())
}

// StatusBarPart renders the status bar and its own visual states.
type StatusBarPart interface {
	Surface
	SetStatus(state StatusBarState)
}

// lookup returns the named part if it exists and has type T.
func lookup[T any](t Template, name string) (T, bool) {
	var zero T
	if t == nil {
		return zero, false
	}
	v, ok := t.Part(name).(T)
	if !ok {
		return zero, false
	}
	return v, true
}
