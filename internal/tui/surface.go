package tui

import (
	"time"

	"github.com/jmylchreest/toastframe/internal/frame"
	"github.com/jmylchreest/toastframe/internal/layout"
)

const (
	defaultHideDuration = 250 * time.Millisecond
	defaultShowDuration = 150 * time.Millisecond
	// showSlide is how many columns a toast slides in from.
	showSlide = 4.0
	// defaultMaxWidth bounds a toast when the layout leaves it open.
	defaultMaxWidth = 48
)

// animation slides the toast horizontally between two column offsets.
type animation struct {
	from, to float64
	start    time.Time
	duration time.Duration
	hiding   bool
	// fromDrag marks the dragging-to-hidden transition, which completes
	// the template's storyboard.
	fromDrag bool
}

func (a *animation) at(now time.Time) (float64, bool) {
	if a.duration <= 0 {
		return a.to, true
	}
	p := float64(now.Sub(a.start)) / float64(a.duration)
	if p >= 1 {
		return a.to, true
	}
	if p < 0 {
		p = 0
	}
	return a.from + (a.to-a.from)*p, false
}

// Surface is the terminal rendition of a layout template. It implements
// frame.Template: the frame looks its parts up by name and drives its
// visual states, and the surface animates between them on frame ticks.
type Surface struct {
	layout *layout.LayoutConfig
	parts  map[string]any
	now    func() time.Time

	toast      *toastPart
	draggable  *draggableToast
	normal     *element
	info       *element
	title      *textElement
	text       *textElement
	infoText   *textElement
	statusBar  *statusBarPart
	storyboard *storyboard

	hideDuration time.Duration
	showDuration time.Duration
	cellWidth    float64

	state frame.VisualState
	anim  *animation
}

// NewSurface builds the parts a layout declares. Parts the layout leaves
// out are absent, and the frame runs without them.
func NewSurface(cfg *layout.LayoutConfig, cellWidth float64, now func() time.Time) *Surface {
	if cfg == nil {
		cfg = layout.DefaultLayout()
	}
	if now == nil {
		now = time.Now
	}
	if cellWidth <= 0 {
		cellWidth = 1
	}
	s := &Surface{
		layout:       cfg,
		parts:        make(map[string]any),
		now:          now,
		hideDuration: defaultHideDuration,
		showDuration: defaultShowDuration,
		cellWidth:    cellWidth,
		state:        frame.ToastHidden,
	}
	s.build(cfg.Elements)
	return s
}

func (s *Surface) build(elems []layout.LayoutElement) {
	for i := range elems {
		e := &elems[i]
		switch e.Type {
		case layout.ElementTypeToast:
			if e.Bool("draggable", true) {
				s.draggable = &draggableToast{}
				s.toast = &s.draggable.toastPart
				s.register(e.Name, s.draggable)
			} else {
				s.toast = &toastPart{}
				s.register(e.Name, s.toast)
			}
			s.hideDuration = e.Duration("hide-duration", defaultHideDuration)
			s.showDuration = e.Duration("show-duration", defaultShowDuration)
			if name := e.Attributes["storyboard"]; name != "" {
				s.storyboard = &storyboard{}
				s.parts[name] = s.storyboard
			}
		case layout.ElementTypeNormal:
			s.normal = &element{}
			s.register(e.Name, s.normal)
		case layout.ElementTypeInfo:
			s.info = &element{}
			s.register(e.Name, s.info)
		case layout.ElementTypeTitle:
			s.title = newTextElement(e.Int("max-lines", 1))
			s.register(e.Name, s.title)
		case layout.ElementTypeText:
			t := newTextElement(e.Int("max-lines", 0))
			if s.infoText == nil && s.inInfo(e.Name) {
				s.infoText = t
			} else {
				s.text = t
			}
			s.register(e.Name, t)
		case layout.ElementTypeStatusBar:
			s.statusBar = &statusBarPart{}
			s.register(e.Name, s.statusBar)
		}
		s.build(e.Children)
	}
}

func (s *Surface) register(name string, part any) {
	if name != "" {
		s.parts[name] = part
	}
}

// inInfo reports whether the named element sits inside an info block.
func (s *Surface) inInfo(name string) bool {
	var walk func(elems []layout.LayoutElement, inside bool) bool
	walk = func(elems []layout.LayoutElement, inside bool) bool {
		for _, e := range elems {
			in := inside || e.Type == layout.ElementTypeInfo
			if e.Name == name {
				return in
			}
			if walk(e.Children, in) {
				return true
			}
		}
		return false
	}
	return walk(s.layout.Elements, false)
}

// Part returns the named part, or nil.
func (s *Surface) Part(name string) any {
	if p, ok := s.parts[name]; ok {
		return p
	}
	return nil
}

// Layout returns the layout the surface was built from.
func (s *Surface) Layout() *layout.LayoutConfig { return s.layout }

// State returns the last toast state requested.
func (s *Surface) State() frame.VisualState { return s.state }

// GoToState enters a toast state. Status bar states are handled by the
// status bar part itself.
func (s *Surface) GoToState(state frame.VisualState, animated bool) {
	prev := s.state
	now := s.now()

	switch state {
	case frame.ToastVisible:
		s.state = state
		s.anim = nil
		if animated && prev == frame.ToastHidden {
			s.anim = &animation{from: showSlide, to: 0, start: now, duration: s.showDuration}
		}
	case frame.ToastDragging:
		s.state = state
		s.anim = nil
	case frame.ToastHidden:
		from := s.slide(now)
		s.state = state
		s.anim = nil
		if animated && prev != frame.ToastHidden {
			s.anim = &animation{
				from:     from,
				to:       float64(s.maxWidth() + 2),
				start:    now,
				duration: s.hideDuration,
				hiding:   true,
				fromDrag: prev == frame.ToastDragging,
			}
		}
	}
}

// slide returns the toast's current column offset, including any drag.
func (s *Surface) slide(now time.Time) float64 {
	if s.anim != nil {
		x, _ := s.anim.at(now)
		return x
	}
	if s.toast != nil {
		return s.toast.offsetX / s.cellWidth
	}
	return 0
}

// Showing reports whether the toast is drawn: visible, dragged, or still
// sliding out.
func (s *Surface) Showing() bool {
	return s.state != frame.ToastHidden || (s.anim != nil && s.anim.hiding)
}

// Animating reports whether Step has work to do.
func (s *Surface) Animating() bool { return s.anim != nil }

// Step advances the running animation to now. A finished dragging-to-hidden
// slide completes the storyboard, which may call back into the frame.
func (s *Surface) Step(now time.Time) {
	if s.anim == nil {
		return
	}
	if _, done := s.anim.at(now); !done {
		return
	}
	a := s.anim
	s.anim = nil
	if a.fromDrag && s.storyboard != nil {
		s.storyboard.fire()
	}
}

// Offset returns the column offset to draw the toast at.
func (s *Surface) Offset() int {
	return int(s.slide(s.now()))
}

// Draggable returns the gesture source, or nil for a static toast.
func (s *Surface) Draggable() *draggableToast { return s.draggable }

// CellWidth is the number of gesture units per terminal column.
func (s *Surface) CellWidth() float64 { return s.cellWidth }

// SetCellWidth changes the column scale used for drags.
func (s *Surface) SetCellWidth(w float64) {
	if w > 0 {
		s.cellWidth = w
	}
}

func (s *Surface) maxWidth() int {
	if s.layout.MaxWidth > 0 {
		return s.layout.MaxWidth
	}
	return defaultMaxWidth
}
