package frame

import (
	"log/slog"
	"math"

	"github.com/jmylchreest/toastframe/internal/dispatch"
)

// StatusBarState is the snapshot pushed to the StatusBar part on every change.
type StatusBarState struct {
	Open          bool
	Indeterminate bool
	Progress      float64
	Text          string
	Fill          string
}

// StatusBar is the progress strip shown above the toast area.
// Setters must be called on the UI context.
type StatusBar struct {
	disp   dispatch.Dispatcher
	part   StatusBarPart
	state  StatusBarState
	logger *slog.Logger
}

func newStatusBar(disp dispatch.Dispatcher, logger *slog.Logger) *StatusBar {
	return &StatusBar{disp: disp, logger: logger}
}

// attach binds the bar to its part, or detaches it when part is nil.
func (s *StatusBar) attach(part StatusBarPart) {
	s.part = part
	if part == nil {
		return
	}
	if s.state.Open {
		part.GoToState(StatusBarVisible, false)
	} else {
		part.GoToState(StatusBarHidden, false)
	}
	part.SetStatus(s.state)
}

// State returns a copy of the current properties.
func (s *StatusBar) State() StatusBarState { return s.state }

// IsOpen reports whether the bar is shown.
func (s *StatusBar) IsOpen() bool { return s.state.Open }

// IsIndeterminate reports whether progress is shown as busy rather than a value.
func (s *StatusBar) IsIndeterminate() bool { return s.state.Indeterminate }

// ProgressValue returns the progress in [0, 1].
func (s *StatusBar) ProgressValue() float64 { return s.state.Progress }

// Text returns the status text.
func (s *StatusBar) Text() string { return s.state.Text }

// Fill returns the background color.
func (s *StatusBar) Fill() string { return s.state.Fill }

// SetOpen shows or hides the bar. The visual state only changes when the
// value does.
func (s *StatusBar) SetOpen(open bool) error {
	if err := checkAccess(s.disp, "status bar set open"); err != nil {
		return err
	}
	if s.state.Open == open {
		return nil
	}
	s.state.Open = open
	if s.part != nil {
		if open {
			s.part.GoToState(StatusBarVisible, true)
		} else {
			s.part.GoToState(StatusBarHidden, true)
		}
	}
	s.logger.Debug("status bar toggled", "open", open)
	s.push()
	return nil
}

// SetIndeterminate switches between a busy indicator and a progress value.
func (s *StatusBar) SetIndeterminate(indeterminate bool) error {
	if err := checkAccess(s.disp, "status bar set indeterminate"); err != nil {
		return err
	}
	s.state.Indeterminate = indeterminate
	s.push()
	return nil
}

// SetProgress sets the progress value, clamped to [0, 1]. NaN counts as 0.
func (s *StatusBar) SetProgress(value float64) error {
	if err := checkAccess(s.disp, "status bar set progress"); err != nil {
		return err
	}
	if math.IsNaN(value) {
		value = 0
	}
	s.state.Progress = min(max(value, 0), 1)
	s.push()
	return nil
}

// SetText sets the status text.
func (s *StatusBar) SetText(text string) error {
	if err := checkAccess(s.disp, "status bar set text"); err != nil {
		return err
	}
	s.state.Text = text
	s.push()
	return nil
}

// SetFill sets the background color.
func (s *StatusBar) SetFill(fill string) error {
	if err := checkAccess(s.disp, "status bar set fill"); err != nil {
		return err
	}
	s.state.Fill = fill
	s.push()
	return nil
}

func (s *StatusBar) push() {
	if s.part != nil {
		s.part.SetStatus(s.state)
	}
}
