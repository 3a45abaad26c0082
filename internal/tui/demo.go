package tui

import (
	"fmt"

	"github.com/jmylchreest/toastframe/internal/model"
)

var (
	sampleShort = model.Toast{
		Text: "This is a short actionable toast. You can tap to activate, or swipe to dismiss.",
	}
	sampleInfo = "This is an informational toast. It is not actionable."
	sampleLong = model.Toast{
		Text: "This is a very long toast. It spans up to 3 lines. Lorem ipsum dolor sit amet, " +
			"consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore " +
			"magna aliqua. Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris " +
			"nisi ut aliquip ex ea commodo consequat",
	}
	sampleTitled = model.Toast{
		Title: "Title Text",
		Text:  "This is a toast with title text in bold",
	}
	sampleLongTitled = model.Toast{
		Title: "Title text Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor",
		Text: "This is a long toast with title text. The title text spans 2 lines, and the body " +
			"text spans 3 lines. ut labore et dolore magna aliqua. Ut enim ad minim veniam, quis nostrud",
	}
)

// callbackToast reports its outcome in the status bar and the page log.
func (m *Model) callbackToast() model.Toast {
	m.callbacks++
	return model.Toast{
		Title: "Callback",
		Text:  "Tap, swipe or wait. The outcome is reported in the status bar.",
		State: m.callbacks,
		OnHandled: func(outcome model.Outcome, state any) {
			m.events.add("callback   toast #%v: %s", state, outcome)
			bar := m.frame.StatusBar()
			if err := bar.SetText(fmt.Sprintf("Last outcome: %s", outcome)); err != nil {
				m.logger.Warn("failed to update status bar", "error", err)
				return
			}
			if err := bar.SetOpen(true); err != nil {
				m.logger.Warn("failed to open status bar", "error", err)
			}
		},
	}
}

// burst queues several toasts at once to show them presented in order.
func (m Model) burst() error {
	for i := 1; i <= 3; i++ {
		if err := m.frame.ShowToast(model.Toast{
			Title: fmt.Sprintf("Burst %d of 3", i),
			Text:  "Queued together, shown one at a time.",
		}); err != nil {
			return err
		}
	}
	return m.frame.ShowInfoToast("Burst finished")
}
