package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/jmylchreest/toastframe/internal/frame"
	"github.com/jmylchreest/toastframe/internal/model"
)

const maxEvents = 200

// eventLog records frame activity for the page body.
type eventLog struct {
	frame.NopObserver

	now     func() time.Time
	lines   []string
	version int
}

func newEventLog(now func() time.Time) *eventLog {
	return &eventLog{now: now}
}

func (l *eventLog) add(format string, args ...any) {
	line := l.now().Format("15:04:05") + "  " + fmt.Sprintf(format, args...)
	l.lines = append(l.lines, line)
	if len(l.lines) > maxEvents {
		l.lines = l.lines[len(l.lines)-maxEvents:]
	}
	l.version++
}

func (l *eventLog) String() string {
	return strings.Join(l.lines, "\n")
}

func (l *eventLog) ToastQueued(r *model.Request, pending int) {
	l.add("queued     %s %q (%d waiting)", r.Kind(), excerpt(r.Text()), pending)
}

func (l *eventLog) ToastPresented(r *model.Request, pending int) {
	l.add("presented  %s %q (%d waiting)", r.Kind(), excerpt(r.Text()), pending)
}

func (l *eventLog) ToastHandled(r *model.Request, outcome model.Outcome) {
	l.add("handled    %s, queued %s", outcome, humanize.RelTime(r.QueuedAt(), l.now(), "ago", "from now"))
}

func (l *eventLog) ToastVacated(r *model.Request, silent bool) {
	if silent {
		l.add("hidden     %q without an outcome", excerpt(r.Text()))
	}
}

func (l *eventLog) QueueCleared(discarded int) {
	l.add("cleared    %d pending", discarded)
}

func excerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, 32, ellipsis)
}
