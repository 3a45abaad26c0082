// Package model defines the toast request and outcome types shared by the
// frame, its observers and the terminal surface.
package model

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Kind selects how a toast is presented and whether it can be acted on.
type Kind int

const (
	// KindActionable toasts show an optional title and a multi-line body,
	// and can be tapped to activate or swiped to dismiss.
	KindActionable Kind = iota
	// KindInformational toasts show a single line and ignore interaction.
	KindInformational
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindActionable:
		return "actionable"
	case KindInformational:
		return "informational"
	default:
		return "unknown"
	}
}

// Outcome is the single result recorded for a presented toast.
type Outcome int

const (
	// OutcomeActivated means the user tapped the toast.
	OutcomeActivated Outcome = iota
	// OutcomeDismissed means the user swiped the toast away.
	OutcomeDismissed
	// OutcomeTimedOut means the toast expired without interaction.
	OutcomeTimedOut
)

// String returns the string representation of Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeActivated:
		return "activated"
	case OutcomeDismissed:
		return "dismissed"
	case OutcomeTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Outcomes returns every outcome value.
func Outcomes() []Outcome {
	return []Outcome{OutcomeActivated, OutcomeDismissed, OutcomeTimedOut}
}

// HandledFunc is called once when a toast has been handled.
// state is the value supplied with the toast, passed through unchanged.
type HandledFunc func(outcome Outcome, state any)

// Toast is the caller-facing description of an actionable toast.
// Every field is optional.
type Toast struct {
	Text      string
	Title     string
	OnHandled HandledFunc
	State     any
}

// Request is an immutable, queued toast.
type Request struct {
	id        string
	kind      Kind
	text      string
	title     string
	onHandled HandledFunc
	state     any
	queuedAt  time.Time
}

// NewRequest creates a Request with a generated ULID.
// Informational requests drop the title and callback.
func NewRequest(kind Kind, t Toast) (*Request, error) {
	now := time.Now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ULID: %w", err)
	}

	r := &Request{
		id:       id.String(),
		kind:     kind,
		text:     t.Text,
		queuedAt: now,
	}
	if kind == KindActionable {
		r.title = t.Title
		r.onHandled = t.OnHandled
		r.state = t.State
	}
	return r, nil
}

// ID returns the request's ULID.
func (r *Request) ID() string { return r.id }

// Kind returns the request kind.
func (r *Request) Kind() Kind { return r.kind }

// Text returns the body text.
func (r *Request) Text() string { return r.text }

// Title returns the title text, empty when there is none.
func (r *Request) Title() string { return r.title }

// State returns the opaque caller state.
func (r *Request) State() any { return r.state }

// QueuedAt returns when the request was created.
func (r *Request) QueuedAt() time.Time { return r.queuedAt }

// HasTitle reports whether a title row should be rendered.
func (r *Request) HasTitle() bool { return r.title != "" }

// IsInformational reports whether the request is an informational toast.
func (r *Request) IsInformational() bool { return r.kind == KindInformational }

// HasCallback reports whether a HandledFunc was supplied.
func (r *Request) HasCallback() bool { return r.onHandled != nil }

// Handle invokes the callback, if any, with the outcome and state.
// Callers are responsible for invoking it at most once.
func (r *Request) Handle(outcome Outcome) {
	if r.onHandled == nil {
		return
	}
	r.onHandled(outcome, r.state)
}
