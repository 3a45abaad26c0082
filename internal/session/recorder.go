// Package session keeps the outcomes of the toasts handled while the
// process runs. Nothing is written to disk.
package session

import (
	"sync"
	"time"

	"github.com/jmylchreest/toastframe/internal/frame"
	"github.com/jmylchreest/toastframe/internal/model"
)

// DefaultCapacity bounds how many entries a Recorder keeps.
const DefaultCapacity = 500

// OutcomeHidden records a toast taken down without an outcome.
const OutcomeHidden = "hidden"

// Entry is the record of one handled toast.
type Entry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title,omitempty"`
	Text      string    `json:"text"`
	Outcome   string    `json:"outcome"`
	QueuedAt  time.Time `json:"queued_at"`
	HandledAt time.Time `json:"handled_at"`
}

// Age is how long the toast waited between being queued and handled.
func (e Entry) Age() time.Duration {
	return e.HandledAt.Sub(e.QueuedAt)
}

// Recorder is a frame.Observer that keeps the newest entries in memory:
// one per handled toast and one per toast hidden without an outcome.
type Recorder struct {
	frame.NopObserver

	mu       sync.Mutex
	entries  []Entry
	capacity int
	now      func() time.Time
}

// NewRecorder creates a Recorder holding at most capacity entries.
// A capacity <= 0 uses DefaultCapacity.
func NewRecorder(capacity int, now func() time.Time) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if now == nil {
		now = time.Now
	}
	return &Recorder{capacity: capacity, now: now}
}

// Entries returns a copy of the recorded entries, oldest first.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of recorded entries.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Filter returns the entries whose outcome matches, newest limit of them.
// An empty outcome matches everything; limit <= 0 means no limit.
func (r *Recorder) Filter(outcome string, limit int) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if outcome == "" || e.Outcome == outcome {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// ToastHandled records the toast's outcome.
func (r *Recorder) ToastHandled(req *model.Request, outcome model.Outcome) {
	r.record(req, outcome.String())
}

// ToastVacated records toasts that were hidden without an outcome.
func (r *Recorder) ToastVacated(req *model.Request, silent bool) {
	if silent {
		r.record(req, OutcomeHidden)
	}
}

func (r *Recorder) record(req *model.Request, outcome string) {
	e := Entry{
		ID:        req.ID(),
		Kind:      req.Kind().String(),
		Title:     req.Title(),
		Text:      req.Text(),
		Outcome:   outcome,
		QueuedAt:  req.QueuedAt(),
		HandledAt: r.now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	if over := len(r.entries) - r.capacity; over > 0 {
		clear(r.entries[:over])
		r.entries = r.entries[over:]
	}
}
