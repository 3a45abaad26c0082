package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/toastframe/internal/dispatch"
)

// postMsg carries posted work into the bubbletea event loop.
type postMsg struct {
	fn func()
}

// Dispatcher makes the bubbletea event loop the frame's UI context.
// The goroutine running Update owns it; work posted from anywhere else is
// delivered as a message through the program.
type Dispatcher struct {
	dispatch.Affinity

	mu      sync.Mutex
	send    func(tea.Msg)
	backlog []func()

	queue    []func()
	draining bool
}

// NewDispatcher creates a Dispatcher with no program attached.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// SetProgram routes posts from other goroutines through p.
func (d *Dispatcher) SetProgram(p *tea.Program) {
	d.SetSender(p.Send)
}

// SetSender routes posts from other goroutines through send.
func (d *Dispatcher) SetSender(send func(tea.Msg)) {
	d.mu.Lock()
	d.send = send
	backlog := d.backlog
	d.backlog = nil
	d.mu.Unlock()

	for _, fn := range backlog {
		send(postMsg{fn: fn})
	}
}

// Post runs fn on the event loop. Called on the loop it runs after the
// current posted function, never re-entrantly.
func (d *Dispatcher) Post(fn func()) {
	if fn == nil {
		return
	}
	if d.HasAccess() {
		d.run(fn)
		return
	}

	d.mu.Lock()
	send := d.send
	if send == nil {
		d.backlog = append(d.backlog, fn)
	}
	d.mu.Unlock()

	if send != nil {
		send(postMsg{fn: fn})
	}
}

// drainBacklog runs work posted before a sender was attached. It must be
// called on the loop.
func (d *Dispatcher) drainBacklog() {
	d.mu.Lock()
	backlog := d.backlog
	d.backlog = nil
	d.mu.Unlock()

	for _, fn := range backlog {
		d.run(fn)
	}
}

func (d *Dispatcher) run(fn func()) {
	d.queue = append(d.queue, fn)
	if d.draining {
		return
	}

	d.draining = true
	defer func() { d.draining = false }()
	for len(d.queue) > 0 {
		next := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		next()
	}
}

// Send delivers msg to the program. It is dropped if no program is
// attached yet.
func (d *Dispatcher) Send(msg tea.Msg) {
	d.mu.Lock()
	send := d.send
	d.mu.Unlock()

	if send != nil {
		send(msg)
	}
}
