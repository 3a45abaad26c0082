// Package dispatch provides the single UI-affine execution context the toast
// frame runs on, together with timers that deliver their ticks onto it.
//
// Work is marshalled onto the context with Post, the same way glib.IdleAdd
// hands work to the GTK main loop. Code that mutates UI state checks
// HasAccess and refuses to run anywhere else.
package dispatch

import (
	"sync/atomic"

	"github.com/petermattis/goid"
)

// Dispatcher is a single logical UI context.
type Dispatcher interface {
	// HasAccess reports whether the caller is running on the context.
	HasAccess() bool
	// Post schedules fn to run on the context. It is safe to call from any
	// goroutine and never runs fn re-entrantly inside another posted fn.
	Post(fn func())
}

// Drainer is implemented by dispatchers that hold posts from other
// goroutines until the owner asks for them.
type Drainer interface {
	// Drain runs the held functions on the owner and returns how many ran.
	Drain() int
}

// Affinity records which goroutine owns a context.
// The zero value is unbound and grants access to nobody.
type Affinity struct {
	owner atomic.Int64
}

// Bind makes the calling goroutine the owner.
func (a *Affinity) Bind() {
	a.owner.Store(goid.Get())
}

// Unbind releases ownership.
func (a *Affinity) Unbind() {
	a.owner.Store(0)
}

// Bound reports whether any goroutine owns the context.
func (a *Affinity) Bound() bool {
	return a.owner.Load() != 0
}

// HasAccess reports whether the calling goroutine is the owner.
func (a *Affinity) HasAccess() bool {
	id := a.owner.Load()
	return id != 0 && id == goid.Get()
}
