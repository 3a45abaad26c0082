package dispatch

import "sync"

// Immediate is a synchronous Dispatcher owned by the goroutine that created
// it. A post from the owner runs straight away unless another posted fn is
// already running, in which case it queues behind that one. Posts from any
// other goroutine, such as real timer callbacks, wait until the owner calls
// Drain or posts again.
type Immediate struct {
	Affinity

	mu       sync.Mutex
	queue    []func()
	draining bool
}

// NewImmediate creates an Immediate owned by the calling goroutine.
func NewImmediate() *Immediate {
	d := &Immediate{}
	d.Bind()
	return d
}

// Post runs or queues fn.
func (d *Immediate) Post(fn func()) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	d.queue = append(d.queue, fn)
	d.mu.Unlock()

	d.Drain()
}

// Pending returns the number of queued functions.
func (d *Immediate) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Drain runs queued functions in order. It does nothing off the owner or
// from inside a posted function.
func (d *Immediate) Drain() int {
	if !d.HasAccess() || d.draining {
		return 0
	}

	d.draining = true
	defer func() { d.draining = false }()
	n := 0
	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			d.mu.Unlock()
			return n
		}
		next := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		d.mu.Unlock()

		next()
		n++
	}
}
