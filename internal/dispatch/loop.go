package dispatch

import (
	"context"
	"log/slog"
	"sync"
)

// Loop is a Dispatcher backed by a dedicated goroutine. It is used by
// headless hosts; the terminal UI uses its own event loop instead.
type Loop struct {
	Affinity

	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	logger *slog.Logger
}

// NewLoop creates a new Loop. Call Run to start processing.
func NewLoop(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		wake:   make(chan struct{}, 1),
		logger: logger,
	}
}

// Post schedules fn on the loop. Posting never blocks.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run binds the calling goroutine to the loop and executes posted functions
// in order until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	l.Bind()
	defer l.Unbind()

	l.logger.Debug("dispatch loop started")
	for {
		l.drain()

		select {
		case <-ctx.Done():
			l.logger.Debug("dispatch loop stopped")
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Pending returns the number of queued functions.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		fn()
	}
}
