package frame

import (
	"container/list"

	"github.com/jmylchreest/toastframe/internal/model"
)

// Queue holds pending toast requests in FIFO order plus the presented one.
// It is not safe for concurrent use; the frame owns it on the UI context.
type Queue struct {
	pending *list.List // *model.Request
	current *model.Request
	handled bool
}

// NewQueue creates an empty, idle queue.
func NewQueue() *Queue {
	return &Queue{pending: list.New(), handled: true}
}

// Enqueue appends r.
func (q *Queue) Enqueue(r *model.Request) {
	q.pending.PushBack(r)
}

// Len returns the number of pending requests.
func (q *Queue) Len() int {
	return q.pending.Len()
}

// Dequeue removes and returns the oldest pending request, or nil.
func (q *Queue) Dequeue() *model.Request {
	front := q.pending.Front()
	if front == nil {
		return nil
	}
	q.pending.Remove(front)
	return front.Value.(*model.Request)
}

// Clear discards every pending request and returns how many were dropped.
// The current request is left alone.
func (q *Queue) Clear() int {
	n := q.pending.Len()
	q.pending.Init()
	return n
}

// Current returns the presented request, or nil when idle.
func (q *Queue) Current() *model.Request {
	return q.current
}

// SetCurrent makes r the presented request with no outcome recorded.
func (q *Queue) SetCurrent(r *model.Request) {
	q.current = r
	q.handled = false
}

// ClearCurrent returns the queue to idle.
func (q *Queue) ClearCurrent() {
	q.current = nil
	q.handled = true
}

// Handled reports whether the current request already has an outcome.
func (q *Queue) Handled() bool {
	return q.handled
}

// MarkHandled records that the current request has been handled. It reports
// false if there is no current request or it was already handled.
func (q *Queue) MarkHandled() bool {
	if q.current == nil || q.handled {
		return false
	}
	q.handled = true
	return true
}
