package frame

import (
	"errors"

	"github.com/jmylchreest/toastframe/internal/dispatch"
)

// ErrInvalidOperation is returned when a mutator is called off the UI context.
var ErrInvalidOperation = errors.New("invalid operation: not on the UI context")

// OperationError records which operation failed.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// checkAccess fails off the UI context. On it, ticks a Drainer is holding
// run first so the operation sees current state.
func checkAccess(d dispatch.Dispatcher, op string) error {
	if !d.HasAccess() {
		return &OperationError{Op: op, Err: ErrInvalidOperation}
	}
	pump(d)
	return nil
}

func pump(d dispatch.Dispatcher) {
	if dr, ok := d.(dispatch.Drainer); ok {
		dr.Drain()
	}
}
