package pool

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolClosed is returned by Submit once Shutdown or Stop has begun,
	// and stored in the futures of queued tasks that Stop discards.
	ErrPoolClosed = errors.New("pool closed")

	// ErrNilTask is returned by Submit when given a nil task.
	ErrNilTask = errors.New("nil task")

	// ErrTaskExited is stored in the future of a task that called
	// runtime.Goexit instead of returning.
	ErrTaskExited = errors.New("task exited without returning")
)

// PanicError is stored in a future when its task panics. The worker
// recovers and moves on to the next task.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panic: %v", e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
