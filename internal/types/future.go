package types

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Task is a unit of work submitted to a pool. It takes no arguments and
// produces a single result or an error.
type Task[R any] func() (R, error)

// State is the lifecycle state of a Future.
type State int32

const (
	// StatePending means the task has not completed yet.
	StatePending State = iota
	// StateFulfilled means the task completed and returned a value.
	StateFulfilled
	// StateFailed means the task completed with an error.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFulfilled:
		return "fulfilled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// WaitResult reports the outcome of Future.WaitFor.
type WaitResult int

const (
	// WaitReady means the future completed within the wait duration.
	WaitReady WaitResult = iota
	// WaitTimeout means the wait duration elapsed first.
	WaitTimeout
)

func (w WaitResult) String() string {
	if w == WaitReady {
		return "ready"
	}
	return "timeout"
}

// Future is a single-assignment handle for the result of a submitted task.
//
// Exactly one writer (the worker that ran the task) completes it; any number
// of readers may call Get, WaitFor and friends concurrently. Once completed
// the value and error never change.
//
// Type parameters:
//   - R: The type of the result value
type Future[R any] struct {
	id    int64
	once  sync.Once
	done  chan struct{}
	state atomic.Int32
	value R
	err   error
}

// NewFuture creates a pending future tagged with the given task id.
func NewFuture[R any](id int64) *Future[R] {
	return &Future[R]{
		id:   id,
		done: make(chan struct{}),
	}
}

// Complete stores the outcome and wakes every waiter. Only the first call
// has any effect; it returns false for every later call.
func (f *Future[R]) Complete(value R, err error) bool {
	completed := false
	f.once.Do(func() {
		f.value = value
		f.err = err
		if err != nil {
			f.state.Store(int32(StateFailed))
		} else {
			f.state.Store(int32(StateFulfilled))
		}
		close(f.done)
		completed = true
	})
	return completed
}

// ID returns the id assigned to the task when it was submitted.
func (f *Future[R]) ID() int64 {
	return f.id
}

// Get blocks until the task completes and returns its result.
// Repeated calls return the same value and error.
//
// Example:
//
//	future, err := pool.Submit(task)
//	if err != nil {
//	    return err
//	}
//	resp, err := future.Get()
func (f *Future[R]) Get() (R, error) {
	<-f.done
	return f.value, f.err
}

// GetWithContext waits for the result like Get, but gives up when ctx is
// done. Giving up does not affect the task, which still runs to completion.
func (f *Future[R]) GetWithContext(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// WaitFor blocks for at most d and reports whether the task has completed.
// A timeout leaves the task untouched; it stays queued or running and will
// still complete the future. A non-positive d only polls.
func (f *Future[R]) WaitFor(d time.Duration) WaitResult {
	if d <= 0 {
		if f.IsReady() {
			return WaitReady
		}
		return WaitTimeout
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-f.done:
		return WaitReady
	case <-timer.C:
		return WaitTimeout
	}
}

// TryGet returns the result without blocking. The last return value is
// false while the task is still pending.
func (f *Future[R]) TryGet() (R, error, bool) {
	select {
	case <-f.done:
		return f.value, f.err, true
	default:
		var zero R
		return zero, nil, false
	}
}

// Done returns a channel that is closed once the future is completed.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// IsReady reports whether the future has been completed.
func (f *Future[R]) IsReady() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// State returns the current state of the future.
func (f *Future[R]) State() State {
	return State(f.state.Load())
}
