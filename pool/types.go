package pool

import "github.com/utkarsh5026/asynchttp/internal/types"

// Task is a unit of work: a zero-argument function producing a result of
// type R or an error. Ownership passes to the pool once it is submitted.
type Task[R any] = types.Task[R]

// Future is the handle returned by Submit. See types.Future for the full
// method set: Get, WaitFor, GetWithContext, TryGet, Done, IsReady, State.
type Future[R any] = types.Future[R]

// FutureState is the lifecycle state of a Future.
type FutureState = types.State

// WaitResult is returned by Future.WaitFor.
type WaitResult = types.WaitResult

const (
	StatePending   = types.StatePending
	StateFulfilled = types.StateFulfilled
	StateFailed    = types.StateFailed

	WaitReady   = types.WaitReady
	WaitTimeout = types.WaitTimeout
)

// LifecycleState describes where a pool is in its one-way lifecycle:
// open, then closing, then closed.
type LifecycleState int32

const (
	// StateOpen accepts and runs work.
	StateOpen LifecycleState = iota
	// StateClosing rejects new work while workers finish up.
	StateClosing
	// StateClosed means every worker has exited and been joined.
	StateClosed
)

func (s LifecycleState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stats is a point-in-time snapshot of pool counters.
//
// Fields:
//   - Submitted: Tasks accepted by Submit
//   - Completed: Tasks that ran and returned without error
//   - Failed: Tasks that ran and returned an error or panicked
//   - Rejected: Submit calls refused because the pool was closing or closed
//   - Discarded: Queued tasks dropped by Stop before they started
//   - Pending: Tasks waiting in the queue right now
type Stats struct {
	Submitted int64
	Completed int64
	Failed    int64
	Rejected  int64
	Discarded int64
	Pending   int
}

// job pairs a task with the future it completes.
type job[R any] struct {
	task   Task[R]
	future *Future[R]
}
