// Package pool provides a small, generic worker pool that runs tasks off the
// calling goroutine and returns futures for their results.
//
// The primary type is WorkerPool[R], a fixed set of workers pulling
// zero-argument tasks (func() (R, error)) from one unbounded FIFO queue.
// Submit never blocks; it returns a Future that the caller reads with Get
// (blocking) or WaitFor (bounded wait).
//
// # Basic Usage
//
//	wp := pool.NewWorkerPool[int](pool.WithWorkerCount(4))
//	defer wp.Shutdown()
//
//	future, err := wp.Submit(func() (int, error) {
//	    return 42, nil
//	})
//	if err != nil {
//	    return err
//	}
//	v, err := future.Get()
//
// # Futures
//
// A Future is completed exactly once by the worker that ran its task. Get
// may be called any number of times and always returns the same value and
// error. WaitFor(d) reports WaitReady or WaitTimeout; a timeout does not
// cancel anything, the task still runs and still completes the future.
//
//	if future.WaitFor(10*time.Millisecond) == pool.WaitTimeout {
//	    // do something else, then come back
//	}
//	resp, err := future.Get()
//
// # Lifecycle
//
// A pool moves from open to closing to closed and never goes back.
//
//   - Shutdown: stop accepting work, run everything already queued, join workers
//   - Stop: stop accepting work, drop queued tasks (their futures fail with
//     ErrPoolClosed), let running tasks finish, join workers
//
// Both are idempotent. Submit after either one has begun returns
// ErrPoolClosed and the task never runs.
//
// # Configuration Options
//
//   - WithWorkerCount(n): Number of workers (default: available CPUs, minimum 1)
//   - WithRateLimit(tasksPerSecond, burst): Token bucket applied before each task
//   - WithCPUAffinity(): Pin workers to CPU cores
//   - WithLogger(l): zap logger for lifecycle and per-task debug events
//   - WithMetrics(m): Prometheus collectors created by NewMetrics
//   - WithBeforeTaskStart(fn), WithOnTaskEnd(fn): Observation hooks
//
// # Error Handling
//
// Errors returned by a task are stored in its future and returned by Get.
// Panics are recovered and converted to *PanicError with a stack trace; the
// worker keeps going with the next task. One failing task never takes down a
// worker or the pool.
package pool
