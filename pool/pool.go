package pool

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/asynchttp/internal/scheduler"
	"github.com/utkarsh5026/asynchttp/internal/types"
)

// WorkerPool is a long-running pool with a fixed number of workers that
// execute submitted tasks and hand results back through futures.
//
// Workers start in NewWorkerPool and live until Shutdown or Stop. They all
// pull from one shared FIFO queue, so tasks start in submission order but may
// finish in any order.
//
// Type parameters:
//   - R: The result type produced by tasks
type WorkerPool[R any] struct {
	conf   *workerPoolConfig
	log    *zap.SugaredLogger
	queue  *scheduler.FIFOQueue[job[R]]
	state  atomic.Int32
	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group

	joinOnce sync.Once
	closed   chan struct{} // Closed when all workers have been joined

	taskIDCounter atomic.Int64
	submitted     atomic.Int64
	completed     atomic.Int64
	failed        atomic.Int64
	rejected      atomic.Int64
	discarded     atomic.Int64
}

// NewWorkerPool creates a pool and starts its workers immediately.
//
// Default configuration:
//   - workerCount: available hardware concurrency (at least 1)
//   - no rate limiting, no CPU pinning, no metrics
//   - logger: zap.S().Named("pool")
//
// Example:
//
//	wp := NewWorkerPool[string](WithWorkerCount(4))
//	defer wp.Shutdown()
//
//	future, err := wp.Submit(func() (string, error) {
//	    return "done", nil
//	})
func NewWorkerPool[R any](opts ...WorkerPoolOption) *WorkerPool[R] {
	cfg := createConfig(opts...)
	ctx, cancel := context.WithCancel(context.Background())

	wp := &WorkerPool[R]{
		conf:   cfg,
		log:    cfg.logger,
		queue:  scheduler.NewFIFOQueue[job[R]](),
		ctx:    ctx,
		cancel: cancel,
		closed: make(chan struct{}),
	}
	wp.state.Store(int32(StateOpen))

	for i := range cfg.workerCount {
		wp.group.Go(func() error {
			return wp.worker(i)
		})
	}

	wp.log.Infow("pool started", "workers", cfg.workerCount)
	return wp
}

// Submit appends a task to the queue and returns its future without waiting
// for it to run. Exactly one worker will run the task once, unless Stop
// discards it first.
//
// Returns:
//   - future: A Future for retrieving the result
//   - error: ErrPoolClosed once Shutdown or Stop has begun (the task is
//     never run), ErrNilTask for a nil task
//
// Example:
//
//	future, err := wp.Submit(task)
//	if err != nil {
//	    return err
//	}
//
//	// Option 1: Block until result is ready
//	result, err := future.Get()
//
//	// Option 2: Wait with a bound, the task keeps running either way
//	if future.WaitFor(50*time.Millisecond) == WaitReady {
//	    result, err := future.Get()
//	}
func (wp *WorkerPool[R]) Submit(task Task[R]) (*Future[R], error) {
	if task == nil {
		return nil, ErrNilTask
	}

	if wp.State() != StateOpen {
		wp.reject()
		return nil, ErrPoolClosed
	}

	future := types.NewFuture[R](wp.taskIDCounter.Add(1))

	wp.conf.metrics.queueDepth(1)
	if err := wp.queue.Enqueue(job[R]{task: task, future: future}); err != nil {
		wp.conf.metrics.queueDepth(-1)
		wp.reject()
		return nil, ErrPoolClosed
	}

	wp.submitted.Add(1)
	wp.conf.metrics.submitted()
	return future, nil
}

// Shutdown stops accepting tasks, lets the workers run everything already
// queued, then joins them. It returns only after every worker has exited.
// Calling it again, or concurrently, blocks until the first call finishes.
// It must not be called from inside a task.
func (wp *WorkerPool[R]) Shutdown() {
	if wp.state.CompareAndSwap(int32(StateOpen), int32(StateClosing)) {
		wp.log.Infow("shutting down pool", "pending", wp.queue.Len())
	}

	wp.queue.Close()
	wp.join()
}

// Stop is the forced variant of Shutdown. Queued tasks that have not started
// are dropped and their futures fail with ErrPoolClosed, so nobody blocks on
// them forever. Tasks already running finish normally. Workers are joined
// before Stop returns. Stop after Shutdown is a no-op.
func (wp *WorkerPool[R]) Stop() {
	if wp.state.CompareAndSwap(int32(StateOpen), int32(StateClosing)) {
		wp.log.Infow("stopping pool", "pending", wp.queue.Len())
	}

	dropped := wp.queue.Discard()
	wp.cancel()

	var zero R
	for _, j := range dropped {
		j.future.Complete(zero, ErrPoolClosed)
	}
	if n := len(dropped); n > 0 {
		wp.discarded.Add(int64(n))
		wp.conf.metrics.discarded(n, true)
		wp.log.Warnw("discarded queued tasks", "count", n)
	}

	wp.join()
}

// Done returns a channel that is closed once the pool is fully closed.
func (wp *WorkerPool[R]) Done() <-chan struct{} {
	return wp.closed
}

// State returns the pool's lifecycle state.
func (wp *WorkerPool[R]) State() LifecycleState {
	return LifecycleState(wp.state.Load())
}

// WorkerCount returns the number of workers the pool was started with.
func (wp *WorkerPool[R]) WorkerCount() int {
	return wp.conf.workerCount
}

// Pending returns the number of tasks waiting for a worker.
func (wp *WorkerPool[R]) Pending() int {
	return wp.queue.Len()
}

// Stats returns a snapshot of the pool counters.
func (wp *WorkerPool[R]) Stats() Stats {
	return Stats{
		Submitted: wp.submitted.Load(),
		Completed: wp.completed.Load(),
		Failed:    wp.failed.Load(),
		Rejected:  wp.rejected.Load(),
		Discarded: wp.discarded.Load(),
		Pending:   wp.queue.Len(),
	}
}

func (wp *WorkerPool[R]) reject() {
	wp.rejected.Add(1)
	wp.conf.metrics.rejected()
}

// join waits for every worker and marks the pool closed. Concurrent callers
// block until the first one is done.
func (wp *WorkerPool[R]) join() {
	wp.joinOnce.Do(func() {
		_ = wp.group.Wait()
		wp.cancel()
		wp.state.Store(int32(StateClosed))
		close(wp.closed)

		s := wp.Stats()
		wp.log.Infow("pool closed",
			"submitted", s.Submitted,
			"completed", s.Completed,
			"failed", s.Failed,
			"rejected", s.Rejected,
			"discarded", s.Discarded,
		)
	})
}
