package pool

import (
	"fmt"
	"runtime"
	"time"

	"github.com/utkarsh5026/asynchttp/internal/cpu"
)

// worker is the loop run by each worker goroutine. It pulls tasks from the
// shared queue until the queue is closed and drained. The queue lock is
// never held while a task runs.
func (wp *WorkerPool[R]) worker(workerID int) error {
	if wp.conf.affinity {
		release, err := cpu.SetupWorkerAffinity(workerID)
		if err != nil {
			wp.log.Warnw("cpu pinning failed", "worker", workerID, "error", err)
		}
		defer release()
	}

	wp.conf.metrics.workerStarted()
	defer wp.conf.metrics.workerStopped()

	for {
		j, ok := wp.queue.Dequeue()
		if !ok {
			wp.log.Debugw("worker exiting", "worker", workerID)
			return nil
		}

		wp.conf.metrics.queueDepth(-1)
		wp.execute(workerID, j)
	}
}

// execute runs one task and completes its future. Task errors and panics
// end up in the future; they never stop the worker.
func (wp *WorkerPool[R]) execute(workerID int, j job[R]) {
	id := j.future.ID()

	if wp.conf.rateLimiter != nil {
		if err := wp.conf.rateLimiter.Wait(wp.ctx); err != nil {
			var zero R
			wp.discarded.Add(1)
			wp.conf.metrics.discarded(1, false)
			j.future.Complete(zero, fmt.Errorf("%w: rate limiter: %v", ErrPoolClosed, err))
			return
		}
	}

	if wp.conf.beforeTaskStart != nil {
		wp.runHook("before_task_start", func() { wp.conf.beforeTaskStart(id) })
	}

	start := time.Now()
	returned := false
	defer func() {
		if !returned {
			wp.taskExited(workerID, j, time.Since(start))
		}
	}()

	result, err := processWithRecovery(j.task)
	returned = true
	latency := time.Since(start)

	if wp.conf.onTaskEnd != nil {
		wp.runHook("on_task_end", func() { wp.conf.onTaskEnd(id, err) })
	}

	if err != nil {
		wp.failed.Add(1)
		wp.log.Debugw("task failed", "worker", workerID, "task", id, "latency", latency, "error", err)
	} else {
		wp.completed.Add(1)
		wp.log.Debugw("task completed", "worker", workerID, "task", id, "latency", latency)
	}
	wp.conf.metrics.finished(err, latency)

	j.future.Complete(result, err)
}

// taskExited handles a task that ended its goroutine with runtime.Goexit
// instead of returning. The future fails and a replacement worker takes
// over. errgroup marks the exiting worker done only after its defers run, so
// the group count never touches zero here.
func (wp *WorkerPool[R]) taskExited(workerID int, j job[R], latency time.Duration) {
	var zero R
	wp.failed.Add(1)
	wp.conf.metrics.finished(ErrTaskExited, latency)
	j.future.Complete(zero, ErrTaskExited)
	wp.log.Warnw("task exited its goroutine, replacing worker", "worker", workerID, "task", j.future.ID())

	wp.group.Go(func() error {
		return wp.worker(workerID)
	})
}

// runHook calls a user hook, logging instead of crashing the worker if it
// panics.
func (wp *WorkerPool[R]) runHook(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			wp.log.Errorw("hook panicked", "hook", name, "panic", r)
		}
	}()
	fn()
}

// processWithRecovery executes a task with panic recovery.
// If a panic occurs, it's converted to a *PanicError carrying the stack
// trace to prevent crashing the worker.
func processWithRecovery[R any](task Task[R]) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			var zero R
			result = zero
			err = &PanicError{Value: r, Stack: buf[:n]}
		}
	}()

	return task()
}
