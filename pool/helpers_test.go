package pool

import (
	"fmt"
	"testing"
	"time"
)

// workerCounts are the pool sizes most behaviour tests run against.
var workerCounts = []int{1, 2, 4, 8}

// newTestPool starts a pool that is shut down when the test ends.
func newTestPool[R any](t *testing.T, workers int, opts ...WorkerPoolOption) *WorkerPool[R] {
	t.Helper()

	opts = append([]WorkerPoolOption{WithWorkerCount(workers)}, opts...)
	wp := NewWorkerPool[R](opts...)
	t.Cleanup(wp.Shutdown)
	return wp
}

// runWorkerCountTest runs testFunc once per entry in workerCounts.
func runWorkerCountTest(t *testing.T, testFunc func(t *testing.T, workers int)) {
	for _, n := range workerCounts {
		t.Run(fmt.Sprintf("%d_workers", n), func(t *testing.T) {
			testFunc(t, n)
		})
	}
}

// waitForState polls until the pool reaches want or the deadline passes.
func waitForState[R any](t *testing.T, wp *WorkerPool[R], want LifecycleState, within time.Duration) {
	t.Helper()

	deadline := time.Now().Add(within)
	for wp.State() != want {
		if time.Now().After(deadline) {
			t.Fatalf("pool did not reach state %v within %v (state=%v)", want, within, wp.State())
		}
		time.Sleep(time.Millisecond)
	}
}

// getWithin fails the test if the future does not complete in time.
func getWithin[R any](t *testing.T, f *Future[R], within time.Duration) (R, error) {
	t.Helper()

	if f.WaitFor(within) != WaitReady {
		t.Fatalf("future %d not ready within %v", f.ID(), within)
	}
	return f.Get()
}
