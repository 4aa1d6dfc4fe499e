package benchmarks

import (
	"math"
	"slices"
	"time"

	"github.com/utkarsh5026/asynchttp/pool"
)

// =============================================================================
// Benchmark Workload Generators
// =============================================================================

// cpuBoundWork simulates a CPU-intensive operation
func cpuBoundWork(iterations, task int) pool.Task[int] {
	return func() (int, error) {
		result := 0
		for i := range iterations {
			result += i * task
		}
		return result, nil
	}
}

// ioBoundWork simulates an I/O operation with a delay
func ioBoundWork(delay time.Duration, task int) pool.Task[int] {
	return func() (int, error) {
		time.Sleep(delay)
		return task * 2, nil
	}
}

// mixedWork simulates a realistic workload with variable processing time
func mixedWork(task int) pool.Task[int] {
	return func() (int, error) {
		time.Sleep(time.Duration(task%10) * time.Millisecond)

		result := 0
		for i := range 1000 {
			result += i
		}
		return result + task, nil
	}
}

// submitAll queues every task and waits for all futures.
func submitAll(wp *pool.WorkerPool[int], tasks []pool.Task[int]) error {
	futures := make([]*pool.Future[int], len(tasks))
	for i, t := range tasks {
		f, err := wp.Submit(t)
		if err != nil {
			return err
		}
		futures[i] = f
	}
	for _, f := range futures {
		if _, err := f.Get(); err != nil {
			return err
		}
	}
	return nil
}

func percentile(latencies []time.Duration, p float64) time.Duration {
	if len(latencies) == 0 {
		return 0
	}

	sorted := slices.Clone(latencies)
	slices.Sort(sorted)

	// Nearest-rank: p=0.50 over 100 samples is index 49.
	index := max(int(math.Round(p*float64(len(sorted)-1))), 0)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}
