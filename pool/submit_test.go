package pool

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/utkarsh5026/asynchttp/internal/cpu"
)

func TestWorkerPool_Submit(t *testing.T) {
	t.Run("every task resolves to its own result", func(t *testing.T) {
		runWorkerCountTest(t, func(t *testing.T, workers int) {
			wp := newTestPool[int](t, workers)

			const numTasks = 500
			futures := make([]*Future[int], numTasks)

			for i := range numTasks {
				f, err := wp.Submit(func() (int, error) {
					return i * 2, nil
				})
				if err != nil {
					t.Fatalf("submit %d failed: %v", i, err)
				}
				futures[i] = f
			}

			for i, f := range futures {
				v, err := getWithin(t, f, 5*time.Second)
				if err != nil {
					t.Fatalf("task %d: unexpected error %v", i, err)
				}
				if v != i*2 {
					t.Errorf("task %d: expected %d, got %d", i, i*2, v)
				}
				if f.State() != StateFulfilled {
					t.Errorf("task %d: expected fulfilled, got %v", i, f.State())
				}
			}
		})
	})

	t.Run("each task runs exactly once", func(t *testing.T) {
		runWorkerCountTest(t, func(t *testing.T, workers int) {
			wp := newTestPool[int](t, workers)

			const numTasks = 300
			var runs [numTasks]atomic.Int32
			futures := make([]*Future[int], 0, numTasks)

			for i := range numTasks {
				f, err := wp.Submit(func() (int, error) {
					runs[i].Add(1)
					return i, nil
				})
				if err != nil {
					t.Fatalf("submit failed: %v", err)
				}
				futures = append(futures, f)
			}

			for _, f := range futures {
				_, _ = getWithin(t, f, 5*time.Second)
			}

			for i := range numTasks {
				if n := runs[i].Load(); n != 1 {
					t.Errorf("task %d ran %d times", i, n)
				}
			}
		})
	})

	t.Run("submit does not wait for execution", func(t *testing.T) {
		wp := newTestPool[int](t, 1)
		release := make(chan struct{})

		start := time.Now()
		f, err := wp.Submit(func() (int, error) {
			<-release
			return 1, nil
		})
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
		if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
			t.Errorf("submit blocked for %v", elapsed)
		}
		if f.State() != StatePending {
			t.Errorf("expected pending future, got %v", f.State())
		}

		close(release)
		if v, _ := getWithin(t, f, time.Second); v != 1 {
			t.Errorf("expected 1, got %d", v)
		}
	})

	t.Run("single worker runs tasks in submission order", func(t *testing.T) {
		wp := newTestPool[int](t, 1)

		var mu sync.Mutex
		var order []int
		var last *Future[int]

		for i := range 50 {
			f, err := wp.Submit(func() (int, error) {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return i, nil
			})
			if err != nil {
				t.Fatalf("submit failed: %v", err)
			}
			last = f
		}

		_, _ = getWithin(t, last, 2*time.Second)

		mu.Lock()
		defer mu.Unlock()
		for i, v := range order {
			if v != i {
				t.Fatalf("position %d ran task %d", i, v)
			}
		}
	})

	t.Run("nil task is rejected", func(t *testing.T) {
		wp := newTestPool[int](t, 1)

		f, err := wp.Submit(nil)
		if !errors.Is(err, ErrNilTask) {
			t.Errorf("expected ErrNilTask, got %v", err)
		}
		if f != nil {
			t.Error("expected nil future")
		}
	})

	t.Run("task ids increase", func(t *testing.T) {
		wp := newTestPool[int](t, 2)

		var prev int64
		for range 10 {
			f, err := wp.Submit(func() (int, error) { return 0, nil })
			if err != nil {
				t.Fatalf("submit failed: %v", err)
			}
			if f.ID() <= prev {
				t.Errorf("id %d not greater than previous %d", f.ID(), prev)
			}
			prev = f.ID()
		}
	})
}

func TestWorkerPool_Parallelism(t *testing.T) {
	wp := newTestPool[int](t, 4)

	start := time.Now()
	futures := make([]*Future[int], 4)
	for i := range 4 {
		f, err := wp.Submit(func() (int, error) {
			time.Sleep(100 * time.Millisecond)
			return i, nil
		})
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
		futures[i] = f
	}

	for i, f := range futures {
		v, err := f.Get()
		if err != nil {
			t.Fatalf("task %d: unexpected error %v", i, err)
		}
		if v != i {
			t.Errorf("task %d: expected %d, got %d", i, i, v)
		}
	}
	elapsed := time.Since(start)

	// Four 100ms tasks on four workers run side by side, not back to back.
	if elapsed < 100*time.Millisecond {
		t.Errorf("finished too early: %v", elapsed)
	}
	if elapsed > 180*time.Millisecond {
		t.Errorf("tasks appear serialized: took %v", elapsed)
	}
}

func TestWorkerPool_WaitFor(t *testing.T) {
	wp := newTestPool[string](t, 2)

	f, err := wp.Submit(func() (string, error) {
		time.Sleep(100 * time.Millisecond)
		return "slow", nil
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if got := f.WaitFor(10 * time.Millisecond); got != WaitTimeout {
		t.Fatalf("expected timeout, got %v", got)
	}

	// The timeout must not have cancelled anything.
	v, err := f.Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "slow" {
		t.Errorf("expected 'slow', got %q", v)
	}
	if got := f.WaitFor(time.Millisecond); got != WaitReady {
		t.Errorf("expected ready after Get, got %v", got)
	}
}

func TestWorkerPool_GetIsIdempotent(t *testing.T) {
	wp := newTestPool[int](t, 2)
	sentinel := errors.New("sentinel")

	ok, _ := wp.Submit(func() (int, error) { return 7, nil })
	bad, _ := wp.Submit(func() (int, error) { return 0, sentinel })

	v1, err1 := ok.Get()
	v2, err2 := ok.Get()
	if v1 != 7 || v2 != 7 || err1 != nil || err2 != nil {
		t.Errorf("expected (7, nil) twice, got (%d, %v) and (%d, %v)", v1, err1, v2, err2)
	}

	_, err1 = bad.Get()
	_, err2 = bad.Get()
	if err1 != sentinel || err2 != sentinel {
		t.Errorf("expected sentinel twice, got %v and %v", err1, err2)
	}
}

func TestWorkerPool_WorkerCount(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{"explicit", 3, 3},
		{"zero falls back to hardware", 0, cpu.Workers(0)},
		{"negative falls back to hardware", -1, cpu.Workers(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wp := newTestPool[int](t, tt.requested)

			if got := wp.WorkerCount(); got != tt.want {
				t.Errorf("WorkerCount() = %d, want %d", got, tt.want)
			}
			if wp.WorkerCount() < 1 {
				t.Error("pool must have at least one worker")
			}

			f, err := wp.Submit(func() (int, error) { return 1, nil })
			if err != nil {
				t.Fatalf("submit failed: %v", err)
			}
			if v, _ := getWithin(t, f, time.Second); v != 1 {
				t.Errorf("expected 1, got %d", v)
			}
		})
	}
}

func TestWorkerPool_CPUAffinity(t *testing.T) {
	wp := newTestPool[int](t, 2, WithCPUAffinity())

	futures := make([]*Future[int], 20)
	for i := range futures {
		f, err := wp.Submit(func() (int, error) { return i, nil })
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
		futures[i] = f
	}

	for i, f := range futures {
		if v, _ := getWithin(t, f, 2*time.Second); v != i {
			t.Errorf("expected %d, got %d", i, v)
		}
	}
}
