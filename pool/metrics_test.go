package pool

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWorkerPool_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "test", "pool")

	wp := NewWorkerPool[int](WithWorkerCount(2), WithMetrics(m))

	var futures []*Future[int]
	for i := range 10 {
		f, err := wp.Submit(func() (int, error) {
			if i < 3 {
				return 0, errors.New("fail")
			}
			return i, nil
		})
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
		futures = append(futures, f)
	}
	for _, f := range futures {
		_, _ = getWithin(t, f, time.Second)
	}

	deadline := time.Now().Add(time.Second)
	for testutil.ToFloat64(m.ActiveWorkers) != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("active workers = %v, want 2", testutil.ToFloat64(m.ActiveWorkers))
		}
		time.Sleep(time.Millisecond)
	}

	wp.Shutdown()
	_, _ = wp.Submit(func() (int, error) { return 0, nil })

	checks := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"submitted", m.TasksSubmitted, 10},
		{"completed", m.TasksCompleted, 7},
		{"failed", m.TasksFailed, 3},
		{"rejected", m.TasksRejected, 1},
		{"discarded", m.TasksDiscarded, 0},
		{"queue depth", m.QueueDepth, 0},
		{"active workers", m.ActiveWorkers, 0},
	}
	for _, c := range checks {
		if got := testutil.ToFloat64(c.c); got != c.want {
			t.Errorf("%s = %v, want %v", c.name, got, c.want)
		}
	}

	if n := testutil.CollectAndCount(m.TaskLatency); n != 1 {
		t.Errorf("expected one latency histogram, got %d", n)
	}
	if n, err := testutil.GatherAndCount(reg); err != nil || n != 8 {
		t.Errorf("expected 8 registered metrics, got %d (%v)", n, err)
	}
}

func TestWorkerPool_MetricsDiscard(t *testing.T) {
	m := NewMetrics(nil, "test", "discard")
	wp := NewWorkerPool[int](WithWorkerCount(1), WithMetrics(m))

	started := make(chan struct{})
	release := make(chan struct{})
	_, _ = wp.Submit(func() (int, error) {
		close(started)
		<-release
		return 0, nil
	})
	<-started

	for range 4 {
		_, _ = wp.Submit(func() (int, error) { return 0, nil })
	}
	if got := testutil.ToFloat64(m.QueueDepth); got != 4 {
		t.Errorf("queue depth = %v, want 4", got)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()
	wp.Stop()

	if got := testutil.ToFloat64(m.TasksDiscarded); got != 4 {
		t.Errorf("discarded = %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.QueueDepth); got != 0 {
		t.Errorf("queue depth = %v, want 0", got)
	}
}

func TestWorkerPool_Stats(t *testing.T) {
	wp := NewWorkerPool[int](WithWorkerCount(1))

	release := make(chan struct{})
	first, _ := wp.Submit(func() (int, error) {
		<-release
		return 0, nil
	})
	_, _ = wp.Submit(func() (int, error) { return 0, errors.New("x") })

	time.Sleep(20 * time.Millisecond)
	if p := wp.Pending(); p != 1 {
		t.Errorf("pending = %d, want 1", p)
	}

	close(release)
	_, _ = first.Get()
	wp.Shutdown()

	want := Stats{Submitted: 2, Completed: 1, Failed: 1}
	if got := wp.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}
