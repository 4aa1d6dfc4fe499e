package pool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors a pool reports into.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	TasksSubmitted prometheus.Counter
	TasksCompleted prometheus.Counter
	TasksFailed    prometheus.Counter
	TasksRejected  prometheus.Counter
	TasksDiscarded prometheus.Counter
	QueueDepth     prometheus.Gauge
	ActiveWorkers  prometheus.Gauge
	TaskLatency    prometheus.Histogram
}

// NewMetrics creates the pool collectors and registers them with reg.
// Pass nil to skip registration. Registration panics on duplicate names,
// so use a distinct namespace/subsystem per pool sharing a registry.
func NewMetrics(reg prometheus.Registerer, namespace, subsystem string) *Metrics {
	m := &Metrics{
		TasksSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_submitted_total",
			Help:      "Total number of tasks submitted to the pool",
		}),
		TasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_completed_total",
			Help:      "Total number of tasks completed successfully",
		}),
		TasksFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_failed_total",
			Help:      "Total number of tasks that returned an error or panicked",
		}),
		TasksRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_rejected_total",
			Help:      "Total number of submissions refused because the pool was closed",
		}),
		TasksDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_discarded_total",
			Help:      "Total number of queued tasks dropped by a forced stop",
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "queue_depth",
			Help:      "Number of tasks waiting for a worker",
		}),
		ActiveWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active_workers",
			Help:      "Current number of running worker goroutines",
		}),
		TaskLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "task_latency_seconds",
			Help:      "Histogram of task execution latency",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.TasksSubmitted,
			m.TasksCompleted,
			m.TasksFailed,
			m.TasksRejected,
			m.TasksDiscarded,
			m.QueueDepth,
			m.ActiveWorkers,
			m.TaskLatency,
		)
	}

	return m
}

func (m *Metrics) submitted() {
	if m == nil {
		return
	}
	m.TasksSubmitted.Inc()
}

func (m *Metrics) rejected() {
	if m == nil {
		return
	}
	m.TasksRejected.Inc()
}

func (m *Metrics) queueDepth(delta float64) {
	if m == nil {
		return
	}
	m.QueueDepth.Add(delta)
}

// discarded counts tasks dropped by Stop; queued reports whether they were
// still counted in the queue depth gauge.
func (m *Metrics) discarded(n int, queued bool) {
	if m == nil || n == 0 {
		return
	}
	m.TasksDiscarded.Add(float64(n))
	if queued {
		m.QueueDepth.Sub(float64(n))
	}
}

func (m *Metrics) finished(err error, latency time.Duration) {
	if m == nil {
		return
	}
	m.TaskLatency.Observe(latency.Seconds())
	if err != nil {
		m.TasksFailed.Inc()
	} else {
		m.TasksCompleted.Inc()
	}
}

func (m *Metrics) workerStarted() {
	if m == nil {
		return
	}
	m.ActiveWorkers.Inc()
}

func (m *Metrics) workerStopped() {
	if m == nil {
		return
	}
	m.ActiveWorkers.Dec()
}
