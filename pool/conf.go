package pool

import (
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/utkarsh5026/asynchttp/internal/cpu"
)

// WorkerPoolOption is a functional option for configuring the worker pool.
type WorkerPoolOption func(*workerPoolConfig)

type workerPoolConfig struct {
	workerCount int
	rateLimiter *rate.Limiter
	affinity    bool
	logger      *zap.SugaredLogger
	metrics     *Metrics

	beforeTaskStart func(id int64)
	onTaskEnd       func(id int64, err error)
}

func createConfig(opts ...WorkerPoolOption) *workerPoolConfig {
	cfg := &workerPoolConfig{}

	for _, opt := range opts {
		opt(cfg)
	}

	cfg.workerCount = cpu.Workers(cfg.workerCount)
	if cfg.logger == nil {
		cfg.logger = zap.S().Named("pool")
	}

	return cfg
}

// WithWorkerCount sets the number of workers.
// Zero or negative values fall back to the available hardware concurrency,
// and the pool never runs with fewer than one worker.
func WithWorkerCount(count int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.workerCount = count
	}
}

// WithRateLimit sets a rate limiter for controlling task throughput.
// tasksPerSecond specifies the maximum number of tasks started per second.
// burst specifies the maximum number of tasks that can start in a burst.
// Workers wait on the limiter before running each task. If not specified,
// no rate limiting is applied.
//
// Example:
//
//	WithRateLimit(10, 5) // Allow 10 tasks/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithCPUAffinity pins each worker to its own OS thread and CPU core
// (worker id modulo the CPU count). Pinning is best effort; platforms
// without affinity support only lock the thread.
func WithCPUAffinity() WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.affinity = true
	}
}

// WithLogger sets the logger used for lifecycle and per-task debug events.
// Defaults to zap.S().Named("pool").
func WithLogger(logger *zap.SugaredLogger) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithMetrics records pool activity into the given Prometheus collectors.
func WithMetrics(m *Metrics) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.metrics = m
	}
}

// WithBeforeTaskStart registers a hook called on the worker goroutine right
// before a task runs. It receives the task id reported by Future.ID.
func WithBeforeTaskStart(fn func(id int64)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.beforeTaskStart = fn
	}
}

// WithOnTaskEnd registers a hook called on the worker goroutine after a task
// finishes, before its future is completed.
func WithOnTaskEnd(fn func(id int64, err error)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.onTaskEnd = fn
	}
}
