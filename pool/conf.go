package pool

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const defaultPoolName = "threadpool"

// Option is a functional option for configuring a Pool.
type Option func(*config)

type config struct {
	name          string
	logger        logrus.FieldLogger
	metrics       *Metrics
	rateLimiter   *rate.Limiter
	queueCapacity int
	lockOSThread  bool
	pinCPU        bool

	beforeTaskStart func(TaskInfo)
	onTaskEnd       func(TaskInfo, error)
}

func newConfig(opts ...Option) *config {
	cfg := &config{name: defaultPoolName}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = defaultLogger()
	}
	return cfg
}

// defaultLogger only surfaces warnings: recovered panics and abandoned tasks.
func defaultLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

// WithName sets the pool name used in log fields and metric labels.
// Empty names are ignored.
func WithName(name string) Option {
	return func(cfg *config) {
		if name != "" {
			cfg.name = name
		}
	}
}

// WithLogger sets the logger the pool reports lifecycle events to.
// If not specified, a logrus logger at warn level writing to stderr is used.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithMetrics attaches a set of Prometheus collectors to the pool.
// The same Metrics may be shared by several pools; series are labelled by pool name.
func WithMetrics(m *Metrics) Option {
	return func(cfg *config) {
		if m != nil {
			cfg.metrics = m
		}
	}
}

// WithRateLimit throttles task execution across all workers.
// tasksPerSecond specifies the maximum number of tasks started per second.
// burst specifies how many tasks may start back to back.
// If not specified, no rate limiting is applied.
//
// Example:
//
//	WithRateLimit(10, 5) // Allow 10 tasks/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *config) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithQueueCapacity sets the initial capacity of the task queue.
// The queue stays unbounded; this only avoids early growth.
func WithQueueCapacity(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.queueCapacity = n
		}
	}
}

// WithLockOSThread dedicates one OS thread to each worker for its lifetime.
func WithLockOSThread() Option {
	return func(cfg *config) {
		cfg.lockOSThread = true
	}
}

// WithCPUAffinity locks each worker to an OS thread and pins worker i to
// core i mod NumCPU on platforms that support it.
func WithCPUAffinity() Option {
	return func(cfg *config) {
		cfg.lockOSThread = true
		cfg.pinCPU = true
	}
}

// WithBeforeTaskStart registers a hook invoked on the worker right before a
// task runs.
func WithBeforeTaskStart(fn func(TaskInfo)) Option {
	return func(cfg *config) {
		cfg.beforeTaskStart = fn
	}
}

// WithOnTaskEnd registers a hook invoked on the worker after a task ran.
// err is the failure the task's future received, or nil.
func WithOnTaskEnd(fn func(TaskInfo, error)) Option {
	return func(cfg *config) {
		cfg.onTaskEnd = fn
	}
}
