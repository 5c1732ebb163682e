package pool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors a pool reports to.
//
// Every series carries a "pool" label with the pool's name, so one Metrics
// value can be shared by several pools and registered once. Metrics
// implements prometheus.Collector.
//
// Example:
//
//	m := pool.NewMetrics("app", "workers")
//	prometheus.MustRegister(m)
//	p, _ := pool.New(4, pool.WithMetrics(m))
type Metrics struct {
	TasksSubmitted *prometheus.CounterVec
	TasksCompleted *prometheus.CounterVec
	TasksFailed    *prometheus.CounterVec
	TasksRejected  *prometheus.CounterVec
	TasksAbandoned *prometheus.CounterVec
	QueueDepth     *prometheus.GaugeVec
	ActiveWorkers  *prometheus.GaugeVec
	Workers        *prometheus.GaugeVec
	TaskDuration   *prometheus.HistogramVec
	QueueWait      *prometheus.HistogramVec
}

var poolLabel = []string{"pool"}

// NewMetrics creates an unregistered set of pool collectors.
func NewMetrics(namespace, subsystem string) *Metrics {
	counter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, poolLabel)
	}
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, poolLabel)
	}
	histogram := func(name, help string) *prometheus.HistogramVec {
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
			Buckets:   prometheus.DefBuckets,
		}, poolLabel)
	}

	return &Metrics{
		TasksSubmitted: counter("tasks_submitted_total", "Total number of tasks accepted into the queue"),
		TasksCompleted: counter("tasks_completed_total", "Total number of tasks that finished running"),
		TasksFailed:    counter("tasks_failed_total", "Total number of tasks whose result is a failure"),
		TasksRejected:  counter("tasks_rejected_total", "Total number of submissions refused after shutdown began"),
		TasksAbandoned: counter("tasks_abandoned_total", "Total number of queued tasks discarded at shutdown without running"),
		QueueDepth:     gauge("queue_depth", "Number of accepted tasks waiting for a worker"),
		ActiveWorkers:  gauge("active_workers", "Number of workers currently running a task"),
		Workers:        gauge("workers", "Number of live worker threads"),
		TaskDuration:   histogram("task_duration_seconds", "Histogram of task execution time"),
		QueueWait:      histogram("queue_wait_seconds", "Histogram of time tasks spent queued before running"),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.TasksSubmitted,
		m.TasksCompleted,
		m.TasksFailed,
		m.TasksRejected,
		m.TasksAbandoned,
		m.QueueDepth,
		m.ActiveWorkers,
		m.Workers,
		m.TaskDuration,
		m.QueueWait,
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

// poolMetrics is the per-pool view with the label already bound. A nil
// *poolMetrics is valid and records nothing.
type poolMetrics struct {
	submitted  prometheus.Counter
	completed  prometheus.Counter
	failed     prometheus.Counter
	rejected   prometheus.Counter
	abandoned  prometheus.Counter
	queueDepth prometheus.Gauge
	active     prometheus.Gauge
	workers    prometheus.Gauge
	duration   prometheus.Observer
	queueWait  prometheus.Observer
}

func (m *Metrics) forPool(name string) *poolMetrics {
	if m == nil {
		return nil
	}
	return &poolMetrics{
		submitted:  m.TasksSubmitted.WithLabelValues(name),
		completed:  m.TasksCompleted.WithLabelValues(name),
		failed:     m.TasksFailed.WithLabelValues(name),
		rejected:   m.TasksRejected.WithLabelValues(name),
		abandoned:  m.TasksAbandoned.WithLabelValues(name),
		queueDepth: m.QueueDepth.WithLabelValues(name),
		active:     m.ActiveWorkers.WithLabelValues(name),
		workers:    m.Workers.WithLabelValues(name),
		duration:   m.TaskDuration.WithLabelValues(name),
		queueWait:  m.QueueWait.WithLabelValues(name),
	}
}

func (pm *poolMetrics) taskAccepted() {
	if pm == nil {
		return
	}
	pm.submitted.Inc()
	pm.queueDepth.Inc()
}

func (pm *poolMetrics) taskDequeued(waited time.Duration) {
	if pm == nil {
		return
	}
	pm.queueDepth.Dec()
	pm.queueWait.Observe(waited.Seconds())
}

func (pm *poolMetrics) taskStarted() {
	if pm == nil {
		return
	}
	pm.active.Inc()
}

func (pm *poolMetrics) taskFinished(d time.Duration, err error) {
	if pm == nil {
		return
	}
	pm.active.Dec()
	pm.completed.Inc()
	pm.duration.Observe(d.Seconds())
	if err != nil {
		pm.failed.Inc()
	}
}

func (pm *poolMetrics) taskRejected() {
	if pm == nil {
		return
	}
	pm.rejected.Inc()
}

func (pm *poolMetrics) tasksAbandoned(n int) {
	if pm == nil || n == 0 {
		return
	}
	pm.abandoned.Add(float64(n))
	pm.queueDepth.Sub(float64(n))
}

func (pm *poolMetrics) workerStarted() {
	if pm == nil {
		return
	}
	pm.workers.Inc()
}

func (pm *poolMetrics) workerExited() {
	if pm == nil {
		return
	}
	pm.workers.Dec()
}
