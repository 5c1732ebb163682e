// Package benchmarks measures pool throughput and latency across
// configurations and workloads.
package benchmarks

import (
	"io"
	"math"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/utkarsh5026/threadpool/pool"
)

// variantConfig defines a benchmark configuration for a pool
type variantConfig struct {
	name string
	opts []pool.Option
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// getAllVariants returns every pool configuration worth comparing
func getAllVariants() []variantConfig {
	return []variantConfig{
		{
			name: "Default",
			opts: []pool.Option{pool.WithLogger(quietLogger())},
		},
		{
			name: "Prealloc",
			opts: []pool.Option{pool.WithLogger(quietLogger()), pool.WithQueueCapacity(16384)},
		},
		{
			name: "OSThreads",
			opts: []pool.Option{pool.WithLogger(quietLogger()), pool.WithLockOSThread()},
		},
		{
			name: "Metrics",
			opts: []pool.Option{pool.WithLogger(quietLogger()), pool.WithMetrics(pool.NewMetrics("bench", "pool"))},
		},
	}
}

// =============================================================================
// Benchmark Workload Generators
// =============================================================================

// cpuBoundWork simulates a CPU-intensive operation
func cpuBoundWork(iterations int) func(task int) (int, error) {
	return func(task int) (int, error) {
		result := 0
		for i := range iterations {
			result += i * task
		}
		return result, nil
	}
}

// ioBoundWork simulates an I/O operation with a delay
func ioBoundWork(delay time.Duration) func(task int) (int, error) {
	return func(task int) (int, error) {
		time.Sleep(delay)
		return task * 2, nil
	}
}

// mixedWork simulates a realistic workload with variable processing time
func mixedWork() func(task int) (int, error) {
	return func(task int) (int, error) {
		// Simulate variable processing time (0-2ms)
		delay := time.Duration(task%3) * time.Millisecond
		time.Sleep(delay)

		result := 0
		for i := range 1000 {
			result += i
		}
		return result + task, nil
	}
}

// runBatch submits taskCount tasks to a fresh pool and releases it, which
// waits for all of them.
func runBatch(workers, taskCount int, fn func(int) (int, error), opts ...pool.Option) error {
	p, err := pool.New(workers, opts...)
	if err != nil {
		return err
	}
	for j := range taskCount {
		if _, err := pool.Submit1(p, fn, j); err != nil {
			p.Release()
			return err
		}
	}
	p.Release()
	return nil
}

func percentile(latencies []time.Duration, p float64) time.Duration {
	if len(latencies) == 0 {
		return 0
	}

	sorted := slices.Clone(latencies)
	slices.Sort(sorted)

	// nearest-rank: p=0.50 over 100 samples is index 49
	index := max(int(math.Round(p*float64(len(sorted)-1))), 0)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
