package pool

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

// discardLogger is used by tests that do not care about log output.
func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// variantConfig defines a pool configuration the behavioural tests run against.
type variantConfig struct {
	name string
	opts []Option
}

// getAllVariants returns the configurations that must all satisfy the same
// pool contract.
func getAllVariants() []variantConfig {
	return []variantConfig{
		{
			name: "Default",
			opts: []Option{WithLogger(discardLogger())},
		},
		{
			name: "TinyQueue",
			opts: []Option{WithLogger(discardLogger()), WithQueueCapacity(1)},
		},
		{
			name: "OSThreads",
			opts: []Option{WithLogger(discardLogger()), WithLockOSThread()},
		},
		{
			name: "Metrics",
			opts: []Option{WithLogger(discardLogger()), WithMetrics(NewMetrics("test", "pool"))},
		},
	}
}

func runVariantTest(t *testing.T, testFunc func(t *testing.T, v variantConfig), additionalOpts ...Option) {
	for _, variant := range getAllVariants() {
		variant.opts = append(variant.opts, additionalOpts...)
		t.Run(variant.name, func(t *testing.T) {
			testFunc(t, variant)
		})
	}
}

// newTestPool builds a pool and releases it when the test ends.
func newTestPool(t *testing.T, workers int, opts ...Option) *Pool {
	t.Helper()
	p, err := New(workers, opts...)
	if err != nil {
		t.Fatalf("New(%d): %v", workers, err)
	}
	t.Cleanup(p.Release)
	return p
}

// waitFor polls cond until it holds or the timeout elapses.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}
