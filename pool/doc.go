// Package pool provides a fixed-size worker-thread pool.
//
// A Pool owns N long-lived workers, a shared unbounded FIFO queue of
// type-erased tasks and a stop flag, all guarded by one mutex. Submitters
// hand in a callable (with its arguments bound), get back a Future, and
// later block on or poll that future. Workers pop tasks in FIFO order and run
// them outside the lock; with several workers, completion order is not
// submission order.
//
// # Basic Usage
//
//	p, err := pool.New(4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Release()
//
//	future, err := pool.Submit2(p, func(i, j int) (int, error) {
//	    return i + j, nil
//	}, 3, 4)
//	if err != nil {
//	    // pool is shutting down; nothing was queued
//	}
//	sum, err := future.Get() // 7
//
// # Submitting Work
//
//   - Submit(p, fn): fn func() (R, error)
//   - SubmitValue(p, fn): fn func() R
//   - Submit1(p, fn, a) / Submit2(p, fn, a, b): arguments bound at submission
//   - p.Execute(fn): fn func(), future of struct{}
//
// Each returns (future, nil) when the task is accepted and (nil, ErrPoolClosed)
// once Release has begun. Rejection is synchronous and never reaches a future.
//
// # Failures
//
// An error returned by a task, or a panic inside it, is delivered only to
// that task's future. Panics surface as errors wrapping ErrTaskPanicked with
// the stack trace attached. Other tasks, the worker and the pool carry on.
// A task that ends its goroutine with runtime.Goexit (t.FailNow in a test)
// fails with ErrTaskExited and its worker is replaced.
//
// # Shutdown
//
// Release stops admission, wakes every worker, and blocks until the queue is
// drained and all workers have exited. Everything accepted before Release
// runs. Release is idempotent and Close is its io.Closer form. A pool with
// zero workers is valid: tasks queue but never run, and Release abandons
// them, failing their futures with ErrBrokenPromise instead of hanging.
//
// Never call Release or Close from inside a task; the worker would wait on
// itself. ReleaseWithTimeout is safe there and reports ErrShutdownTimeout.
//
// Futures have no timeout of their own; use Future.GetWithContext to bound a
// wait.
//
// # Configuration Options
//
//   - WithName(name): name used in log fields and metric labels
//   - WithLogger(l): logrus logger for lifecycle events (default: warn level to stderr)
//   - WithMetrics(m): Prometheus collectors created by NewMetrics
//   - WithRateLimit(tasksPerSecond, burst): throttle task starts
//   - WithQueueCapacity(n): initial queue capacity (the queue stays unbounded)
//   - WithLockOSThread(), WithCPUAffinity(): dedicate, and optionally pin, one OS thread per worker
//   - WithBeforeTaskStart(fn), WithOnTaskEnd(fn): per-task hooks run on the worker
package pool
