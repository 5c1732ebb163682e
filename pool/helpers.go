package pool

import (
	"errors"
	"time"

	"github.com/utkarsh5026/threadpool/internal/task"
	"github.com/utkarsh5026/threadpool/internal/types"
)

var (
	// ErrPoolClosed is returned by the submit functions once Release has begun.
	ErrPoolClosed = errors.New("pool closed: submission rejected")

	// ErrNilTask is returned when a nil function is submitted.
	ErrNilTask = errors.New("pool: nil task")

	// ErrInvalidWorkerCount is returned by New for a negative worker count.
	ErrInvalidWorkerCount = errors.New("pool: worker count must be >= 0")

	// ErrShutdownTimeout is returned by ReleaseWithTimeout when the drain
	// outlasts the timeout.
	ErrShutdownTimeout = errors.New("error in shutting down: timeout reached")

	// ErrBrokenPromise is the failure seen by a future whose task was
	// discarded without running.
	ErrBrokenPromise = types.ErrBrokenPromise

	// ErrTaskPanicked wraps panics recovered from a task.
	ErrTaskPanicked = task.ErrTaskPanicked

	// ErrTaskExited is the failure of a task that ended its goroutine, for
	// example with runtime.Goexit or t.FailNow, instead of returning. It
	// wraps ErrBrokenPromise. The worker is replaced and the pool keeps its
	// size.
	ErrTaskExited = task.ErrTaskExited
)

// waitUntil blocks until either the done channel is closed or the timeout is reached.
func waitUntil(d <-chan struct{}, timeout time.Duration) error {
	if timeout <= 0 {
		<-d
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-d:
		return nil
	case <-timer.C:
		return ErrShutdownTimeout
	}
}
