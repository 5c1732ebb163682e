package pool

import (
	"time"

	"github.com/utkarsh5026/threadpool/internal/types"
)

// Future is the caller-held handle for a submitted task's eventual result.
//
// The first Get blocks until a worker has run the task; the result is then
// cached. Use GetWithContext to bound the wait, TryGet or IsReady to poll,
// and Done to select on completion.
type Future[R any] = types.Future[R]

// TaskInfo describes a task as seen by the hooks.
type TaskInfo struct {
	// ID is the 1-based admission sequence number within the pool.
	ID uint64
	// Worker is the index of the worker running the task.
	Worker int
	// EnqueuedAt is when the task was admitted into the queue.
	EnqueuedAt time.Time
	// StartedAt is when the worker began running it.
	StartedAt time.Time
	// Duration is the run time. It is zero in the before-start hook.
	Duration time.Duration
}

// Stats is a point-in-time snapshot of pool counters.
type Stats struct {
	Workers   int    // Fixed worker count
	Submitted uint64 // Tasks accepted since construction
	Queued    uint64 // Accepted tasks not yet picked up by a worker
	Active    int64  // Tasks currently running
	Completed uint64 // Tasks that finished running, failed ones included
	Failed    uint64 // Tasks whose future received an error
	Rejected  uint64 // Submissions refused because the pool was stopping
	Abandoned uint64 // Tasks discarded at release without running
	Stopped   bool   // Whether release has been requested
}
