package pool

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/threadpool/internal/queue"
	"github.com/utkarsh5026/threadpool/internal/task"
)

// Pool is a fixed-size pool of long-lived workers consuming tasks from a
// shared FIFO queue.
//
// The worker count is set at construction and never changes. Tasks are
// submitted with Submit, Submit1, Submit2, SubmitValue or Execute, each of
// which returns a Future for the result. Release stops admission, lets the
// workers drain everything already queued and waits for them to exit.
//
// A Pool that becomes unreachable without being released is released in the
// background, so no worker outlives it. Callers should still Release or
// Close it explicitly.
type Pool struct {
	c *controller
}

// controller owns all shared pool state. Workers reference the controller,
// never the Pool, which is what lets an abandoned Pool be collected.
type controller struct {
	name    string
	workers int
	cfg     *config
	log     logrus.FieldLogger
	metrics *poolMetrics

	// mu guards everything down to remaining. cond waits on mu with the
	// predicate "queue non-empty or stopped".
	mu        sync.Mutex
	cond      *sync.Cond
	tasks     *queue.Ring[*task.Handle]
	stopped   bool
	submitted uint64
	remaining uint64

	active    atomic.Int64
	completed atomic.Uint64
	failed    atomic.Uint64
	rejected  atomic.Uint64
	abandoned atomic.Uint64

	group          errgroup.Group
	releaseOnce    sync.Once
	releaseStarted atomic.Bool
	done           chan struct{}
}

// New creates a pool with the given number of workers and starts them.
//
// Parameters:
//   - workers: Number of worker threads, >= 0. A pool with zero workers
//     accepts tasks but never runs them; Release abandons whatever is queued.
//   - opts: Functional options (logger, metrics, rate limit, hooks, ...)
//
// Returns:
//   - *Pool: A running pool
//   - error: ErrInvalidWorkerCount if workers is negative
//
// Example:
//
//	p, err := pool.New(4, pool.WithName("images"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Release()
func New(workers int, opts ...Option) (*Pool, error) {
	if workers < 0 {
		return nil, ErrInvalidWorkerCount
	}

	cfg := newConfig(opts...)
	c := &controller{
		name:    cfg.name,
		workers: workers,
		cfg:     cfg,
		log:     cfg.logger.WithField("pool", cfg.name),
		metrics: cfg.metrics.forPool(cfg.name),
		tasks:   queue.NewRing[*task.Handle](cfg.queueCapacity),
		done:    make(chan struct{}),
	}
	c.cond = sync.NewCond(&c.mu)

	for i := range workers {
		c.group.Go(func() error {
			return c.worker(i)
		})
	}

	c.log.WithField("workers", workers).Debug("pool started")

	p := &Pool{c: c}
	runtime.AddCleanup(p, func(c *controller) {
		// Cleanups share one goroutine; never block it on a drain.
		go c.release()
	}, c)
	return p, nil
}

// Release stops accepting tasks, waits until every already accepted task has
// run and every worker has exited, then returns.
//
// Tasks still queued when the workers are gone (only possible with zero
// workers) are abandoned: they never run and their futures fail with
// ErrBrokenPromise. Release is idempotent; a second or concurrent call waits
// for the first to finish and does nothing else.
//
// Release must not be called from inside a task: the calling worker would
// wait for itself and the pool deadlocks. A task that needs to shut its pool
// down can call ReleaseWithTimeout, which returns ErrShutdownTimeout while the
// drain finishes once the task returns.
func (p *Pool) Release() {
	p.c.release()
	runtime.KeepAlive(p)
}

// ReleaseWithTimeout is Release with a bound on how long the caller waits.
// The drain itself is never cut short: on timeout it continues in the
// background and ErrShutdownTimeout is returned. A timeout <= 0 waits forever.
// On an already released pool it returns nil at once.
func (p *Pool) ReleaseWithTimeout(timeout time.Duration) error {
	c := p.c
	select {
	case <-c.done:
		return nil
	default:
	}

	// Only the first caller starts a drain goroutine; later ones just wait.
	if c.releaseStarted.CompareAndSwap(false, true) {
		go c.release()
	}
	err := waitUntil(c.done, timeout)
	runtime.KeepAlive(p)
	return err
}

// Close releases the pool. It implements io.Closer and always returns nil.
// Like Release, it must not be called from inside a task.
func (p *Pool) Close() error {
	p.c.release()
	runtime.KeepAlive(p)
	return nil
}

// Done returns a channel that is closed once Release has completed.
func (p *Pool) Done() <-chan struct{} {
	return p.c.done
}

// Workers returns the fixed worker count.
func (p *Pool) Workers() int {
	return p.c.workers
}

// Name returns the pool name used in logs and metrics.
func (p *Pool) Name() string {
	return p.c.name
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	c := p.c

	c.mu.Lock()
	s := Stats{
		Workers:   c.workers,
		Submitted: c.submitted,
		Queued:    c.remaining,
		Stopped:   c.stopped,
	}
	c.mu.Unlock()

	s.Active = c.active.Load()
	s.Completed = c.completed.Load()
	s.Failed = c.failed.Load()
	s.Rejected = c.rejected.Load()
	s.Abandoned = c.abandoned.Load()
	return s
}

// enqueue admits h unless the pool is stopping. It is the only producer of
// queue entries.
func (c *controller) enqueue(h *task.Handle) error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		c.rejected.Add(1)
		c.metrics.taskRejected()
		return ErrPoolClosed
	}
	c.submitted++
	c.remaining++
	h.Stamp(c.submitted, time.Now())
	c.tasks.Push(h)
	c.metrics.taskAccepted()
	c.mu.Unlock()

	c.cond.Signal()
	return nil
}

// next blocks until a task is available and pops it. ok is false once the
// queue is empty and the pool is stopped, which ends the calling worker.
func (c *controller) next() (h *task.Handle, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.tasks.Len() == 0 && !c.stopped {
		c.cond.Wait()
	}

	h, ok = c.tasks.Pop()
	if !ok {
		return nil, false
	}
	c.remaining--
	c.metrics.taskDequeued(time.Since(h.EnqueuedAt()))
	return h, true
}

func (c *controller) release() {
	c.releaseStarted.Store(true)
	c.releaseOnce.Do(func() {
		c.mu.Lock()
		c.stopped = true
		c.mu.Unlock()
		c.cond.Broadcast()

		// Workers never return errors; Wait is only a join.
		_ = c.group.Wait()

		c.abandonQueued()
		c.log.WithField("completed", c.completed.Load()).Debug("pool released")
		close(c.done)
	})
}

// abandonQueued discards tasks no worker is left to run.
func (c *controller) abandonQueued() {
	c.mu.Lock()
	leftover := c.tasks.Drain()
	c.remaining -= uint64(len(leftover))
	c.metrics.tasksAbandoned(len(leftover))
	c.mu.Unlock()

	if len(leftover) == 0 {
		return
	}

	for _, h := range leftover {
		h.Abandon()
	}
	c.abandoned.Add(uint64(len(leftover)))
	c.log.WithField("tasks", len(leftover)).Warn("pool released with queued tasks and no workers; tasks abandoned")
}
