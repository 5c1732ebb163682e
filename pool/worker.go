package pool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/utkarsh5026/threadpool/internal/cpu"
	"github.com/utkarsh5026/threadpool/internal/task"
)

// worker is the fetch-execute loop of one worker thread.
//
// It alternates between waiting on the queue (inside next, under the pool
// lock) and running the popped task with the lock released, so a slow task
// never blocks submitters or other workers. It returns once the queue is
// empty and the pool is stopped. Task failures end up in the task's future
// and never terminate the loop.
func (c *controller) worker(id int) error {
	log := c.log.WithField("worker", id)

	if c.cfg.lockOSThread {
		unlock, err := cpu.Lock(id, c.cfg.pinCPU)
		defer unlock()
		if err != nil {
			log.WithError(err).Warn("cpu affinity not applied")
		}
	}

	c.metrics.workerStarted()
	defer c.metrics.workerExited()
	log.Debug("worker started")
	defer log.Debug("worker exited")

	for {
		h, ok := c.next()
		if !ok {
			return nil
		}
		c.execute(id, h)
	}
}

// execute runs one task outside the lock and records its outcome.
func (c *controller) execute(workerID int, h *task.Handle) {
	if c.cfg.rateLimiter != nil {
		// Wait only fails for a cancelled context or n > burst; neither applies.
		_ = c.cfg.rateLimiter.Wait(context.Background())
	}

	info := TaskInfo{
		ID:         h.ID(),
		Worker:     workerID,
		EnqueuedAt: h.EnqueuedAt(),
		StartedAt:  time.Now(),
	}

	c.active.Add(1)
	c.metrics.taskStarted()

	// settled: outcome recorded; returned: execute finished normally.
	settled, returned := false, false
	defer func() {
		if !returned {
			c.workerExitedInTask(workerID, h, info, settled)
		}
	}()

	if c.cfg.beforeTaskStart != nil {
		c.callHook("before_task_start", info.ID, func() { c.cfg.beforeTaskStart(info) })
	}

	err := h.Invoke()

	info.Duration = time.Since(info.StartedAt)
	c.active.Add(-1)
	c.completed.Add(1)
	if err != nil {
		c.failed.Add(1)
		if errors.Is(err, task.ErrTaskPanicked) {
			c.log.WithFields(logrus.Fields{"worker": workerID, "task": info.ID}).
				WithError(err).Warn("task panicked; failure delivered to its future")
		}
	}
	c.metrics.taskFinished(info.Duration, err)
	settled = true

	if c.cfg.onTaskEnd != nil {
		c.callHook("on_task_end", info.ID, func() { c.cfg.onTaskEnd(info, err) })
	}
	returned = true
}

// workerExitedInTask runs while the worker goroutine unwinds from a
// runtime.Goexit raised by a task or a hook. It settles the task's
// accounting and starts a replacement so the pool keeps its size.
func (c *controller) workerExitedInTask(workerID int, h *task.Handle, info TaskInfo, settled bool) {
	if !settled {
		// Breaks the promise if the goroutine exited before Invoke ran.
		h.Abandon()

		info.Duration = time.Since(info.StartedAt)
		c.active.Add(-1)
		c.completed.Add(1)
		c.failed.Add(1)
		c.metrics.taskFinished(info.Duration, task.ErrTaskExited)
	}

	c.log.WithFields(logrus.Fields{"worker": workerID, "task": info.ID}).
		Warn("task exited its goroutine; worker replaced")

	// This goroutine has not returned to the group yet, so its counter is
	// still held and Go is safe even while release is waiting.
	c.group.Go(func() error {
		return c.worker(workerID)
	})
}

// callHook runs a user hook, keeping a panicking hook from killing the worker.
func (c *controller) callHook(name string, taskID uint64, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.log.WithFields(logrus.Fields{"hook": name, "task": taskID}).
				WithError(fmt.Errorf("hook panic: %v", r)).Warn("hook panicked")
		}
	}()
	fn()
}
