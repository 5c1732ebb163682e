// Package task implements the type-erased unit of work stored in the pool's
// queue.
//
// A Handle owns exactly one nullary computation and may be invoked at most
// once. Handles are moved, never copied: they travel by pointer, Take
// transfers ownership and leaves the source empty, and a noCopy marker lets
// go vet flag accidental copies of the struct itself.
package task

import (
	"errors"
	"fmt"
	"time"

	"github.com/utkarsh5026/threadpool/internal/types"
)

var (
	// ErrEmptyHandle is the panic value raised when an empty handle is invoked.
	ErrEmptyHandle = errors.New("task: invoke on empty handle")

	// ErrTaskPanicked wraps panics recovered while a task was running.
	ErrTaskPanicked = errors.New("task panicked")

	// ErrTaskExited is delivered when a task terminates its goroutine, e.g.
	// through runtime.Goexit, instead of returning.
	ErrTaskExited = fmt.Errorf("task exited without returning: %w", types.ErrBrokenPromise)
)

// noCopy may be embedded into structs which must not be copied after first use.
// go vet will warn on accidental copies (it looks for Lock methods).
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// runnable is the erased contract every concrete task satisfies.
type runnable interface {
	// run executes the computation and fulfils its result channel. The
	// returned error is the failure the observer will see, if any.
	run() error
	// abandon discards the computation without running it.
	abandon()
}

// Handle is a move-only, once-callable task.
type Handle struct {
	noCopy noCopy

	impl       runnable
	id         uint64
	enqueuedAt time.Time
}

func newHandle(impl runnable) *Handle {
	return &Handle{impl: impl}
}

// Invoke runs the task and empties the handle.
//
// The task's value travels only through its future. The returned error
// mirrors the failure delivered to the future and exists for
// instrumentation. Invoking an empty handle panics with ErrEmptyHandle.
func (h *Handle) Invoke() error {
	impl := h.impl
	if impl == nil {
		panic(ErrEmptyHandle)
	}
	h.impl = nil
	return impl.run()
}

// Abandon discards the task without running it. Its future is fulfilled
// with a broken-promise failure. Abandoning an empty handle is a no-op.
func (h *Handle) Abandon() {
	impl := h.impl
	if impl == nil {
		return
	}
	h.impl = nil
	impl.abandon()
}

// Take moves the task into a new handle and leaves h empty.
func (h *Handle) Take() *Handle {
	moved := &Handle{impl: h.impl, id: h.id, enqueuedAt: h.enqueuedAt}
	h.impl = nil
	return moved
}

// Empty reports whether the handle no longer owns a task.
func (h *Handle) Empty() bool {
	return h == nil || h.impl == nil
}

// Stamp records the admission identity of the task.
func (h *Handle) Stamp(id uint64, at time.Time) {
	h.id = id
	h.enqueuedAt = at
}

// ID returns the identifier assigned at admission.
func (h *Handle) ID() uint64 { return h.id }

// EnqueuedAt returns the admission time.
func (h *Handle) EnqueuedAt() time.Time { return h.enqueuedAt }
