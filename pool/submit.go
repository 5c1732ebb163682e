package pool

import (
	"runtime"

	"github.com/utkarsh5026/threadpool/internal/task"
)

// Submit queues fn for asynchronous execution and returns a Future for its
// result.
//
// The submission is either accepted, returning (future, nil), or rejected
// because Release has already begun, returning (nil, ErrPoolClosed); a
// rejected task is never queued and never runs. An error or panic inside fn
// is delivered only through its own future.
//
// Parameters:
//   - p: The pool to submit to
//   - fn: The computation to run on a worker
//
// Returns:
//   - *Future[R]: Observer side of the task's result (nil on rejection)
//   - error: ErrPoolClosed or ErrNilTask on rejection
//
// Example:
//
//	future, err := pool.Submit(p, func() (int, error) {
//	    return fetchCount(ctx)
//	})
//	if err != nil {
//	    return err // pool shutting down
//	}
//	n, err := future.Get()
func Submit[R any](p *Pool, fn func() (R, error)) (*Future[R], error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	h, future := task.Package(fn)
	err := p.c.enqueue(h)
	// The pool's cleanup releases the controller once p is unreachable; p
	// must outlive the enqueue or a valid submission can be rejected.
	runtime.KeepAlive(p)
	if err != nil {
		return nil, err
	}
	return future, nil
}

// SubmitValue is Submit for computations that cannot fail. A panic is still
// reported through the future.
func SubmitValue[R any](p *Pool, fn func() R) (*Future[R], error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	return Submit(p, func() (R, error) { return fn(), nil })
}

// Submit1 binds a single argument to fn at submission time.
func Submit1[A, R any](p *Pool, fn func(A) (R, error), a A) (*Future[R], error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	return Submit(p, func() (R, error) { return fn(a) })
}

// Submit2 binds two arguments to fn at submission time.
//
// Example:
//
//	future, _ := pool.Submit2(p, func(i, j int) (int, error) { return i + j, nil }, 3, 4)
//	sum, _ := future.Get() // 7
func Submit2[A, B, R any](p *Pool, fn func(A, B) (R, error), a A, b B) (*Future[R], error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	return Submit(p, func() (R, error) { return fn(a, b) })
}

// Execute queues a function with no result. The returned future completes
// when fn has run and carries a recovered panic as its error.
func (p *Pool) Execute(fn func()) (*Future[struct{}], error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	h, future := task.FromFunc(fn)
	err := p.c.enqueue(h)
	runtime.KeepAlive(p)
	if err != nil {
		return nil, err
	}
	return future, nil
}
