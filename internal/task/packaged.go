package task

import (
	"fmt"
	"runtime"

	"github.com/utkarsh5026/threadpool/internal/types"
)

// packaged binds a callable to the producer side of its future.
type packaged[R any] struct {
	fn      func() (R, error)
	promise *types.Promise[R]
}

// Package wraps fn into a handle and returns the observer side of its result.
//
// Example:
//
//	h, future := task.Package(func() (int, error) { return 3 + 4, nil })
//	_ = h.Invoke()
//	v, _ := future.Get() // 7
func Package[R any](fn func() (R, error)) (*Handle, *types.Future[R]) {
	promise, future := types.NewPromise[R]()
	return newHandle(&packaged[R]{fn: fn, promise: promise}), future
}

// FromFunc wraps a callable with no result. Its future reports completion
// and any recovered panic.
func FromFunc(fn func()) (*Handle, *types.Future[struct{}]) {
	return Package(func() (struct{}, error) {
		fn()
		return struct{}{}, nil
	})
}

func (p *packaged[R]) run() error {
	returned := false
	defer func() {
		// recover does not stop runtime.Goexit; the promise must still be
		// fulfilled while the goroutine unwinds.
		if !returned {
			p.promise.Reject(ErrTaskExited)
			p.fn = nil
		}
	}()

	value, err := callWithRecovery(p.fn)
	returned = true
	p.promise.Complete(value, err)
	p.fn = nil
	return err
}

func (p *packaged[R]) abandon() {
	p.promise.Break()
	p.fn = nil
}

// callWithRecovery executes fn, converting a panic into an error that
// carries the panic value and the stack of the panicking goroutine.
func callWithRecovery[R any](fn func() (R, error)) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			var zero R
			result = zero
			err = fmt.Errorf("%w: %v\nstack trace:\n%s", ErrTaskPanicked, r, buf[:n])
		}
	}()

	return fn()
}
