package types

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrBrokenPromise is delivered to observers when the producing side of a
	// future is discarded without ever being fulfilled.
	ErrBrokenPromise = errors.New("broken promise: task was discarded before it produced a result")
)

// Result is the value or failure a future is fulfilled with.
type Result[R any] struct {
	Value R
	Error error
}

// state is shared by the two halves of a promise/future pair.
type state[R any] struct {
	once   sync.Once
	done   chan struct{}
	result Result[R]
}

// Promise is the producer side of a one-shot result channel.
// Exactly one of Resolve, Reject, Complete or Break takes effect; every
// later call is a no-op that reports false.
type Promise[R any] struct {
	s *state[R]
}

// Future is the observer side of a one-shot result channel.
//
// The first read blocks until the promise is fulfilled. The result is then
// cached and every later read returns it immediately. A Future may be read
// concurrently from any number of goroutines, and dropping it has no effect
// on the task that will eventually fulfil it.
type Future[R any] struct {
	s *state[R]
}

// NewPromise creates a connected producer/observer pair.
func NewPromise[R any]() (*Promise[R], *Future[R]) {
	s := &state[R]{done: make(chan struct{})}
	return &Promise[R]{s: s}, &Future[R]{s: s}
}

// Complete fulfils the promise with a value and an error.
// It returns false if the promise was already fulfilled.
func (p *Promise[R]) Complete(value R, err error) bool {
	fulfilled := false
	p.s.once.Do(func() {
		p.s.result = Result[R]{Value: value, Error: err}
		close(p.s.done)
		fulfilled = true
	})
	return fulfilled
}

// Resolve fulfils the promise with a value.
func (p *Promise[R]) Resolve(value R) bool {
	return p.Complete(value, nil)
}

// Reject fulfils the promise with a failure.
func (p *Promise[R]) Reject(err error) bool {
	var zero R
	return p.Complete(zero, err)
}

// Break fulfils the promise with ErrBrokenPromise. It is what a producer
// does when it is thrown away without running, so observers fail instead of
// blocking forever.
func (p *Promise[R]) Break() bool {
	return p.Reject(ErrBrokenPromise)
}

// Fulfilled reports whether the promise has been completed.
func (p *Promise[R]) Fulfilled() bool {
	select {
	case <-p.s.done:
		return true
	default:
		return false
	}
}

// Get blocks until the result is available and returns it.
//
// Returns:
//   - R: The value produced by the task (zero value on failure)
//   - error: The task's failure, ErrBrokenPromise, or nil
//
// Example:
//
//	value, err := future.Get()
//	if err != nil {
//	    log.Printf("task failed: %v", err)
//	}
func (f *Future[R]) Get() (R, error) {
	<-f.s.done
	return f.s.result.Value, f.s.result.Error
}

// GetWithContext blocks until the result is available or ctx is done.
// A context that expires only abandons this wait; the task still runs and a
// later Get still observes its result.
func (f *Future[R]) GetWithContext(ctx context.Context) (R, error) {
	select {
	case <-f.s.done:
		return f.s.result.Value, f.s.result.Error
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// TryGet returns the result without blocking. ready is false while the
// promise is still unfulfilled.
func (f *Future[R]) TryGet() (value R, err error, ready bool) {
	select {
	case <-f.s.done:
		return f.s.result.Value, f.s.result.Error, true
	default:
		var zero R
		return zero, nil, false
	}
}

// Done returns a channel that is closed once the result is available.
func (f *Future[R]) Done() <-chan struct{} {
	return f.s.done
}

// IsReady reports whether the result is available.
func (f *Future[R]) IsReady() bool {
	_, _, ready := f.TryGet()
	return ready
}
