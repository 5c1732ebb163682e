// Package cpu binds pool workers to operating-system threads.
//
// Lock wires the calling goroutine to its current OS thread for the lifetime
// of a worker, which turns each worker into a dedicated thread. When pinning
// is requested the thread is additionally restricted to a single core where
// the platform supports it.
package cpu

import "runtime"

// NumCPU returns the number of logical CPUs available.
func NumCPU() int {
	return runtime.NumCPU()
}

// Lock locks the calling goroutine to its OS thread and, if pin is set,
// pins that thread to core workerID mod NumCPU. The returned function must be
// deferred by the caller.
//
// A pinned thread is never handed back to the scheduler: unlock is then a
// no-op, so the goroutine exits still locked and the runtime discards the
// thread together with its affinity mask. Pinning failures are reported
// through err; the thread stays locked either way.
func Lock(workerID int, pin bool) (unlock func(), err error) {
	runtime.LockOSThread()
	if !pin {
		return runtime.UnlockOSThread, nil
	}
	_, err = pinToCore(coreFor(workerID))
	return func() {}, err
}

// coreFor maps a worker index onto the range [0, NumCPU).
func coreFor(workerID int) int {
	n := runtime.NumCPU()
	id := workerID % n
	if id < 0 {
		id += n
	}
	return id
}
