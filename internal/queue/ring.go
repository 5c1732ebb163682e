// Package queue holds the FIFO storage behind the pool's task queue.
//
// Ring is not goroutine-safe. Its owner guards every call with the mutex
// that protects the rest of its state.
package queue

const defaultCapacity = 64

// Ring is an unbounded FIFO queue backed by a power-of-two ring buffer that
// doubles when full.
type Ring[T any] struct {
	buf  []T
	mask int
	head int
	size int
}

// NewRing creates a ring with room for at least capacity items before its
// first growth. capacity <= 0 selects a small default.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	capacity = nextPowerOfTwo(capacity)
	return &Ring[T]{
		buf:  make([]T, capacity),
		mask: capacity - 1,
	}
}

// Push appends v at the tail.
func (r *Ring[T]) Push(v T) {
	if r.size == len(r.buf) {
		r.grow()
	}
	r.buf[(r.head+r.size)&r.mask] = v
	r.size++
}

// Pop removes and returns the item at the head. ok is false when empty.
func (r *Ring[T]) Pop() (v T, ok bool) {
	if r.size == 0 {
		return v, false
	}
	var zero T
	v = r.buf[r.head]
	r.buf[r.head] = zero // drop the reference so popped items can be collected
	r.head = (r.head + 1) & r.mask
	r.size--
	return v, true
}

// Peek returns the head item without removing it.
func (r *Ring[T]) Peek() (v T, ok bool) {
	if r.size == 0 {
		return v, false
	}
	return r.buf[r.head], true
}

// Drain removes every queued item and returns them in FIFO order.
func (r *Ring[T]) Drain() []T {
	out := make([]T, 0, r.size)
	for {
		v, ok := r.Pop()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

// Len returns the number of queued items.
func (r *Ring[T]) Len() int { return r.size }

// Cap returns the current buffer capacity.
func (r *Ring[T]) Cap() int { return len(r.buf) }

// grow doubles the buffer and unrolls the live items to start at index 0.
func (r *Ring[T]) grow() {
	newCap := len(r.buf) << 1
	next := make([]T, newCap)
	for i := range r.size {
		next[i] = r.buf[(r.head+i)&r.mask]
	}
	r.buf = next
	r.mask = newCap - 1
	r.head = 0
}

// nextPowerOfTwo returns the next power of 2 >= n
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}

	if n&(n-1) == 0 {
		return n
	}

	power := 1
	for power < n {
		power *= 2
	}
	return power
}
