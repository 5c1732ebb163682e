package queue

import "testing"

func TestNewRing(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		wantCap  int
	}{
		{name: "default capacity", capacity: 0, wantCap: defaultCapacity},
		{name: "negative capacity", capacity: -5, wantCap: defaultCapacity},
		{name: "power of two kept", capacity: 16, wantCap: 16},
		{name: "rounded up", capacity: 100, wantCap: 128},
		{name: "one", capacity: 1, wantCap: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRing[int](tt.capacity)
			if r.Cap() != tt.wantCap {
				t.Errorf("expected capacity %d, got %d", tt.wantCap, r.Cap())
			}
			if r.Len() != 0 {
				t.Errorf("expected empty ring, got len %d", r.Len())
			}
		})
	}
}

func TestRing_FIFO(t *testing.T) {
	r := NewRing[int](4)

	for i := range 10 {
		r.Push(i)
	}
	if r.Len() != 10 {
		t.Fatalf("expected len 10, got %d", r.Len())
	}
	if r.Cap() != 16 {
		t.Errorf("expected ring to grow to 16, got %d", r.Cap())
	}

	for want := range 10 {
		got, ok := r.Pop()
		if !ok {
			t.Fatalf("pop %d: ring unexpectedly empty", want)
		}
		if got != want {
			t.Errorf("expected %d, got %d", want, got)
		}
	}

	if _, ok := r.Pop(); ok {
		t.Error("expected pop on empty ring to fail")
	}
}

func TestRing_GrowAfterWrap(t *testing.T) {
	r := NewRing[int](4)

	// Move head forward so the live window wraps around the buffer end.
	for i := range 3 {
		r.Push(i)
	}
	for range 3 {
		r.Pop()
	}
	for i := range 6 {
		r.Push(100 + i)
	}

	for i := range 6 {
		got, ok := r.Pop()
		if !ok || got != 100+i {
			t.Fatalf("expected %d, got %d (ok=%v)", 100+i, got, ok)
		}
	}
}

func TestRing_Peek(t *testing.T) {
	r := NewRing[string](2)

	if _, ok := r.Peek(); ok {
		t.Error("expected peek on empty ring to fail")
	}

	r.Push("a")
	r.Push("b")

	v, ok := r.Peek()
	if !ok || v != "a" {
		t.Errorf("expected peek to return 'a', got %q (ok=%v)", v, ok)
	}
	if r.Len() != 2 {
		t.Errorf("peek must not remove items, len=%d", r.Len())
	}
}

func TestRing_Drain(t *testing.T) {
	r := NewRing[int](2)
	for i := range 5 {
		r.Push(i)
	}

	out := r.Drain()
	if len(out) != 5 {
		t.Fatalf("expected 5 drained items, got %d", len(out))
	}
	for i, v := range out {
		if v != i {
			t.Errorf("drain order: index %d has %d", i, v)
		}
	}
	if r.Len() != 0 {
		t.Errorf("expected empty ring after drain, got %d", r.Len())
	}
	if got := r.Drain(); len(got) != 0 {
		t.Errorf("expected empty drain, got %v", got)
	}
}

func TestRing_PopReleasesReference(t *testing.T) {
	r := NewRing[*int](2)
	v := 42
	r.Push(&v)
	r.Pop()

	for i, slot := range r.buf {
		if slot != nil {
			t.Errorf("slot %d still holds a reference after pop", i)
		}
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{-1: 1, 0: 1, 1: 1, 2: 2, 3: 4, 5: 8, 64: 64, 65: 128}
	for in, want := range cases {
		if got := nextPowerOfTwo(in); got != want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", in, got, want)
		}
	}
}
