package task

import (
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/utkarsh5026/threadpool/internal/types"
)

func TestPackage_Invoke(t *testing.T) {
	t.Run("value is delivered through the future", func(t *testing.T) {
		h, future := Package(func() (int, error) { return 3 + 4, nil })

		if err := h.Invoke(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		value, err := future.Get()
		if err != nil || value != 7 {
			t.Errorf("expected (7, nil), got (%v, %v)", value, err)
		}
	})

	t.Run("error is delivered and mirrored", func(t *testing.T) {
		boom := errors.New("boom")
		h, future := Package(func() (string, error) { return "", boom })

		if err := h.Invoke(); !errors.Is(err, boom) {
			t.Errorf("expected Invoke to mirror %v, got %v", boom, err)
		}
		if _, err := future.Get(); !errors.Is(err, boom) {
			t.Errorf("expected future error %v, got %v", boom, err)
		}
	})

	t.Run("panic is captured into the future", func(t *testing.T) {
		h, future := Package(func() (int, error) { panic("kaboom") })

		err := h.Invoke()
		if !errors.Is(err, ErrTaskPanicked) {
			t.Fatalf("expected ErrTaskPanicked, got %v", err)
		}

		value, ferr := future.Get()
		if value != 0 {
			t.Errorf("expected zero value after panic, got %v", value)
		}
		if !errors.Is(ferr, ErrTaskPanicked) {
			t.Errorf("expected future to carry ErrTaskPanicked, got %v", ferr)
		}
		if !strings.Contains(ferr.Error(), "kaboom") {
			t.Errorf("panic value missing from error: %v", ferr)
		}
		if !strings.Contains(ferr.Error(), "stack trace") {
			t.Errorf("stack trace missing from error: %v", ferr)
		}
	})
}

func TestHandle_InvokeOnce(t *testing.T) {
	calls := 0
	h, _ := Package(func() (int, error) {
		calls++
		return calls, nil
	})

	_ = h.Invoke()
	if !h.Empty() {
		t.Fatal("handle should be empty after invoke")
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on second invoke")
		}
		if err, ok := r.(error); !ok || !errors.Is(err, ErrEmptyHandle) {
			t.Errorf("expected ErrEmptyHandle panic, got %v", r)
		}
		if calls != 1 {
			t.Errorf("expected the callable to run once, ran %d times", calls)
		}
	}()
	_ = h.Invoke()
}

func TestHandle_Take(t *testing.T) {
	h, future := Package(func() (string, error) { return "moved", nil })
	at := time.Now()
	h.Stamp(9, at)

	moved := h.Take()

	if !h.Empty() {
		t.Error("source handle should be empty after Take")
	}
	if moved.Empty() {
		t.Fatal("destination handle should own the task")
	}
	if moved.ID() != 9 || !moved.EnqueuedAt().Equal(at) {
		t.Errorf("stamp not carried over: id=%d at=%v", moved.ID(), moved.EnqueuedAt())
	}

	_ = moved.Invoke()
	if v, _ := future.Get(); v != "moved" {
		t.Errorf("expected 'moved', got %q", v)
	}
}

func TestHandle_Abandon(t *testing.T) {
	ran := false
	h, future := FromFunc(func() { ran = true })

	h.Abandon()
	h.Abandon() // second abandon is a no-op

	if ran {
		t.Error("abandoned task must not run")
	}
	if !h.Empty() {
		t.Error("handle should be empty after Abandon")
	}

	_, err, ready := future.TryGet()
	if !ready {
		t.Fatal("abandoned future should be fulfilled")
	}
	if !errors.Is(err, types.ErrBrokenPromise) {
		t.Errorf("expected ErrBrokenPromise, got %v", err)
	}
}

func TestFromFunc(t *testing.T) {
	ran := false
	h, future := FromFunc(func() { ran = true })

	if err := h.Invoke(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Error("expected callable to run")
	}
	if _, err := future.Get(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestHandle_EmptyNil(t *testing.T) {
	var h *Handle
	if !h.Empty() {
		t.Error("nil handle should report empty")
	}
}

func TestPackage_Goexit(t *testing.T) {
	h, future := Package(func() (int, error) {
		runtime.Goexit()
		return 1, nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.Invoke()
		t.Error("Invoke returned after runtime.Goexit")
	}()
	<-done

	select {
	case <-future.Done():
	case <-time.After(time.Second):
		t.Fatal("future never fulfilled after the task exited its goroutine")
	}

	_, err := future.Get()
	if !errors.Is(err, ErrTaskExited) {
		t.Errorf("expected ErrTaskExited, got %v", err)
	}
	if !errors.Is(err, types.ErrBrokenPromise) {
		t.Errorf("expected ErrTaskExited to wrap ErrBrokenPromise, got %v", err)
	}
	if !h.Empty() {
		t.Error("expected handle to be empty after invocation")
	}
}
