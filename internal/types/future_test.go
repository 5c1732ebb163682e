package types

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestFuture_Get(t *testing.T) {
	t.Run("successful result", func(t *testing.T) {
		promise, future := NewPromise[string]()

		go func() {
			time.Sleep(50 * time.Millisecond)
			promise.Resolve("success")
		}()

		value, err := future.Get()

		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if value != "success" {
			t.Errorf("expected value 'success', got %v", value)
		}
	})

	t.Run("error result", func(t *testing.T) {
		promise, future := NewPromise[string]()
		expectedErr := errors.New("task failed")

		go promise.Reject(expectedErr)

		value, err := future.Get()

		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if value != "" {
			t.Errorf("expected empty value, got %v", value)
		}
	})

	t.Run("multiple Get calls return same result", func(t *testing.T) {
		promise, future := NewPromise[int]()

		go promise.Resolve(123)

		value1, err1 := future.Get()
		value2, err2 := future.Get()

		if value1 != value2 || err1 != err2 {
			t.Errorf("Get calls returned different results")
		}
		if value1 != 123 {
			t.Errorf("expected value 123, got %v", value1)
		}
	})

	t.Run("value and error together", func(t *testing.T) {
		promise, future := NewPromise[int]()
		partial := errors.New("partial")

		promise.Complete(5, partial)

		value, err := future.Get()
		if value != 5 || !errors.Is(err, partial) {
			t.Errorf("expected (5, partial), got (%v, %v)", value, err)
		}
	})
}

func TestPromise_FulfilledOnce(t *testing.T) {
	t.Run("second resolve is ignored", func(t *testing.T) {
		promise, future := NewPromise[int]()

		if !promise.Resolve(1) {
			t.Fatal("first Resolve should succeed")
		}
		if promise.Resolve(2) {
			t.Error("second Resolve should report false")
		}
		if promise.Reject(errors.New("late")) {
			t.Error("Reject after Resolve should report false")
		}
		if promise.Break() {
			t.Error("Break after Resolve should report false")
		}

		value, err := future.Get()
		if value != 1 || err != nil {
			t.Errorf("expected (1, nil), got (%v, %v)", value, err)
		}
	})

	t.Run("concurrent producers", func(t *testing.T) {
		promise, future := NewPromise[int]()

		var wg sync.WaitGroup
		var mu sync.Mutex
		winners := 0
		for i := range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if promise.Resolve(i) {
					mu.Lock()
					winners++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		if winners != 1 {
			t.Errorf("expected exactly one winning producer, got %d", winners)
		}
		if !promise.Fulfilled() {
			t.Error("promise should report fulfilled")
		}
		if !future.IsReady() {
			t.Error("future should be ready")
		}
	})
}

func TestPromise_Break(t *testing.T) {
	t.Run("waiting observer is released", func(t *testing.T) {
		promise, future := NewPromise[string]()

		errCh := make(chan error, 1)
		go func() {
			_, err := future.Get()
			errCh <- err
		}()

		time.Sleep(20 * time.Millisecond)
		promise.Break()

		select {
		case err := <-errCh:
			if !errors.Is(err, ErrBrokenPromise) {
				t.Errorf("expected ErrBrokenPromise, got %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("observer still blocked after Break")
		}
	})

	t.Run("break before read", func(t *testing.T) {
		promise, future := NewPromise[int]()
		promise.Break()

		value, err, ready := future.TryGet()
		if !ready {
			t.Fatal("expected broken future to be ready")
		}
		if value != 0 {
			t.Errorf("expected zero value, got %v", value)
		}
		if !errors.Is(err, ErrBrokenPromise) {
			t.Errorf("expected ErrBrokenPromise, got %v", err)
		}
	})
}

func TestFuture_GetWithContext(t *testing.T) {
	t.Run("successful result before timeout", func(t *testing.T) {
		promise, future := NewPromise[string]()
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		go func() {
			time.Sleep(50 * time.Millisecond)
			promise.Resolve("success")
		}()

		value, err := future.GetWithContext(ctx)

		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if value != "success" {
			t.Errorf("expected value 'success', got %v", value)
		}
	})

	t.Run("context timeout before result", func(t *testing.T) {
		promise, future := NewPromise[string]()
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		go func() {
			time.Sleep(200 * time.Millisecond)
			promise.Resolve("too late")
		}()

		value, err := future.GetWithContext(ctx)

		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}
		if value != "" {
			t.Errorf("expected empty value, got %v", value)
		}

		// The future itself is unaffected by the abandoned wait.
		value, err = future.Get()
		if err != nil || value != "too late" {
			t.Errorf("expected ('too late', nil) after timeout, got (%v, %v)", value, err)
		}
	})

	t.Run("context cancelled", func(t *testing.T) {
		_, future := NewPromise[string]()
		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		_, err := future.GetWithContext(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestFuture_TryGet(t *testing.T) {
	t.Run("result not ready", func(t *testing.T) {
		_, future := NewPromise[string]()

		value, err, ready := future.TryGet()

		if ready {
			t.Error("expected ready to be false")
		}
		if value != "" {
			t.Errorf("expected empty value, got %v", value)
		}
		if err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	})

	t.Run("multiple TryGet calls after ready", func(t *testing.T) {
		promise, future := NewPromise[int]()
		promise.Resolve(789)

		value1, err1, ready1 := future.TryGet()
		value2, err2, ready2 := future.TryGet()

		if !ready1 || !ready2 {
			t.Error("expected both calls to be ready")
		}
		if value1 != value2 || err1 != err2 {
			t.Errorf("TryGet calls returned different results")
		}
	})
}

func TestFuture_Done(t *testing.T) {
	promise, future := NewPromise[string]()

	select {
	case <-future.Done():
		t.Fatal("Done channel should not be closed yet")
	case <-time.After(50 * time.Millisecond):
	}

	promise.Resolve("done")

	select {
	case <-future.Done():
	case <-time.After(200 * time.Millisecond):
		t.Fatal("Done channel should be closed after result is ready")
	}

	if !future.IsReady() {
		t.Error("expected IsReady to be true")
	}
}

func TestFuture_ConcurrentAccess(t *testing.T) {
	promise, future := NewPromise[int]()

	go func() {
		time.Sleep(50 * time.Millisecond)
		promise.Resolve(999)
	}()

	done := make(chan bool, 10)

	for range 10 {
		go func() {
			value, err := future.Get()
			if err != nil || value != 999 {
				t.Errorf("unexpected result: value=%v, err=%v", value, err)
			}
			done <- true
		}()
	}

	for range 10 {
		select {
		case <-done:
		case <-time.After(500 * time.Millisecond):
			t.Fatal("timeout waiting for concurrent Get calls")
		}
	}
}
