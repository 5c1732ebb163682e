package demo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/utkarsh5026/threadpool/internal/config"
	"github.com/utkarsh5026/threadpool/pool"
)

var errExpectedFailure = errors.New("expected failure")

// runSum adds 3 and 4 on a two-worker pool.
func runSum(ctx context.Context, r *Runner) (string, error) {
	p, err := r.newPool(config.ScenarioSum, 2)
	if err != nil {
		return "", err
	}
	defer p.Release()

	delay := r.cfg.Delay
	future, err := pool.Submit2(p, func(i, j int) (int, error) {
		time.Sleep(delay)
		return i + j, nil
	}, 3, 4)
	if err != nil {
		return "", fmt.Errorf("submit: %w", err)
	}

	sum, err := future.GetWithContext(ctx)
	if err != nil {
		return "", err
	}
	if sum != 7 {
		return "", fmt.Errorf("3 + 4 = %d, want 7", sum)
	}
	return "3 + 4 = 7", nil
}

// runDrain checks that Release waits for a task that is still running.
func runDrain(ctx context.Context, r *Runner) (string, error) {
	p, err := r.newPool(config.ScenarioDrain, 1)
	if err != nil {
		return "", err
	}

	var finished atomic.Bool
	delay := r.cfg.Delay
	future, err := pool.Submit(p, func() (int, error) {
		time.Sleep(delay)
		finished.Store(true)
		return 1, nil
	})
	if err != nil {
		p.Release()
		return "", fmt.Errorf("submit: %w", err)
	}

	start := time.Now()
	p.Release()
	waited := time.Since(start)

	if !finished.Load() {
		return "", errors.New("release returned before the running task finished")
	}
	v, err := future.GetWithContext(ctx)
	if err != nil {
		return "", err
	}
	if v != 1 {
		return "", fmt.Errorf("future = %d, want 1", v)
	}
	return fmt.Sprintf("release waited %s for the running task", waited.Round(time.Millisecond)), nil
}

// runCounter increments a client-owned counter from many tasks.
func runCounter(ctx context.Context, r *Runner) (string, error) {
	p, err := r.newPool(config.ScenarioCounter, r.workers())
	if err != nil {
		return "", err
	}
	defer p.Release()

	var mu sync.Mutex
	counter := 0

	futures := make([]*pool.Future[struct{}], 0, r.cfg.Tasks)
	for range r.cfg.Tasks {
		f, err := p.Execute(func() {
			mu.Lock()
			counter++
			mu.Unlock()
		})
		if err != nil {
			return "", fmt.Errorf("submit: %w", err)
		}
		futures = append(futures, f)
	}

	for _, f := range futures {
		if _, err := f.GetWithContext(ctx); err != nil {
			return "", err
		}
	}

	mu.Lock()
	got := counter
	mu.Unlock()
	if got != r.cfg.Tasks {
		return "", fmt.Errorf("counter = %d, want %d", got, r.cfg.Tasks)
	}
	return fmt.Sprintf("%d increments on %d workers", got, p.Workers()), nil
}

// runFailure checks that failing and panicking tasks only affect their own
// futures.
func runFailure(ctx context.Context, r *Runner) (string, error) {
	p, err := r.newPool(config.ScenarioFailure, r.workers())
	if err != nil {
		return "", err
	}
	defer p.Release()

	failing, err := pool.Submit(p, func() (int, error) { return 0, errExpectedFailure })
	if err != nil {
		return "", fmt.Errorf("submit: %w", err)
	}
	panicking, err := pool.Submit(p, func() (int, error) { panic("expected panic") })
	if err != nil {
		return "", fmt.Errorf("submit: %w", err)
	}

	healthy := make([]*pool.Future[int], 0, 5)
	for i := range 5 {
		f, err := pool.SubmitValue(p, func() int { return i })
		if err != nil {
			return "", fmt.Errorf("submit: %w", err)
		}
		healthy = append(healthy, f)
	}

	if _, err := failing.GetWithContext(ctx); !errors.Is(err, errExpectedFailure) {
		return "", fmt.Errorf("failing task: got %v, want %v", err, errExpectedFailure)
	}
	if _, err := panicking.GetWithContext(ctx); !errors.Is(err, pool.ErrTaskPanicked) {
		return "", fmt.Errorf("panicking task: got %v, want %v", err, pool.ErrTaskPanicked)
	}
	for i, f := range healthy {
		v, err := f.GetWithContext(ctx)
		if err != nil {
			return "", fmt.Errorf("healthy task %d failed: %w", i, err)
		}
		if v != i {
			return "", fmt.Errorf("healthy task %d = %d", i, v)
		}
	}
	return "2 failures isolated, 5 tasks unaffected", nil
}

// runRejected submits after Release.
func runRejected(_ context.Context, r *Runner) (string, error) {
	p, err := r.newPool(config.ScenarioRejected, r.workers())
	if err != nil {
		return "", err
	}
	p.Release()

	var ran atomic.Bool
	future, err := pool.SubmitValue(p, func() int {
		ran.Store(true)
		return 1
	})
	if !errors.Is(err, pool.ErrPoolClosed) {
		return "", fmt.Errorf("submit after release: got %v, want %v", err, pool.ErrPoolClosed)
	}
	if future != nil {
		return "", errors.New("rejected submission returned a future")
	}
	if ran.Load() {
		return "", errors.New("rejected task ran")
	}
	return "submission after release rejected", nil
}

// runZeroWorkers checks that releasing a pool without workers returns and
// fails the queued task's future instead of hanging.
func runZeroWorkers(ctx context.Context, r *Runner) (string, error) {
	p, err := r.newPool(config.ScenarioZeroWorkers, 0)
	if err != nil {
		return "", err
	}

	var ran atomic.Bool
	future, err := p.Execute(func() { ran.Store(true) })
	if err != nil {
		p.Release()
		return "", fmt.Errorf("submit: %w", err)
	}

	time.Sleep(r.cfg.Delay)
	if err := p.ReleaseWithTimeout(5 * time.Second); err != nil {
		return "", fmt.Errorf("release: %w", err)
	}

	if ran.Load() {
		return "", errors.New("task ran without workers")
	}
	if _, err := future.GetWithContext(ctx); !errors.Is(err, pool.ErrBrokenPromise) {
		return "", fmt.Errorf("abandoned task: got %v, want %v", err, pool.ErrBrokenPromise)
	}
	return fmt.Sprintf("%d queued task abandoned at release", p.Stats().Abandoned), nil
}
