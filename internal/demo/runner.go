// Package demo runs end-to-end scenarios against the pool, acting as the
// client that submits work, reads futures and shuts pools down.
package demo

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/utkarsh5026/threadpool/internal/config"
	"github.com/utkarsh5026/threadpool/pool"
)

// Outcome is the result of one scenario.
type Outcome struct {
	Name    string
	Passed  bool
	Detail  string
	Elapsed time.Duration
}

// scenarioFunc runs one scenario and returns a short description of what it
// observed. A non-nil error fails the scenario.
type scenarioFunc func(ctx context.Context, r *Runner) (string, error)

var scenarios = map[string]scenarioFunc{
	config.ScenarioSum:         runSum,
	config.ScenarioDrain:       runDrain,
	config.ScenarioCounter:     runCounter,
	config.ScenarioFailure:     runFailure,
	config.ScenarioRejected:    runRejected,
	config.ScenarioZeroWorkers: runZeroWorkers,
}

// Runner executes the configured scenarios in order.
type Runner struct {
	cfg      config.Config
	log      logrus.FieldLogger
	poolOpts []pool.Option
	progress func(Outcome)
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger for scenario progress. Pools created by the
// runner log through it as well.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithPoolOptions adds options applied to every pool a scenario creates.
func WithPoolOptions(opts ...pool.Option) Option {
	return func(r *Runner) {
		r.poolOpts = append(r.poolOpts, opts...)
	}
}

// WithProgress registers a callback invoked after each scenario.
func WithProgress(fn func(Outcome)) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// NewRunner creates a runner for cfg. cfg is expected to be valid.
func NewRunner(cfg config.Config, opts ...Option) *Runner {
	r := &Runner{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		r.log = l
	}
	return r
}

// Run executes every configured scenario and returns their outcomes in
// order. It stops early, returning the outcomes so far and ctx.Err(), when
// ctx is cancelled between scenarios.
func (r *Runner) Run(ctx context.Context) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(r.cfg.Scenarios))

	for _, name := range r.cfg.Scenarios {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		o := r.runOne(ctx, name)
		outcomes = append(outcomes, o)

		log := r.log.WithFields(logrus.Fields{"scenario": o.Name, "elapsed": o.Elapsed})
		if o.Passed {
			log.Info("scenario passed")
		} else {
			log.WithField("detail", o.Detail).Error("scenario failed")
		}
		if r.progress != nil {
			r.progress(o)
		}
	}

	return outcomes, nil
}

func (r *Runner) runOne(ctx context.Context, name string) Outcome {
	o := Outcome{Name: name}

	fn, ok := scenarios[name]
	if !ok {
		o.Detail = fmt.Sprintf("unknown scenario %q", name)
		return o
	}

	start := time.Now()
	detail, err := fn(ctx, r)
	o.Elapsed = time.Since(start)

	if err != nil {
		o.Detail = err.Error()
		return o
	}
	o.Passed = true
	o.Detail = detail
	return o
}

// newPool builds a pool named after the scenario with the runner's shared
// options.
func (r *Runner) newPool(name string, workers int) (*pool.Pool, error) {
	opts := append([]pool.Option{pool.WithLogger(r.log), pool.WithName(name)}, r.poolOpts...)
	return pool.New(workers, opts...)
}

// workers returns the configured worker count, at least one.
func (r *Runner) workers() int {
	return max(r.cfg.Workers, 1)
}

// Passed reports whether every outcome passed.
func Passed(outcomes []Outcome) bool {
	for _, o := range outcomes {
		if !o.Passed {
			return false
		}
	}
	return true
}
