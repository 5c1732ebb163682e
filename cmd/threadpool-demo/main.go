// Command threadpool-demo runs end-to-end scenarios against the thread pool
// and prints a summary table.
//
// Configuration is layered: built-in defaults, an optional YAML file
// (--config), .env files and THREADPOOL_* environment variables, then flags.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/threadpool/internal/config"
	"github.com/utkarsh5026/threadpool/internal/demo"
	"github.com/utkarsh5026/threadpool/internal/telemetry"
	"github.com/utkarsh5026/threadpool/pool"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

type options struct {
	configFile string
	envFiles   []string
	jsonLogs   bool
	plain      bool
	hold       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, opts, err := parseConfig(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "threadpool-demo: %v\n", err)
		return exitUsage
	}

	log := newLogger(cfg.LogLevel, opts.jsonLogs, stderr)

	metrics := pool.NewMetrics("threadpool", "")
	poolOpts := []pool.Option{pool.WithMetrics(metrics)}
	if cfg.RateLimit > 0 {
		poolOpts = append(poolOpts, pool.WithRateLimit(cfg.RateLimit, cfg.Burst))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.MetricsAddr != "" {
		srv, err := telemetry.New(log, metrics)
		if err != nil {
			log.WithError(err).Error("failed to create metrics server")
			return exitFailed
		}
		g.Go(func() error {
			return srv.ListenAndServe(gctx, cfg.MetricsAddr)
		})
	}

	r := newRenderer(stdout, opts.plain)
	r.header(cfg)
	bar := r.progress(len(cfg.Scenarios))

	var outcomes []demo.Outcome
	g.Go(func() error {
		runner := demo.NewRunner(cfg,
			demo.WithLogger(log),
			demo.WithPoolOptions(poolOpts...),
			demo.WithProgress(func(o demo.Outcome) {
				if bar != nil {
					_ = bar.Add(1)
				}
			}),
		)

		var err error
		outcomes, err = runner.Run(gctx)
		if bar != nil {
			_ = bar.Finish()
		}
		if err != nil {
			return err
		}

		if opts.hold && cfg.MetricsAddr != "" {
			log.WithField("addr", cfg.MetricsAddr).Info("holding metrics server open, interrupt to exit")
			<-gctx.Done()
		}
		cancel()
		return nil
	})

	err = g.Wait()
	r.results(outcomes)

	switch {
	case err != nil && !errors.Is(err, context.Canceled):
		log.WithError(err).Error("demo aborted")
		return exitFailed
	case !demo.Passed(outcomes) || len(outcomes) < len(cfg.Scenarios):
		return exitFailed
	default:
		return exitOK
	}
}

// parseConfig builds the effective configuration from defaults, files,
// the environment and flags, in that order of increasing precedence.
func parseConfig(args []string, stderr io.Writer) (config.Config, options, error) {
	var opts options
	def := config.Default()

	fs := pflag.NewFlagSet("threadpool-demo", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.configFile, "config", "c", "", "YAML configuration file")
	fs.StringSliceVar(&opts.envFiles, "env-file", nil, ".env files to load (default .env)")
	workers := fs.IntP("workers", "w", def.Workers, "number of pool workers")
	tasks := fs.IntP("tasks", "n", def.Tasks, "number of tasks in the counter scenario")
	delay := fs.Duration("delay", def.Delay, "sleep duration of delayed tasks")
	rateLimit := fs.Float64("rate-limit", def.RateLimit, "max task starts per second (0 = unlimited)")
	burst := fs.Int("burst", def.Burst, "rate limiter burst")
	logLevel := fs.String("log-level", def.LogLevel, "log level (debug, info, warn, error)")
	debug := fs.BoolP("debug", "d", false, "shorthand for --log-level=debug")
	metricsAddr := fs.String("metrics-addr", def.MetricsAddr, "serve /metrics and /healthz on this address")
	scenarios := fs.StringSlice("scenarios", def.Scenarios, "scenarios to run")
	fs.BoolVar(&opts.jsonLogs, "json", false, "log in JSON format")
	fs.BoolVar(&opts.plain, "plain", false, "disable colors and the progress bar")
	fs.BoolVar(&opts.hold, "hold", false, "keep serving metrics after the run until interrupted")

	if err := fs.Parse(args); err != nil {
		return def, opts, err
	}

	cfg := def
	if opts.configFile != "" {
		var err error
		if cfg, err = config.Load(opts.configFile); err != nil {
			return cfg, opts, err
		}
	}
	if err := config.LoadDotEnv(opts.envFiles...); err != nil {
		return cfg, opts, err
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return cfg, opts, err
	}

	if fs.Changed("workers") {
		cfg.Workers = *workers
	}
	if fs.Changed("tasks") {
		cfg.Tasks = *tasks
	}
	if fs.Changed("delay") {
		cfg.Delay = *delay
	}
	if fs.Changed("rate-limit") {
		cfg.RateLimit = *rateLimit
	}
	if fs.Changed("burst") {
		cfg.Burst = *burst
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	if *debug {
		cfg.LogLevel = logrus.DebugLevel.String()
	}
	if fs.Changed("metrics-addr") {
		cfg.MetricsAddr = *metricsAddr
	}
	if fs.Changed("scenarios") {
		cfg.Scenarios = *scenarios
	}

	return cfg, opts, cfg.Validate()
}

func newLogger(level string, jsonFormat bool, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}
	if jsonFormat {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
