// Package config loads the settings of the threadpool demo client.
//
// Values are layered: Default, then an optional YAML file (Load), then
// environment variables (ApplyEnv, optionally seeded from .env files by
// LoadDotEnv). Command-line flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Scenario names understood by the demo runner.
const (
	ScenarioSum         = "sum"
	ScenarioDrain       = "drain"
	ScenarioCounter     = "counter"
	ScenarioFailure     = "failure"
	ScenarioRejected    = "rejected"
	ScenarioZeroWorkers = "zero-workers"
)

// AllScenarios lists every scenario in the order the runner executes them.
var AllScenarios = []string{
	ScenarioSum,
	ScenarioDrain,
	ScenarioCounter,
	ScenarioFailure,
	ScenarioRejected,
	ScenarioZeroWorkers,
}

// Config is the demo client configuration.
type Config struct {
	// Workers is the pool size used by scenarios that do not fix their own.
	Workers int `yaml:"workers"`
	// Tasks is the number of tasks submitted by the counter scenario.
	Tasks int `yaml:"tasks"`
	// Delay is how long sleeping tasks sleep, e.g. "10ms".
	Delay time.Duration `yaml:"delay"`
	// RateLimit caps task starts per second; 0 disables limiting.
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
	LogLevel  string  `yaml:"log_level"`
	// MetricsAddr, when set, serves /metrics and /healthz on that address.
	MetricsAddr string   `yaml:"metrics_addr"`
	Scenarios   []string `yaml:"scenarios"`
}

// envConfig mirrors Config as raw strings so every variable is optional.
type envConfig struct {
	Workers     string `env:"THREADPOOL_WORKERS"`
	Tasks       string `env:"THREADPOOL_TASKS"`
	Delay       string `env:"THREADPOOL_DELAY"`
	RateLimit   string `env:"THREADPOOL_RATE_LIMIT"`
	Burst       string `env:"THREADPOOL_BURST"`
	LogLevel    string `env:"THREADPOOL_LOG_LEVEL"`
	MetricsAddr string `env:"THREADPOOL_METRICS_ADDR"`
	Scenarios   string `env:"THREADPOOL_SCENARIOS"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Workers:   4,
		Tasks:     100,
		Delay:     10 * time.Millisecond,
		Burst:     1,
		LogLevel:  "info",
		Scenarios: slices.Clone(AllScenarios),
	}
}

// Load reads a YAML file on top of Default. Keys missing from the file keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return cfg, fmt.Errorf("unsupported config format: %q", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Files that
// do not exist are skipped. With no paths, ".env" is tried.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to stat %s: %w", p, err)
		}
		existing = append(existing, p)
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with any THREADPOOL_* variables that are set.
func ApplyEnv(cfg *Config) error {
	var raw envConfig
	if _, err := env.UnmarshalFromEnviron(&raw); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	var errs []error
	if raw.Workers != "" {
		n, err := strconv.Atoi(raw.Workers)
		if err != nil {
			errs = append(errs, fmt.Errorf("THREADPOOL_WORKERS: %w", err))
		} else {
			cfg.Workers = n
		}
	}
	if raw.Tasks != "" {
		n, err := strconv.Atoi(raw.Tasks)
		if err != nil {
			errs = append(errs, fmt.Errorf("THREADPOOL_TASKS: %w", err))
		} else {
			cfg.Tasks = n
		}
	}
	if raw.Delay != "" {
		d, err := time.ParseDuration(raw.Delay)
		if err != nil {
			errs = append(errs, fmt.Errorf("THREADPOOL_DELAY: %w", err))
		} else {
			cfg.Delay = d
		}
	}
	if raw.RateLimit != "" {
		r, err := strconv.ParseFloat(raw.RateLimit, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("THREADPOOL_RATE_LIMIT: %w", err))
		} else {
			cfg.RateLimit = r
		}
	}
	if raw.Burst != "" {
		n, err := strconv.Atoi(raw.Burst)
		if err != nil {
			errs = append(errs, fmt.Errorf("THREADPOOL_BURST: %w", err))
		} else {
			cfg.Burst = n
		}
	}
	if raw.LogLevel != "" {
		cfg.LogLevel = raw.LogLevel
	}
	if raw.MetricsAddr != "" {
		cfg.MetricsAddr = raw.MetricsAddr
	}
	if raw.Scenarios != "" {
		cfg.Scenarios = SplitList(raw.Scenarios)
	}

	return errors.Join(errs...)
}

// SplitList splits a comma separated list, trimming blanks and dropping
// empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error

	if c.Workers < 0 {
		errs = append(errs, errors.New("workers must be non-negative"))
	}
	if c.Tasks <= 0 {
		errs = append(errs, errors.New("tasks must be positive"))
	}
	if c.Delay < 0 {
		errs = append(errs, errors.New("delay must be non-negative"))
	}
	if c.RateLimit < 0 {
		errs = append(errs, errors.New("rate_limit must be non-negative"))
	}
	if c.RateLimit > 0 && c.Burst <= 0 {
		errs = append(errs, errors.New("burst must be positive when rate_limit is set"))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if len(c.Scenarios) == 0 {
		errs = append(errs, errors.New("at least one scenario is required"))
	}
	for _, s := range c.Scenarios {
		if !slices.Contains(AllScenarios, s) {
			errs = append(errs, fmt.Errorf("unknown scenario: %s", s))
		}
	}

	return errors.Join(errs...)
}
