package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"

	"github.com/utkarsh5026/threadpool/internal/config"
	"github.com/utkarsh5026/threadpool/internal/demo"
)

type renderer struct {
	out   io.Writer
	plain bool
	bold  *color.Color
	green *color.Color
	red   *color.Color
}

func newRenderer(out io.Writer, plain bool) *renderer {
	r := &renderer{
		out:   out,
		plain: plain,
		bold:  color.New(color.Bold),
		green: color.New(color.FgGreen, color.Bold),
		red:   color.New(color.FgRed, color.Bold),
	}
	if plain {
		r.bold.DisableColor()
		r.green.DisableColor()
		r.red.DisableColor()
	}
	return r
}

func (r *renderer) header(cfg config.Config) {
	r.bold.Fprintln(r.out, "Configuration:")
	fmt.Fprintf(r.out, "  Workers:    %d\n", cfg.Workers)
	fmt.Fprintf(r.out, "  Tasks:      %d\n", cfg.Tasks)
	fmt.Fprintf(r.out, "  Delay:      %s\n", cfg.Delay)
	if cfg.RateLimit > 0 {
		fmt.Fprintf(r.out, "  Rate limit: %.1f/s (burst %d)\n", cfg.RateLimit, cfg.Burst)
	}
	if cfg.MetricsAddr != "" {
		fmt.Fprintf(r.out, "  Metrics:    http://%s/metrics\n", cfg.MetricsAddr)
	}
	fmt.Fprintf(r.out, "  Scenarios:  %s\n", strings.Join(cfg.Scenarios, ", "))
	fmt.Fprintln(r.out)
}

// progress returns nil in plain mode.
func (r *renderer) progress(n int) *progressbar.ProgressBar {
	if r.plain {
		return nil
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription("Running scenarios"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
	)
}

func (r *renderer) results(outcomes []demo.Outcome) {
	fmt.Fprintln(r.out)
	r.bold.Fprintln(r.out, "Results:")

	table := tablewriter.NewWriter(r.out)
	table.Header("Scenario", "Result", "Time", "Detail")

	passed := 0
	for _, o := range outcomes {
		status := r.red.Sprint("FAIL")
		if o.Passed {
			status = r.green.Sprint("PASS")
			passed++
		}
		_ = table.Append(o.Name, status, o.Elapsed.Round(time.Microsecond).String(), o.Detail)
	}
	_ = table.Render()

	summary := r.green
	if passed != len(outcomes) {
		summary = r.red
	}
	summary.Fprintf(r.out, "%d/%d scenarios passed\n", passed, len(outcomes))
}
