package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastframe/internal/audio"
	"github.com/jmylchreest/toastframe/internal/config"
	"github.com/jmylchreest/toastframe/internal/frame"
	"github.com/jmylchreest/toastframe/internal/layout"
	"github.com/jmylchreest/toastframe/internal/metrics"
	"github.com/jmylchreest/toastframe/internal/output"
	"github.com/jmylchreest/toastframe/internal/session"
	"github.com/jmylchreest/toastframe/internal/tui"
)

var demoOpts struct {
	template    string
	metricsAddr string
	poster      time.Duration
	noWatch     bool

	summary         string
	summaryTemplate string
	summaryOutcome  string
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Launch the interactive toast demo",
	Long: `Launch the interactive terminal demo.

The page logs every toast the frame queues, presents and handles.
Click a toast to activate it, or drag it to the right to dismiss it.

Key bindings:
  1-5         Show the sample toasts (short, info, long, titled, long titled)
  6           Show a toast whose outcome is reported in the status bar
  b           Queue a burst of toasts
  enter       Tap the visible toast
  x           Swipe the visible toast away
  h           Hide the visible toast without an outcome
  c           Clear all toasts
  s           Open or close the status bar
  i           Toggle the indeterminate indicator
  p           Simulate a download in the status bar
  ?           Show help
  q           Quit

Edits to the config file are applied while the demo runs.

With --summary, the outcome of every toast handled during the run is
printed after the demo exits. Custom templates receive .Index, .Entry and
.RelativeTime, with the truncate, reltime and age functions.`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)

	for _, cmd := range []*cobra.Command{rootCmd, demoCmd} {
		flags := cmd.Flags()
		flags.StringVar(&demoOpts.template, "template", "",
			"Layout template name (default: from config)")
		flags.StringVar(&demoOpts.metricsAddr, "metrics-addr", "",
			"Serve Prometheus metrics on this address (default: from config when enabled)")
		flags.DurationVar(&demoOpts.poster, "poster", 0,
			"Post an informational toast from a background goroutine at this interval")
		flags.BoolVar(&demoOpts.noWatch, "no-watch", false,
			"Do not reload the config file when it changes")
		flags.StringVar(&demoOpts.summary, "summary", "",
			"Print the session's toast outcomes on exit (plain, json)")
		flags.StringVar(&demoOpts.summaryTemplate, "summary-template", "",
			"Go text/template for the plain summary")
		flags.StringVar(&demoOpts.summaryOutcome, "summary-outcome", "",
			"Only summarize toasts with this outcome")
	}
}

func runDemo(cmd *cobra.Command, args []string) error {
	c := getConfig()

	switch output.FormatType(demoOpts.summary) {
	case "", output.FormatPlain, output.FormatJSON:
	default:
		return fmt.Errorf("unknown summary format %q", demoOpts.summary)
	}

	// The TUI owns the terminal, so logs only go to an explicit log file.
	if globalOpts.logFile == "" {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	name := demoOpts.template
	if name == "" {
		name = c.Layout.Template
	}
	lay, err := layout.NewLoader(c.TemplatesPath()).Load(name)
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	chime := audio.NewChime(audio.NewPlayer(logger), c, logger)
	defer chime.Close()
	recorder := session.NewRecorder(0, nil)
	observers := []frame.Observer{chime, recorder}

	if addr := metricsAddr(c); addr != "" {
		collector := metrics.New()
		observers = append(observers, collector)
		go func() {
			if err := metrics.Serve(ctx, addr, metrics.Router(collector), logger); err != nil {
				logger.Error("metrics server failed", "addr", addr, "error", err)
			}
		}()
	}

	disp := tui.NewDispatcher()
	m := tui.New(tui.Options{
		Config:     c,
		Layout:     lay,
		Dispatcher: disp,
		Observer:   frame.Observers(observers...),
		Logger:     logger,
	})

	if !demoOpts.noWatch {
		stop, err := watchConfig(disp, m.Frame(), chime)
		if err != nil {
			logger.Warn("config hot reload disabled", "error", err)
		} else {
			defer stop()
		}
	}

	if demoOpts.poster > 0 {
		go postInBackground(ctx, disp, m.Frame(), demoOpts.poster)
	}

	if err := tui.Run(m); err != nil {
		return err
	}
	return writeSummary(cmd.OutOrStdout(), recorder)
}

// writeSummary prints the recorded outcomes in the --summary format.
func writeSummary(w io.Writer, rec *session.Recorder) error {
	if demoOpts.summary == "" {
		return nil
	}
	opts := output.DefaultFormatterOptions()
	opts.Template = demoOpts.summaryTemplate

	formatter := output.NewFormatter(output.FormatType(demoOpts.summary), opts)
	return formatter.Format(w, rec.Filter(demoOpts.summaryOutcome, 0))
}

func metricsAddr(c *config.Config) string {
	if demoOpts.metricsAddr != "" {
		return demoOpts.metricsAddr
	}
	if c.Metrics.Enabled {
		return c.Metrics.Addr
	}
	return ""
}

// watchConfig forwards reloaded settings to the running demo.
func watchConfig(disp *tui.Dispatcher, f *frame.Frame, chime *audio.Chime) (func(), error) {
	w, err := config.NewWatcher(configPath(), logger)
	if err != nil {
		return nil, err
	}
	w.OnChange(func(nc *config.Config) {
		chime.UpdateConfig(nc)
		disp.Send(tui.ConfigMsg{Config: nc})
	})
	w.OnError(func(err error) {
		disp.Post(func() {
			if err := f.ShowInfoToast("Config reload failed, keeping previous settings"); err != nil {
				logger.Warn("failed to show toast", "error", err)
			}
		})
	})
	if err := w.Start(); err != nil {
		_ = w.Stop()
		return nil, err
	}
	return func() {
		if err := w.Stop(); err != nil {
			logger.Warn("failed to stop config watcher", "error", err)
		}
	}, nil
}

// postInBackground shows an informational toast every interval. The frame
// is only touched through the dispatcher.
func postInBackground(ctx context.Context, disp *tui.Dispatcher, f *frame.Frame, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		text := fmt.Sprintf("Background update #%d", n)
		disp.Post(func() {
			if err := f.ShowInfoToast(text); err != nil {
				logger.Warn("failed to post toast", "error", err)
			}
		})
	}
}
