package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/oracle-Solution/hl7/pkg/cli"
	"github.com/oracle-Solution/hl7/pkg/watch"
)

type watchOptions struct {
	metricsAddr string
	progress    bool
}

func newWatchCmd(opts *globalOptions) *cobra.Command {
	var flags watchOptions

	cmd := &cobra.Command{
		Use:   "watch FILE|DIR",
		Short: "Re-validate message files whenever they change",
		Long: `Validate the message files under a directory, or a single file, and
validate each file again whenever it is written. Bursts of writes are
coalesced by the configured debounce interval.

With --metrics-addr, Prometheus metrics and health probes are served on that
address (/metrics, /healthz, /readyz, /version). The watcher is part of the
readiness check.

Examples:
  hl7edit watch inbound/
  hl7edit watch inbound/ --metrics-addr :9464 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts, &flags, args[0])
		},
	}

	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "", "serve metrics and health probes on this address (default from config)")
	cmd.Flags().BoolVar(&flags.progress, "progress", false, "show a progress bar on stderr for the first pass")
	return cmd
}

func runWatch(cmd *cobra.Command, opts *globalOptions, flags *watchOptions, path string) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := cli.SetupSignalHandler(a.context(cmd))
	defer stop()

	logger := a.telemetry.Logger()
	wcfg := watch.FromConfig(a.cfg.Watch, path)

	w, err := watch.New(wcfg, logger.Slog(), a.telemetry.Metrics())
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer w.Stop()
	a.telemetry.Health().RegisterCheck("watcher", w.Check)

	addr := flags.metricsAddr
	if addr == "" {
		addr = a.cfg.Telemetry.Metrics.ListenAddress
	}
	if addr != "" {
		go func() {
			if err := a.telemetry.Serve(ctx, addr, a.service.Registry().Versions()); err != nil {
				logger.Error("Telemetry endpoint failed", "addr", addr, "error", err)
			}
		}()
	}

	out := &watchOutput{a: a}

	files, err := watch.Collect(wcfg)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	var progress cli.ProgressReporter = cli.NopProgress{}
	if flags.progress {
		progress = cli.NewLabeledProgress(a.stderr, "Checking", "files")
	}
	report, err := validateFiles(ctx, a, files, a.cfg.Editor.Concurrency, progress)
	if err != nil {
		// Cancelled before the first pass finished.
		return nil
	}
	if err := out.report(report); err != nil {
		return err
	}

	err = w.Watch(ctx, func(ev watch.Event) {
		if ev.Removed {
			out.removed(ev.Path)
			return
		}
		r := &cli.Report{
			Files: []cli.FileReport{validateFile(ctx, a, ev.Path)},
			Units: a.service.Units(),
		}
		if err := out.report(r); err != nil {
			logger.Error("Failed to print findings", "file", ev.Path, "error", err)
		}
	})
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

// watchOutput serializes output of debounced callbacks, which run on their
// own goroutines.
type watchOutput struct {
	mu sync.Mutex
	a  *app
}

func (o *watchOutput) report(r *cli.Report) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.a.format {
	case cli.FormatText:
		return o.a.printer().PrintReport(r)
	case cli.FormatJSON:
		// One line per report so that the stream can be consumed line by line.
		return (&cli.JSONFormatter{}).FormatTo(o.a.stdout, r)
	default:
		return o.a.output(r)
	}
}

func (o *watchOutput) removed(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.a.format == cli.FormatText {
		fmt.Fprintf(o.a.stdout, "%s: removed\n", path)
	}
}
