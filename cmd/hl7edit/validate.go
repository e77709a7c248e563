package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/oracle-Solution/hl7/pkg/cli"
	"github.com/oracle-Solution/hl7/pkg/telemetry/logging"
	"github.com/oracle-Solution/hl7/pkg/watch"
)

type validateOptions struct {
	jobs       int
	progress   bool
	noSnippets bool
	width      int
}

func newValidateCmd(opts *globalOptions) *cobra.Command {
	var flags validateOptions

	cmd := &cobra.Command{
		Use:   "validate FILE|DIR...",
		Short: "Validate message files against their HL7 version",
		Long: `Validate message files against the data dictionary of their HL7 version.
Directories are searched recursively for files with the configured
extensions. Files are validated in parallel.

Findings are printed like compiler diagnostics, one per line with the
offending segment underlined. The exit code is 1 when any message has an
ERROR finding or could not be parsed.

Examples:
  # Validate a directory
  hl7edit validate inbound/

  # Report every finding as an error
  hl7edit validate --strict adt.hl7

  # Cut long segment lines to the terminal width
  hl7edit validate inbound/ --width "$COLUMNS"

  # CSV for spreadsheets
  hl7edit validate inbound/ --format csv > findings.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts, &flags, args)
		},
	}

	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "files validated in parallel (default from config)")
	cmd.Flags().BoolVar(&flags.progress, "progress", false, "show a progress bar on stderr")
	cmd.Flags().BoolVar(&flags.noSnippets, "no-snippets", false, "print findings without the segment line")
	cmd.Flags().IntVar(&flags.width, "width", cli.DefaultSnippetWidth, "display width segment lines are cut to, 0 to never cut")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "report every finding as an error")
	return cmd
}

func runValidate(cmd *cobra.Command, opts *globalOptions, flags *validateOptions, args []string) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.close()

	var files []string
	for _, arg := range args {
		if arg == stdinName {
			files = append(files, arg)
			continue
		}
		found, err := watch.Collect(watch.FromConfig(a.cfg.Watch, arg))
		if err != nil {
			return cli.NewCommandError("validate", err)
		}
		files = append(files, found...)
	}

	jobs := flags.jobs
	if jobs <= 0 {
		jobs = a.cfg.Editor.Concurrency
	}

	var progress cli.ProgressReporter = cli.NopProgress{}
	if flags.progress {
		progress = cli.NewProgressReporter(a.stderr)
	}

	report, err := validateFiles(a.context(cmd), a, files, jobs, progress)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	switch a.format {
	case cli.FormatText:
		printer := a.printer()
		printer.SetSnippets(!flags.noSnippets)
		printer.SetWidth(flags.width)
		if err := printer.PrintReport(report); err != nil {
			return err
		}
	default:
		if err := a.output(report); err != nil {
			return err
		}
	}

	errs, _, failed := report.Summary()
	if failed > 0 {
		return &cli.FindingsError{Messages: failed, Errors: errs}
	}
	return nil
}

// validateFiles validates files with at most jobs in parallel. Problems with
// single files are recorded in their report; only cancellation fails the
// whole run.
func validateFiles(ctx context.Context, a *app, files []string, jobs int, progress cli.ProgressReporter) (*cli.Report, error) {
	results := make([]cli.FileReport, len(files))
	progress.Start(int64(len(files)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(min(jobs, len(files)), 1))

	for i, name := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = validateFile(gctx, a, name)
			progress.Increment()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		progress.Error(err)
		return nil, err
	}
	progress.Finish()

	return &cli.Report{Files: results, Units: a.service.Units()}, nil
}

func validateFile(ctx context.Context, a *app, name string) cli.FileReport {
	result := cli.FileReport{File: name}

	f, err := readMessage(name, a.stdin)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Text = f.Text
	result.MessageType = headerMessageType(f.Text)

	version := a.version(f)
	result.Version = version
	if version == "" {
		result.Version = a.service.DefaultVersion()
	}

	findings, err := a.service.Validate(logging.WithFile(ctx, name), f.Text, version)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Findings = findings
	return result
}

// headerMessageType returns MSH-9 as "TYPE^TRIGGER".
func headerMessageType(text string) string {
	v := headerField([]byte(text), 9)
	if v == "" {
		return ""
	}
	parts := strings.Split(v, text[4:5])
	return strings.Join(parts[:min(len(parts), 2)], "^")
}
