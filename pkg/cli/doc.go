/*
Package cli provides command-line interface utilities for hl7edit.

The cli package includes output formatters, the finding printer, progress
reporters, exit codes and signal handling used by the hl7edit command.

Output Formatting:

Command results can be written as text, JSON or CSV. CSV needs a result
that implements Tabular:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, report); err != nil {
		return err
	}

Findings:

The finding printer writes one line per finding, in the style of compiler
diagnostics, with the offending segment underlined:

	adt.hl7:3:20: ERROR max-length PID-3: value has 25 characters, PID-3 allows 20
	  PID|1||1234567890123456789012345||DOE^JOHN
	         ^~~~~~~~~~~~~~~~~~~~~~~~

	printer := cli.NewFindingPrinter(os.Stdout, mapper.UnitsBytes, noColor)
	if err := printer.PrintReport(report); err != nil {
		return err
	}

Progress Reporting:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(int64(len(files)))
	for range files {
		// Validate
		progress.Increment()
	}
	progress.Finish()

Exit Codes:

ExitCode maps command errors to process exit codes: findings with errors
exit 1, malformed input 4, configuration problems 3 and everything else 2.

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
