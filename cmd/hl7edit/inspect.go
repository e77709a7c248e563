package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oracle-Solution/hl7/pkg/cli"
	"github.com/oracle-Solution/hl7/pkg/hl7/editor"
	"github.com/oracle-Solution/hl7/pkg/hl7/validator"
)

type inspectOptions struct {
	caret int
	at    string
}

func newInspectCmd(opts *globalOptions) *cobra.Command {
	var flags inspectOptions

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show the unit under a caret and the findings of a message",
		Long: `Parse and validate a message and describe the unit under the caret: its
terser path, value and dictionary description, followed by the findings.

The caret is an offset into the message text in the configured units
(bytes or utf16). Use --at to place it at the start of a path instead.

Examples:
  # Describe what sits at offset 120
  hl7edit inspect adt.hl7 --caret 120

  # Describe PID-5 and show findings as JSON
  hl7edit inspect adt.hl7 --at PID-5 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, opts, &flags, args[0])
		},
	}

	cmd.Flags().IntVar(&flags.caret, "caret", 0, "caret offset in the configured units")
	cmd.Flags().StringVar(&flags.at, "at", "", "place the caret at the start of this path")
	return cmd
}

func runInspect(cmd *cobra.Command, opts *globalOptions, flags *inspectOptions, file string) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.close()

	f, err := a.read(file)
	if err != nil {
		return err
	}
	ctx := a.context(cmd)
	version := a.version(f)

	caret := flags.caret
	if flags.at != "" {
		res, err := a.service.Lookup(ctx, editor.LookupRequest{Text: f.Text, Version: version, Path: flags.at})
		if err != nil {
			return err
		}
		if res.Caret.Move {
			caret = res.Caret.Offset
		}
	}

	insp, err := a.service.Inspect(ctx, editor.Request{Text: f.Text, Version: version, Caret: caret})
	if err != nil {
		return err
	}

	switch a.format {
	case cli.FormatText:
		return printInspection(a, f, insp)
	case cli.FormatCSV:
		return a.output(singleReport(a, f, insp.Version, insp.MessageType, insp.Findings))
	default:
		return a.output(insp)
	}
}

func printInspection(a *app, f *messageFile, insp *editor.Inspection) error {
	errs, infos := validator.Count(insp.Findings)
	w := a.stdout
	fmt.Fprintf(w, "Version:     %s\n", insp.Version)
	if insp.MessageType != "" {
		fmt.Fprintf(w, "Type:        %s\n", insp.MessageType)
	}
	fmt.Fprintf(w, "Caret:       %d\n", insp.Caret)
	fmt.Fprintf(w, "Path:        %s\n", insp.Path)
	fmt.Fprintf(w, "Value:       %s\n", insp.Value)
	fmt.Fprintf(w, "Description: %s\n", insp.Description)
	fmt.Fprintf(w, "Findings:    %d error(s), %d info(s)\n", errs, infos)
	if len(insp.Findings) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	return a.printer().Print(f.Name, f.Text, insp.Findings)
}

// singleReport wraps the findings of one file for tabular output.
func singleReport(a *app, f *messageFile, version, messageType string, findings []validator.Finding) *cli.Report {
	return &cli.Report{
		Units: a.service.Units(),
		Files: []cli.FileReport{{
			File:        f.Name,
			Version:     version,
			MessageType: messageType,
			Findings:    findings,
			Text:        f.Text,
		}},
	}
}
