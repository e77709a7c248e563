package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oracle-Solution/hl7/pkg/cli"
	"github.com/oracle-Solution/hl7/pkg/hl7/editor"
)

func newGetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get FILE PATH",
		Short: "Print the value at a terser path",
		Long: `Print the value at a terser path. Paths name a segment, its occurrence,
a field, its repetition, a component and a subcomponent; occurrence and
repetition are 0-based and may be left out for the first one.

A path the version allows but the message does not carry prints as an empty
value. A path the version does not allow is an error.

Examples:
  hl7edit get adt.hl7 PID-5-1
  hl7edit get oru.hl7 'OBX(2)-5'
  hl7edit get adt.hl7 'PID-3(1)-1' --format json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, opts, args[0], args[1])
		},
	}
}

func runGet(cmd *cobra.Command, opts *globalOptions, file, path string) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.close()

	f, err := a.read(file)
	if err != nil {
		return err
	}

	res, err := a.service.Lookup(a.context(cmd), editor.LookupRequest{
		Text:    f.Text,
		Version: a.version(f),
		Path:    path,
	})
	if err != nil {
		return err
	}

	switch a.format {
	case cli.FormatText:
		_, err = fmt.Fprintln(a.stdout, res.Value)
		return err
	case cli.FormatCSV:
		return a.output(lookupRow{res})
	default:
		return a.output(res)
	}
}

// lookupRow is a lookup result as a one-row table.
type lookupRow struct {
	*editor.LookupResult
}

func (lookupRow) Header() []string {
	return []string{"path", "value", "description", "offset"}
}

func (r lookupRow) Rows() [][]string {
	offset := ""
	if r.Caret.Move {
		offset = fmt.Sprint(r.Caret.Offset)
	}
	return [][]string{{r.Path, r.Value, r.Description, offset}}
}
