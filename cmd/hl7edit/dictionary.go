package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oracle-Solution/hl7/pkg/cli"
	"github.com/oracle-Solution/hl7/pkg/hl7/dictionary"
	"github.com/oracle-Solution/hl7/pkg/hl7/terser"
)

type dictionaryOptions struct {
	versions bool
	table    string
}

func newDictionaryCmd(opts *globalOptions) *cobra.Command {
	var flags dictionaryOptions

	cmd := &cobra.Command{
		Use:     "dictionary [SEGMENT|DATATYPE|PATH]",
		Aliases: []string{"dict"},
		Short:   "Browse the data dictionary of an HL7 version",
		Long: `List what the data dictionary of an HL7 version defines: the segments,
the fields of a segment, the components of a datatype, the values of a
coded table, or the description of a terser path.

Site dictionaries listed under dictionary.paths in the configuration are
layered over the built-in ones.

Examples:
  hl7edit dictionary                    # segments of the default version
  hl7edit dictionary PID --hl7-version 2.3
  hl7edit dictionary XPN
  hl7edit dictionary PID-5-1
  hl7edit dictionary --table 0001
  hl7edit dictionary --versions`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDictionary(cmd, opts, &flags, args)
		},
	}

	cmd.Flags().BoolVar(&flags.versions, "versions", false, "list the known HL7 versions")
	cmd.Flags().StringVar(&flags.table, "table", "", "list the values of a coded table")
	return cmd
}

// dictTable is a dictionary listing. It is written as columns, CSV or JSON.
type dictTable struct {
	Version string     `json:"version,omitempty"`
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Data    [][]string `json:"rows"`
}

func (t *dictTable) Header() []string { return t.Columns }
func (t *dictTable) Rows() [][]string { return t.Data }

func runDictionary(cmd *cobra.Command, opts *globalOptions, flags *dictionaryOptions, args []string) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.close()

	registry := a.service.Registry()
	if flags.versions {
		return a.outputTable(versionTable(registry))
	}

	dict, err := registry.Version(a.service.DefaultVersion())
	if err != nil {
		return cli.NewCommandError("dictionary", err)
	}

	var table *dictTable
	switch {
	case flags.table != "":
		table, err = codeTable(dict, flags.table)
	case len(args) == 0:
		table = segmentTable(dict)
	default:
		table, err = lookupDefinition(dict, args[0])
	}
	if err != nil {
		return cli.NewCommandError("dictionary", err)
	}
	table.Version = dict.ID
	return a.outputTable(table)
}

// outputTable writes t, with its title first in text output.
func (a *app) outputTable(t *dictTable) error {
	if a.format == cli.FormatText && t.Title != "" {
		if _, err := fmt.Fprintf(a.stdout, "%s\n\n", t.Title); err != nil {
			return err
		}
	}
	return a.output(t)
}

func versionTable(registry *dictionary.Registry) *dictTable {
	t := &dictTable{Title: "HL7 versions", Columns: []string{"version", "description"}}
	for _, id := range registry.Versions() {
		v, err := registry.Version(id)
		if err != nil {
			continue
		}
		t.Data = append(t.Data, []string{id, v.Description})
	}
	return t
}

func segmentTable(dict *dictionary.Version) *dictTable {
	t := &dictTable{
		Title:   fmt.Sprintf("Segments of HL7 %s", dict.ID),
		Columns: []string{"segment", "fields", "description"},
	}
	for _, name := range dict.SegmentNames() {
		seg, _ := dict.Segment(name)
		t.Data = append(t.Data, []string{name, strconv.Itoa(len(seg.Fields)), seg.Description})
	}
	return t
}

func fieldTable(seg *dictionary.SegmentDef) *dictTable {
	t := &dictTable{
		Title:   fmt.Sprintf("%s %s", seg.Name, seg.Description),
		Columns: []string{"field", "name", "type", "required", "repeatable", "length", "table"},
	}
	for i, f := range seg.Fields {
		length := ""
		if f.MaxLength > 0 {
			length = strconv.Itoa(f.MaxLength)
		}
		t.Data = append(t.Data, []string{
			fmt.Sprintf("%s-%d", seg.Name, i+1),
			f.Name,
			f.DataType,
			yesNo(f.Required),
			yesNo(f.Repeatable),
			length,
			f.Table,
		})
	}
	return t
}

func componentTable(title string, dt *dictionary.DataTypeDef) *dictTable {
	t := &dictTable{
		Title:   title,
		Columns: []string{"component", "name", "type", "table"},
	}
	for i, c := range dt.Components {
		t.Data = append(t.Data, []string{strconv.Itoa(i + 1), c.Name, c.DataType, c.Table})
	}
	return t
}

func codeTable(dict *dictionary.Version, id string) (*dictTable, error) {
	table, ok := dict.Table(id)
	if !ok {
		return nil, fmt.Errorf("HL7 %s has no table %q", dict.ID, id)
	}
	t := &dictTable{
		Title:   fmt.Sprintf("Table %s %s", table.ID, table.Description),
		Columns: []string{"code", "meaning"},
	}
	for _, code := range table.Codes() {
		t.Data = append(t.Data, []string{code, table.Values[code]})
	}
	return t, nil
}

// lookupDefinition resolves a segment name, a datatype name or a terser path.
func lookupDefinition(dict *dictionary.Version, arg string) (*dictTable, error) {
	if seg, ok := dict.Segment(arg); ok {
		return fieldTable(seg), nil
	}
	if dt, ok := dict.DataType(arg); ok {
		title := fmt.Sprintf("%s %s", dt.Name, dt.Description)
		if !dt.IsComposite() {
			title += " (primitive)"
		}
		return componentTable(title, dt), nil
	}
	if !strings.Contains(arg, "-") {
		return nil, fmt.Errorf("HL7 %s defines no segment or datatype %q", dict.ID, arg)
	}

	pos, err := terser.Parse(arg)
	if err != nil {
		return nil, err
	}
	if _, ok := dict.Segment(pos.Segment); !ok {
		return nil, fmt.Errorf("HL7 %s defines no segment %q", dict.ID, pos.Segment)
	}

	title := dict.Describe(pos)
	leaf := dict.LeafType(pos)
	if dt, ok := dict.DataType(leaf); ok && dt.IsComposite() {
		return componentTable(title, dt), nil
	}
	return &dictTable{Title: title, Columns: []string{"type"}, Data: [][]string{{leaf}}}, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
