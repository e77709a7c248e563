package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/oracle-Solution/hl7/pkg/hl7/mapper"
	"github.com/oracle-Solution/hl7/pkg/hl7/message"
	"github.com/oracle-Solution/hl7/pkg/hl7/terser"
	"github.com/oracle-Solution/hl7/pkg/hl7/validator"
)

// FileReport holds the validation result of one file.
type FileReport struct {
	File        string              `json:"file"`
	Version     string              `json:"version"`
	MessageType string              `json:"message_type,omitempty"`
	Findings    []validator.Finding `json:"findings"`
	Error       string              `json:"error,omitempty"`

	// Text is the validated text; finding spans are offsets into it.
	Text string `json:"-"`
}

// Report is the result of validating a set of files.
type Report struct {
	Files []FileReport `json:"files"`

	// Units is the unit of finding spans.
	Units mapper.Units `json:"-"`
}

// Summary counts errors and infos over all files and the files that failed
// validation, counting unreadable files as failed.
func (r *Report) Summary() (errs, infos, failed int) {
	for _, f := range r.Files {
		e, i := validator.Count(f.Findings)
		errs += e
		infos += i
		if e > 0 || f.Error != "" {
			failed++
		}
	}
	return errs, infos, failed
}

// Header implements Tabular.
func (r *Report) Header() []string {
	return []string{"file", "line", "column", "severity", "rule", "path", "message"}
}

// Rows implements Tabular with one row per finding. Files that could not be
// validated get a row with the error as message.
func (r *Report) Rows() [][]string {
	var rows [][]string
	for _, f := range r.Files {
		if f.Error != "" {
			rows = append(rows, []string{f.File, "", "", "ERROR", "", "", f.Error})
			continue
		}
		for _, finding := range f.Findings {
			s := NewSnippet(f.Text, byteSpan(r.Units, f.Text, finding.Span), 0)
			rows = append(rows, []string{
				f.File,
				strconv.Itoa(s.Line),
				strconv.Itoa(s.Column),
				finding.Severity.String(),
				finding.Rule,
				terser.Format(finding.Position),
				finding.Message,
			})
		}
	}
	return rows
}

// FindingPrinter writes findings as
//
//	file:line:col: SEVERITY rule PATH: message
//
// followed by the segment line with the span underlined.
type FindingPrinter struct {
	w        io.Writer
	units    mapper.Units
	width    int
	snippets bool

	errColor  *color.Color
	infoColor *color.Color
	pathColor *color.Color
	markColor *color.Color
}

// NewFindingPrinter creates a printer writing to w. Spans of printed findings
// are in units.
func NewFindingPrinter(w io.Writer, units mapper.Units, noColor bool) *FindingPrinter {
	p := &FindingPrinter{
		w:         w,
		units:     units,
		width:     DefaultSnippetWidth,
		snippets:  true,
		errColor:  color.New(color.FgRed, color.Bold),
		infoColor: color.New(color.FgGreen),
		pathColor: color.New(color.FgCyan),
		markColor: color.New(color.FgYellow, color.Bold),
	}
	if noColor {
		for _, c := range []*color.Color{p.errColor, p.infoColor, p.pathColor, p.markColor} {
			c.DisableColor()
		}
	}
	return p
}

// SetSnippets turns the source lines under each finding on or off.
func (p *FindingPrinter) SetSnippets(on bool) {
	p.snippets = on
}

// SetWidth sets the display width snippets are cut to.
func (p *FindingPrinter) SetWidth(width int) {
	p.width = width
}

// Print writes the findings of one text.
func (p *FindingPrinter) Print(file, text string, findings []validator.Finding) error {
	for _, f := range findings {
		s := NewSnippet(text, byteSpan(p.units, text, f.Span), p.width)

		sev := p.infoColor
		if f.Severity == validator.SeverityError {
			sev = p.errColor
		}
		if _, err := fmt.Fprintf(p.w, "%s:%d:%d: %s %s %s: %s\n",
			file, s.Line, s.Column,
			sev.Sprint(f.Severity), f.Rule, p.pathColor.Sprint(terser.Format(f.Position)), f.Message,
		); err != nil {
			return err
		}
		if !p.snippets {
			continue
		}
		if _, err := fmt.Fprintf(p.w, "  %s\n  %s\n", s.Text, p.markColor.Sprint(s.Marker)); err != nil {
			return err
		}
	}
	return nil
}

// PrintReport writes every file of r followed by a summary line.
func (p *FindingPrinter) PrintReport(r *Report) error {
	for _, f := range r.Files {
		if f.Error != "" {
			if _, err := fmt.Fprintf(p.w, "%s: %s %s\n", f.File, p.errColor.Sprint("ERROR"), f.Error); err != nil {
				return err
			}
			continue
		}
		if err := p.Print(f.File, f.Text, f.Findings); err != nil {
			return err
		}
	}
	errs, infos, failed := r.Summary()
	_, err := fmt.Fprintf(p.w, "%d file(s): %d error(s), %d info(s), %d failed\n", len(r.Files), errs, infos, failed)
	return err
}

// byteSpan converts a span in units back to bytes of text.
func byteSpan(units mapper.Units, text string, span message.Span) message.Span {
	if units == mapper.UnitsBytes {
		return span
	}
	return message.Span{Start: units.ToBytes(text, span.Start), End: units.ToBytes(text, span.End)}
}
