package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/oracle-Solution/hl7/pkg/hl7/mapper"
	"github.com/oracle-Solution/hl7/pkg/hl7/message"
	"github.com/oracle-Solution/hl7/pkg/hl7/validator"
)

var snippetFindings = []validator.Finding{
	{
		Severity: validator.SeverityError,
		Rule:     "max-length",
		Message:  "value has 5 characters, PID-3 allows 4",
		Position: message.Position{Segment: "PID", Field: 3},
		Span:     message.Span{Start: 20, End: 25},
	},
	{
		Severity: validator.SeverityInfo,
		Rule:     "datatype",
		Message:  "unusual name",
		Position: message.Position{Segment: "PID", Field: 5, Component: 2},
		Span:     message.Span{Start: 31, End: 35},
	},
}

func TestFindingPrinter_Print(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewFindingPrinter(buf, mapper.UnitsBytes, true)

	if err := p.Print("adt.hl7", snippetText, snippetFindings); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	want := "adt.hl7:2:8: ERROR max-length PID-3: value has 5 characters, PID-3 allows 4\n" +
		"  PID|1||12345||DOE^JOHN\n" +
		"         ^~~~~\n" +
		"adt.hl7:2:19: INFO datatype PID-5-2: unusual name\n" +
		"  PID|1||12345||DOE^JOHN\n" +
		"                    ^~~~\n"
	if got := buf.String(); got != want {
		t.Errorf("Print() =\n%s\nwant\n%s", got, want)
	}
}

func TestFindingPrinter_NoSnippets(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewFindingPrinter(buf, mapper.UnitsBytes, true)
	p.SetSnippets(false)

	if err := p.Print("adt.hl7", snippetText, snippetFindings[:1]); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Errorf("Print() wrote %d lines, want 1", got)
	}
}

func TestFindingPrinter_UTF16Spans(t *testing.T) {
	text := "PID|é|12345"
	findings := []validator.Finding{{
		Severity: validator.SeverityError,
		Rule:     "max-length",
		Message:  "too long",
		Position: message.Position{Segment: "PID", Field: 2},
		Span:     message.Span{Start: 6, End: 11},
	}}

	buf := &bytes.Buffer{}
	p := NewFindingPrinter(buf, mapper.UnitsUTF16, true)
	if err := p.Print("a.hl7", text, findings); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "a.hl7:1:7: ERROR") {
		t.Errorf("Print() = %q, want location 1:7", buf.String())
	}
	if !strings.Contains(buf.String(), "\n        ^~~~~\n") {
		t.Errorf("Print() marker misplaced:\n%s", buf.String())
	}
}

func TestFindingPrinter_Color(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewFindingPrinter(buf, mapper.UnitsBytes, false)
	p.errColor.EnableColor()

	if err := p.Print("adt.hl7", snippetText, snippetFindings[:1]); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("Print() = %q, want escape sequences", buf.String())
	}
}

func TestReport(t *testing.T) {
	r := &Report{
		Files: []FileReport{
			{File: "adt.hl7", Version: "2.5", Text: snippetText, Findings: snippetFindings},
			{File: "ok.hl7", Version: "2.5", Text: "MSH|^~\\&"},
			{File: "bad.hl7", Error: "malformed message: no MSH segment"},
		},
	}

	errs, infos, failed := r.Summary()
	if errs != 1 || infos != 1 || failed != 2 {
		t.Errorf("Summary() = %d, %d, %d, want 1, 1, 2", errs, infos, failed)
	}

	rows := r.Rows()
	if len(rows) != 3 {
		t.Fatalf("Rows() returned %d rows, want 3", len(rows))
	}
	if got := strings.Join(rows[0], ","); got != "adt.hl7,2,8,ERROR,max-length,PID-3,value has 5 characters, PID-3 allows 4" {
		t.Errorf("Rows()[0] = %q", got)
	}
	if rows[2][0] != "bad.hl7" || rows[2][6] == "" {
		t.Errorf("Rows()[2] = %q, want the file error", rows[2])
	}

	out, err := (&CSVFormatter{}).Format(r)
	if err != nil {
		t.Fatalf("CSV Format() error = %v", err)
	}
	if !strings.HasPrefix(string(out), "file,line,column,severity,rule,path,message\n") {
		t.Errorf("CSV Format() = %q", string(out))
	}

	buf := &bytes.Buffer{}
	if err := NewFindingPrinter(buf, mapper.UnitsBytes, true).PrintReport(r); err != nil {
		t.Fatalf("PrintReport() error = %v", err)
	}
	if !strings.Contains(buf.String(), "bad.hl7: ERROR malformed message") {
		t.Errorf("PrintReport() missing file error:\n%s", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "3 file(s): 1 error(s), 1 info(s), 2 failed\n") {
		t.Errorf("PrintReport() summary:\n%s", buf.String())
	}
}
