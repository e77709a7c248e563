package terser

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/oracle-Solution/hl7/pkg/hl7/dictionary"
	hl7errors "github.com/oracle-Solution/hl7/pkg/hl7/errors"
	"github.com/oracle-Solution/hl7/pkg/hl7/message"
)

const sampleORU = "MSH|^~\\&|LAB|FAC|EHR|FAC|20240101120000||ORU^R01^ORU_R01|MSG2|P|2.5\r" +
	"PID|1||12345^^^HOSP^MR~67890^^^SSA^SS||DOE^JOHN^Q||19800101|M\r" +
	"OBR|1|||GLU^Glucose\r" +
	"OBX|1|NM|GLU^Glucose||182|mg/dL|||||F\r" +
	"OBX|2|ST|NOTE||fasting"

func newTerser(t *testing.T, text string) *Terser {
	t.Helper()
	msg, err := message.ParseWithVersion(text, "2.5")
	if err != nil {
		t.Fatalf("ParseWithVersion() error = %v", err)
	}
	dict, err := dictionary.Default().Version("2.5")
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	return New(msg, dict)
}

func TestParse(t *testing.T) {
	tests := []struct {
		path    string
		want    message.Position
		wantErr bool
	}{
		{"PID", message.Position{Segment: "PID", Occurrence: 1}, false},
		{"PID-5", message.Position{Segment: "PID", Occurrence: 1, Field: 5, Repetition: 1}, false},
		{"PID-5-1", message.Position{Segment: "PID", Occurrence: 1, Field: 5, Repetition: 1, Component: 1}, false},
		{"PID-5-1-2", message.Position{Segment: "PID", Occurrence: 1, Field: 5, Repetition: 1, Component: 1, Subcomponent: 2}, false},
		{"OBX(1)-5(2)-1", message.Position{Segment: "OBX", Occurrence: 2, Field: 5, Repetition: 3, Component: 1}, false},
		{"/.MSH-9-2", message.Position{Segment: "MSH", Occurrence: 1, Field: 9, Repetition: 1, Component: 2}, false},
		{"/PID-3(0)", message.Position{Segment: "PID", Occurrence: 1, Field: 3, Repetition: 1}, false},
		{" PID-5 ", message.Position{Segment: "PID", Occurrence: 1, Field: 5, Repetition: 1}, false},
		{"Z01-1", message.Position{Segment: "Z01", Occurrence: 1, Field: 1, Repetition: 1}, false},
		{"", message.Position{}, true},
		{"A-1-2", message.Position{Segment: "A", Occurrence: 1, Field: 1, Repetition: 1, Component: 2}, false},
		{"pid-5", message.Position{Segment: "pid", Occurrence: 1, Field: 5, Repetition: 1}, false},
		{"PID-", message.Position{}, true},
		{"PID-0", message.Position{}, true},
		{"PID-5-0", message.Position{}, true},
		{"PID-5-1-0", message.Position{}, true},
		{"PID-5-1-1-1", message.Position{}, true},
		{"PID.5", message.Position{}, true},
		{"PID(x)-5", message.Position{}, true},
		{"PID-99999999999999999999", message.Position{}, true},
		{"PATIENT/PID-5", message.Position{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Parse(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, hl7errors.ErrInvalidPath) {
					t.Errorf("Parse() error = %v, want ErrInvalidPath", err)
				}
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPathToPosition_LowerCaseSegment(t *testing.T) {
	tr := newTerser(t, sampleORU)

	_, err := tr.PathToPosition("pid-5")
	var perr *hl7errors.InvalidPathError
	if !errors.As(err, &perr) {
		t.Fatalf("PathToPosition() error = %v, want *InvalidPathError", err)
	}
	if perr.Suggestion != "Did you mean 'PID'?" {
		t.Errorf("Suggestion = %q", perr.Suggestion)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		pos  message.Position
		want string
	}{
		{message.Position{}, ""},
		{message.Position{Segment: "PID"}, "PID"},
		{message.Position{Segment: "PID", Field: 5}, "PID-5"},
		{message.Position{Segment: "PID", Occurrence: 1, Field: 5, Repetition: 1, Component: 1}, "PID-5-1"},
		{message.Position{Segment: "OBX", Occurrence: 2, Field: 5, Repetition: 3, Component: 1, Subcomponent: 2}, "OBX(1)-5(2)-1-2"},
		{message.Position{Segment: "OBX", Occurrence: 3}, "OBX(2)"},
	}
	for _, tt := range tests {
		if got := Format(tt.pos); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.pos, got, tt.want)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	tr := newTerser(t, sampleORU)
	tr.Message().WalkLeaves(func(pos message.Position, _ *message.Subcomponent) bool {
		got, err := Parse(Format(pos))
		if err != nil {
			t.Errorf("Parse(Format(%v)) error = %v", pos, err)
			return true
		}
		if got != pos.Normalize() {
			t.Errorf("Parse(Format(%v)) = %v", pos, got)
		}
		return true
	})
}

func TestPathToPosition(t *testing.T) {
	tr := newTerser(t, sampleORU)

	tests := []struct {
		name       string
		path       string
		want       message.Position
		wantReason string
	}{
		{"field", "PID-5", message.Position{Segment: "PID", Occurrence: 1, Field: 5, Repetition: 1}, ""},
		{"second occurrence", "OBX(1)-5", message.Position{Segment: "OBX", Occurrence: 2, Field: 5, Repetition: 1}, ""},
		{"one past the last occurrence", "OBX(2)-5", message.Position{Segment: "OBX", Occurrence: 3, Field: 5, Repetition: 1}, ""},
		{"new segment", "NK1-2", message.Position{Segment: "NK1", Occurrence: 1, Field: 2, Repetition: 1}, ""},
		{"repeating field", "PID-3(1)-4-1", message.Position{Segment: "PID", Occurrence: 1, Field: 3, Repetition: 2, Component: 4, Subcomponent: 1}, ""},
		{"primitive first component", "PID-1-1", message.Position{Segment: "PID", Occurrence: 1, Field: 1, Repetition: 1, Component: 1}, ""},
		{"varies accepts components", "OBX-5-3", message.Position{Segment: "OBX", Occurrence: 1, Field: 5, Repetition: 1, Component: 3}, ""},
		{"Z-segment", "ZPI-4", message.Position{Segment: "ZPI", Occurrence: 1, Field: 4, Repetition: 1}, ""},
		{"occurrence too far", "OBX(3)-5", message.Position{}, "more than one past"},
		{"field beyond definition", "PID-40", message.Position{}, "defines 39 fields"},
		{"non-repeating field", "PID-8(1)", message.Position{}, "does not repeat"},
		{"component beyond datatype", "PID-5-15", message.Position{}, "XPN has 14 components"},
		{"subcomponent beyond datatype", "PID-5-1-6", message.Position{}, "FN has 5 components"},
		{"primitive component", "PID-1-2", message.Position{}, "primitive datatype"},
		{"unknown segment", "PIX-1", message.Position{}, "not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.PathToPosition(tt.path)
			if (err != nil) != (tt.wantReason != "") {
				t.Fatalf("PathToPosition() error = %v, wantErr %v", err, tt.wantReason != "")
			}
			if err != nil {
				var perr *hl7errors.InvalidPathError
				if !errors.As(err, &perr) {
					t.Fatalf("PathToPosition() error = %T, want *InvalidPathError", err)
				}
				if !strings.Contains(perr.Reason, tt.wantReason) {
					t.Errorf("Reason = %q, want it to contain %q", perr.Reason, tt.wantReason)
				}
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("PathToPosition() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPathToPosition_Suggestions(t *testing.T) {
	tr := newTerser(t, sampleORU)

	tests := []struct {
		path string
		want string
	}{
		{"PID-40", "field must be between 1 and 39"},
		{"PIX-1", "Did you mean 'PID'?"},
		{"PID-1-2", "component must be 1"},
	}
	for _, tt := range tests {
		_, err := tr.PathToPosition(tt.path)
		var perr *hl7errors.InvalidPathError
		if !errors.As(err, &perr) {
			t.Fatalf("PathToPosition(%s) error = %v", tt.path, err)
		}
		if perr.Suggestion != tt.want {
			t.Errorf("PathToPosition(%s) suggestion = %q, want %q", tt.path, perr.Suggestion, tt.want)
		}
	}
}

func TestPathToPosition_NoDictionary(t *testing.T) {
	msg, err := message.ParseWithVersion(sampleORU, "2.5")
	if err != nil {
		t.Fatalf("ParseWithVersion() error = %v", err)
	}
	tr := New(msg, nil)

	if _, err := tr.PathToPosition("PID-99-9"); err != nil {
		t.Errorf("PathToPosition() error = %v, want nil without dictionary", err)
	}
	if _, err := tr.PathToPosition("OBX(5)"); err == nil {
		t.Error("PathToPosition(OBX(5)) error = nil, want error")
	}
	if got := tr.Describe(message.Position{Segment: "PID", Field: 5}); got != "PID-5" {
		t.Errorf("Describe() = %q, want PID-5", got)
	}
}

func TestPositionToPath(t *testing.T) {
	tr := newTerser(t, sampleORU)

	tests := []struct {
		name    string
		pos     message.Position
		want    string
		wantErr bool
	}{
		{"component", message.Position{Segment: "PID", Field: 5, Component: 1}, "PID-5-1", false},
		{"repetition", message.Position{Segment: "PID", Field: 3, Repetition: 2, Component: 1}, "PID-3(1)-1", false},
		{"occurrence", message.Position{Segment: "OBX", Occurrence: 2, Field: 5}, "OBX(1)-5", false},
		{"segment", message.Position{Segment: "OBR"}, "OBR", false},
		{"empty", message.Position{}, "", true},
		{"non-repeating", message.Position{Segment: "PID", Field: 8, Repetition: 2}, "", true},
		{"beyond definition", message.Position{Segment: "PID", Field: 45}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.PositionToPath(tt.pos)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PositionToPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("PositionToPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGet(t *testing.T) {
	tr := newTerser(t, sampleORU)

	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"PID-5-1", "DOE", false},
		{"PID-5", "DOE", false},
		{"PID-5-2", "JOHN", false},
		{"PID-3(1)-1", "67890", false},
		{"PID-3(1)-4", "SSA", false},
		{"OBX(1)-5", "fasting", false},
		{"OBX(2)-5", "", false},
		{"OBX-6", "mg/dL", false},
		{"MSH-1", "|", false},
		{"MSH-2", "^~\\&", false},
		{"MSH-9-2", "R01", false},
		{"PID-13", "", false},
		{"PID", "", false},
		{"OBX(4)-5", "", true},
		{"bad path", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := tr.Get(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Get() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Get() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		value string
		want  string
	}{
		{
			name:  "replace component",
			path:  "PID-5-1",
			value: "SMITH",
			want:  "PID|1||12345^^^HOSP^MR~67890^^^SSA^SS||SMITH^JOHN^Q||19800101|M",
		},
		{
			name:  "add repetition",
			path:  "PID-3(2)-1",
			value: "555",
			want:  "PID|1||12345^^^HOSP^MR~67890^^^SSA^SS~555||DOE^JOHN^Q||19800101|M",
		},
		{
			name:  "escape delimiters",
			path:  "PID-5-2",
			value: "A^B",
			want:  "PID|1||12345^^^HOSP^MR~67890^^^SSA^SS||DOE^A\\S\\B^Q||19800101|M",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTerser(t, sampleORU)
			out, err := tr.Set(tt.path, tt.value)
			if err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			encoded := message.Encode(out)
			if !strings.Contains(encoded, tt.want) {
				t.Errorf("Set() encoded = %q, want it to contain %q", encoded, tt.want)
			}

			got, err := New(out, nil).Get(tt.path)
			if err != nil || got != tt.value {
				t.Errorf("Get() after Set() = %q, %v, want %q", got, err, tt.value)
			}
			if message.Encode(tr.Message()) != sampleORU {
				t.Error("Set() modified the original message")
			}
		})
	}
}

func TestSet_NewOccurrence(t *testing.T) {
	tr := newTerser(t, sampleORU)
	out, err := tr.Set("OBX(2)-5", "new")
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	want := sampleORU + "\rOBX|||||new"
	if got := message.Encode(out); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestSet_Errors(t *testing.T) {
	tr := newTerser(t, sampleORU)

	for _, path := range []string{"MSH-1", "MSH-2", "PID", "PID-40", "nope"} {
		t.Run(path, func(t *testing.T) {
			_, err := tr.Set(path, "x")
			if !errors.Is(err, hl7errors.ErrInvalidPath) {
				t.Errorf("Set() error = %v, want ErrInvalidPath", err)
			}
		})
	}
}

func TestResolveAt(t *testing.T) {
	tr := newTerser(t, sampleORU)

	tests := []struct {
		name string
		pos  message.Position
		want Resolution
	}{
		{
			name: "component",
			pos:  message.Position{Segment: "PID", Field: 5, Component: 1},
			want: Resolution{
				Position:    message.Position{Segment: "PID", Occurrence: 1, Field: 5, Repetition: 1, Component: 1},
				Path:        "PID-5-1",
				Value:       "DOE",
				Description: "PID-5-1 Patient Name (XPN) / Family Name (FN)",
			},
		},
		{
			name: "segment",
			pos:  message.Position{Segment: "OBX", Occurrence: 2},
			want: Resolution{
				Position:    message.Position{Segment: "OBX", Occurrence: 2},
				Path:        "OBX(1)",
				Description: "OBX[2] Observation/Result",
			},
		},
		{
			name: "repetition of a non-repeating field",
			pos:  message.Position{Segment: "PID", Field: 8, Repetition: 2},
			want: Resolution{
				Position:    message.Position{Segment: "PID", Occurrence: 1, Field: 8, Repetition: 2},
				Path:        "PID-8(1)",
				Description: "PID-8[2] Administrative Sex (IS)",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.ResolveAt(tt.pos)
			if err != nil {
				t.Fatalf("ResolveAt() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ResolveAt() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := tr.ResolveAt(message.Position{}); err == nil {
		t.Error("ResolveAt(zero) error = nil, want error")
	}
	if _, err := tr.ResolveAt(message.Position{Segment: "NK1", Field: 1}); !errors.Is(err, hl7errors.ErrInvalidPosition) {
		t.Errorf("ResolveAt(NK1-1) error = %v, want ErrInvalidPosition", err)
	}
}
