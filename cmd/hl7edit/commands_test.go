package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oracle-Solution/hl7/pkg/cli"
)

const sampleADT = "MSH|^~\\&|SEND|FAC|RCV|FAC|20240101120000||ADT^A01^ADT_A01|MSG1|P|2.5\r" +
	"EVN|A01|20240101120000\r" +
	"PID|1||12345^^^HOSP^MR~67890^^^SSA^SS||DOE^JOHN^Q||19800101|M\r" +
	"PV1|1|I|WARD^101^A\r"

var invalidSex = strings.Replace(sampleADT, "|M\r", "|X\r", 1)

// execute runs hl7edit with args and returns the exit code and output.
func execute(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("HL7_TELEMETRY_LOGGING_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append(args, "--no-color"), strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGetCmd(t *testing.T) {
	file := writeFile(t, t.TempDir(), "adt.hl7", sampleADT)

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantOut  string
	}{
		{name: "family name", path: "PID-5-1", wantCode: cli.ExitOK, wantOut: "DOE\n"},
		{name: "second repetition", path: "PID-3(1)-1", wantCode: cli.ExitOK, wantOut: "67890\n"},
		{name: "absent field", path: "PID-13", wantCode: cli.ExitOK, wantOut: "\n"},
		{name: "message type", path: "MSH-9-2", wantCode: cli.ExitOK, wantOut: "A01\n"},
		{name: "beyond the segment", path: "PID-99", wantCode: cli.ExitInput},
		{name: "malformed path", path: "PID-", wantCode: cli.ExitInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, stderr := execute(t, "", "get", file, tt.path)
			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (stderr %q)", code, tt.wantCode, stderr)
			}
			if tt.wantCode == cli.ExitOK && out != tt.wantOut {
				t.Errorf("output = %q, want %q", out, tt.wantOut)
			}
			if tt.wantCode != cli.ExitOK && !strings.HasPrefix(stderr, "Error: ") {
				t.Errorf("stderr = %q, want an error", stderr)
			}
		})
	}
}

func TestGetCmd_JSON(t *testing.T) {
	code, out, stderr := execute(t, sampleADT, "get", "-", "PID-5", "--format", "json")
	if code != cli.ExitOK {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}

	var got struct {
		Path  string `json:"path"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	// A field-level read returns the first component.
	if got.Path != "PID-5" || got.Value != "DOE" {
		t.Errorf("result = %+v, want PID-5 DOE", got)
	}
}

func TestSetCmd_Stdout(t *testing.T) {
	code, out, stderr := execute(t, sampleADT, "set", "-", "PID-5-2", "JANE", "--lf")
	if code != cli.ExitOK {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}

	want := strings.ReplaceAll(strings.Replace(sampleADT, "DOE^JOHN^Q", "DOE^JANE^Q", 1), "\r", "\n")
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestSetCmd_Write(t *testing.T) {
	lfText := strings.ReplaceAll(sampleADT, "\r", "\n")
	file := writeFile(t, t.TempDir(), "adt.hl7", lfText)

	code, out, stderr := execute(t, "", "set", file, "PID-8", "F", "-w")
	if code != cli.ExitOK {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}
	if !strings.Contains(out, "PID-8 set in "+file) {
		t.Errorf("output = %q, want a confirmation", out)
	}

	got, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if want := strings.Replace(lfText, "|M\n", "|F\n", 1); string(got) != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestValidateCmd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.hl7", sampleADT)
	bad := writeFile(t, dir, "bad.hl7", invalidSex)
	writeFile(t, dir, "notes.md", "not a message")

	code, out, stderr := execute(t, "", "validate", dir, "--jobs", "2")
	if code != cli.ExitFindings {
		t.Fatalf("exit code = %d, want %d (stderr %q)", code, cli.ExitFindings, stderr)
	}
	if !strings.Contains(out, bad+":3:") {
		t.Errorf("output has no finding for %s:\n%s", bad, out)
	}
	if !strings.Contains(out, "PID-8") {
		t.Errorf("output does not name PID-8:\n%s", out)
	}
	if !strings.Contains(out, "2 file(s): 1 error(s), 0 info(s), 1 failed") {
		t.Errorf("output has no summary:\n%s", out)
	}
	if stderr != "" {
		t.Errorf("stderr = %q, want empty for findings", stderr)
	}
}

func TestValidateCmd_Width(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		notWant string
	}{
		{"default width keeps the line", nil, "PID|1||12345", ""},
		{"narrow width cuts the line", []string{"--width", "20"}, "  ...1|X\n", "PID|1||12345"},
		{"zero never cuts", []string{"--width", "0"}, "PID|1||12345", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"validate", "-"}, tt.args...)
			code, out, _ := execute(t, invalidSex, args...)
			if code != cli.ExitFindings {
				t.Fatalf("exit code = %d, want %d", code, cli.ExitFindings)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output does not contain %q:\n%s", tt.want, out)
			}
			if tt.notWant != "" && strings.Contains(out, tt.notWant) {
				t.Errorf("output contains %q:\n%s", tt.notWant, out)
			}
		})
	}
}

func TestValidateCmd_Clean(t *testing.T) {
	code, out, _ := execute(t, sampleADT, "validate", "-")
	if code != cli.ExitOK {
		t.Fatalf("exit code = %d, want %d", code, cli.ExitOK)
	}
	if !strings.Contains(out, "1 file(s): 0 error(s), 0 info(s), 0 failed") {
		t.Errorf("output = %q", out)
	}
}

func TestValidateCmd_CSV(t *testing.T) {
	code, out, _ := execute(t, invalidSex, "validate", "-", "--format", "csv")
	if code != cli.ExitFindings {
		t.Fatalf("exit code = %d, want %d", code, cli.ExitFindings)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header and one finding:\n%s", len(lines), out)
	}
	if lines[0] != "file,line,column,severity,rule,path,message" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "-,3,") || !strings.Contains(lines[1], "ERROR") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestInspectCmd_At(t *testing.T) {
	code, out, stderr := execute(t, sampleADT, "inspect", "-", "--at", "PID-5")
	if code != cli.ExitOK {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}

	for _, want := range []string{
		"Version:     2.5\n",
		"Type:        ADT^A01\n",
		"Path:        PID-5-1\n",
		"Value:       DOE\n",
		"Findings:    0 error(s), 0 info(s)\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output has no %q:\n%s", want, out)
		}
	}
}

func TestInspectCmd_Malformed(t *testing.T) {
	code, _, stderr := execute(t, "MSH|^~\\&|SEND\r|no type code", "inspect", "-")
	if code != cli.ExitInput {
		t.Errorf("exit code = %d, want %d (stderr %q)", code, cli.ExitInput, stderr)
	}
}

func TestDictionaryCmd(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		want     []string
	}{
		{
			name:     "segment",
			args:     []string{"PID"},
			wantCode: cli.ExitOK,
			want:     []string{"PID-5", "Patient Name", "XPN"},
		},
		{
			name:     "table",
			args:     []string{"--table", "0001"},
			wantCode: cli.ExitOK,
			want:     []string{"Table 0001 Administrative Sex", "Female"},
		},
		{
			name:     "versions",
			args:     []string{"--versions"},
			wantCode: cli.ExitOK,
			want:     []string{"2.3", "2.5.1", "2.6"},
		},
		{
			name:     "path",
			args:     []string{"PID-5-1"},
			wantCode: cli.ExitOK,
			want:     []string{"Family Name"},
		},
		{
			name:     "unknown name",
			args:     []string{"NOPE"},
			wantCode: cli.ExitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, stderr := execute(t, "", append([]string{"dictionary"}, tt.args...)...)
			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (stderr %q)", code, tt.wantCode, stderr)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output has no %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestVersionCmd(t *testing.T) {
	code, out, _ := execute(t, "", "version")
	if code != cli.ExitOK {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out, "hl7edit "+Version) {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "HL7 Versions: ") || !strings.Contains(out, "2.5") {
		t.Errorf("output does not list HL7 versions: %q", out)
	}
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "adt.hl7", sampleADT)
	badConfig := writeFile(t, dir, "bad.yaml", "editor:\n  units: furlongs\n")

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown format", args: []string{"get", file, "PID-5", "--format", "xml"}},
		{name: "missing config file", args: []string{"get", file, "PID-5", "--config", filepath.Join(dir, "missing.yaml")}},
		{name: "invalid config", args: []string{"get", file, "PID-5", "--config", badConfig}},
		{name: "invalid units flag", args: []string{"get", file, "PID-5", "--units", "runes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := execute(t, "", tt.args...)
			if code != cli.ExitConfig {
				t.Errorf("exit code = %d, want %d (stderr %q)", code, cli.ExitConfig, stderr)
			}
		})
	}
}

// syncBuffer is a bytes.Buffer safe for the watch goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchCmd(t *testing.T) {
	t.Setenv("HL7_TELEMETRY_LOGGING_LEVEL", "error")
	dir := t.TempDir()
	file := writeFile(t, dir, "adt.hl7", sampleADT)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout, stderr syncBuffer
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"watch", dir, "--no-color", "--progress"}, strings.NewReader(""), &stdout, &stderr)
	}()

	// waitFor polls the output for want, calling poke every half second
	// while it waits.
	waitFor := func(want string, poke func()) {
		t.Helper()
		deadline := time.Now().Add(5 * time.Second)
		for i := 0; !strings.Contains(stdout.String(), want); i++ {
			if time.Now().After(deadline) {
				t.Fatalf("timed out waiting for %q, output:\n%s\nstderr:\n%s", want, stdout.String(), stderr.String())
			}
			if poke != nil && i%25 == 0 {
				poke()
			}
			time.Sleep(20 * time.Millisecond)
		}
	}

	waitFor("1 file(s): 0 error(s), 0 info(s), 0 failed", nil)
	if !strings.Contains(stderr.String(), "Checking: [") {
		t.Errorf("stderr = %q, want the first pass progress", stderr.String())
	}

	// The watcher registers the directory after the first report, so the
	// write is repeated until it is seen.
	waitFor(file+":3:", func() {
		if err := os.WriteFile(file, []byte(invalidSex), 0o644); err != nil {
			t.Error(err)
		}
	})

	cancel()
	select {
	case code := <-done:
		if code != cli.ExitOK {
			t.Errorf("exit code = %d, want %d (stderr %q)", code, cli.ExitOK, stderr.String())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}
