package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/oracle-Solution/hl7/pkg/config"
)

func newTestLogger(t *testing.T, cfg Config) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	cfg.Writer = buf
	logger, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return logger, buf
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"json", Config{Level: "info", Format: "json", RedactPHI: true}, false},
		{"text", Config{Level: "debug", Format: "text"}, false},
		{"console", Config{Level: "warn", Format: "console"}, false},
		{"defaults", Config{}, false},
		{"invalid level", Config{Level: "loud"}, true},
		{"invalid format", Config{Format: "xml"}, true},
		{"invalid pattern", Config{RedactPHI: true, RedactPatterns: []config.RedactPattern{{Name: "bad", Pattern: "("}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Writer = &bytes.Buffer{}
			_, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level   string
		log     func(*Logger)
		wantLog bool
	}{
		{"debug", func(l *Logger) { l.Debug("m") }, true},
		{"info", func(l *Logger) { l.Debug("m") }, false},
		{"info", func(l *Logger) { l.Info("m") }, true},
		{"warn", func(l *Logger) { l.Info("m") }, false},
		{"warn", func(l *Logger) { l.Warn("m") }, true},
		{"error", func(l *Logger) { l.Warn("m") }, false},
		{"error", func(l *Logger) { l.Error("m") }, true},
	}

	for _, tt := range tests {
		logger, buf := newTestLogger(t, Config{Level: tt.level, Format: "text"})
		tt.log(logger)
		if got := buf.Len() > 0; got != tt.wantLog {
			t.Errorf("level %s: logged = %v, want %v", tt.level, got, tt.wantLog)
		}
	}
}

func TestLogger_JSONFields(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Level: "info", Format: "json"})

	logger.With("component", "editor").Info("inspect", "path", "PID-5-1", "findings", 2)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if record["msg"] != "inspect" || record["path"] != "PID-5-1" || record["component"] != "editor" {
		t.Errorf("record = %v", record)
	}
	if record["findings"] != float64(2) {
		t.Errorf("findings = %v, want 2", record["findings"])
	}
}

func TestLogger_Redaction(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Level: "info", Format: "json", RedactPHI: true})

	logger.Info("value set",
		"path", "PID-5-1",
		"value", "DOE^JOHN",
		"message", "MSH|^~\\&|A|B\rPID|1||ZX9ID||DOE^JOHN\r",
		"note", "call 555-123-4567 or mail jdoe@example.org, SSN 123-45-6789",
	)

	out := buf.String()
	for _, phi := range []string{"DOE^JOHN", "ZX9ID", "555-123-4567", "jdoe@", "123-45-6789"} {
		if strings.Contains(out, phi) {
			t.Errorf("output contains %q: %s", phi, out)
		}
	}
	for _, kept := range []string{"PID-5-1", "[redacted 8 bytes]", "PID|***", "example.org"} {
		if !strings.Contains(out, kept) {
			t.Errorf("output is missing %q: %s", kept, out)
		}
	}
}

func TestLogger_NoRedaction(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Level: "info", Format: "text"})

	logger.Info("value set", "value", "DOE")
	if !strings.Contains(buf.String(), "value=DOE") {
		t.Errorf("output = %s, want unredacted value", buf.String())
	}
}

func TestLogger_ContextMethods(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Level: "debug", Format: "text"})

	ctx := WithOperationID(context.Background(), "op-1")
	ctx = WithOperation(ctx, "set")
	ctx = WithVersion(ctx, "2.5")

	logger.DebugContext(ctx, "debug")
	logger.InfoContext(ctx, "info")
	logger.WarnContext(ctx, "warn")
	logger.ErrorContext(ctx, "error")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	for _, line := range lines {
		for _, want := range []string{"op_id=op-1", "operation=set", "hl7_version=2.5"} {
			if !strings.Contains(line, want) {
				t.Errorf("line %q is missing %q", line, want)
			}
		}
	}

	buf.Reset()
	logger.WithContext(ctx).Info("bound")
	if !strings.Contains(buf.String(), "op_id=op-1") {
		t.Errorf("WithContext() output = %s", buf.String())
	}
	if logger.WithContext(context.Background()) != logger {
		t.Error("WithContext() with an empty context should return the same logger")
	}
}

func TestLogger_ConsoleOmitsTime(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Level: "info", Format: "console"})
	logger.Info("hello")

	if strings.Contains(buf.String(), "time=") {
		t.Errorf("console output contains a timestamp: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("console output = %s", buf.String())
	}
}

func TestLogger_AddSource(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Level: "info", Format: "text", AddSource: true})
	logger.Slog().Info("direct")

	if !strings.Contains(buf.String(), "source=") {
		t.Errorf("output = %s, want source attribute", buf.String())
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Error("discarded", "value", "x")
	logger.With("a", 1).InfoContext(context.Background(), "discarded")
}

func TestFromConfig(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := FromConfig(config.LoggingConfig{Level: "warn", Format: "json", RedactPHI: true}, buf)

	if cfg.Level != "warn" || cfg.Format != "json" || !cfg.RedactPHI || cfg.Writer != buf {
		t.Errorf("FromConfig() = %+v", cfg)
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"debug", "INFO", "", "warning", "Error"} {
		if _, err := parseLevel(s); err != nil {
			t.Errorf("parseLevel(%q) error = %v", s, err)
		}
	}
	if _, err := parseLevel("trace"); err == nil {
		t.Error("parseLevel(trace) error = nil, want error")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    LogFormat
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"TEXT", FormatText, false},
		{"", FormatText, false},
		{"console", FormatConsole, false},
		{"xml", FormatText, true},
	}
	for _, tt := range tests {
		got, err := parseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseFormat(%q) = %v, %v, want %v, wantErr %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}
