package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"json", Config{Level: "info", Format: "json"}, false},
		{"text", Config{Level: "debug", Format: "text"}, false},
		{"console", Config{Level: "warn", Format: "console"}, false},
		{"defaults", Config{}, false},
		{"uppercase", Config{Level: "ERROR", Format: "JSON"}, false},
		{"invalid level", Config{Level: "verbose", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Writer = &bytes.Buffer{}
			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

func TestNew_LevelVar(t *testing.T) {
	var buf bytes.Buffer
	lv := &slog.LevelVar{}
	logger, err := New(Config{Level: "warn", Format: "text", Writer: &buf, LevelVar: lv})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if lv.Level() != slog.LevelWarn {
		t.Fatalf("LevelVar = %v, want WARN", lv.Level())
	}

	logger.Info("hidden")
	lv.Set(slog.LevelDebug)
	logger.Debug("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("output = %q", out)
	}
}

func TestNew_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Debug("hidden")
	logger.Info("rule created", "rule_id", "abc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "rule created" || entry["rule_id"] != "abc" {
		t.Errorf("entry = %v", entry)
	}
}

func TestNew_ConsoleOmitsTime(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Format: "console", Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("ready")

	if strings.Contains(buf.String(), "time=") {
		t.Errorf("console output contains time: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "msg=ready") {
		t.Errorf("console output = %q", buf.String())
	}
}

func TestNew_Redaction(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "debug", Format: "text", Writer: buf, RedactKeys: []string{"Actual"}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Debug("condition evaluated", "condition", "salary > 1000", "actual", 250000)

	out := buf.String()
	if strings.Contains(out, "250000") {
		t.Errorf("output leaks redacted value: %q", out)
	}
	if !strings.Contains(out, "actual="+RedactedValue) {
		t.Errorf("output = %q, want redacted actual", out)
	}
	if !strings.Contains(out, `condition="salary > 1000"`) {
		t.Errorf("output = %q, want condition kept", out)
	}
}

func TestRedactor_RedactArgs(t *testing.T) {
	r := NewRedactor([]string{"record"})
	args := []any{"record", map[string]any{"age": 1}, "result", true}

	got := r.RedactArgs(args...)
	if got[1] != RedactedValue {
		t.Errorf("got[1] = %v, want %q", got[1], RedactedValue)
	}
	if got[3] != true {
		t.Errorf("got[3] = %v, want true", got[3])
	}
	if _, ok := args[1].(map[string]any); !ok {
		t.Error("RedactArgs modified its input")
	}

	if NewRedactor(nil).Enabled() {
		t.Error("empty redactor reports Enabled() = true")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	base := slog.New(slog.NewTextHandler(buf, nil))

	ctx := WithRuleID(WithRequestID(context.Background(), "req-1"), "rule-9")
	FromContext(ctx, base).Info("evaluated")

	out := buf.String()
	if !strings.Contains(out, "request_id=req-1") || !strings.Contains(out, "rule_id=rule-9") {
		t.Errorf("output = %q, want context fields", out)
	}

	if FromContext(context.Background(), base) != base {
		t.Error("FromContext without fields should return the same logger")
	}
	if GetRequestID(context.Background()) != "" {
		t.Error("GetRequestID on empty context should be empty")
	}
}

func TestDiscard(t *testing.T) {
	if Discard().Enabled(context.Background(), slog.LevelError) {
		t.Error("Discard() logger is enabled for errors")
	}
}
