package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func jsonLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: FormatJSON}, "quorumbot", buf)
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid json log line %q: %v", line, err)
	}
	return m
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "not-a-level")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered at info level, got %q", buf.String())
	}
	l.Info("shown")
	if buf.Len() == 0 {
		t.Fatal("expected info line to be written")
	}
}

func TestJSONOutputCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "debug").WithComponent("orchestrator")

	l.Info("dispatch finished", Fields(FieldChatID, 42, FieldBackend, "grok"))

	m := decodeLine(t, &buf)
	if m["message"] != "dispatch finished" {
		t.Errorf("message = %v", m["message"])
	}
	if m[FieldComponent] != "orchestrator" {
		t.Errorf("component = %v", m[FieldComponent])
	}
	if m[FieldBackend] != "grok" {
		t.Errorf("backend = %v", m[FieldBackend])
	}
	if m[FieldChatID] != float64(42) {
		t.Errorf("chat_id = %v", m[FieldChatID])
	}
	if m["service"] != "quorumbot" {
		t.Errorf("service = %v", m["service"])
	}
}

func TestWithContextAddsEventID(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "info")

	ctx := ContextWithEventID(context.Background(), "evt-1")
	l.WithContext(ctx).Warn("slow backend")

	m := decodeLine(t, &buf)
	if m[FieldEventID] != "evt-1" {
		t.Errorf("event_id = %v", m[FieldEventID])
	}
}

func TestWithContextWithoutEventID(t *testing.T) {
	l := Nop()
	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected the same logger when ctx carries no event id")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("nothing")
	l.WithComponent("x").Error("still nothing")
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: FormatConsole, NoColor: true}, "quorumbot", &buf)
	l.Info("hello", Fields("k", "v"))

	out := buf.String()
	for _, want := range []string{"[QUO]", "[INF]", "hello", "k:", "v"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output %q missing %q", out, want)
		}
	}
}

func TestInitSetsContextLogger(t *testing.T) {
	saved := zerolog.DefaultContextLogger
	t.Cleanup(func() { zerolog.DefaultContextLogger = saved })

	cfg := &Config{Format: FormatJSON, Output: "stderr"}
	l := Init(cfg, "quorumbot")
	if cfg.Level != "info" {
		t.Errorf("Init did not apply defaults: %+v", cfg)
	}
	if zerolog.DefaultContextLogger == nil || zerolog.DefaultContextLogger.GetLevel() != l.zl.GetLevel() {
		t.Error("expected Init to install the context logger")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"valid console", Config{Level: "debug", Format: "console"}, false},
		{"invalid level", Config{Level: "bad", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		input    []any
		expected map[string]any
	}{
		{"key-value pairs", []any{"op", "save", "id", 42}, map[string]any{"op": "save", "id": 42}},
		{"odd number of args", []any{"op", "save", "trailing"}, map[string]any{"op": "save"}},
		{"empty", []any{}, map[string]any{}},
		{"non-string key skipped", []any{123, "value", "key", "val"}, map[string]any{"key": "val"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Fields(tc.input...)
			if len(got) != len(tc.expected) {
				t.Fatalf("expected %d fields, got %d", len(tc.expected), len(got))
			}
			for k, v := range tc.expected {
				if got[k] != v {
					t.Errorf("field %q: expected %v, got %v", k, v, got[k])
				}
			}
		})
	}
}

func TestDurationFields(t *testing.T) {
	df := DurationFields("call", 1500*time.Millisecond)
	if df[FieldOperation] != "call" || df[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", df[FieldDuration])
	}
}
