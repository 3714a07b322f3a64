package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	cfg := &Config{
		Level:  "invalid-level",
		Format: "json",
		Output: "stdout",
	}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, "svc", &buf)

	l.WithComponent("catalog").Info("fetched", Fields("count", 3))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "fetched" {
		t.Errorf("expected message 'fetched', got %v", entry["message"])
	}
	if entry[FieldComponent] != "catalog" {
		t.Errorf("expected component 'catalog', got %v", entry[FieldComponent])
	}
	if entry["count"] != float64(3) {
		t.Errorf("expected count 3, got %v", entry["count"])
	}
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "warn", Format: "json"}, "svc", &buf)

	l.Info("dropped")
	l.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("warn line should be written: %q", out)
	}
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "inventory", &buf)

	l.Info("hello")

	out := buf.String()
	if !strings.Contains(out, "[INV][INF]") {
		t.Errorf("expected service and level tag, got %q", out)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("expected message, got %q", out)
	}
}

func TestWithComponent(t *testing.T) {
	l := NewDefault("test")
	cl := l.WithComponent("handler")
	if cl == nil {
		t.Fatal("expected non-nil logger")
	}
	if cl.service != "test" {
		t.Errorf("service should be preserved, got %q", cl.service)
	}
}

func TestWithContext_NoSpan(t *testing.T) {
	l := NewDefault("test")
	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected the same logger when no span is active")
	}
}

func TestWithContext_Span(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, "svc", &buf)

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	l.WithContext(ctx).Info("traced")

	out := buf.String()
	if !strings.Contains(out, traceID.String()) {
		t.Errorf("expected trace id in output, got %q", out)
	}
	if !strings.Contains(out, spanID.String()) {
		t.Errorf("expected span id in output, got %q", out)
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, "svc", &buf)

	l.WithError(errors.New("boom")).Error("failed")

	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected error in output, got %q", buf.String())
	}
}

// restoreGlobals puts back the package and zerolog globals Init replaces.
func restoreGlobals(t *testing.T) {
	t.Helper()
	prev, prevLog, prevLevel := GetGlobalLogger(), log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		SetGlobalLogger(prev)
		log.Logger = prevLog
		zerolog.SetGlobalLevel(prevLevel)
	})
}

func TestInit(t *testing.T) {
	restoreGlobals(t)
	cfg := Config{
		Format:      "console",
		ServiceName: "init-test",
	}
	Init(&cfg)
	if cfg.Level != "info" {
		t.Errorf("expected defaults applied, got level %q", cfg.Level)
	}
	gl := GetGlobalLogger()
	if gl == nil {
		t.Fatal("expected global logger to be set after Init")
	}
	if gl.service != "init-test" {
		t.Errorf("expected service 'init-test', got %q", gl.service)
	}
}

func TestInitKeepsZerologGlobalLevel(t *testing.T) {
	restoreGlobals(t)
	before := zerolog.GlobalLevel()

	Init(&Config{Level: "error", Format: "console", Output: "stderr", ServiceName: "quiet"})

	if got := zerolog.GlobalLevel(); got != before {
		t.Errorf("expected global level %s to be kept, got %s", before, got)
	}
	if got := log.Logger.GetLevel(); got != zerolog.ErrorLevel {
		t.Errorf("expected console logger at error, got %s", got)
	}

	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "debug", Format: "json"}, "svc", &buf)
	l.Debug("still visible")
	if !strings.Contains(buf.String(), "still visible") {
		t.Errorf("expected debug output from a debug logger after Init, got %q", buf.String())
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	SetGlobalLogger(nil)
	l := GetGlobalLogger()
	if l == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestSetGlobalLogger(t *testing.T) {
	l := NewDefault("custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected the logger passed to SetGlobalLogger")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stdout"}, false},
		{"pretty", Config{Level: "debug", Format: "pretty", Output: "stderr"}, false},
		{"bad level", Config{Level: "loud", Format: "json", Output: "stdout"}, true},
		{"bad format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"bad output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFieldsHelpers(t *testing.T) {
	f := Fields("a", 1, "b")
	if len(f) != 1 || f["a"] != 1 {
		t.Errorf("unexpected fields: %v", f)
	}

	ef := ErrorFields("fetch", errors.New("x"))
	if ef[FieldOperation] != "fetch" || ef[FieldError] != "x" {
		t.Errorf("unexpected error fields: %v", ef)
	}

	df := DurationFields("run", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("unexpected duration fields: %v", df)
	}

	m := MergeWithDuration(MergeWithError(nil, errors.New("y")), time.Second)
	if m[FieldError] != "y" || m[FieldDuration] != int64(1000) {
		t.Errorf("unexpected merged fields: %v", m)
	}
}

func TestConsoleLevelTags(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "debug", Format: "pretty", NoColor: true}, "beer-inventory", &buf)

	l.Debug("d")
	l.Warn("w")
	l.Error("e")

	out := buf.String()
	for _, tag := range []string{"[BEE][DBG]", "[BEE][WRN]", "[BEE][ERR]"} {
		if !strings.Contains(out, tag) {
			t.Errorf("expected %s in %q", tag, out)
		}
	}
}

func TestPaint(t *testing.T) {
	if got := paint("[INF]", "32", false); got != "\033[32m[INF]\033[0m" {
		t.Errorf("unexpected colored tag %q", got)
	}
	if got := paint("[INF]", "32", true); got != "[INF]" {
		t.Errorf("expected plain tag, got %q", got)
	}
}

func TestOutputWriter(t *testing.T) {
	if outputWriter("stderr") != os.Stderr {
		t.Error("expected stderr")
	}
	if outputWriter("anything") != os.Stdout {
		t.Error("expected stdout fallback")
	}
}
