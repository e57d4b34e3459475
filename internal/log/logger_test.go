package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/aoidb/aoi/internal/config"
)

func TestNewWithWriter_JSONIncludesContextIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LogFormatJSON, "INFO")

	ctx := WithRequestID(WithCorrelationID(context.Background(), "scan-1"), "req-9")
	logger.InfoContext(ctx, "event fused", slog.Int64("event_id", 7))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}
	if record["correlation_id"] != "scan-1" {
		t.Errorf("correlation_id = %v, want scan-1", record["correlation_id"])
	}
	if record["request_id"] != "req-9" {
		t.Errorf("request_id = %v, want req-9", record["request_id"])
	}
	if record["event_id"] != float64(7) {
		t.Errorf("event_id = %v, want 7", record["event_id"])
	}
}

func TestNewWithWriter_WithKeepsContextIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LogFormatPretty, "INFO").With("component", "scanner")

	logger.InfoContext(WithCorrelationID(context.Background(), "abc"), "started")

	out := buf.String()
	if !strings.Contains(out, "component=scanner") {
		t.Errorf("missing component attr: %s", out)
	}
	if !strings.Contains(out, "correlation_id=abc") {
		t.Errorf("missing correlation id: %s", out)
	}
}

func TestNewWithWriter_NoContextValues(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LogFormatPretty, "INFO")

	logger.Info("plain")

	if strings.Contains(buf.String(), "correlation_id") {
		t.Errorf("unexpected correlation id: %s", buf.String())
	}
}

func TestNewWithWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LogFormatPretty, "WARN")

	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info record should be filtered at WARN")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn record should be written")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"WARNING", slog.LevelWarn},
		{"warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"INFO", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCorrelationID_NotSet(t *testing.T) {
	if id := CorrelationID(context.Background()); id != "" {
		t.Errorf("CorrelationID() = %q, want empty", id)
	}
	if id := RequestID(context.Background()); id != "" {
		t.Errorf("RequestID() = %q, want empty", id)
	}
}

func TestConfigure(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg := config.NewAppConfigWithOptions(config.WithLogLevel("DEBUG"))
	l := Configure(cfg)

	if slog.Default() != l {
		t.Error("Configure should install the logger as the slog default")
	}
}
