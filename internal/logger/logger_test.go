package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	l := NewLoggerTo(&buf, "warn")
	l.Info("hidden")
	l.Warn("shown", "phase", "harvest")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}

	if !strings.Contains(out, "shown") || !strings.Contains(out, "phase=harvest") {
		t.Errorf("warn record missing: %s", out)
	}

	l.SetLevel("debug")
	l.With("run", "x").Debug("now visible")

	if !strings.Contains(buf.String(), "run=x") {
		t.Errorf("debug record missing after SetLevel: %s", buf.String())
	}
}
