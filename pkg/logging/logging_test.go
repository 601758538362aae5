package logging

import (
	"bytes"
	"encoding/json"
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
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "warn", Format: "json", Writer: &buf})

	logger.Info("dropped")
	logger.Warn("Ledger opened", "owner_id", "u1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line above the level threshold, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "Ledger opened" || entry["owner_id"] != "u1" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "debug", NoColor: true, Writer: &buf})

	logger.Debug("Person added", "person_id", "person_123")

	out := buf.String()
	if !strings.Contains(out, "Person added") || !strings.Contains(out, "person_id=person_123") {
		t.Errorf("unexpected text output: %q", out)
	}
}
