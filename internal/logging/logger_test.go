package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/ytget/ytmp3/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{" info ", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("download finished", "file", "Song.mp3")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message should be filtered at info level")
	}
	if !strings.Contains(out, "download finished") || !strings.Contains(out, "file=Song.mp3") {
		t.Errorf("unexpected console output %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("expected no color codes when writing to a buffer")
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("resolving", "url", "https://youtu.be/x")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if record["msg"] != "resolving" || record["url"] != "https://youtu.be/x" {
		t.Errorf("unexpected record %v", record)
	}
	if _, ok := record["source"]; !ok {
		t.Error("expected source at debug level")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestNewFromConfig(t *testing.T) {
	logger, err := NewFromConfig(nil)
	if err != nil || logger == nil {
		t.Fatalf("expected default logger, got %v", err)
	}

	cfg := config.Default()
	cfg.Logging.Format = "json"
	if _, err := NewFromConfig(&cfg); err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
}

func TestSetupInstallsDefault(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	if _, err := Setup(Options{Format: "json", Output: &buf}); err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	slog.Info("via default")
	if !strings.Contains(buf.String(), "via default") {
		t.Errorf("expected default logger to write to buffer, got %q", buf.String())
	}
}
