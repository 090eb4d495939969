package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
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
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTextHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info", "text", false)

	log.Debug("hidden")
	log.Info("moved note", "from", "B.md", "to", "A/B.md")
	log.With("component", "resolver").Error("move failed", "error", errors.New("permission denied"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record should be filtered, got:\n%s", out)
	}
	if !strings.Contains(out, "[INFO] moved note from=B.md to=A/B.md") {
		t.Fatalf("unexpected info line:\n%s", out)
	}
	if !strings.Contains(out, `[ERROR] move failed component=resolver error="permission denied"`) {
		t.Fatalf("unexpected error line:\n%s", out)
	}
	if strings.Contains(out, "\033[") {
		t.Fatalf("expected no color codes, got:\n%s", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "json", false)
	log.Debug("scan", "candidates", 3)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "scan" || rec["candidates"] != float64(3) {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestNewWithFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autofolder.log")

	log, closer, err := New(Config{Level: "info", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("watching", "vault", "/notes")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "watching vault=/notes") {
		t.Fatalf("unexpected file content: %q", data)
	}
}
