package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNewEmitsServiceAttribute(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "analysis-worker", "info")
	logger.Info("run started", "root_id", "folder-1")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["service"] != "analysis-worker" {
		t.Errorf("service = %v, want analysis-worker", record["service"])
	}
	if record["msg"] != "run started" {
		t.Errorf("msg = %v, want run started", record["msg"])
	}
	if record["root_id"] != "folder-1" {
		t.Errorf("root_id = %v, want folder-1", record["root_id"])
	}
}

func TestNewFiltersBelowConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "analyzer", "warn")

	logger.Info("suppressed")
	if buf.Len() != 0 {
		t.Fatalf("info record emitted at warn level: %s", buf.String())
	}
	logger.Warn("kept")
	if buf.Len() == 0 {
		t.Fatal("warn record not emitted at warn level")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
