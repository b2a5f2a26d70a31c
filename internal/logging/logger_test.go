package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subtitler/internal/logging"
	"subtitler/internal/services"
)

func TestNewWithLogDirWritesLogFile(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	logger, err := logging.NewWithLogDir(logDir, logging.Options{Level: "info", SessionID: "session-1"})
	if err != nil {
		t.Fatalf("NewWithLogDir returned error: %v", err)
	}
	logger.Info("hello file")

	content, err := os.ReadFile(filepath.Join(logDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "hello file") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")
	if strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", buf.String())
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message with caller")
	if !strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestConsoleLoggerRendersSubjectAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf, SessionID: "abc"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithItemIndex(services.WithMediaPath(context.Background(), "/media/talk.mp4"), 2)
	logger = logging.NewComponentLogger(logging.WithContext(ctx, logger), "pipeline")
	logger.Info("subtitles written", logging.Int("cues", 12))

	out := buf.String()
	for _, want := range []string{"INFO [pipeline] #2 talk.mp4 – subtitles written", "    - cues: 12"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got %q", want, out)
		}
	}
	if strings.Contains(out, "session_id") {
		t.Fatalf("session id should be hidden at info level: %q", out)
	}
}

func TestJSONLoggerIncludesContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "debug", Writer: &buf, SessionID: "sess"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithRunID(context.Background(), "run-42")
	logging.WithContext(ctx, logger).Info("json message", logging.Error(errors.New("boom")))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, buf.String())
	}
	if payload[logging.FieldRunID] != "run-42" || payload[logging.FieldSessionID] != "sess" {
		t.Fatalf("missing context fields: %v", payload)
	}
	if payload["level"] != "info" || payload["error"] != "boom" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "invalid", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected info level filtering, got %q", buf.String())
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "cue issues", "subtitle_validation", logging.String(logging.FieldImpact, "player may show overlaps"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload[logging.FieldEventType] != "subtitle_validation" {
		t.Fatalf("expected event type, got %v", payload)
	}
	if payload[logging.FieldImpact] != "player may show overlaps" {
		t.Fatalf("expected caller impact preserved, got %v", payload)
	}
	if payload[logging.FieldErrorHint] == nil {
		t.Fatalf("expected default error hint, got %v", payload)
	}
}
