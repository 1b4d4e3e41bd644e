package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"btlinkd/internal/logging"
)

func TestNewJSONFormatWritesRemappedKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")

	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "info",
		OutputPaths: []string{logPath},
		SessionID:   "abc-123",
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("connect issued", logging.String(logging.FieldDevice, "AA:BB:CC:DD:EE:FF"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(content))), &record); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if record["msg"] != "connect issued" {
		t.Fatalf("expected msg key, got %v", record)
	}
	if record["level"] != "info" {
		t.Fatalf("expected lowercase level, got %v", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
	if record[logging.FieldSessionID] != "abc-123" {
		t.Fatalf("expected session id attr, got %v", record)
	}
	if record[logging.FieldDevice] != "AA:BB:CC:DD:EE:FF" {
		t.Fatalf("expected device attr, got %v", record)
	}
}

func TestNewConsoleFormatRendersComponent(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	component := logging.NewComponentLogger(logger, "monitor")
	component.Info("tick complete", logging.Int("errors", 0))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := strings.TrimSpace(string(content))
	if !strings.Contains(line, "[monitor]") {
		t.Fatalf("expected component bracket in %q", line)
	}
	if !strings.Contains(line, "tick complete") {
		t.Fatalf("expected message in %q", line)
	}
	if !strings.Contains(line, "errors=0") {
		t.Fatalf("expected key=value pair in %q", line)
	}
}

func TestNewFiltersBelowConfiguredLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "level.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "warn",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("suppressed")
	logger.Warn("emitted")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), "suppressed") {
		t.Fatalf("expected info record filtered, got %q", content)
	}
	if !strings.Contains(string(content), "emitted") {
		t.Fatalf("expected warn record present, got %q", content)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
