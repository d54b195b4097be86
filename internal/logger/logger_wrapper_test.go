package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leandrodaf/midiwatch/sdk/contracts"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestZapLogger_WritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLoggerWithWriter(&buf)

	l.Info("capture started",
		l.Field().String("port", "Keystation 49"),
		l.Field().Uint8("status", 0x90),
		l.Field().Error("cause", errors.New("boom")))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e["level"] != "info" || e["message"] != "capture started" {
		t.Errorf("entry = %v", e)
	}
	if e["port"] != "Keystation 49" || e["status"] != float64(0x90) || e["cause"] != "boom" {
		t.Errorf("fields = %v", e)
	}
	if _, ok := e["timestamp"]; !ok {
		t.Error("missing timestamp key")
	}
	if caller, _ := e["caller"].(string); !strings.Contains(caller, "logger_wrapper_test.go") {
		t.Errorf("caller = %q, want the test file", caller)
	}
}

func TestZapLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLoggerWithWriter(&buf)

	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug written at info level: %s", buf.String())
	}

	l.SetLevel(contracts.DebugLevel)
	l.Debug("shown")
	l.SetLevel(contracts.ErrorLevel)
	l.Warn("hidden")
	l.Error("shown")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %s", len(entries), buf.String())
	}
	if entries[0]["level"] != "debug" || entries[1]["level"] != "error" {
		t.Errorf("levels = %v, %v", entries[0]["level"], entries[1]["level"])
	}
}

func TestZapLogger_SetDestinationFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "midiwatch.log")
	l := NewZapLoggerWithWriter(&bytes.Buffer{})

	if err := l.SetDestination(contracts.FileLog, path); err != nil {
		t.Fatalf("SetDestination() error = %v", err)
	}
	l.Warn("to file", l.Field().Int("n", 3))
	if err := l.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), `"message":"to file"`) {
		t.Errorf("file content = %s", data)
	}

	if err := l.SetDestination(contracts.FileLog); err == nil {
		t.Error("SetDestination(FileLog) without a path should fail")
	}
	if err := l.SetDestination("syslog"); err == nil {
		t.Error("SetDestination(syslog) should fail")
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Error("discarded", l.Field().Bool("ok", false))
	l.SetLevel(contracts.DebugLevel)
	l.Debug("discarded")
}
