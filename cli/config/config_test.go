package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/leandrodaf/midiwatch/sdk/contracts"
)

func TestLoad_FullConfig(t *testing.T) {
	yaml := `log:
  level: debug
  file: /tmp/midiwatch.log

capture:
  port: "Digital Piano"
  buffer_size: 256
  capacity: 5000
  sysex_limit: 4096
  excluded_ports: ["Through"]
  filter:
    types: [note_on, note_off]
    channels: [1, 10]
  duration: 30s

export:
  format: msgpack
  path: session.mpk

display:
  view: hex
  no_color: true
`
	cfg, err := Load(writeTemp(t, yaml))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	assertEqual(t, "log.level", cfg.Log.Level, "debug")
	assertEqual(t, "log.file", cfg.Log.File, "/tmp/midiwatch.log")
	assertEqual(t, "capture.port", cfg.Capture.Port, "Digital Piano")
	if cfg.Capture.BufferSize != 256 || cfg.Capture.Capacity != 5000 || cfg.Capture.SysExLimit != 4096 {
		t.Errorf("capture sizes = %d/%d/%d", cfg.Capture.BufferSize, cfg.Capture.Capacity, cfg.Capture.SysExLimit)
	}
	if len(cfg.Capture.ExcludedPorts) != 1 || cfg.Capture.ExcludedPorts[0] != "Through" {
		t.Errorf("capture.excluded_ports = %v", cfg.Capture.ExcludedPorts)
	}
	if cfg.Capture.Duration.Duration != 30*time.Second {
		t.Errorf("expected capture.duration=30s, got %v", cfg.Capture.Duration.Duration)
	}
	assertEqual(t, "export.format", cfg.Export.Format, "msgpack")
	assertEqual(t, "export.path", cfg.Export.Path, "session.mpk")
	assertEqual(t, "display.view", cfg.Display.View, "hex")
	if !cfg.Display.NoColor {
		t.Error("expected display.no_color=true")
	}

	filter, err := cfg.Filter()
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	if len(filter.Types) != 2 || filter.Types[0] != contracts.NoteOn || filter.Types[1] != contracts.NoteOff {
		t.Errorf("filter types = %v", filter.Types)
	}
	if len(filter.Channels) != 2 || filter.Channels[0] != 0 || filter.Channels[1] != 9 {
		t.Errorf("filter channels = %v, want [0 9]", filter.Channels)
	}
}

func TestLoad_EmptyConfig(t *testing.T) {
	cfg, err := Load(writeTemp(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Capture.Port != "" {
		t.Errorf("expected empty port, got %q", cfg.Capture.Port)
	}
	if filter, err := cfg.Filter(); err != nil || filter != nil {
		t.Errorf("Filter() = %v, %v; want nil, nil", filter, err)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	if _, err := Load("/nonexistent/midiwatch.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeTemp(t, "{{invalid yaml"))
	if err == nil || !strings.Contains(err.Error(), "invalid YAML") {
		t.Fatalf("expected invalid YAML error, got %v", err)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("MIDIWATCH_TEST_PORT", "Launchkey")

	cfg, err := Load(writeTemp(t, "capture:\n  port: ${MIDIWATCH_TEST_PORT}\nexport:\n  path: ${MIDIWATCH_UNSET_12345:-out.csv}\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertEqual(t, "capture.port", cfg.Capture.Port, "Launchkey")
	assertEqual(t, "export.path", cfg.Export.Path, "out.csv")
}

func TestLoad_UndefinedEnv(t *testing.T) {
	_, err := Load(writeTemp(t, "capture:\n  port: ${MIDIWATCH_UNSET_PORT_12345}\n"))

	var undef *UndefinedEnvError
	if !errors.As(err, &undef) {
		t.Fatalf("Load() error = %v, want *UndefinedEnvError", err)
	}
	if len(undef.Names) != 1 || undef.Names[0] != "MIDIWATCH_UNSET_PORT_12345" {
		t.Errorf("Names = %v, want [MIDIWATCH_UNSET_PORT_12345]", undef.Names)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"bad duration", "capture:\n  duration: soon\n", "invalid duration"},
		{"negative capacity", "capture:\n  capacity: -1\n", "capture.capacity"},
		{"unknown type", "capture:\n  filter:\n    types: [note_up]\n", "capture.filter.types"},
		{"channel zero", "capture:\n  filter:\n    channels: [0]\n", "capture.filter.channels"},
		{"channel seventeen", "capture:\n  filter:\n    channels: [17]\n", "capture.filter.channels"},
		{"bad export", "export:\n  format: parquet\n", "export.format"},
		{"bad view", "display:\n  view: octal\n", "display.view"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTemp(t, tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := &Config{
		Log:     LogConfig{Level: "loud"},
		Display: DisplayConfig{View: "octal"},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"log.level", "display.view"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestOptions(t *testing.T) {
	cfg := &Config{
		Log: LogConfig{Level: "warn"},
		Capture: CaptureConfig{
			BufferSize:    64,
			Capacity:      10,
			SysExLimit:    128,
			ExcludedPorts: []string{},
			Filter:        FilterConfig{Channels: []int{16}},
		},
	}

	var got contracts.ClientOptions
	for _, opt := range cfg.Options() {
		opt(&got)
	}

	if got.LogLevel != contracts.WarnLevel {
		t.Errorf("LogLevel = %v, want warn", got.LogLevel)
	}
	if got.BufferSize != 64 || got.LogCapacity != 10 || got.SysExLimit != 128 {
		t.Errorf("sizes = %d/%d/%d", got.BufferSize, got.LogCapacity, got.SysExLimit)
	}
	if got.ExcludedPorts == nil || len(got.ExcludedPorts) != 0 {
		t.Errorf("ExcludedPorts = %#v, want empty non-nil", got.ExcludedPorts)
	}
	if got.MIDIEventFilter == nil || len(got.MIDIEventFilter.Channels) != 1 || got.MIDIEventFilter.Channels[0] != 15 {
		t.Errorf("MIDIEventFilter = %+v", got.MIDIEventFilter)
	}
	if got.LogFilePath != "" {
		t.Errorf("LogFilePath = %q, want empty", got.LogFilePath)
	}
}

func TestLoadDefault(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadDefault("")
	if err != nil || cfg == nil {
		t.Fatalf("LoadDefault without file = %v, %v", cfg, err)
	}

	if err := os.WriteFile(filepath.Join(dir, DefaultPath), []byte("capture:\n  port: \"2\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadDefault("")
	if err != nil {
		t.Fatalf("LoadDefault error = %v", err)
	}
	assertEqual(t, "capture.port", cfg.Capture.Port, "2")
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "midiwatch.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func assertEqual(t *testing.T, field, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("expected %s=%q, got %q", field, want, got)
	}
}
