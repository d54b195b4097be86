package cmd

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/leandrodaf/midiwatch/sdk/capture"
	"github.com/leandrodaf/midiwatch/sdk/contracts"
	"github.com/leandrodaf/midiwatch/sdk/decoder"
)

func runApp(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := &cli.App{
		Name:           "midiwatch",
		Reader:         strings.NewReader(stdin),
		Writer:         &out,
		ErrWriter:      &errOut,
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			PortsCommand(),
			MonitorCommand(),
			DecodeCommand(),
			ReplayCommand(),
			VersionCommand("abc123"),
		},
	}
	err := app.Run(append([]string{"midiwatch"}, args...))
	return out.String(), errOut.String(), err
}

func exitCode(err error) int {
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return -1
}

func TestCaptureFlags_IncludeCommon(t *testing.T) {
	names := map[string]bool{}
	for _, f := range CaptureFlags() {
		names[f.Names()[0]] = true
	}
	for _, want := range []string{"config", "log-level", "view", "no-color", "export", "format", "type", "channel"} {
		if !names[want] {
			t.Errorf("CaptureFlags missing --%s", want)
		}
	}
}

func TestDecode_Hex(t *testing.T) {
	out, _, err := runApp(t, "", "decode", "--no-color", "--view", "hex", "--hex", "90 3C 7F 40 50 43 00 F8")
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{"90 3C 7F", "90 40 50", "90 43 00", "F8"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), out)
	}
	for i, w := range want {
		if !strings.HasSuffix(lines[i], w) {
			t.Errorf("line %d = %q, want suffix %q", i, lines[i], w)
		}
	}
}

func TestDecode_StdinHumanView(t *testing.T) {
	out, _, err := runApp(t, string([]byte{0x90, 0x3C, 0x7F}), "decode", "--no-color")
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if !strings.Contains(out, "Note On") || !strings.Contains(out, "C4") {
		t.Errorf("output %q missing note description", out)
	}
}

func TestDecode_AnomalySummary(t *testing.T) {
	out, errOut, err := runApp(t, "", "decode", "--no-color", "--binary", "01000101 10010000 00111100 01111111")
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if strings.Count(strings.TrimSpace(out), "\n") != 0 || !strings.Contains(out, "Note On") {
		t.Errorf("want one Note On line, got:\n%s", out)
	}
	if !strings.Contains(errOut, "Anomalies: 1 (orphan_data=1)") {
		t.Errorf("stderr %q missing anomaly summary", errOut)
	}
}

func TestDecode_FilterFlags(t *testing.T) {
	out, errOut, err := runApp(t, "", "decode", "--no-color", "--view", "hex",
		"--type", "note_on", "--channel", "2", "--hex", "90 3C 7F 91 3C 7F B1 07 64")
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if strings.TrimSpace(out) == "" || strings.Count(strings.TrimSpace(out), "\n") != 0 || !strings.HasSuffix(strings.TrimSpace(out), "91 3C 7F") {
		t.Errorf("filtered output = %q, want only 91 3C 7F", out)
	}
	if !strings.Contains(errOut, "2 filtered") {
		t.Errorf("stderr %q missing filtered count", errOut)
	}
}

func TestDecode_ExportAndReplay(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "out.csv")
	mpkPath := filepath.Join(dir, "out.mpk")

	input := "C0 05 90 3C 7F"
	if _, _, err := runApp(t, "", "decode", "--hex", input, "--export", csvPath); err != nil {
		t.Fatalf("decode csv export error = %v", err)
	}
	f, err := os.Open(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(f).ReadAll()
	f.Close()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[1][1] != "Program Change" || rows[2][5] != "C4" {
		t.Errorf("csv rows = %v", rows)
	}

	if _, _, err := runApp(t, "", "decode", "--hex", input, "--export", mpkPath); err != nil {
		t.Fatalf("decode msgpack export error = %v", err)
	}
	out, _, err := runApp(t, "", "replay", "--no-color", "--view", "hex", mpkPath)
	if err != nil {
		t.Fatalf("replay error = %v", err)
	}
	if !strings.Contains(out, "C0 05") || !strings.Contains(out, "90 3C 7F") {
		t.Errorf("replay output = %q", out)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad hex", []string{"decode", "--hex", "ZZ"}},
		{"two inputs", []string{"decode", "--hex", "90", "--binary", "10010000"}},
		{"bad view", []string{"decode", "--view", "octal", "--hex", "F8"}},
		{"bad channel", []string{"decode", "--channel", "0", "--hex", "F8"}},
		{"missing config", []string{"decode", "--config", "/nonexistent/midiwatch.yaml", "--hex", "F8"}},
		{"monitor without port", []string{"monitor"}},
		{"replay without file", []string{"replay"}},
		{"replay missing file", []string{"replay", "/nonexistent/capture.mpk"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runApp(t, "", tt.args...)
			if code := exitCode(err); code != exitUsage {
				t.Errorf("exit code = %d (%v), want %d", code, err, exitUsage)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	out, _, err := runApp(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, Version) || !strings.Contains(out, "abc123") {
		t.Errorf("version output = %q", out)
	}
}

func TestCategoryStyle(t *testing.T) {
	tests := []struct {
		t    contracts.MessageType
		want string
	}{
		{contracts.NoteOn, "note"},
		{contracts.NoteOff, "note"},
		{contracts.ControlChange, "voice"},
		{contracts.PitchBend, "voice"},
		{contracts.SysEx, "sysex"},
		{contracts.SongPosition, "common"},
		{contracts.TimingClock, "realtime"},
		{contracts.Undefined, "undefined"},
	}
	styles := map[string]any{
		"note":      NoteStyle.GetForeground(),
		"voice":     VoiceStyle.GetForeground(),
		"sysex":     SysExStyle.GetForeground(),
		"common":    CommonStyle.GetForeground(),
		"realtime":  RealTimeStyle.GetForeground(),
		"undefined": UndefinedStyle.GetForeground(),
	}
	for _, tt := range tests {
		if got := CategoryStyle(tt.t).GetForeground(); got != styles[tt.want] {
			t.Errorf("CategoryStyle(%s) foreground = %v, want %s style", tt.t, got, tt.want)
		}
	}
}

func TestPaint_NoColor(t *testing.T) {
	if got := paint(NoteStyle, "Note On", true); got != "Note On" {
		t.Errorf("paint(noColor) = %q", got)
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, capture.Stats{
		Bytes:     9,
		Messages:  2,
		Logged:    2,
		Anomalies: 3,
		ByAnomaly: map[decoder.AnomalyKind]int64{decoder.Truncated: 1, decoder.OrphanData: 2},
	}, true)

	want := "Summary: 9 bytes, 2 messages decoded, 2 logged, 0 filtered\n" +
		"Anomalies: 3 (orphan_data=2, truncated=1)\n"
	if buf.String() != want {
		t.Errorf("summary = %q, want %q", buf.String(), want)
	}
}
