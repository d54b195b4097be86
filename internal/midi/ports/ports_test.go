package ports

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		goos string
		want string
	}{
		{"alsa suffix on linux", "Launchpad X:Launchpad X LPX MIDI 24:0", "linux", "Launchpad X:Launchpad X LPX MIDI"},
		{"alsa suffix kept elsewhere", "Keystation 20:1", "darwin", "Keystation 20:1"},
		{"no suffix", "IAC Driver Bus 1", "linux", "IAC Driver Bus 1"},
		{"surrounding space", "  Digital Piano  ", "windows", "Digital Piano"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in, tt.goos); got != tt.want {
				t.Errorf("Normalize(%q, %q) = %q, want %q", tt.in, tt.goos, got, tt.want)
			}
		})
	}
}

func TestExcluded(t *testing.T) {
	tests := []struct {
		name     string
		port     string
		patterns []string
		want     bool
	}{
		{"rtmidi input client", "RtMidiIn Client:TiMidity 128:0", DefaultExcluded, true},
		{"case insensitive", "rtmidiout client", DefaultExcluded, true},
		{"hardware port", "Launchpad X LPX MIDI", DefaultExcluded, false},
		{"empty pattern ignored", "anything", []string{""}, false},
		{"no patterns", "RtMidiIn Client", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Excluded(tt.port, tt.patterns); got != tt.want {
				t.Errorf("Excluded(%q) = %v, want %v", tt.port, got, tt.want)
			}
		})
	}
}
