// Package ports normalizes and filters MIDI port names reported by drivers.
package ports

import (
	"regexp"
	"strings"
)

// DefaultExcluded lists the loopback ports RtMidi registers for its own clients.
var DefaultExcluded = []string{"RtMidiOut Client", "RtMidiIn Client"}

// alsaSuffix matches the "client:port" numbering ALSA appends to port names.
// The numbers change between sessions, so they are stripped on Linux.
var alsaSuffix = regexp.MustCompile(` \d+:\d+$`)

// Normalize returns the display form of a port name for the given GOOS.
func Normalize(name, goos string) string {
	name = strings.TrimSpace(name)
	if goos == "linux" {
		return alsaSuffix.ReplaceAllString(name, "")
	}
	return name
}

// Excluded reports whether name contains any of the patterns, ignoring case.
func Excluded(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
