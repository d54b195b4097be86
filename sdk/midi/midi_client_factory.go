package midi

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"

	"github.com/leandrodaf/midiwatch/internal/midi/mididarwin"
	"github.com/leandrodaf/midiwatch/internal/midi/midiportable"
	"github.com/leandrodaf/midiwatch/internal/midi/midistream"
	"github.com/leandrodaf/midiwatch/internal/midi/midiwindows"
	"github.com/leandrodaf/midiwatch/sdk/contracts"
)

// ErrUnsupportedOS is returned when the operating system is not supported by the MIDI client.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// ErrDeviceNotFound is returned by FindDevice when no device matches the query.
var ErrDeviceNotFound = errors.New("MIDI device not found")

// clientInitializers maps OS names to corresponding MIDI client initializers.
var clientInitializers = map[string]func(*contracts.ClientOptions) (contracts.ClientMIDI, error){
	"darwin":  mididarwin.NewMIDIClient,   // macOS (Darwin) MIDI client initializer.
	"windows": midiwindows.NewMIDIClient,  // Windows MIDI client initializer.
	"linux":   midiportable.NewMIDIClient, // ALSA through RtMidi, requires cgo.
}

// NewClient initializes a MIDI client based on the current operating system.
// It supports macOS (Darwin), Windows and Linux, returning ErrUnsupportedOS if the OS is unsupported.
func NewClient(opts *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	if initializer, exists := clientInitializers[runtime.GOOS]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
}

// NewStreamClient returns a client that reads raw MIDI octets from r, such
// as a capture file, stdin or a raw device node. It exposes a single device
// named name and reports ErrInputDisconnected once r is exhausted.
func NewStreamClient(r io.Reader, name string, opts ...contracts.Option) (contracts.ClientMIDI, error) {
	options, err := ResolveOptions(opts...)
	if err != nil {
		return nil, err
	}
	return midistream.NewMIDIClient(r, name, &options), nil
}

// FindDevice picks a device by ID ("2") or by name. Names match case
// insensitively, exactly first and then by unique substring.
func FindDevice(devices []contracts.DeviceInfo, query string) (contracts.DeviceInfo, error) {
	query = strings.TrimSpace(query)
	if id, err := strconv.Atoi(query); err == nil {
		for _, d := range devices {
			if d.ID == id {
				return d, nil
			}
		}
	}
	for _, d := range devices {
		if strings.EqualFold(d.Name, query) {
			return d, nil
		}
	}

	var matches []contracts.DeviceInfo
	lower := strings.ToLower(query)
	for _, d := range devices {
		if query != "" && strings.Contains(strings.ToLower(d.Name), lower) {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return contracts.DeviceInfo{}, fmt.Errorf("%w: %q", ErrDeviceNotFound, query)
	default:
		return contracts.DeviceInfo{}, fmt.Errorf("%w: %q matches %d devices", ErrDeviceNotFound, query, len(matches))
	}
}
