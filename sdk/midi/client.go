// Package midi opens MIDI input clients for the current platform or for a
// raw byte stream, and resolves the options shared with capture sessions.
package midi

import (
	"github.com/leandrodaf/midiwatch/sdk/contracts"
)

// NewMIDIClient resolves opts and opens the input client for the running
// operating system. The returned client is not capturing yet: select a
// device and hand it to capture.NewSession.
func NewMIDIClient(opts ...contracts.Option) (contracts.ClientMIDI, error) {
	options, err := ResolveOptions(opts...)
	if err != nil {
		return nil, err
	}
	return NewClient(&options)
}
