//go:build !cgo
// +build !cgo

package midiportable

import (
	"errors"

	"github.com/leandrodaf/midiwatch/sdk/contracts"
)

// ErrNotAvailable is returned when the binary was built without cgo.
var ErrNotAvailable = errors.New("RtMidi input requires a cgo build")

// NewMIDIClient always fails in builds without cgo. Raw device nodes can
// still be read through the stream client.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	options.Logger.Warn("RtMidi client unavailable, rebuild with CGO_ENABLED=1")
	return nil, ErrNotAvailable
}
