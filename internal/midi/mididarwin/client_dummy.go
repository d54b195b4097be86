//go:build !darwin
// +build !darwin

package mididarwin

import (
	"errors"
	"runtime"

	"github.com/leandrodaf/midiwatch/sdk/contracts"
)

// ErrNotAvailable is returned by NewMIDIClient outside macOS.
var ErrNotAvailable = errors.New("CoreMIDI is not available on this platform")

// NewMIDIClient always fails: CoreMIDI only exists on macOS.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	options.Logger.Warn("CoreMIDI client requested on unsupported system",
		options.Logger.Field().String("goos", runtime.GOOS))
	return nil, ErrNotAvailable
}
