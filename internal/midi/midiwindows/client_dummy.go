//go:build !windows
// +build !windows

package midiwindows

import (
	"errors"
	"runtime"

	"github.com/leandrodaf/midiwatch/sdk/contracts"
)

// ErrNotAvailable is returned by NewMIDIClient outside Windows.
var ErrNotAvailable = errors.New("winmm MIDI is not available on this platform")

// NewMIDIClient always fails: winmm only exists on Windows.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	options.Logger.Warn("winmm client requested on unsupported system",
		options.Logger.Field().String("goos", runtime.GOOS))
	return nil, ErrNotAvailable
}
