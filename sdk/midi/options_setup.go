package midi

import (
	"github.com/leandrodaf/midiwatch/internal/logger"
	"github.com/leandrodaf/midiwatch/internal/midi/ports"
	"github.com/leandrodaf/midiwatch/sdk/contracts"
	"github.com/leandrodaf/midiwatch/sdk/decoder"
)

// DefaultBufferSize is the packet channel capacity used when none is given.
const DefaultBufferSize = 1024

// ResolveOptions applies opts over the defaults shared by clients and
// capture sessions.
//
// Defaults: a zap JSON logger on stderr at InfoLevel, a packet buffer of
// DefaultBufferSize, an unbounded capture log, decoder.DefaultSysExLimit and
// the RtMidi loopback ports hidden from device lists. When a log file is
// set, the logger is redirected to it. A logger passed with WithLogger keeps
// its level unless WithLogLevel is also given.
func ResolveOptions(opts ...contracts.Option) (contracts.ClientOptions, error) {
	options := &contracts.ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	defaulted := options.Logger == nil
	if defaulted {
		options.Logger = logger.NewZapLogger()
	}
	if options.CoreMIDIConfig == nil {
		options.CoreMIDIConfig = &contracts.CoreMIDIConfig{ClientName: "midiwatch"}
	}
	if options.BufferSize <= 0 {
		options.BufferSize = DefaultBufferSize
	}
	if options.LogCapacity < 0 {
		options.LogCapacity = 0
	}
	if options.SysExLimit <= 0 {
		options.SysExLimit = decoder.DefaultSysExLimit
	}
	if options.ExcludedPorts == nil {
		options.ExcludedPorts = ports.DefaultExcluded
	}

	// A caller's logger keeps its own level unless WithLogLevel was given.
	if defaulted || options.HasLogLevel() {
		options.Logger.SetLevel(options.LogLevel)
	}
	if options.LogFilePath != "" {
		if err := options.Logger.SetDestination(contracts.FileLog, options.LogFilePath); err != nil {
			return contracts.ClientOptions{}, err
		}
	}
	return *options, nil
}
