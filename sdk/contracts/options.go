package contracts

// MIDIEventFilter allows users to specify which messages reach the capture log.
// An empty list accepts everything for that dimension.
type MIDIEventFilter struct {
	Types    []MessageType // Message types to keep.
	Channels []uint8       // Channels to keep (0-15). System messages always pass.
}

// Allows reports whether m passes the filter. A nil filter allows everything.
func (f *MIDIEventFilter) Allows(m Message) bool {
	if f == nil {
		return true
	}
	if len(f.Types) > 0 && !containsType(f.Types, m.Type) {
		return false
	}
	if len(f.Channels) > 0 && m.HasChannel() && !containsChannel(f.Channels, m.Channel) {
		return false
	}
	return true
}

func containsType(types []MessageType, t MessageType) bool {
	for _, allowed := range types {
		if allowed == t {
			return true
		}
	}
	return false
}

func containsChannel(channels []uint8, ch uint8) bool {
	for _, allowed := range channels {
		if allowed == ch {
			return true
		}
	}
	return false
}

// CoreMIDIConfig holds configuration for CoreMIDI.
type CoreMIDIConfig struct {
	ClientName string // Name of the MIDI client.
}

// ClientOptions defines the configuration options for MIDI clients and capture sessions.
type ClientOptions struct {
	Logger          Logger           // Logger for logging events and errors.
	LogLevel        LogLevel         // Level of logging to use.
	LogFilePath     string           // File path for logging if file logging is enabled.
	MIDIEventFilter *MIDIEventFilter // Optional filter for messages appended to the capture log.
	CoreMIDIConfig  *CoreMIDIConfig  // Configuration specific to CoreMIDI.
	BufferSize      int              // Capacity of the packet channel between input and decoder.
	LogCapacity     int              // Maximum messages kept by the capture log; 0 keeps all.
	SysExLimit      int              // Maximum system exclusive payload in bytes.
	ExcludedPorts   []string         // Substrings of port names hidden from ListDevices.

	logLevelSet bool
}

// HasLogLevel reports whether WithLogLevel was applied.
func (o *ClientOptions) HasLogLevel() bool {
	return o.logLevelSet
}

// Option is a function that modifies ClientOptions.
type Option func(*ClientOptions)

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(opts *ClientOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClientOptions) {
		opts.LogLevel = level
		opts.logLevelSet = true
	}
}

// WithLogFile sends log output to the given file.
func WithLogFile(path string) Option {
	return func(opts *ClientOptions) {
		opts.LogFilePath = path
	}
}

// WithMIDIEventFilter sets the filter applied before messages are logged.
func WithMIDIEventFilter(filter MIDIEventFilter) Option {
	return func(opts *ClientOptions) {
		opts.MIDIEventFilter = &filter
	}
}

// WithCoreMIDIConfig sets the CoreMIDI configuration for the MIDI client.
func WithCoreMIDIConfig(config CoreMIDIConfig) Option {
	return func(opts *ClientOptions) {
		opts.CoreMIDIConfig = &config
	}
}

// WithBufferSize sets the packet channel capacity.
func WithBufferSize(n int) Option {
	return func(opts *ClientOptions) {
		opts.BufferSize = n
	}
}

// WithLogCapacity bounds the capture log; the oldest messages are evicted first.
func WithLogCapacity(n int) Option {
	return func(opts *ClientOptions) {
		opts.LogCapacity = n
	}
}

// WithSysExLimit bounds the accepted system exclusive payload size.
func WithSysExLimit(n int) Option {
	return func(opts *ClientOptions) {
		opts.SysExLimit = n
	}
}

// WithExcludedPorts hides ports whose names contain any of the given substrings.
func WithExcludedPorts(patterns ...string) Option {
	return func(opts *ClientOptions) {
		opts.ExcludedPorts = patterns
	}
}
