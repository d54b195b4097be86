package decoder

// State is the position of the decoder inside the MIDI 1.0 wire format.
type State int

const (
	// AwaitingStatus expects a status byte; data bytes here are orphans.
	AwaitingStatus State = iota
	// AwaitingData1 expects the first data byte, either after a status byte
	// or, with no message pending, under running status.
	AwaitingData1
	// AwaitingData2 expects the second data byte of a three-byte message.
	AwaitingData2
	// InSysEx accumulates a system exclusive payload until 0xF7.
	InSysEx
)

func (s State) String() string {
	switch s {
	case AwaitingStatus:
		return "awaiting_status"
	case AwaitingData1:
		return "awaiting_data1"
	case AwaitingData2:
		return "awaiting_data2"
	case InSysEx:
		return "in_sysex"
	default:
		return "unknown"
	}
}
