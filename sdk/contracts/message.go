package contracts

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownMessageType is returned by ParseMessageType for unknown keys.
var ErrUnknownMessageType = errors.New("unknown MIDI message type")

// MessageType is the kind of a MIDI 1.0 message.
type MessageType uint8

const (
	Unknown MessageType = iota

	// Channel voice messages.
	NoteOff
	NoteOn
	PolyAftertouch
	ControlChange
	ProgramChange
	ChannelAftertouch
	PitchBend

	// System common messages.
	SysEx
	MTCQuarterFrame
	SongPosition
	SongSelect
	TuneRequest

	// System real-time messages.
	TimingClock
	StartSequence
	ContinueSequence
	StopSequence
	ActiveSensing
	SystemReset

	// Undefined is any of the reserved status bytes 0xF4, 0xF5, 0xF9 and 0xFD.
	Undefined
)

var messageTypeNames = [...]struct {
	display string
	key     string
}{
	Unknown:           {"Unknown", "unknown"},
	NoteOff:           {"Note Off", "note_off"},
	NoteOn:            {"Note On", "note_on"},
	PolyAftertouch:    {"Polyphonic Aftertouch", "poly_aftertouch"},
	ControlChange:     {"Control Change", "control_change"},
	ProgramChange:     {"Program Change", "program_change"},
	ChannelAftertouch: {"Channel Aftertouch", "channel_aftertouch"},
	PitchBend:         {"Pitch Bend", "pitch_bend"},
	SysEx:             {"System Exclusive", "sysex"},
	MTCQuarterFrame:   {"MTC Quarter Frame", "quarter_frame"},
	SongPosition:      {"Song Position", "song_position"},
	SongSelect:        {"Song Select", "song_select"},
	TuneRequest:       {"Tune Request", "tune_request"},
	TimingClock:       {"Timing Clock", "clock"},
	StartSequence:     {"Start", "start"},
	ContinueSequence:  {"Continue", "continue"},
	StopSequence:      {"Stop", "stop"},
	ActiveSensing:     {"Active Sensing", "active_sensing"},
	SystemReset:       {"System Reset", "reset"},
	Undefined:         {"Undefined", "undefined"},
}

// String returns the display name, e.g. "Note On".
func (t MessageType) String() string {
	if int(t) < len(messageTypeNames) {
		return messageTypeNames[t].display
	}
	return messageTypeNames[Unknown].display
}

// Key returns the configuration key, e.g. "note_on".
func (t MessageType) Key() string {
	if int(t) < len(messageTypeNames) {
		return messageTypeNames[t].key
	}
	return messageTypeNames[Unknown].key
}

// ParseMessageType resolves a configuration key back to its MessageType.
func ParseMessageType(key string) (MessageType, error) {
	for i, n := range messageTypeNames {
		if n.key == key && MessageType(i) != Unknown {
			return MessageType(i), nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnknownMessageType, key)
}

// IsChannelVoice reports whether messages of this type carry a channel.
func (t MessageType) IsChannelVoice() bool {
	return t >= NoteOff && t <= PitchBend
}

// IsSystemCommon reports whether t is a system common message.
func (t MessageType) IsSystemCommon() bool {
	return t >= SysEx && t <= TuneRequest
}

// IsRealTime reports whether t is a single-byte system real-time message.
func (t MessageType) IsRealTime() bool {
	return t >= TimingClock && t <= SystemReset
}

// IsNote reports whether t is Note On or Note Off.
func (t MessageType) IsNote() bool {
	return t == NoteOn || t == NoteOff
}

// IsStatusByte reports whether b has its high bit set.
func IsStatusByte(b byte) bool { return b&0x80 != 0 }

// IsRealTimeByte reports whether b is in the system real-time range 0xF8-0xFF.
func IsRealTimeByte(b byte) bool { return b >= 0xF8 }

// TypeOf returns the message type announced by a status byte.
// Data bytes yield Unknown.
func TypeOf(status byte) MessageType {
	if !IsStatusByte(status) {
		return Unknown
	}
	if status < 0xF0 {
		switch status & 0xF0 {
		case 0x80:
			return NoteOff
		case 0x90:
			return NoteOn
		case 0xA0:
			return PolyAftertouch
		case 0xB0:
			return ControlChange
		case 0xC0:
			return ProgramChange
		case 0xD0:
			return ChannelAftertouch
		default:
			return PitchBend
		}
	}
	switch status {
	case 0xF0:
		return SysEx
	case 0xF1:
		return MTCQuarterFrame
	case 0xF2:
		return SongPosition
	case 0xF3:
		return SongSelect
	case 0xF6:
		return TuneRequest
	case 0xF8:
		return TimingClock
	case 0xFA:
		return StartSequence
	case 0xFB:
		return ContinueSequence
	case 0xFC:
		return StopSequence
	case 0xFE:
		return ActiveSensing
	case 0xFF:
		return SystemReset
	case 0xF7:
		// End of exclusive is a terminator, never a message of its own.
		return Unknown
	default:
		return Undefined
	}
}

// DataLen returns the number of data bytes following a status byte.
// System exclusive is variable-length and reports -1.
func DataLen(status byte) int {
	switch TypeOf(status) {
	case NoteOff, NoteOn, PolyAftertouch, ControlChange, PitchBend, SongPosition:
		return 2
	case ProgramChange, ChannelAftertouch, MTCQuarterFrame, SongSelect:
		return 1
	case SysEx:
		return -1
	default:
		return 0
	}
}

// Message is one complete, decoded MIDI 1.0 message.
//
// Raw always starts with the effective status byte, also for messages that
// arrived under running status, so NewMessage(m.Raw, ...) reproduces the
// same Type, Channel, Data1 and Data2.
type Message struct {
	Seq           uint64        // Arrival index assigned by the capture log.
	Timestamp     time.Duration // Time since the capture session started.
	Type          MessageType
	Status        byte  // Effective status byte, channel nibble included.
	Channel       uint8 // 0-15, only meaningful when HasChannel is true.
	Data1         uint8
	Data2         uint8
	Raw           []byte // Complete octet sequence, never shared with the decoder.
	RunningStatus bool   // The status byte was implied on the wire.
}

// NewMessage builds a Message from a complete octet sequence.
// Raw is kept as given; callers must not modify it afterwards.
func NewMessage(raw []byte, ts time.Duration) Message {
	m := Message{Timestamp: ts, Raw: raw}
	if len(raw) == 0 {
		return m
	}
	m.Status = raw[0]
	m.Type = TypeOf(raw[0])
	if m.Type.IsChannelVoice() {
		m.Channel = raw[0] & 0x0F
	}
	if m.Type == SysEx {
		return m
	}
	if len(raw) > 1 {
		m.Data1 = raw[1]
	}
	if len(raw) > 2 {
		m.Data2 = raw[2]
	}
	return m
}

// HasChannel reports whether Channel is meaningful.
func (m Message) HasChannel() bool { return m.Type.IsChannelVoice() }

// HasData1 reports whether the message carries a first data byte.
func (m Message) HasData1() bool { return m.Type != SysEx && len(m.Raw) > 1 }

// HasData2 reports whether the message carries a second data byte.
func (m Message) HasData2() bool { return m.Type != SysEx && len(m.Raw) > 2 }

// Payload returns the bytes between 0xF0 and 0xF7 of a system exclusive
// message, or nil for any other type.
func (m Message) Payload() []byte {
	if m.Type != SysEx || len(m.Raw) < 2 {
		return nil
	}
	end := len(m.Raw)
	if m.Raw[end-1] == 0xF7 {
		end--
	}
	return m.Raw[1:end]
}

// Value14 returns the 14-bit value carried by Pitch Bend and Song Position
// (Data1 is the least significant 7 bits).
func (m Message) Value14() uint16 {
	return uint16(m.Data2)<<7 | uint16(m.Data1)
}
