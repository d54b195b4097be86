package decoder

import (
	"errors"
	"fmt"
)

// ErrDecodeAnomaly is matched by every Anomaly via errors.Is.
var ErrDecodeAnomaly = errors.New("MIDI decode anomaly")

// AnomalyKind classifies malformed input.
type AnomalyKind int

const (
	// OrphanData is a data byte with neither a pending status nor running status.
	OrphanData AnomalyKind = iota
	// Truncated is a message abandoned because a new status byte arrived first.
	Truncated
	// StrayEndOfExclusive is a 0xF7 received outside a system exclusive message.
	StrayEndOfExclusive
	// UnterminatedSysEx is a system exclusive message ended by a status byte other than 0xF7.
	UnterminatedSysEx
	// SysExOverflow is a system exclusive payload longer than the configured limit.
	SysExOverflow
)

func (k AnomalyKind) String() string {
	switch k {
	case OrphanData:
		return "orphan_data"
	case Truncated:
		return "truncated"
	case StrayEndOfExclusive:
		return "stray_eox"
	case UnterminatedSysEx:
		return "unterminated_sysex"
	case SysExOverflow:
		return "sysex_overflow"
	default:
		return "unknown"
	}
}

// Anomaly describes one dropped byte or message. It is never fatal.
type Anomaly struct {
	Kind  AnomalyKind
	Byte  byte  // The offending byte; for Truncated, the status of the dropped message.
	State State // Decoder state when the anomaly was detected.
}

func (a Anomaly) Error() string {
	return fmt.Sprintf("%s: %s byte=0x%02X state=%s", ErrDecodeAnomaly, a.Kind, a.Byte, a.State)
}

// Is makes errors.Is(a, ErrDecodeAnomaly) true.
func (a Anomaly) Is(target error) bool {
	return target == ErrDecodeAnomaly
}
