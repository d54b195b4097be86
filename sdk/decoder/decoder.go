// Package decoder reassembles MIDI 1.0 messages from a raw byte stream.
//
// The Decoder is a small state machine with a running-status register.
// System real-time bytes (0xF8-0xFF) are checked before anything else and
// emitted immediately, so they may interleave with any other message without
// disturbing it. Malformed input is dropped, counted and logged; it never
// stops decoding.
//
// A Decoder is owned by the goroutine feeding it. Only Anomalies may be
// called concurrently.
package decoder

import (
	"sync/atomic"
	"time"

	"github.com/leandrodaf/midiwatch/internal/logger"
	"github.com/leandrodaf/midiwatch/sdk/contracts"
)

// Decoder turns raw octets into contracts.Message values.
type Decoder struct {
	logger     contracts.Logger
	clock      func() time.Duration
	sysexLimit int
	onAnomaly  func(Anomaly)

	state   State
	running byte    // Running-status register; 0 when none is established.
	status  byte    // Status of the message being assembled.
	data    [2]byte // Data bytes collected so far.
	n       int     // Number of valid entries in data.
	pending bool    // A message has started and is not complete yet.
	implied bool    // The pending message reuses the running status.

	sysex    []byte // F0 followed by the payload received so far.
	overflow bool   // The current system exclusive exceeded sysexLimit.

	anomalies atomic.Uint64
}

// New creates a Decoder in the AwaitingStatus state.
func New(opts ...Option) *Decoder {
	start := time.Now()
	d := &Decoder{
		sysexLimit: DefaultSysExLimit,
		clock:      func() time.Duration { return time.Since(start) },
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logger.NewNopLogger()
	}
	return d
}

// Feed consumes one byte and returns a message when it completes one.
func (d *Decoder) Feed(b byte) (contracts.Message, bool) {
	return d.FeedAt(b, d.clock())
}

// FeedAt is Feed with an explicit capture-relative timestamp.
func (d *Decoder) FeedAt(b byte, ts time.Duration) (contracts.Message, bool) {
	// Real-time first: it must not touch running status or pending data.
	if contracts.IsRealTimeByte(b) {
		return contracts.NewMessage([]byte{b}, ts), true
	}
	if contracts.IsStatusByte(b) {
		return d.statusByte(b, ts)
	}
	return d.dataByte(b, ts)
}

// Decode feeds a chunk and returns the completed messages, timestamped by the clock.
func (d *Decoder) Decode(p []byte) []contracts.Message {
	var out []contracts.Message
	d.DecodeAt(p, d.clock(), func(m contracts.Message) {
		out = append(out, m)
	})
	return out
}

// DecodeAt feeds a chunk, calling emit for every completed message in order.
// The result does not depend on how the stream is split into chunks.
func (d *Decoder) DecodeAt(p []byte, ts time.Duration, emit func(contracts.Message)) {
	for _, b := range p {
		if m, ok := d.FeedAt(b, ts); ok {
			emit(m)
		}
	}
}

// State returns the current state.
func (d *Decoder) State() State { return d.state }

// RunningStatus returns the running-status register, 0 if none.
func (d *Decoder) RunningStatus() byte { return d.running }

// Anomalies returns the number of anomalies seen since creation.
func (d *Decoder) Anomalies() uint64 { return d.anomalies.Load() }

// Reset discards partial input and running status. The anomaly counter is kept.
func (d *Decoder) Reset() {
	d.state = AwaitingStatus
	d.running = 0
	d.status = 0
	d.n = 0
	d.pending = false
	d.implied = false
	d.sysex = d.sysex[:0]
	d.overflow = false
}

func (d *Decoder) statusByte(b byte, ts time.Duration) (contracts.Message, bool) {
	if d.state == InSysEx {
		if b == 0xF7 {
			return d.endSysEx(ts)
		}
		d.anomaly(UnterminatedSysEx, b)
		d.sysex = d.sysex[:0]
		d.overflow = false
		d.state = AwaitingStatus
	} else if d.pending {
		d.anomaly(Truncated, d.status)
	}
	d.pending = false
	d.implied = false
	d.n = 0

	switch {
	case b < 0xF0:
		d.running = b
		d.status = b
		d.pending = true
		d.state = AwaitingData1
		return contracts.Message{}, false
	case b == 0xF0:
		d.running = 0
		d.sysex = append(d.sysex[:0], b)
		d.state = InSysEx
		return contracts.Message{}, false
	case b == 0xF7:
		d.running = 0
		d.state = AwaitingStatus
		d.anomaly(StrayEndOfExclusive, b)
		return contracts.Message{}, false
	}

	// System common clears running status.
	d.running = 0
	if contracts.DataLen(b) == 0 {
		d.state = AwaitingStatus
		return contracts.NewMessage([]byte{b}, ts), true
	}
	d.status = b
	d.pending = true
	d.state = AwaitingData1
	return contracts.Message{}, false
}

func (d *Decoder) dataByte(b byte, ts time.Duration) (contracts.Message, bool) {
	switch d.state {
	case InSysEx:
		if d.overflow {
			return contracts.Message{}, false
		}
		if len(d.sysex)-1 >= d.sysexLimit {
			d.overflow = true
			d.anomaly(SysExOverflow, b)
			return contracts.Message{}, false
		}
		d.sysex = append(d.sysex, b)
		return contracts.Message{}, false

	case AwaitingData1:
		if !d.pending {
			d.status = d.running
			d.pending = true
			d.implied = true
		}
		d.data[0] = b
		d.n = 1
		if contracts.DataLen(d.status) == 1 {
			return d.complete(ts), true
		}
		d.state = AwaitingData2
		return contracts.Message{}, false

	case AwaitingData2:
		d.data[1] = b
		d.n = 2
		return d.complete(ts), true

	default:
		d.anomaly(OrphanData, b)
		return contracts.Message{}, false
	}
}

func (d *Decoder) complete(ts time.Duration) contracts.Message {
	raw := make([]byte, 1+d.n)
	raw[0] = d.status
	copy(raw[1:], d.data[:d.n])

	m := contracts.NewMessage(raw, ts)
	m.RunningStatus = d.implied

	d.pending = false
	d.implied = false
	d.n = 0
	if d.status < 0xF0 {
		d.state = AwaitingData1
	} else {
		d.state = AwaitingStatus
	}
	return m
}

func (d *Decoder) endSysEx(ts time.Duration) (contracts.Message, bool) {
	d.state = AwaitingStatus
	if d.overflow {
		d.overflow = false
		d.sysex = d.sysex[:0]
		return contracts.Message{}, false
	}
	raw := make([]byte, len(d.sysex)+1)
	copy(raw, d.sysex)
	raw[len(raw)-1] = 0xF7
	d.sysex = d.sysex[:0]
	return contracts.NewMessage(raw, ts), true
}

func (d *Decoder) anomaly(kind AnomalyKind, b byte) {
	a := Anomaly{Kind: kind, Byte: b, State: d.state}
	d.anomalies.Add(1)
	d.logger.Debug("MIDI decode anomaly",
		d.logger.Field().String("kind", kind.String()),
		d.logger.Field().Uint8("byte", b),
		d.logger.Field().String("state", d.state.String()))
	if d.onAnomaly != nil {
		d.onAnomaly(a)
	}
}
