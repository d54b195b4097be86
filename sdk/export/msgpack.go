package export

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/leandrodaf/midiwatch/sdk/contracts"
)

// record is the MessagePack form of one message. Raw is authoritative;
// the other fields are rebuilt from it on decode.
type record struct {
	Seq           uint64 `msgpack:"seq"`
	TimestampNS   int64  `msgpack:"timestamp_ns"`
	Type          string `msgpack:"type"`
	Raw           []byte `msgpack:"raw"`
	RunningStatus bool   `msgpack:"running_status,omitempty"`
}

// RecordErrorKind classifies MessagePack read errors.
type RecordErrorKind int

const (
	// RecordErrorDecode indicates a msgpack decoding error.
	RecordErrorDecode RecordErrorKind = iota
	// RecordErrorMismatch indicates a record whose type disagrees with its raw bytes.
	RecordErrorMismatch
)

// RecordError represents a MessagePack read error at a given record index.
type RecordError struct {
	Kind  RecordErrorKind
	Index int
	Msg   string
	Err   error
}

func (e *RecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("record %d: %s: %v", e.Index, e.Msg, e.Err)
	}
	return fmt.Sprintf("record %d: %s", e.Index, e.Msg)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// MessagePack writes a stream of MessagePack records, one per message.
type MessagePack struct{}

// Export implements contracts.Exporter.
func (MessagePack) Export(w io.Writer, msgs []contracts.Message) error {
	enc := msgpack.NewEncoder(w)
	for _, m := range msgs {
		rec := record{
			Seq:           m.Seq,
			TimestampNS:   m.Timestamp.Nanoseconds(),
			Type:          m.Type.Key(),
			Raw:           m.Raw,
			RunningStatus: m.RunningStatus,
		}
		if err := enc.Encode(&rec); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMessagePack reads every record written by MessagePack.Export.
// It returns the messages read so far together with any error.
func DecodeMessagePack(r io.Reader) ([]contracts.Message, error) {
	dec := msgpack.NewDecoder(r)
	var out []contracts.Message
	for i := 0; ; i++ {
		var rec record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, &RecordError{Kind: RecordErrorDecode, Index: i, Msg: "failed to decode record", Err: err}
		}

		m := contracts.NewMessage(rec.Raw, time.Duration(rec.TimestampNS))
		if m.Type.Key() != rec.Type {
			return out, &RecordError{
				Kind:  RecordErrorMismatch,
				Index: i,
				Msg:   fmt.Sprintf("type %q does not match raw bytes (%s)", rec.Type, m.Type.Key()),
			}
		}
		m.Seq = rec.Seq
		m.RunningStatus = rec.RunningStatus
		out = append(out, m)
	}
}
