package contracts

import (
	"errors"
	"io"
	"time"
)

// ErrInputDisconnected is carried by a Packet when the upstream input ends:
// the device went away or the byte stream reached EOF.
var ErrInputDisconnected = errors.New("MIDI input disconnected")

// ErrExportFailed is matched by errors returned from a capture log export.
var ErrExportFailed = errors.New("export failed")

// Packet is one delivery of raw MIDI octets from an input collaborator.
// Data may hold several messages, a single one, or a fragment of one.
type Packet struct {
	Timestamp time.Time // Arrival time, carries the monotonic clock reading.
	Data      []byte    // Raw octets in wire order. Owned by the receiver.
	Err       error     // Non-nil when the input signals an end of stream instead of data.
}

// ClientMIDI defines an interface for MIDI input clients.
type ClientMIDI interface {
	// Stop stops the MIDI client and releases resources.
	Stop() error
	// ListDevices lists all available MIDI input devices.
	ListDevices() ([]DeviceInfo, error)
	// SelectDevice selects a MIDI device by its DeviceInfo.ID.
	SelectDevice(deviceID int) error
	// StartCapture starts delivering raw packets to the given channel.
	StartCapture(packets chan<- Packet)
}

// Exporter writes captured messages to w in some file format.
type Exporter interface {
	Export(w io.Writer, msgs []Message) error
}
