// Package midistream exposes any io.Reader of raw MIDI octets as a MIDI
// input client: capture files, stdin or raw device nodes such as
// /dev/snd/midiC1D0.
package midistream

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/leandrodaf/midiwatch/sdk/contracts"
)

// ChunkSize is the read buffer size; packets carry at most this many bytes.
const ChunkSize = 256

// ErrInvalidMIDIDevice is returned when selecting anything but device 0.
var ErrInvalidMIDIDevice = errors.New("invalid MIDI device")

// ClientMid delivers the bytes of a reader as packets. The stream is not
// real time, so sends block until the session takes them or Stop is called.
type ClientMid struct {
	logger   contracts.Logger
	r        io.Reader
	name     string
	mu       sync.Mutex
	started  bool
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMIDIClient wraps r as a single input device called name.
func NewMIDIClient(r io.Reader, name string, options *contracts.ClientOptions) *ClientMid {
	return &ClientMid{
		logger: options.Logger,
		r:      r,
		name:   name,
		stop:   make(chan struct{}),
	}
}

// ListDevices returns the stream as device 0.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	return []contracts.DeviceInfo{{ID: 0, Name: m.name, EntityName: "byte stream"}}, nil
}

// SelectDevice accepts only device 0.
func (m *ClientMid) SelectDevice(deviceID int) error {
	if deviceID != 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMIDIDevice, deviceID)
	}
	return nil
}

// StartCapture starts reading. A second call is ignored.
func (m *ClientMid) StartCapture(packets chan<- contracts.Packet) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if packets == nil {
		m.logger.Error("StartCapture called with nil packet channel")
		return
	}
	if m.started {
		m.logger.Warn("Capture already started")
		return
	}
	m.started = true
	m.logger.Info("Starting MIDI stream capture", m.logger.Field().String("source", m.name))
	go m.read(packets)
}

func (m *ClientMid) read(packets chan<- contracts.Packet) {
	buf := make([]byte, ChunkSize)
	var total int64
	for {
		n, err := m.r.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			total += int64(n)
			if !m.send(packets, contracts.Packet{Timestamp: time.Now(), Data: data}) {
				return
			}
		}
		if err != nil {
			m.logger.Info("MIDI stream ended",
				m.logger.Field().String("source", m.name),
				m.logger.Field().Int64("bytes", total),
				m.logger.Field().Error("reason", err))
			m.send(packets, contracts.Packet{
				Timestamp: time.Now(),
				Err:       fmt.Errorf("%w: %w", contracts.ErrInputDisconnected, err),
			})
			return
		}
	}
}

func (m *ClientMid) send(packets chan<- contracts.Packet, p contracts.Packet) bool {
	select {
	case <-m.stop:
		return false
	default:
	}
	select {
	case packets <- p:
		return true
	case <-m.stop:
		return false
	}
}

// Stop ends delivery. A Read already in progress is not interrupted; its
// data is discarded when it returns.
func (m *ClientMid) Stop() error {
	m.stopOnce.Do(func() {
		close(m.stop)
		m.logger.Debug("MIDI stream capture stopped", m.logger.Field().String("source", m.name))
	})
	return nil
}
