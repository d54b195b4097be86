//go:build cgo
// +build cgo

// Package midiportable reads MIDI input through RtMidi (ALSA on Linux,
// CoreMIDI and winmm elsewhere) using gomidi.
package midiportable

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leandrodaf/midiwatch/internal/midi/ports"
	"github.com/leandrodaf/midiwatch/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

var (
	ErrNoMIDIDevices     = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice = errors.New("invalid MIDI device")
	ErrOpenMIDIDevice    = errors.New("error opening MIDI input")
)

// ClientMid manages an RtMidi input port.
type ClientMid struct {
	logger   contracts.Logger
	drv      *rtmididrv.Driver
	in       drivers.In
	stopFn   func()
	packets  atomic.Value // chan<- contracts.Packet
	excluded []string
	mu       sync.Mutex
	stopOnce sync.Once
	dropped  atomic.Uint64
}

// NewMIDIClient opens the RtMidi driver.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("create RtMidi driver: %w", err)
	}
	options.Logger.Info("MIDI client successfully created", options.Logger.Field().String("driver", drv.String()))

	return &ClientMid{
		logger:   options.Logger,
		drv:      drv,
		excluded: options.ExcludedPorts,
	}, nil
}

// ListDevices lists input ports. RtMidi's own loopback clients are hidden and
// ALSA "client:port" suffixes are stripped from names.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	ins, err := m.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI inputs: %w", err)
	}

	devices := make([]contracts.DeviceInfo, 0, len(ins))
	for _, in := range ins {
		name := ports.Normalize(in.String(), runtime.GOOS)
		if ports.Excluded(name, m.excluded) {
			m.logger.Debug("MIDI input excluded", m.logger.Field().String("deviceName", in.String()))
			continue
		}
		devices = append(devices, contracts.DeviceInfo{
			ID:         in.Number(),
			Name:       name,
			EntityName: in.String(),
		})
	}
	if len(devices) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}
	return devices, nil
}

// SelectDevice opens the input port with the given number and starts
// listening. Packets are delivered once StartCapture has been called.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ins, err := m.drv.Ins()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI inputs: %w", err)
	}
	var found drivers.In
	for _, in := range ins {
		if in.Number() == deviceID {
			found = in
			break
		}
	}
	if found == nil {
		m.logger.Error(ErrInvalidMIDIDevice.Error(), m.logger.Field().Int("deviceID", deviceID))
		return ErrInvalidMIDIDevice
	}

	m.closeInput()

	if err := found.Open(); err != nil {
		m.logger.Error(ErrOpenMIDIDevice.Error(), m.logger.Field().Error("error", err))
		return fmt.Errorf("%w: %v", ErrOpenMIDIDevice, err)
	}

	name := found.String()
	stop, err := midi.ListenTo(found, func(msg midi.Message, timestampms int32) {
		data := make([]byte, len(msg))
		copy(data, msg)
		m.send(contracts.Packet{Timestamp: time.Now(), Data: data})
	},
		midi.UseSysEx(),
		midi.UseActiveSense(),
		midi.UseTimeCode(),
		midi.HandleError(func(listenErr error) {
			m.logger.Warn("MIDI listener error; device likely disconnected",
				m.logger.Field().String("deviceName", name),
				m.logger.Field().Error("error", listenErr))
			m.send(contracts.Packet{
				Timestamp: time.Now(),
				Err:       fmt.Errorf("%w: %v", contracts.ErrInputDisconnected, listenErr),
			})
		}))
	if err != nil {
		_ = found.Close()
		m.logger.Error("Failed to start MIDI listener", m.logger.Field().Error("error", err))
		return fmt.Errorf("%w: %v", ErrOpenMIDIDevice, err)
	}

	m.in = found
	m.stopFn = stop
	m.logger.Info("MIDI device selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", name))
	return nil
}

// StartCapture begins delivering packets to the given channel.
func (m *ClientMid) StartCapture(packets chan<- contracts.Packet) {
	if packets == nil {
		m.logger.Error("StartCapture called with nil packet channel")
		return
	}
	m.packets.Store(packets)
	m.logger.Info("Starting MIDI capture")
}

func (m *ClientMid) send(p contracts.Packet) {
	packets, _ := m.packets.Load().(chan<- contracts.Packet)
	if packets == nil {
		return
	}
	select {
	case packets <- p:
	default:
		m.logger.Warn("Packet buffer full; dropping MIDI packet",
			m.logger.Field().Uint64("dropped", m.dropped.Add(1)))
	}
}

// closeInput stops the listener and closes the open port, if any.
func (m *ClientMid) closeInput() {
	if m.stopFn != nil {
		m.stopFn()
		m.stopFn = nil
	}
	if m.in != nil {
		if err := m.in.Close(); err != nil {
			m.logger.Warn("Failed to close MIDI input", m.logger.Field().Error("error", err))
		}
		m.in = nil
	}
}

// Stop closes the port and the driver. Only the first call has an effect.
func (m *ClientMid) Stop() error {
	var err error
	m.stopOnce.Do(func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		var dead chan<- contracts.Packet = make(chan contracts.Packet)
		m.packets.Store(dead)
		m.closeInput()
		err = m.drv.Close()
		m.logger.Info("MIDI capture stopped",
			m.logger.Field().Uint64("dropped", m.dropped.Load()))
	})
	return err
}
