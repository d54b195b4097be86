//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leandrodaf/midiwatch/internal/midi/ports"
	"github.com/leandrodaf/midiwatch/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrNoMIDIDevices       = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice   = errors.New("invalid MIDI device")
	ErrMIDIConnectionError = errors.New("error connecting to MIDI device")
	ErrCreateInputPort     = errors.New("error creating input port")
	ErrEmptyMIDIPacket     = errors.New("empty MIDI packet")
)

// internalPortConnection is an interface for handling disconnection from a MIDI port.
type internalPortConnection interface {
	Disconnect()
}

// ClientMid manages MIDI input on Darwin (macOS) systems.
// CoreMIDI packets are forwarded as raw octets; a packet may hold several
// messages, so reassembly is left to the decoder.
type ClientMid struct {
	logger         contracts.Logger
	packets        atomic.Value              // chan<- contracts.Packet; swapped for a dead channel on Stop.
	client         coremidi.Client           // CoreMIDI client instance for MIDI operations.
	inputPort      coremidi.InputPort        // Input port for receiving MIDI packets.
	portConn       internalPortConnection    // Connection to the MIDI port.
	coreMIDIConfig *contracts.CoreMIDIConfig // Configuration for MIDI client.
	excluded       []string                  // Port name substrings hidden from ListDevices.
	mu             sync.Mutex                // Mutex for thread safety on shared resources.
	capturing      bool                      // Indicates if capturing is currently active.
	wg             sync.WaitGroup            // Tracks CoreMIDI callbacks in flight.
	stopOnce       sync.Once                 // Ensures Stop() is executed only once.
	dropped        atomic.Uint64             // Packets dropped because the channel was full.
}

// NewMIDIClient initializes a new ClientMid for handling MIDI input on macOS.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	client, err := coremidi.NewClient(options.CoreMIDIConfig.ClientName)
	if err != nil {
		return nil, err
	}
	options.Logger.Info("MIDI client successfully created",
		options.Logger.Field().String("clientName", options.CoreMIDIConfig.ClientName))

	return &ClientMid{
		logger:         options.Logger,
		client:         client,
		coreMIDIConfig: options.CoreMIDIConfig,
		excluded:       options.ExcludedPorts,
	}, nil
}

// ListDevices retrieves and returns available MIDI sources.
// DeviceInfo.ID is the CoreMIDI source index expected by SelectDevice.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}

	devices := make([]contracts.DeviceInfo, 0, len(sources))
	for i, source := range sources {
		name := ports.Normalize(source.Name(), "darwin")
		if ports.Excluded(name, m.excluded) {
			m.logger.Debug("MIDI source excluded", m.logger.Field().String("deviceName", name))
			continue
		}
		sourceEntity := source.Entity()
		devices = append(devices, contracts.DeviceInfo{
			ID:           i,
			Name:         name,
			EntityName:   sourceEntity.Name(),
			Manufacturer: sourceEntity.Manufacturer(),
		})
	}
	if len(devices) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}
	return devices, nil
}

// SelectDevice selects a MIDI source by ID and connects to it.
// If a source is already connected, it disconnects first.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sources, err := coremidi.AllSources()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	if deviceID < 0 || deviceID >= len(sources) {
		m.logger.Error(ErrInvalidMIDIDevice.Error(), m.logger.Field().Int("deviceID", deviceID))
		return ErrInvalidMIDIDevice
	}

	if m.portConn != nil {
		m.portConn.Disconnect()
		m.portConn = nil
	}

	source := sources[deviceID]
	m.logger.Info("MIDI device selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", source.Name()))

	m.inputPort, err = coremidi.NewInputPort(m.client, "midiwatch input", m.handlePacket)
	if err != nil {
		m.logger.Error(ErrCreateInputPort.Error(), m.logger.Field().Error("error", err))
		return fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}

	m.portConn, err = m.inputPort.Connect(source)
	if err != nil {
		m.logger.Error(ErrMIDIConnectionError.Error(), m.logger.Field().Error("error", err))
		return fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}

	m.logger.Info("MIDI device successfully connected")
	return nil
}

// handlePacket copies the CoreMIDI packet and hands it to the capture channel
// without blocking the CoreMIDI thread.
func (m *ClientMid) handlePacket(source coremidi.Source, packet coremidi.Packet) {
	m.wg.Add(1)
	defer m.wg.Done()

	packets, _ := m.packets.Load().(chan<- contracts.Packet)
	if packets == nil {
		m.logger.Warn("packet channel not initialized")
		return
	}
	if len(packet.Data) == 0 {
		m.logger.Debug(ErrEmptyMIDIPacket.Error())
		return
	}

	data := make([]byte, len(packet.Data))
	copy(data, packet.Data)

	select {
	case packets <- contracts.Packet{Timestamp: time.Now(), Data: data}:
	default:
		m.logger.Warn("Packet buffer full; dropping MIDI packet",
			m.logger.Field().Uint64("dropped", m.dropped.Add(1)))
	}
}

// StartCapture begins delivering packets to the given channel. Calling it
// again replaces the channel.
func (m *ClientMid) StartCapture(packets chan<- contracts.Packet) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if packets == nil {
		m.logger.Error("StartCapture called with nil packet channel")
		return
	}
	if m.capturing {
		m.logger.Warn("Capture already started; replacing packet channel")
	}

	m.logger.Info("Starting MIDI capture")
	m.packets.Store(packets)
	m.capturing = true
}

// Stop halts capturing, disconnects from the device, and waits for
// in-flight callbacks to complete. Only the first call has an effect.
func (m *ClientMid) Stop() error {
	m.stopOnce.Do(func() {
		m.logger.Info("Stopping MIDI capture")
		m.mu.Lock()
		defer m.mu.Unlock()

		if m.portConn != nil {
			m.portConn.Disconnect()
			m.portConn = nil
		}
		if m.capturing {
			m.capturing = false

			// An unbuffered channel nobody reads makes late callbacks drop their packet.
			var dead chan<- contracts.Packet = make(chan contracts.Packet)
			m.packets.Store(dead)

			m.wg.Wait()
			m.logger.Info("MIDI capture stopped",
				m.logger.Field().Uint64("dropped", m.dropped.Load()))
		}
	})
	return nil
}
