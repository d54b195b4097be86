//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/leandrodaf/midiwatch/internal/midi/ports"
	"github.com/leandrodaf/midiwatch/sdk/contracts"
	"golang.org/x/sys/windows"
)

// Type definitions for MIDI handles
type HMIDIIN windows.Handle

// Constants for callback flags
const (
	CALLBACK_FUNCTION = 0x00030000 // Indicates that the callback is a function
	MIDI_IO_STATUS    = 0x00000020 // MIDI input/output status
)

// Constants for MIDI message types
const (
	MIM_OPEN      = 0x3C1 // MIDI device opened
	MIM_CLOSE     = 0x3C2 // MIDI device closed
	MIM_DATA      = 0x3C3 // Short MIDI message received
	MIM_LONGDATA  = 0x3C4 // System exclusive buffer returned
	MIM_ERROR     = 0x3C5 // Invalid short message
	MIM_LONGERROR = 0x3C6 // Invalid system exclusive message
	MIM_MOREDATA  = 0x3CC // More MIDI data available
)

var (
	ErrNoMIDIDevices     = errors.New("no MIDI devices found")
	ErrInvalidMIDIHandle = errors.New("invalid MIDI device handle")
	ErrOpenMIDIDevice    = errors.New("failed to open MIDI device")
)

// Struct representing MIDI device capabilities
type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

// ClientMid manages MIDI input on Windows through winmm.
type ClientMid struct {
	logger    contracts.Logger
	packets   atomic.Value // chan<- contracts.Packet
	handle    HMIDIIN
	portConn  bool
	capturing bool
	stopping  atomic.Bool // Set while we close the device ourselves.
	mu        sync.Mutex
	callback  uintptr
	excluded  []string
	dropped   atomic.Uint64
}

// Load the winmm.dll library and required functions
var (
	winmm                = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen       = winmm.NewProc("midiInOpen")
	procMidiInStart      = winmm.NewProc("midiInStart")
	procMidiInStop       = winmm.NewProc("midiInStop")
	procMidiInClose      = winmm.NewProc("midiInClose")
)

// NewMIDIClient creates a MIDI client for Windows
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	options.Logger.Info("MIDI client created for Windows")

	return &ClientMid{
		logger:   options.Logger,
		excluded: options.ExcludedPorts,
	}, nil
}

// ListDevices lists the available MIDI input devices.
// DeviceInfo.ID is the winmm device index expected by SelectDevice.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiInGetNumDevs.Call()
	numDevices := uint32(r0)
	if numDevices == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, 0, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiInCaps
		r1, _, _ := procMidiInGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			m.logger.Warn("Failed to get MIDI device capabilities", m.logger.Field().Int("deviceID", int(i)))
			continue
		}
		deviceName := ports.Normalize(windows.UTF16ToString(caps.szPname[:]), "windows")
		if ports.Excluded(deviceName, m.excluded) {
			continue
		}
		devices = append(devices, contracts.DeviceInfo{
			ID:           int(i),
			Name:         deviceName,
			EntityName:   deviceName,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		})
	}
	if len(devices) == 0 {
		return nil, ErrNoMIDIDevices
	}
	return devices, nil
}

// SelectDevice opens a MIDI input device by its winmm index.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.portConn {
		if err := m.stopCapture(); err != nil {
			return fmt.Errorf("failed to stop previous MIDI capture: %w", err)
		}
	}

	m.callback = windows.NewCallback(midiInCallback)
	fdwOpen := CALLBACK_FUNCTION | MIDI_IO_STATUS

	r1, _, err := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&m.handle)),
		uintptr(deviceID),
		m.callback,
		uintptr(unsafe.Pointer(m)),
		uintptr(fdwOpen),
	)
	if r1 != 0 {
		m.logger.Error("Failed to open MIDI device",
			m.logger.Field().Int("deviceID", deviceID),
			m.logger.Field().Error("error", err))
		return fmt.Errorf("%w %d: %v", ErrOpenMIDIDevice, deviceID, err)
	}

	m.portConn = true
	m.stopping.Store(false)
	m.logger.Info("MIDI device connected", m.logger.Field().Int("deviceID", deviceID))
	return nil
}

// StartCapture starts the device and delivers packets to the given channel.
func (m *ClientMid) StartCapture(packets chan<- contracts.Packet) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.portConn {
		m.logger.Error("Cannot start capture: No MIDI device selected")
		return
	}
	if packets == nil {
		m.logger.Error("StartCapture called with nil packet channel")
		return
	}
	if m.capturing {
		m.logger.Warn("Capture already started; replacing packet channel")
		m.packets.Store(packets)
		return
	}

	m.packets.Store(packets)

	if m.handle == 0 {
		m.logger.Error(ErrInvalidMIDIHandle.Error())
		return
	}

	r1, _, err := procMidiInStart.Call(uintptr(m.handle))
	if r1 != 0 {
		m.logger.Error("Failed to start MIDI capture", m.logger.Field().Error("error", err))
		return
	}

	m.capturing = true
	m.logger.Info("MIDI capture started")
}

// midiInCallback processes incoming winmm notifications.
func midiInCallback(hMidiIn uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, dwParam2 uintptr) uintptr {
	m := (*ClientMid)(unsafe.Pointer(dwInstance))

	switch wMsg {
	case MIM_OPEN:
		m.logger.Debug("MIDI device opened")
	case MIM_CLOSE:
		m.logger.Info("MIDI device closed")
		if !m.stopping.Load() {
			m.send(contracts.Packet{Timestamp: time.Now(), Err: contracts.ErrInputDisconnected})
		}
	case MIM_DATA:
		// dwParam1 packs status, data1 and data2 in its low three bytes.
		status := byte(dwParam1 & 0xFF)
		n := contracts.DataLen(status)
		if n < 0 {
			n = 0
		}
		raw := []byte{status, byte((dwParam1 >> 8) & 0xFF), byte((dwParam1 >> 16) & 0xFF)}
		m.send(contracts.Packet{Timestamp: time.Now(), Data: raw[:1+n]})
	case MIM_LONGDATA:
		m.logger.Debug("System exclusive buffers are not registered; MIM_LONGDATA ignored")
	case MIM_ERROR, MIM_LONGERROR:
		m.logger.Warn("Invalid MIDI message reported by driver",
			m.logger.Field().Int("msg", int(wMsg)),
			m.logger.Field().Uint64("param", uint64(dwParam1)))
	case MIM_MOREDATA:
		m.logger.Debug("Received MIM_MOREDATA message; ignored")
	default:
		m.logger.Warn("Unknown MIDI message", m.logger.Field().Int("msg", int(wMsg)))
	}

	return 0
}

// send hands a packet to the capture channel without blocking the driver thread.
func (m *ClientMid) send(p contracts.Packet) {
	packets, ok := m.packets.Load().(chan<- contracts.Packet)
	if !ok || packets == nil {
		return
	}
	select {
	case packets <- p:
	default:
		m.logger.Warn("Packet buffer full; dropping MIDI packet",
			m.logger.Field().Uint64("dropped", m.dropped.Add(1)))
	}
}

// Stop terminates MIDI capture and closes the device.
func (m *ClientMid) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.portConn {
		m.logger.Debug("No MIDI device is connected")
		return nil
	}

	if err := m.stopCapture(); err != nil {
		return fmt.Errorf("failed to stop MIDI capture: %w", err)
	}
	m.logger.Info("MIDI capture stopped and device closed")
	return nil
}

// stopCapture stops the capture and releases resources
func (m *ClientMid) stopCapture() error {
	if m.handle == 0 {
		return ErrInvalidMIDIHandle
	}
	m.stopping.Store(true)

	r1, _, err := procMidiInStop.Call(uintptr(m.handle))
	if r1 != 0 {
		m.logger.Error("Failed to stop MIDI capture", m.logger.Field().Error("error", err))
		return err
	}

	r1, _, err = procMidiInClose.Call(uintptr(m.handle))
	if r1 != 0 {
		m.logger.Error("Failed to close MIDI device", m.logger.Field().Error("error", err))
		return err
	}

	m.portConn = false
	m.capturing = false
	m.handle = 0
	var dead chan<- contracts.Packet = make(chan contracts.Packet)
	m.packets.Store(dead)
	return nil
}
