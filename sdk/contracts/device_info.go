package contracts

// DeviceInfo contains information about a MIDI input device.
type DeviceInfo struct {
	ID           int    // Driver-level index, the value accepted by SelectDevice.
	Name         string // Device name, normalized for display.
	Manufacturer string // Device manufacturer.
	EntityName   string // Name of the entity to which the device belongs.
}
