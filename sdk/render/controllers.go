package render

import "strconv"

// controllerNames follows the MIDI 1.0 control change assignments.
var controllerNames = map[uint8]string{
	0:   "Bank Select",
	1:   "Modulation Wheel",
	2:   "Breath Controller",
	4:   "Foot Controller",
	5:   "Portamento Time",
	6:   "Data Entry MSB",
	7:   "Channel Volume",
	8:   "Balance",
	10:  "Pan",
	11:  "Expression",
	12:  "Effect Control 1",
	13:  "Effect Control 2",
	16:  "General Purpose 1",
	17:  "General Purpose 2",
	18:  "General Purpose 3",
	19:  "General Purpose 4",
	32:  "Bank Select LSB",
	33:  "Modulation Wheel LSB",
	34:  "Breath Controller LSB",
	36:  "Foot Controller LSB",
	37:  "Portamento Time LSB",
	38:  "Data Entry LSB",
	39:  "Channel Volume LSB",
	40:  "Balance LSB",
	42:  "Pan LSB",
	43:  "Expression LSB",
	64:  "Sustain Pedal",
	65:  "Portamento",
	66:  "Sostenuto",
	67:  "Soft Pedal",
	68:  "Legato Footswitch",
	69:  "Hold 2",
	70:  "Sound Variation",
	71:  "Timbre",
	72:  "Release Time",
	73:  "Attack Time",
	74:  "Brightness",
	75:  "Decay Time",
	76:  "Vibrato Rate",
	77:  "Vibrato Depth",
	78:  "Vibrato Delay",
	79:  "Sound Controller 10",
	80:  "General Purpose 5",
	81:  "General Purpose 6",
	82:  "General Purpose 7",
	83:  "General Purpose 8",
	84:  "Portamento Control",
	88:  "High Resolution Velocity Prefix",
	91:  "Reverb Depth",
	92:  "Tremolo Depth",
	93:  "Chorus Depth",
	94:  "Detune Depth",
	95:  "Phaser Depth",
	96:  "Data Increment",
	97:  "Data Decrement",
	98:  "NRPN LSB",
	99:  "NRPN MSB",
	100: "RPN LSB",
	101: "RPN MSB",
	120: "All Sound Off",
	121: "Reset All Controllers",
	122: "Local Control",
	123: "All Notes Off",
	124: "Omni Mode Off",
	125: "Omni Mode On",
	126: "Mono Mode On",
	127: "Poly Mode On",
}

// ControllerName returns the standard name of a control change number,
// or "CC n" for unassigned numbers.
func ControllerName(cc uint8) string {
	if name, ok := controllerNames[cc]; ok {
		return name
	}
	return "CC " + strconv.Itoa(int(cc))
}
