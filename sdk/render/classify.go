// Package render classifies decoded MIDI messages and turns them into text.
//
// Every function here is pure: a Message is only read, and the same input
// always gives the same output.
package render

import "github.com/leandrodaf/midiwatch/sdk/contracts"

// Classify returns the message type announced by the effective status byte.
func Classify(m contracts.Message) contracts.MessageType {
	return contracts.TypeOf(m.Status)
}

// Annotate returns the note carried by Note On, Note Off and Polyphonic
// Aftertouch messages. ok is false for every other type.
func Annotate(m contracts.Message) (n Note, ok bool) {
	switch Classify(m) {
	case contracts.NoteOn, contracts.NoteOff, contracts.PolyAftertouch:
		return NoteName(m.Data1), true
	default:
		return Note{}, false
	}
}
