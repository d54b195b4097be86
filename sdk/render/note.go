package render

import "strconv"

var noteLetters = [12]struct {
	letter byte
	sharp  bool
}{
	{'C', false}, {'C', true}, {'D', false}, {'D', true}, {'E', false}, {'F', false},
	{'F', true}, {'G', false}, {'G', true}, {'A', false}, {'A', true}, {'B', false},
}

// Note is a MIDI note number spelled as letter, accidental and octave.
// Black keys are always spelled with a sharp.
type Note struct {
	Letter byte // 'A' to 'G'.
	Sharp  bool
	Octave int // -1 to 9; middle C (60) is octave 4.
}

// NoteName spells a MIDI note number. 60 is "C4", 0 is "C-1" and 127 is "G9".
func NoteName(n uint8) Note {
	l := noteLetters[n%12]
	return Note{Letter: l.letter, Sharp: l.sharp, Octave: int(n)/12 - 1}
}

// String returns the note as "C4" or "C#4".
func (n Note) String() string {
	b := make([]byte, 0, 4)
	b = append(b, n.Letter)
	if n.Sharp {
		b = append(b, '#')
	}
	return string(strconv.AppendInt(b, int64(n.Octave), 10))
}
