package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/leandrodaf/midiwatch/sdk/contracts"
)

// Format selects one of the textual views of a message.
type Format string

// Supported formats.
const (
	FormatHuman  Format = "human"
	FormatHex    Format = "hex"
	FormatBinary Format = "binary"
)

// ParseFormat parses a format name, returning an error for unknown names.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "human", "":
		return FormatHuman, nil
	case "hex", "hexadecimal":
		return FormatHex, nil
	case "binary", "bin":
		return FormatBinary, nil
	default:
		return "", fmt.Errorf("invalid view: %q (must be human, hex, or binary)", s)
	}
}

// Render returns the text of m in the given format. Unknown formats fall
// back to the human view.
func Render(m contracts.Message, f Format) string {
	switch f {
	case FormatHex:
		return Hex(m.Raw)
	case FormatBinary:
		return Binary(m.Raw)
	default:
		return Human(m)
	}
}

// Hex renders each byte as two uppercase hex digits, space separated.
func Hex(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw) * 3)
	for i, v := range raw {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", v)
	}
	return b.String()
}

// Binary renders each byte as eight binary digits, space separated.
func Binary(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw) * 9)
	for i, v := range raw {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%08b", v)
	}
	return b.String()
}

// Human renders m as "<type> ch=<channel> <params>", for example
// "Note On ch=1 note=C4 (60) velocity=127 (100%)". Channels are shown
// 1-based; system messages have no channel.
func Human(m contracts.Message) string {
	d := Describe(m)
	parts := make([]string, 0, 4)
	parts = append(parts, d.Type)
	if d.Channel != "" {
		parts = append(parts, "ch="+d.Channel)
	}
	if d.Note != "" {
		parts = append(parts, "note="+d.Note)
	}
	if d.Detail != "" {
		parts = append(parts, d.Detail)
	}
	return strings.Join(parts, " ")
}

// Description splits the human view into the columns used by tables and
// CSV export.
type Description struct {
	Type    string // Display name, e.g. "Control Change".
	Channel string // 1-based channel, empty for system messages.
	Note    string // "C4 (60)" for note messages, empty otherwise.
	Detail  string // Remaining parameters as key=value pairs.
}

// Describe returns the column split of m.
func Describe(m contracts.Message) Description {
	typ := Classify(m)
	d := Description{Type: typ.String()}
	if typ.IsChannelVoice() {
		d.Channel = strconv.Itoa(int(m.Channel) + 1)
	}
	if n, ok := Annotate(m); ok {
		d.Note = fmt.Sprintf("%s (%d)", n, m.Data1)
	}

	switch typ {
	case contracts.NoteOn, contracts.NoteOff:
		d.Detail = "velocity=" + percent(m.Data2)
	case contracts.PolyAftertouch:
		d.Detail = "pressure=" + percent(m.Data2)
	case contracts.ControlChange:
		d.Detail = fmt.Sprintf("controller=%d (%s) value=%d", m.Data1, ControllerName(m.Data1), m.Data2)
	case contracts.ProgramChange:
		d.Detail = fmt.Sprintf("program=%d", m.Data1)
	case contracts.ChannelAftertouch:
		d.Detail = "pressure=" + percent(m.Data1)
	case contracts.PitchBend:
		bend := int(m.Value14()) - pitchCenter
		d.Detail = fmt.Sprintf("bend=%d (%d%%)", bend, int(math.Round(float64(bend)/pitchMax*100)))
	case contracts.MTCQuarterFrame:
		d.Detail = fmt.Sprintf("piece=%s value=%d", quarterFramePieces[m.Data1>>4&0x07], m.Data1&0x0F)
	case contracts.SongPosition:
		d.Detail = fmt.Sprintf("position=%d", m.Value14())
	case contracts.SongSelect:
		d.Detail = fmt.Sprintf("song=%d", m.Data1)
	case contracts.SysEx:
		d.Detail = fmt.Sprintf("bytes=%d", len(m.Payload()))
	}
	return d
}

const (
	pitchCenter = 8192
	pitchMax    = 8191.0
	dataMax     = 127.0
)

var quarterFramePieces = [8]string{
	"Frames LS", "Frames MS", "Seconds LS", "Seconds MS",
	"Minutes LS", "Minutes MS", "Hours LS", "Hours MS",
}

// percent formats a 7-bit value with its share of the full range: "64 (50%)".
func percent(v uint8) string {
	return fmt.Sprintf("%d (%.0f%%)", v, float64(v)/dataMax*100)
}
