package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/leandrodaf/midiwatch/sdk/contracts"
	"github.com/leandrodaf/midiwatch/sdk/render"
)

// CSVHeader is the column schema written by CSV.
var CSVHeader = []string{"timestamp", "status", "channel", "data1", "data2", "note_name", "raw_hex"}

// CSV writes one row per message under CSVHeader.
//
// timestamp is in seconds since the capture started with microsecond
// precision, status is the message type name and channel is 1-based.
// Columns that do not apply to a message are left empty.
type CSV struct{}

// Export implements contracts.Exporter.
func (CSV) Export(w io.Writer, msgs []contracts.Message) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, m := range msgs {
		if err := cw.Write(csvRow(m)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(m contracts.Message) []string {
	row := make([]string, len(CSVHeader))
	row[0] = strconv.FormatFloat(m.Timestamp.Seconds(), 'f', 6, 64)
	row[1] = m.Type.String()
	if m.HasChannel() {
		row[2] = strconv.Itoa(int(m.Channel) + 1)
	}
	if m.HasData1() {
		row[3] = strconv.Itoa(int(m.Data1))
	}
	if m.HasData2() {
		row[4] = strconv.Itoa(int(m.Data2))
	}
	if m.Type.IsNote() {
		row[5] = render.NoteName(m.Data1).String()
	}
	row[6] = render.Hex(m.Raw)
	return row
}
