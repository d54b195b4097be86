// Package export writes captured messages to files.
//
// Exporters implement contracts.Exporter and are handed a snapshot by
// capture.Log.Export; they never see the live log.
package export

import (
	"fmt"
	"strings"

	"github.com/leandrodaf/midiwatch/sdk/contracts"
)

// Format represents an export file format.
type Format string

// Supported formats.
const (
	FormatCSV     Format = "csv"
	FormatMsgPack Format = "msgpack"
)

// ParseFormat parses a format string, returning an error for invalid formats.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv", "":
		return FormatCSV, nil
	case "msgpack", "mpk":
		return FormatMsgPack, nil
	default:
		return "", fmt.Errorf("invalid export format: %q (must be csv or msgpack)", s)
	}
}

// Extension returns the conventional file extension, dot included.
func (f Format) Extension() string {
	if f == FormatMsgPack {
		return ".mpk"
	}
	return ".csv"
}

// New returns the exporter for f.
func New(f Format) (contracts.Exporter, error) {
	switch f {
	case FormatCSV:
		return CSV{}, nil
	case FormatMsgPack:
		return MessagePack{}, nil
	default:
		return nil, fmt.Errorf("unknown export format: %s", f)
	}
}
