package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedBytes is returned when a hex or binary rendering cannot be parsed.
var ErrMalformedBytes = errors.New("malformed byte rendering")

// ParseHex reads space separated hex bytes as produced by Hex.
// A "0x" prefix on each byte is accepted.
func ParseHex(s string) ([]byte, error) {
	return parseBytes(s, 16, 2, "0x")
}

// ParseBinary reads space separated binary bytes as produced by Binary.
// A "0b" prefix on each byte is accepted.
func ParseBinary(s string) ([]byte, error) {
	return parseBytes(s, 2, 8, "0b")
}

func parseBytes(s string, base, maxDigits int, prefix string) ([]byte, error) {
	fields := strings.Fields(s)
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		digits := f
		if len(digits) > len(prefix) && strings.EqualFold(digits[:len(prefix)], prefix) {
			digits = digits[len(prefix):]
		}
		if len(digits) > maxDigits {
			return nil, fmt.Errorf("%w: %q has more than %d digits", ErrMalformedBytes, f, maxDigits)
		}
		v, err := strconv.ParseUint(digits, base, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformedBytes, f, err)
		}
		out = append(out, byte(v))
	}
	return out, nil
}
