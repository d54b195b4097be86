package decoder

import (
	"time"

	"github.com/leandrodaf/midiwatch/sdk/contracts"
)

// DefaultSysExLimit bounds the system exclusive payload kept in memory.
const DefaultSysExLimit = 64 * 1024

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger used to report anomalies.
func WithLogger(l contracts.Logger) Option {
	return func(d *Decoder) {
		d.logger = l
	}
}

// WithClock sets the timestamp source used by Feed and Decode.
func WithClock(clock func() time.Duration) Option {
	return func(d *Decoder) {
		d.clock = clock
	}
}

// WithSysExLimit sets the maximum system exclusive payload; n <= 0 keeps the default.
func WithSysExLimit(n int) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.sysexLimit = n
		}
	}
}

// WithAnomalyHandler registers a callback invoked for every anomaly,
// on the goroutine feeding the decoder.
func WithAnomalyHandler(fn func(Anomaly)) Option {
	return func(d *Decoder) {
		d.onAnomaly = fn
	}
}
