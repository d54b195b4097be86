package capture

import (
	"sync"

	"github.com/leandrodaf/midiwatch/sdk/contracts"
	"github.com/leandrodaf/midiwatch/sdk/decoder"
)

// Stats is an immutable point-in-time view of a session's counters.
type Stats struct {
	Packets   int64
	Bytes     int64
	Messages  int64 // Decoded messages, filtered ones included.
	Logged    int64
	Filtered  int64
	Anomalies int64

	ByType      map[contracts.MessageType]int64
	ByAnomaly   map[decoder.AnomalyKind]int64
	RunningHits int64 // Messages whose status byte was implied on the wire.
}

// collector accumulates session counters. Thread-safe via sync.Mutex.
type collector struct {
	mu sync.Mutex

	packets   int64
	bytes     int64
	messages  int64
	logged    int64
	filtered  int64
	anomalies int64
	running   int64

	byType    map[contracts.MessageType]int64
	byAnomaly map[decoder.AnomalyKind]int64
}

func newCollector() *collector {
	return &collector{
		byType:    make(map[contracts.MessageType]int64),
		byAnomaly: make(map[decoder.AnomalyKind]int64),
	}
}

// incPacket records one packet of n bytes.
func (c *collector) incPacket(n int) {
	c.mu.Lock()
	c.packets++
	c.bytes += int64(n)
	c.mu.Unlock()
}

// incMessage records a decoded message and whether it reached the log.
func (c *collector) incMessage(m contracts.Message, logged bool) {
	c.mu.Lock()
	c.messages++
	c.byType[m.Type]++
	if m.RunningStatus {
		c.running++
	}
	if logged {
		c.logged++
	} else {
		c.filtered++
	}
	c.mu.Unlock()
}

// incAnomaly records a decode anomaly.
func (c *collector) incAnomaly(a decoder.Anomaly) {
	c.mu.Lock()
	c.anomalies++
	c.byAnomaly[a.Kind]++
	c.mu.Unlock()
}

// snapshot returns a copy of all counters.
func (c *collector) snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	byType := make(map[contracts.MessageType]int64, len(c.byType))
	for k, v := range c.byType {
		byType[k] = v
	}
	byAnomaly := make(map[decoder.AnomalyKind]int64, len(c.byAnomaly))
	for k, v := range c.byAnomaly {
		byAnomaly[k] = v
	}

	return Stats{
		Packets:     c.packets,
		Bytes:       c.bytes,
		Messages:    c.messages,
		Logged:      c.logged,
		Filtered:    c.filtered,
		Anomalies:   c.anomalies,
		ByType:      byType,
		ByAnomaly:   byAnomaly,
		RunningHits: c.running,
	}
}
