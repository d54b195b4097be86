// Package capture owns the in-memory record of a capture: the Log of decoded
// messages and the Session that fills it from a MIDI input on its own
// goroutine.
package capture

import (
	"fmt"
	"io"
	"iter"
	"sync"

	"github.com/leandrodaf/midiwatch/sdk/contracts"
)

// Log is an ordered, append-only sequence of messages in arrival order.
//
// Appends and Clear are serialized; readers always get a consistent prefix
// copied under a read lock, so a snapshot never changes after it is taken.
type Log struct {
	mu       sync.RWMutex
	capacity int // 0 means unbounded.
	entries  []contracts.Message
	head     int    // Index of the oldest live entry; entries[:head] are evicted.
	lastSeq  uint64 // Seq of the most recent append; survives Clear.
}

// NewLog creates a Log. With capacity > 0 the oldest entries are evicted
// once the log is full; Append never rejects a message.
func NewLog(capacity int) *Log {
	if capacity < 0 {
		capacity = 0
	}
	return &Log{capacity: capacity}
}

// Append stores m, assigns its Seq and returns it. Seq starts at 1 and keeps
// increasing across Clear.
func (l *Log) Append(m contracts.Message) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastSeq++
	m.Seq = l.lastSeq
	l.entries = append(l.entries, m)

	if l.capacity > 0 && len(l.entries)-l.head > l.capacity {
		l.entries[l.head] = contracts.Message{}
		l.head++
		// Compact once the evicted prefix is as large as the window.
		if l.head >= l.capacity {
			n := copy(l.entries, l.entries[l.head:])
			clear(l.entries[n:])
			l.entries = l.entries[:n]
			l.head = 0
		}
	}
	return m.Seq
}

// Len returns the number of live entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries) - l.head
}

// LastSeq returns the Seq of the most recent append, 0 if none.
func (l *Log) LastSeq() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastSeq
}

// Snapshot returns a copy of the live entries in arrival order.
func (l *Log) Snapshot() []contracts.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.copyFrom(l.head)
}

// Since returns a copy of the entries with Seq greater than seq. A display
// refreshes incrementally by passing the last Seq it has shown.
func (l *Log) Since(seq uint64) []contracts.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	live := l.entries[l.head:]
	if len(live) == 0 || seq >= l.lastSeq {
		return nil
	}
	// Seqs in the live window are contiguous.
	first := live[0].Seq
	if seq < first {
		return l.copyFrom(l.head)
	}
	return l.copyFrom(l.head + int(seq-first) + 1)
}

// All iterates over a snapshot taken when iteration starts.
func (l *Log) All() iter.Seq2[int, contracts.Message] {
	return func(yield func(int, contracts.Message) bool) {
		for i, m := range l.Snapshot() {
			if !yield(i, m) {
				return
			}
		}
	}
}

// Clear empties the log and returns the number of entries removed.
func (l *Log) Clear() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.entries) - l.head
	l.entries = nil
	l.head = 0
	return n
}

// Export writes a snapshot with e. Failures wrap contracts.ErrExportFailed;
// the log is left untouched and can be exported again.
func (l *Log) Export(w io.Writer, e contracts.Exporter) error {
	if err := e.Export(w, l.Snapshot()); err != nil {
		return fmt.Errorf("%w: %w", contracts.ErrExportFailed, err)
	}
	return nil
}

func (l *Log) copyFrom(i int) []contracts.Message {
	if i >= len(l.entries) {
		return nil
	}
	out := make([]contracts.Message, len(l.entries)-i)
	copy(out, l.entries[i:])
	return out
}
