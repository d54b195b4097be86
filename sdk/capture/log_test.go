package capture

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/leandrodaf/midiwatch/sdk/contracts"
)

func note(n byte) contracts.Message {
	return contracts.NewMessage([]byte{0x90, n, 0x40}, 0)
}

func seqs(msgs []contracts.Message) []uint64 {
	out := make([]uint64, len(msgs))
	for i, m := range msgs {
		out[i] = m.Seq
	}
	return out
}

func equalSeqs(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLog_AppendAndSnapshot(t *testing.T) {
	l := NewLog(0)
	for i := byte(0); i < 5; i++ {
		if seq := l.Append(note(60 + i)); seq != uint64(i)+1 {
			t.Errorf("Append #%d returned Seq %d, want %d", i, seq, i+1)
		}
	}

	snap := l.Snapshot()
	if got := seqs(snap); !equalSeqs(got, []uint64{1, 2, 3, 4, 5}) {
		t.Errorf("Snapshot seqs = %v", got)
	}
	if snap[2].Data1 != 62 {
		t.Errorf("snap[2].Data1 = %d, want 62", snap[2].Data1)
	}

	snap[0].Data1 = 0
	if l.Snapshot()[0].Data1 != 60 {
		t.Error("modifying a snapshot changed the log")
	}
}

func TestLog_CapacityEviction(t *testing.T) {
	l := NewLog(3)
	for i := 0; i < 10; i++ {
		l.Append(note(byte(i)))
	}

	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}
	if got := seqs(l.Snapshot()); !equalSeqs(got, []uint64{8, 9, 10}) {
		t.Errorf("Snapshot seqs = %v, want [8 9 10]", got)
	}

	for i := 0; i < 1000; i++ {
		l.Append(note(byte(i % 128)))
	}
	if got := seqs(l.Snapshot()); !equalSeqs(got, []uint64{1008, 1009, 1010}) {
		t.Errorf("Snapshot seqs after many appends = %v", got)
	}
	if cap(l.entries) > 16 {
		t.Errorf("backing array grew to %d for capacity 3", cap(l.entries))
	}
}

func TestLog_Since(t *testing.T) {
	l := NewLog(4)
	for i := 0; i < 6; i++ {
		l.Append(note(byte(i)))
	}
	// Live window holds Seq 3..6.

	tests := []struct {
		since uint64
		want  []uint64
	}{
		{0, []uint64{3, 4, 5, 6}},
		{2, []uint64{3, 4, 5, 6}},
		{3, []uint64{4, 5, 6}},
		{5, []uint64{6}},
		{6, []uint64{}},
		{42, []uint64{}},
	}

	for _, tt := range tests {
		if got := seqs(l.Since(tt.since)); !equalSeqs(got, tt.want) {
			t.Errorf("Since(%d) = %v, want %v", tt.since, got, tt.want)
		}
	}
}

func TestLog_ClearKeepsSeq(t *testing.T) {
	l := NewLog(0)
	l.Append(note(1))
	l.Append(note(2))

	if n := l.Clear(); n != 2 {
		t.Errorf("Clear() = %d, want 2", n)
	}
	if l.Len() != 0 || len(l.Snapshot()) != 0 {
		t.Errorf("log not empty after Clear")
	}
	if seq := l.Append(note(3)); seq != 3 {
		t.Errorf("Seq after Clear = %d, want 3", seq)
	}
	if got := seqs(l.Since(2)); !equalSeqs(got, []uint64{3}) {
		t.Errorf("Since(2) after Clear = %v, want [3]", got)
	}
}

func TestLog_All(t *testing.T) {
	l := NewLog(0)
	for i := 0; i < 4; i++ {
		l.Append(note(byte(i)))
	}

	var visited []int
	for i, m := range l.All() {
		if m.Seq != uint64(i)+1 {
			t.Errorf("All() index %d has Seq %d", i, m.Seq)
		}
		visited = append(visited, i)
		if i == 1 {
			break
		}
	}
	if len(visited) != 2 {
		t.Errorf("visited %v, want early stop after 2", visited)
	}
}

func TestLog_ConcurrentSnapshotsArePrefixes(t *testing.T) {
	l := NewLog(0)
	const writes = 2000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < writes; i++ {
			l.Append(note(byte(i % 128)))
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				snap := l.Snapshot()
				for j, m := range snap {
					if m.Seq != uint64(j)+1 {
						t.Errorf("snapshot entry %d has Seq %d; not a prefix", j, m.Seq)
						return
					}
				}
			}
		}()
	}
	wg.Wait()

	if l.Len() != writes {
		t.Errorf("Len() = %d, want %d", l.Len(), writes)
	}
}

type failingExporter struct{ calls int }

func (e *failingExporter) Export(w io.Writer, msgs []contracts.Message) error {
	e.calls++
	if e.calls == 1 {
		return errors.New("disk full")
	}
	_, err := w.Write([]byte{byte(len(msgs))})
	return err
}

type byteCounter struct{ n int }

func (c *byteCounter) Write(p []byte) (int, error) {
	c.n += len(p)
	return len(p), nil
}

func TestLog_ExportFailureKeepsLog(t *testing.T) {
	l := NewLog(0)
	l.Append(note(60))
	l.Append(note(61))

	e := &failingExporter{}
	var w byteCounter

	err := l.Export(&w, e)
	if !errors.Is(err, contracts.ErrExportFailed) {
		t.Fatalf("Export() error = %v, want ErrExportFailed", err)
	}
	if l.Len() != 2 {
		t.Errorf("Len() after failed export = %d, want 2", l.Len())
	}

	if err := l.Export(&w, e); err != nil {
		t.Errorf("second Export() error = %v", err)
	}
	if w.n != 1 {
		t.Errorf("wrote %d bytes, want 1", w.n)
	}
}
