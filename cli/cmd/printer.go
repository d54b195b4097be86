package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/leandrodaf/midiwatch/sdk/capture"
	"github.com/leandrodaf/midiwatch/sdk/contracts"
	"github.com/leandrodaf/midiwatch/sdk/render"
)

// pollInterval is how often a running session's log is checked for new messages.
const pollInterval = 10 * time.Millisecond

// rowPrinter prints one line per message.
type rowPrinter struct {
	out     io.Writer
	view    render.Format
	noColor bool
}

func (p *rowPrinter) row(m contracts.Message) string {
	return fmt.Sprintf("%6d  %11.6fs  %s", m.Seq, m.Timestamp.Seconds(), render.Render(m, p.view))
}

func (p *rowPrinter) print(msgs []contracts.Message) {
	for _, m := range msgs {
		fmt.Fprintln(p.out, paint(CategoryStyle(m.Type), p.row(m), p.noColor))
	}
}

// follow prints messages as they reach the session log until the session
// is done. It returns the Seq of the last message printed.
func follow(s *capture.Session, p *rowPrinter) uint64 {
	var last uint64
	flush := func() {
		msgs := s.Log().Since(last)
		if len(msgs) > 0 {
			p.print(msgs)
			last = msgs[len(msgs)-1].Seq
		}
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.Done():
			flush()
			return last
		case <-ticker.C:
			flush()
		}
	}
}

// printSummary writes session counters, with anomalies broken down by kind.
func printSummary(w io.Writer, st capture.Stats, noColor bool) {
	fmt.Fprintf(w, "%s %d bytes, %d messages decoded, %d logged, %d filtered\n",
		paint(TitleStyle, "Summary:", noColor), st.Bytes, st.Messages, st.Logged, st.Filtered)
	if st.Anomalies == 0 {
		return
	}

	kinds := make([]string, 0, len(st.ByAnomaly))
	for kind, n := range st.ByAnomaly {
		kinds = append(kinds, fmt.Sprintf("%s=%d", kind, n))
	}
	sort.Strings(kinds)
	fmt.Fprintln(w, paint(WarningStyle,
		fmt.Sprintf("Anomalies: %d (%s)", st.Anomalies, strings.Join(kinds, ", ")), noColor))
}
