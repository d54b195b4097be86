package capture

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/leandrodaf/midiwatch/sdk/contracts"
	"github.com/leandrodaf/midiwatch/sdk/decoder"
	"github.com/leandrodaf/midiwatch/sdk/midi"
)

// ErrSessionStarted is returned by Start on a session that was already started.
var ErrSessionStarted = errors.New("capture session already started")

// Session decodes packets from a client into a Log on a dedicated goroutine,
// so a slow display never holds up MIDI input.
type Session struct {
	client  contracts.ClientMIDI
	logger  contracts.Logger
	filter  *contracts.MIDIEventFilter
	decoder *decoder.Decoder
	log     *Log
	stats   *collector
	packets chan contracts.Packet

	start time.Time

	startOnce  sync.Once
	stopOnce   sync.Once
	clientOnce sync.Once
	clientErr  error
	stop       chan struct{}
	done       chan struct{}
	wg         sync.WaitGroup

	mu  sync.Mutex
	err error
}

// NewSession prepares a session reading from client. The client should
// already have a device selected. Options are resolved with
// midi.ResolveOptions; the logger, filter, buffer size, log capacity and
// SysEx limit apply to the session.
func NewSession(client contracts.ClientMIDI, opts ...contracts.Option) (*Session, error) {
	options, err := midi.ResolveOptions(opts...)
	if err != nil {
		return nil, err
	}

	s := &Session{
		client:  client,
		logger:  options.Logger,
		filter:  options.MIDIEventFilter,
		log:     NewLog(options.LogCapacity),
		stats:   newCollector(),
		packets: make(chan contracts.Packet, options.BufferSize),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	s.decoder = decoder.New(
		decoder.WithLogger(options.Logger),
		decoder.WithSysExLimit(options.SysExLimit),
		decoder.WithAnomalyHandler(s.stats.incAnomaly),
	)
	return s, nil
}

// Start begins capturing. Cancelling ctx stops the session like Stop.
func (s *Session) Start(ctx context.Context) error {
	err := ErrSessionStarted
	s.startOnce.Do(func() {
		err = nil
		s.start = time.Now()
		s.wg.Add(1)
		go s.run(ctx)
		s.client.StartCapture(s.packets)
		s.logger.Info("Capture session started")
	})
	return err
}

func (s *Session) run(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.done)

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			s.logger.Debug("Capture session context done", s.logger.Field().Error("reason", ctx.Err()))
			s.stopClient()
			return
		case p := <-s.packets:
			if p.Err != nil {
				s.finish(p.Err)
				return
			}
			s.handle(p)
		}
	}
}

func (s *Session) handle(p contracts.Packet) {
	s.stats.incPacket(len(p.Data))

	ts := p.Timestamp.Sub(s.start)
	if p.Timestamp.IsZero() || ts < 0 {
		ts = time.Since(s.start)
	}
	s.decoder.DecodeAt(p.Data, ts, func(m contracts.Message) {
		keep := s.filter.Allows(m)
		s.stats.incMessage(m, keep)
		if keep {
			s.log.Append(m)
		}
	})
}

// finish ends the session because the input went away. The log is kept.
func (s *Session) finish(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()

	switch {
	case errors.Is(err, io.EOF):
		s.logger.Info("MIDI input reached end of stream; capture session ended")
	case errors.Is(err, contracts.ErrInputDisconnected):
		s.logger.Warn("MIDI input disconnected; capture session ended", s.logger.Field().Error("error", err))
	default:
		s.logger.Error("Capture session ended with error", s.logger.Field().Error("error", err))
	}
	s.stopClient()
}

func (s *Session) stopClient() {
	s.clientOnce.Do(func() {
		s.clientErr = s.client.Stop()
	})
}

// Stop stops the client, stops consuming packets and waits for the decode
// goroutine. Messages already logged are kept. Stop may be called more than
// once and before Start.
func (s *Session) Stop() error {
	s.stopOnce.Do(func() {
		s.stopClient()
		close(s.stop)
		// A session stopped before Start never starts.
		s.startOnce.Do(func() { close(s.done) })
	})
	s.wg.Wait()

	s.logger.Info("Capture session stopped",
		s.logger.Field().Int("logged", s.log.Len()),
		s.logger.Field().Uint64("anomalies", s.decoder.Anomalies()))
	return s.clientErr
}

// Done is closed when the decode goroutine exits, after Stop, cancellation
// of the Start context or an input disconnect.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err reports why the input ended, such as an error wrapping
// contracts.ErrInputDisconnected. It is nil after a normal Stop.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Log returns the session's capture log.
func (s *Session) Log() *Log { return s.log }

// Stats returns a snapshot of the session counters.
func (s *Session) Stats() Stats { return s.stats.snapshot() }

// Started returns the wall clock time at which Start was called.
func (s *Session) Started() time.Time { return s.start }
