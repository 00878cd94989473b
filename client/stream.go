// File: client/stream.go
// Package client tunnels a byte stream over a single WebSocket connection.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stream implements api.Stream. Open is synchronous; once it returns nil a
// receiver goroutine fills the inbound queue while the caller reads from it
// without blocking. Writes go straight to the socket, one binary frame each.

package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/momentics/hioload-stream/api"
	"github.com/momentics/hioload-stream/internal/queue"
	"github.com/momentics/hioload-stream/internal/transport"
	"github.com/momentics/hioload-stream/protocol"
)

// Errors reported by Open and Write.
var (
	ErrConnect      = errors.New("connect failed")
	ErrWriteTimeout = errors.New("write timeout")
)

// Ensure compile-time interface compliance.
var _ api.Stream = (*Stream)(nil)

// maxPooledFrame is the largest encode buffer returned to the pool.
const maxPooledFrame = 64 * 1024

var encodedFramePool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 4096+protocol.MaxFrameHeaderLen)
		return &b
	},
}

// Stream is a WebSocket-backed byte stream. The zero value is not usable;
// construct with New.
type Stream struct {
	cfg   Config
	log   zerolog.Logger
	inbox *queue.Inbound
	stats counters

	// openMu serializes Open and Attach so only one connection is built at
	// a time. mu guards the connection lifecycle. Close and start take it
	// exclusively; Write and IsOpen share it.
	openMu    sync.Mutex
	mu        sync.RWMutex
	conn      net.Conn
	external  bool
	target    string
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	connected atomic.Bool
}

// New creates a closed stream.
func New(cfg Config) *Stream {
	cfg = cfg.withDefaults()
	return &Stream{
		cfg:   cfg,
		log:   cfg.Logger.With().Str("component", "stream").Logger(),
		inbox: queue.NewInbound(cfg.QueueCapacity, cfg.EvictQuantum),
	}
}

// Dial creates a stream and opens it to target.
func Dial(ctx context.Context, target string, cfg Config) (*Stream, error) {
	s := New(cfg)
	if err := s.Open(ctx, target); err != nil {
		return nil, err
	}
	return s, nil
}

// Open tears down any previous connection, then connects to a ws:// target,
// performs the upgrade handshake and starts the receiver. On failure the
// stream stays closed and the socket is released. Concurrent calls run one
// after another; the last one to finish owns the stream.
func (s *Stream) Open(ctx context.Context, target string) error {
	s.openMu.Lock()
	defer s.openMu.Unlock()
	_ = s.Close()
	log := s.log.With().Str("uri", target).Logger()

	ep, err := protocol.ParseURI(target)
	if err != nil {
		log.Error().Err(err).Msg("invalid stream URI")
		return err
	}

	conn, err := transport.Dial(ctx, ep.Address(), s.cfg.DialTimeout)
	if err != nil {
		log.Error().Err(err).Str("host", ep.Host).Int("port", ep.Port).Msg("connect failed")
		return fmt.Errorf("%w: %w", ErrConnect, err)
	}

	_ = conn.SetDeadline(time.Now().Add(s.cfg.HandshakeTimeout))
	rest, err := protocol.ClientHandshake(conn, ep, protocol.HandshakeOptions{
		UserAgent:    s.cfg.UserAgent,
		VerifyAccept: s.cfg.VerifyAccept,
	})
	if err != nil {
		_ = conn.Close()
		log.Error().Err(err).Msg("handshake failed")
		return err
	}
	transport.ClearDeadlines(conn)

	s.start(conn, false, target, rest)
	log.Info().Msg("stream connected")
	return nil
}

// Attach adopts an already upgraded connection. The stream never sends a
// close frame on it and never closes it; the owner keeps that duty.
func (s *Stream) Attach(conn net.Conn) error {
	if conn == nil {
		return api.ErrInvalidArgument
	}
	s.openMu.Lock()
	defer s.openMu.Unlock()
	_ = s.Close()
	s.start(conn, true, conn.RemoteAddr().String(), nil)
	s.log.Info().Str("remote", conn.RemoteAddr().String()).Msg("stream attached")
	return nil
}

func (s *Stream) start(conn net.Conn, external bool, target string, pending []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conn = conn
	s.external = external
	s.target = target
	s.inbox.Reset()
	s.connected.Store(true)
	s.cfg.Observer.Connected(true)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	r := &receiver{
		conn:      conn,
		inbox:     s.inbox,
		connected: &s.connected,
		stats:     &s.stats,
		obs:       s.cfg.Observer,
		log:       s.log.With().Str("uri", target).Logger(),
		chunk:     s.cfg.ReadChunk,
		wait:      s.cfg.PollInterval,
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		r.run(ctx, pending)
	}()
}

// Close stops the receiver and waits for it, then sends a close frame and
// releases the socket unless it was attached. The inbound queue is cleared.
// Close is idempotent.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected.Store(false)
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.wg.Wait()

	var err error
	if s.conn != nil {
		if s.external {
			transport.ClearDeadlines(s.conn)
		} else {
			_, _ = transport.WriteWithin(s.conn, protocol.CloseFrame, s.cfg.WriteTimeout)
			err = s.conn.Close()
		}
		s.log.Info().Str("uri", s.target).Msg("stream closed")
		s.conn = nil
		s.cfg.Observer.Connected(false)
	}
	s.inbox.Reset()
	s.cfg.Observer.QueueDepth(0)
	return err
}

// Available returns the number of queued bytes. The count may grow before
// the next Read.
func (s *Stream) Available() int {
	return s.inbox.Len()
}

// ReadByte pops one byte or returns api.ErrNoData.
func (s *Stream) ReadByte() (byte, error) {
	b, ok := s.inbox.PopByte()
	if !ok {
		return 0, api.ErrNoData
	}
	s.cfg.Observer.QueueDepth(s.inbox.Len())
	return b, nil
}

// Read pops up to len(p) queued bytes without blocking.
func (s *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := s.inbox.Pop(p)
	if n == 0 {
		return 0, api.ErrNoData
	}
	s.cfg.Observer.QueueDepth(s.inbox.Len())
	return n, nil
}

// WriteByte sends c as a one-byte frame.
func (s *Stream) WriteByte(c byte) error {
	_, err := s.Write([]byte{c})
	return err
}

// Write sends p as a single masked binary frame. A timeout before any byte
// left returns ErrWriteTimeout and keeps the stream open. Any other failure,
// including a timeout that cut a frame short, marks the stream disconnected.
// Either way nothing is reported as written.
func (s *Stream) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.connected.Load() || s.conn == nil {
		return 0, api.ErrNotConnected
	}

	scratch := encodedFramePool.Get().(*[]byte)
	frame := protocol.AppendFrame((*scratch)[:0], p, protocol.OpcodeBinary)
	sent, err := transport.WriteWithin(s.conn, frame, s.cfg.WriteTimeout)
	if cap(frame) <= maxPooledFrame {
		*scratch = frame[:0]
		encodedFramePool.Put(scratch)
	}

	if err != nil {
		// Nothing on the wire yet: the peer is only slow, framing is intact.
		if sent == 0 && transport.IsTimeout(err) {
			s.log.Warn().Int("bytes", len(p)).Msg("send timed out")
			return 0, ErrWriteTimeout
		}
		s.connected.Store(false)
		s.cfg.Observer.Connected(false)
		s.log.Warn().Err(err).Int("sent", sent).Int("frame", len(frame)).Msg("send failed, stream disconnected")
		return 0, fmt.Errorf("send: %w", err)
	}
	s.stats.framesOut.Add(1)
	s.stats.bytesOut.Add(uint64(len(p)))
	s.cfg.Observer.FrameOut(len(p))
	return len(p), nil
}

// Flush is a no-op: every Write is sent synchronously.
func (s *Stream) Flush() error { return nil }

// Poll waits up to timeout for the socket to report inbound data. The
// receiver reads the same socket independently, so a true result does not
// guarantee the bytes are already queued.
func (s *Stream) Poll(timeout time.Duration) bool {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()
	if conn == nil {
		return false
	}
	ready, err := transport.WaitReadable(conn, timeout)
	if err != nil {
		s.log.Debug().Err(err).Msg("poll failed")
		return false
	}
	return ready
}

// IsOpen reports whether the stream is connected.
func (s *Stream) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected.Load() && s.conn != nil
}

// State returns the externally observable state.
func (s *Stream) State() api.StreamState {
	if s.IsOpen() {
		return api.StateOpen
	}
	return api.StateClosed
}

// Stats returns a snapshot of the stream counters.
func (s *Stream) Stats() api.StreamStats {
	return api.StreamStats{
		BytesIn:      s.stats.bytesIn.Load(),
		BytesOut:     s.stats.bytesOut.Load(),
		FramesIn:     s.stats.framesIn.Load(),
		FramesOut:    s.stats.framesOut.Load(),
		EvictedBytes: s.inbox.Evicted(),
		Dropped:      s.stats.dropped.Load(),
	}
}

// RegisterProbes exposes the stream state through a debug registry.
func (s *Stream) RegisterProbes(d api.Debug) {
	d.RegisterProbe("state", func() any { return s.State().String() })
	d.RegisterProbe("available", func() any { return s.Available() })
	d.RegisterProbe("stats", func() any { return s.Stats() })
}
