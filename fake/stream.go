// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for api.Stream consumers.

package fake

import (
	"context"
	"sync"
	"time"

	"github.com/momentics/hioload-stream/api"
	"github.com/momentics/hioload-stream/internal/queue"
)

// Ensure compile-time interface compliance.
var _ api.Stream = (*Stream)(nil)

// pollStep is the wake-up granularity of Poll.
const pollStep = time.Millisecond

// Stream is an in-memory api.Stream. Inbound bytes come from Feed or from a
// paired peer and go through the same bounded queue the socket stream uses.
type Stream struct {
	mu         sync.Mutex
	inbox      *queue.Inbound
	open       bool
	target     string
	peer       *Stream
	sent       []byte
	openError  error
	writeError error
	closeError error
}

// NewStream creates a closed fake stream with the default queue bounds.
func NewStream() *Stream {
	return &Stream{inbox: queue.NewInbound(0, 0)}
}

// NewStreamSize creates a fake stream with explicit queue bounds.
func NewStreamSize(capacity, quantum int) *Stream {
	return &Stream{inbox: queue.NewInbound(capacity, quantum)}
}

// NewPair returns two open streams wired back to back: bytes written to one
// become readable on the other.
func NewPair() (*Stream, *Stream) {
	a, b := NewStream(), NewStream()
	a.peer, b.peer = b, a
	a.open, b.open = true, true
	a.target, b.target = "pipe", "pipe"
	return a, b
}

// Open implements api.Stream.Open.
func (s *Stream) Open(_ context.Context, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openError != nil {
		return s.openError
	}
	s.inbox.Reset()
	s.target = target
	s.open = true
	return nil
}

// Close implements api.Stream.Close.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closeError != nil {
		return s.closeError
	}
	s.open = false
	return nil
}

// Available implements api.Stream.Available.
func (s *Stream) Available() int { return s.inbox.Len() }

// ReadByte implements api.Stream.ReadByte.
func (s *Stream) ReadByte() (byte, error) {
	b, ok := s.inbox.PopByte()
	if !ok {
		return 0, api.ErrNoData
	}
	return b, nil
}

// Read implements api.Stream.Read.
func (s *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := s.inbox.Pop(p)
	if n == 0 {
		return 0, api.ErrNoData
	}
	return n, nil
}

// WriteByte implements api.Stream.WriteByte.
func (s *Stream) WriteByte(c byte) error {
	_, err := s.Write([]byte{c})
	return err
}

// Write implements api.Stream.Write.
func (s *Stream) Write(p []byte) (int, error) {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return 0, api.ErrNotConnected
	}
	if s.writeError != nil {
		err := s.writeError
		s.mu.Unlock()
		return 0, err
	}
	s.sent = append(s.sent, p...)
	peer := s.peer
	s.mu.Unlock()

	if peer != nil && len(p) > 0 {
		peer.Feed(p)
	}
	return len(p), nil
}

// Flush implements api.Stream.Flush.
func (s *Stream) Flush() error { return nil }

// Poll implements api.Stream.Poll.
func (s *Stream) Poll(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if !s.IsOpen() {
			return false
		}
		if s.inbox.Len() > 0 {
			return true
		}
		if !time.Now().Before(deadline) {
			return false
		}
		time.Sleep(pollStep)
	}
}

// IsOpen implements api.Stream.IsOpen.
func (s *Stream) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Target returns the argument of the last Open.
func (s *Stream) Target() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// Feed queues data as if it had arrived from the network and returns the
// number of bytes evicted to make room.
func (s *Stream) Feed(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return s.inbox.Append(cp)
}

// Sent returns a copy of everything written so far.
func (s *Stream) Sent() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.sent))
	copy(out, s.sent)
	return out
}

// ClearSent drops the recorded output.
func (s *Stream) ClearSent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = s.sent[:0]
}

// Disconnect simulates a peer hang-up; buffered input stays readable.
func (s *Stream) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
}

// SetOpenError configures the stream to fail Open.
func (s *Stream) SetOpenError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openError = err
}

// SetWriteError configures the stream to fail Write.
func (s *Stream) SetWriteError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeError = err
}

// SetCloseError configures the stream to fail Close.
func (s *Stream) SetCloseError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeError = err
}
