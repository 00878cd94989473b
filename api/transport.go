// File: api/transport.go
// Author: momentics <momentics@gmail.com>
//
// Defines the byte-stream contract shared by every backend (WebSocket tunnel,
// serial port, in-memory loopback) so application code depends only on Stream.

package api

import (
	"context"
	"time"
)

// Stream abstracts a bidirectional byte stream with a non-blocking read side.
//
// Implementations own their state; two Stream values never share a socket or
// descriptor unless one was explicitly attached to it.
type Stream interface {
	// Open connects the stream to target. Any previous connection is torn down first.
	Open(ctx context.Context, target string) error

	// Close releases the connection. Calling Close on a closed stream is a no-op.
	Close() error

	// Available reports how many bytes can be read without waiting.
	Available() int

	// ReadByte pops a single byte, or returns ErrNoData when nothing is buffered.
	ReadByte() (byte, error)

	// Read pops up to len(p) buffered bytes. It never blocks; an empty buffer
	// yields 0 and ErrNoData.
	Read(p []byte) (int, error)

	// WriteByte sends a single byte.
	WriteByte(c byte) error

	// Write sends p synchronously. A stream that is not connected writes
	// nothing and returns ErrNotConnected.
	Write(p []byte) (int, error)

	// Flush pushes pending output to the peer, if the backend buffers any.
	Flush() error

	// Poll waits up to timeout for the underlying channel to report inbound data.
	Poll(timeout time.Duration) bool

	// IsOpen reports whether the stream is connected.
	IsOpen() bool
}
