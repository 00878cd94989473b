// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations and constants.

package api

// StreamState enumerates the externally observable state of a Stream.
// There is no connecting state: Open either succeeds or leaves the stream closed.
type StreamState int

const (
	StateClosed StreamState = iota
	StateOpen
)

func (s StreamState) String() string {
	switch s {
	case StateOpen:
		return "open"
	default:
		return "closed"
	}
}

// StreamStats is a point-in-time counter snapshot of a Stream.
type StreamStats struct {
	BytesIn      uint64 // payload bytes queued for the reader
	BytesOut     uint64 // payload bytes sent
	FramesIn     uint64 // data frames received
	FramesOut    uint64 // data frames sent
	EvictedBytes uint64 // bytes dropped by queue overflow
	Dropped      uint64 // frames received with an opcode that is not forwarded
}
