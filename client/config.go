// File: client/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package client

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/momentics/hioload-stream/internal/queue"
	"github.com/momentics/hioload-stream/protocol"
)

// Config holds stream parameters.
type Config struct {
	QueueCapacity    int           // inbound queue ceiling in bytes
	EvictQuantum     int           // oldest bytes dropped per overflow step
	ReadChunk        int           // max bytes per socket read
	PollInterval     time.Duration // receiver readiness wait per iteration
	DialTimeout      time.Duration // TCP connect bound, 0 = none
	HandshakeTimeout time.Duration // upgrade request/response bound
	WriteTimeout     time.Duration // per-send deadline, 0 = disabled
	UserAgent        string        // User-Agent header of the upgrade request
	VerifyAccept     bool          // check Sec-WebSocket-Accept
	Logger           zerolog.Logger
	Observer         Observer // metrics hook, nil = none
}

// DefaultConfig returns the defaults of the reference peer.
func DefaultConfig() Config {
	return Config{
		QueueCapacity:    queue.DefaultCapacity,
		EvictQuantum:     queue.DefaultEvictQuantum,
		ReadChunk:        4096,
		PollInterval:     10 * time.Millisecond,
		DialTimeout:      5 * time.Second,
		HandshakeTimeout: 5 * time.Second,
		WriteTimeout:     5 * time.Second,
		UserAgent:        protocol.DefaultUserAgent,
		Logger:           zerolog.Nop(),
	}
}

// withDefaults fills zero values from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = d.QueueCapacity
	}
	if c.EvictQuantum <= 0 {
		c.EvictQuantum = d.EvictQuantum
	}
	if c.ReadChunk <= 0 {
		c.ReadChunk = d.ReadChunk
	}
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = d.HandshakeTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.Observer == nil {
		c.Observer = nopObserver{}
	}
	return c
}

// Observer receives stream events, typically to feed metrics.
// Methods are called from both the caller and the receiver goroutine.
type Observer interface {
	FrameIn(opcode byte, payload int)
	FrameOut(payload int)
	Evicted(n int)
	QueueDepth(n int)
	Connected(up bool)
}

type nopObserver struct{}

func (nopObserver) FrameIn(byte, int) {}
func (nopObserver) FrameOut(int)      {}
func (nopObserver) Evicted(int)       {}
func (nopObserver) QueueDepth(int)    {}
func (nopObserver) Connected(bool)    {}
