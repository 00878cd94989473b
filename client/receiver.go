// File: client/receiver.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Background receive loop: reads the socket in short waits so a stop request
// is noticed within one PollInterval, reassembles frames split across reads,
// and feeds data payloads into the inbound queue.

package client

import (
	"context"
	"errors"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/momentics/hioload-stream/internal/queue"
	"github.com/momentics/hioload-stream/internal/transport"
	"github.com/momentics/hioload-stream/protocol"
)

// partialKeepCap is the largest partial-frame buffer kept after it drains.
const partialKeepCap = 64 * 1024

// counters are shared between the receiver and the stream.
type counters struct {
	bytesIn   atomic.Uint64
	bytesOut  atomic.Uint64
	framesIn  atomic.Uint64
	framesOut atomic.Uint64
	dropped   atomic.Uint64
}

type receiver struct {
	conn      net.Conn
	inbox     *queue.Inbound
	connected *atomic.Bool
	stats     *counters
	obs       Observer
	log       zerolog.Logger
	chunk     int
	wait      time.Duration

	partial []byte // bytes of a frame not yet complete
}

// run loops until ctx is cancelled, the peer goes away or a close frame
// arrives. pending holds bytes that arrived together with the handshake.
// The connected flag is always false on return.
func (r *receiver) run(ctx context.Context, pending []byte) {
	defer func() {
		r.connected.Store(false)
		r.obs.Connected(false)
	}()

	if len(pending) > 0 && !r.consume(pending) {
		return
	}

	buf := make([]byte, r.chunk)
	for ctx.Err() == nil && r.connected.Load() {
		n, _, err := transport.ReadWithin(r.conn, buf, r.wait)
		if n > 0 && !r.consume(buf[:n]) {
			return
		}
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				r.log.Info().Msg("peer closed connection")
			case ctx.Err() == nil:
				r.log.Warn().Err(err).Msg("socket receive failed")
			}
			return
		}
	}
}

// consume appends data to the partial buffer and decodes every complete frame.
// It returns false once a close frame has been seen.
func (r *receiver) consume(data []byte) bool {
	r.partial = append(r.partial, data...)
	off := 0
	for off < len(r.partial) {
		f, n, ok := protocol.DecodeFrame(r.partial[off:])
		if !ok {
			break
		}
		off += n

		switch {
		case f.IsData():
			r.deliver(&f)
		case f.Opcode == protocol.OpcodeClose:
			r.log.Info().Msg("close frame received")
			r.partial = nil
			return false
		default:
			r.stats.dropped.Add(1)
			r.log.Debug().Uint8("opcode", f.Opcode).Int("bytes", len(f.Payload)).Msg("frame ignored")
		}
	}

	r.partial = append(r.partial[:0], r.partial[off:]...)
	if len(r.partial) == 0 && cap(r.partial) > partialKeepCap {
		r.partial = nil
	}
	return true
}

func (r *receiver) deliver(f *protocol.Frame) {
	r.stats.framesIn.Add(1)
	r.stats.bytesIn.Add(uint64(len(f.Payload)))
	r.obs.FrameIn(f.Opcode, len(f.Payload))

	if evicted := r.inbox.Append(f.Payload); evicted > 0 {
		r.obs.Evicted(evicted)
		r.log.Debug().Int("bytes", evicted).Msg("inbound queue overflow, oldest bytes evicted")
	}
	r.obs.QueueDepth(r.inbox.Len())
}
