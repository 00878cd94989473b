// File: internal/cli/bridge.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package cli

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/momentics/hioload-stream/api"
)

const bridgeChunk = 4096

// minWait bounds how often an idle loop checks the stream.
const minWait = time.Millisecond

// waitInbound waits up to wait for s to report inbound data. Poll may give up
// early, when the descriptor cannot be polled or wait is zero; the rest of
// the interval is slept so callers never spin.
func waitInbound(s api.Stream, wait time.Duration) {
	if wait < minWait {
		wait = minWait
	}
	start := time.Now()
	if s.Poll(wait) {
		return
	}
	if rest := wait - time.Since(start); rest > 0 {
		time.Sleep(rest)
	}
}

// bridge copies in to s and s to out. It returns when ctx is done, when the
// stream closes and its queue is drained, or when in hit EOF and nothing
// arrived for linger.
func bridge(ctx context.Context, s api.Stream, in io.Reader, out io.Writer, wait, linger time.Duration) error {
	inDone := make(chan error, 1)
	go func() {
		inDone <- pump(s, in)
	}()

	buf := make([]byte, bridgeChunk)
	var lingerUntil time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-inDone:
			if err != nil {
				return err
			}
			inDone = nil
			lingerUntil = time.Now().Add(linger)
		default:
		}

		if s.Available() == 0 {
			if !s.IsOpen() {
				return nil
			}
			if !lingerUntil.IsZero() && time.Now().After(lingerUntil) {
				return nil
			}
			waitInbound(s, wait)
			continue
		}
		n, err := s.Read(buf)
		if err != nil && !errors.Is(err, api.ErrNoData) {
			return err
		}
		if n > 0 {
			if _, err := out.Write(buf[:n]); err != nil {
				return err
			}
			if !lingerUntil.IsZero() {
				lingerUntil = time.Now().Add(linger)
			}
		}
	}
}

// pump forwards in to s until EOF. A stream that went away ends the pump
// without error; the read side reports the closure.
func pump(s api.Stream, in io.Reader) error {
	buf := make([]byte, bridgeChunk)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if _, werr := s.Write(buf[:n]); werr != nil {
				if errors.Is(werr, api.ErrNotConnected) {
					return nil
				}
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
