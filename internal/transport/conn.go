// File: internal/transport/conn.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Deadline helpers over net.Conn.

package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// Dial opens a TCP connection to address and disables Nagle's algorithm,
// since the stream sends many small frames.
func Dial(ctx context.Context, address string, timeout time.Duration) (net.Conn, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}
	return conn, nil
}

// ReadWithin reads once into buf, waiting at most wait for data.
// timedOut is true when no data arrived in time; that is not an error.
func ReadWithin(conn net.Conn, buf []byte, wait time.Duration) (n int, timedOut bool, err error) {
	if err := conn.SetReadDeadline(time.Now().Add(wait)); err != nil {
		return 0, false, err
	}
	n, err = conn.Read(buf)
	if err != nil && IsTimeout(err) {
		return n, true, nil
	}
	return n, false, err
}

// WriteWithin writes p, failing if the peer does not accept it within timeout.
// A zero timeout disables the deadline.
func WriteWithin(conn net.Conn, p []byte, timeout time.Duration) (int, error) {
	if timeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return 0, err
		}
	}
	return conn.Write(p)
}

// ClearDeadlines removes any read/write deadline left on conn.
func ClearDeadlines(conn net.Conn) {
	_ = conn.SetDeadline(time.Time{})
}

// IsTimeout reports whether err is a deadline expiry.
func IsTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
