//go:build !unix

// File: internal/transport/poll_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package transport

import (
	"net"
	"time"

	"github.com/momentics/hioload-stream/api"
)

// WaitReadable is not available without poll(2).
func WaitReadable(conn net.Conn, timeout time.Duration) (bool, error) {
	return false, api.ErrNotSupported
}
