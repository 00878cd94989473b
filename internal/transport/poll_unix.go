//go:build unix

// File: internal/transport/poll_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// poll(2)-based readiness wait on the socket descriptor.

package transport

import (
	"net"
	"syscall"
	"time"

	"github.com/momentics/hioload-stream/api"
	"golang.org/x/sys/unix"
)

// WaitReadable blocks up to timeout until conn's descriptor reports POLLIN.
// It looks at the kernel socket only: bytes already consumed by another
// reader are not visible here.
func WaitReadable(conn net.Conn, timeout time.Duration) (bool, error) {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return false, api.ErrNotSupported
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return false, err
	}

	ms := int(timeout / time.Millisecond)
	if timeout < 0 {
		ms = -1
	}
	var (
		ready   bool
		pollErr error
	)
	ctlErr := raw.Control(func(fd uintptr) {
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		for {
			n, err := unix.Poll(fds, ms)
			if err == unix.EINTR {
				continue
			}
			pollErr = err
			ready = n > 0 && fds[0].Revents&unix.POLLIN != 0
			return
		}
	})
	if ctlErr != nil {
		return false, ctlErr
	}
	return ready, pollErr
}
