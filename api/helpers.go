// File: api/helpers.go
// Author: momentics <momentics@gmail.com>
//
// Convenience routines built only on the Stream contract, so every backend
// gets them for free.

package api

import (
	"errors"
	"time"
)

// readBackoff is the sleep between polls of Available while waiting in ReadFull.
const readBackoff = 100 * time.Microsecond

// ReadFull fills p from s, waiting up to timeout for the remaining bytes.
// It returns the number of bytes read and ErrReadTimeout if p could not be filled.
func ReadFull(s Stream, p []byte, timeout time.Duration) (int, error) {
	if s == nil {
		return 0, ErrInvalidArgument
	}
	deadline := time.Now().Add(timeout)
	n := 0
	for n < len(p) {
		if s.Available() > 0 {
			m, err := s.Read(p[n:])
			n += m
			if err != nil && !errors.Is(err, ErrNoData) {
				return n, err
			}
			continue
		}
		if time.Now().After(deadline) {
			return n, ErrReadTimeout
		}
		time.Sleep(readBackoff)
	}
	return n, nil
}

// WriteString writes str to s.
func WriteString(s Stream, str string) (int, error) {
	if str == "" {
		return 0, nil
	}
	return s.Write([]byte(str))
}

// Println writes str followed by CR LF. The terminator is sent as two
// separate single-byte writes, matching line-oriented serial peers.
func Println(s Stream, str string) (int, error) {
	n, err := WriteString(s, str)
	if err != nil {
		return n, err
	}
	for _, c := range []byte{'\r', '\n'} {
		if err := s.WriteByte(c); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// IsReadable reports whether s is open and has buffered input.
func IsReadable(s Stream) bool {
	return s.IsOpen() && s.Available() > 0
}

// IsWritable reports whether s accepts writes.
func IsWritable(s Stream) bool {
	return s.IsOpen()
}
