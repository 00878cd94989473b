// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values shared by Stream implementations.

package api

import "errors"

// Common errors used across the library.
var (
	ErrNoData          = errors.New("no data available")
	ErrNotConnected    = errors.New("stream is not connected")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrReadTimeout     = errors.New("read timeout")
	ErrNotSupported    = errors.New("operation not supported")
)
