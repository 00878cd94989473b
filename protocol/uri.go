// File: protocol/uri.go
// Author: momentics <momentics@gmail.com>
//
// Connection string parsing for ws:// endpoints. No percent-decoding and no
// query handling: the path is passed to the peer verbatim.

package protocol

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// URI parse failures.
var (
	ErrUnsupportedScheme = errors.New("unsupported scheme; only ws:// is accepted")
	ErrEmptyHost         = errors.New("empty host")
	ErrInvalidPort       = errors.New("invalid port")
)

// ParseError reports a connection string that could not be parsed.
type ParseError struct {
	URI string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %v", e.URI, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Endpoint is a parsed ws:// connection string.
type Endpoint struct {
	Host string
	Port int
	Path string
}

// Address returns host:port suitable for net.Dial.
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// String renders the endpoint back into a ws:// URI.
func (e Endpoint) String() string {
	return Scheme + e.Address() + e.Path
}

// ParseURI splits raw into host, port and path.
func ParseURI(raw string) (Endpoint, error) {
	if !strings.HasPrefix(raw, Scheme) {
		return Endpoint{}, &ParseError{URI: raw, Err: ErrUnsupportedScheme}
	}
	rest := raw[len(Scheme):]

	ep := Endpoint{Port: DefaultPort, Path: "/"}
	authority := rest
	if slash := strings.IndexByte(rest, '/'); slash >= 0 {
		authority = rest[:slash]
		ep.Path = rest[slash:]
	}

	host := authority
	if colon := strings.IndexByte(authority, ':'); colon >= 0 {
		host = authority[:colon]
		port, err := strconv.Atoi(authority[colon+1:])
		if err != nil || port <= 0 || port > 65535 {
			return Endpoint{}, &ParseError{URI: raw, Err: ErrInvalidPort}
		}
		ep.Port = port
	}
	if host == "" {
		return Endpoint{}, &ParseError{URI: raw, Err: ErrEmptyHost}
	}
	ep.Host = host
	return ep, nil
}
