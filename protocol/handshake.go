// File: protocol/handshake.go
// Package protocol implements the client side of the HTTP Upgrade handshake.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The request is a fixed literal and the response is read with a single
// bounded read. A response split across TCP segments may be rejected; the
// caller reports failure and does not retry.

package protocol

import (
	"bytes"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Constants used for handshake processing.
const (
	WebSocketGUID            = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"
	RequiredWebSocketVersion = "13"
	statusSwitching          = "HTTP/1.1 101"
	upgradeAck               = "Upgrade: websocket"
	acceptHeader             = "sec-websocket-accept:"
	headerTerminator         = "\r\n\r\n"
)

// Errors for handshake validation.
var (
	ErrHandshakeSend     = errors.New("handshake send failed")
	ErrHandshakeRecv     = errors.New("handshake receive failed")
	ErrHandshakeRejected = errors.New("handshake rejected by peer")
	ErrAcceptMismatch    = errors.New("accept key mismatch")
)

// HandshakeOptions tunes the upgrade request.
type HandshakeOptions struct {
	Key          string // Sec-WebSocket-Key; HandshakeKey when empty
	UserAgent    string // DefaultUserAgent when empty
	VerifyAccept bool   // check Sec-WebSocket-Accept against Key
}

func (o HandshakeOptions) key() string {
	if o.Key == "" {
		return HandshakeKey
	}
	return o.Key
}

func (o HandshakeOptions) userAgent() string {
	if o.UserAgent == "" {
		return DefaultUserAgent
	}
	return o.UserAgent
}

// BuildUpgradeRequest renders the literal upgrade request for ep.
func BuildUpgradeRequest(ep Endpoint, opts HandshakeOptions) []byte {
	return []byte(fmt.Sprintf("GET %s HTTP/1.1\r\n"+
		"Host: %s\r\n"+
		"Upgrade: websocket\r\n"+
		"Connection: Upgrade\r\n"+
		"Sec-WebSocket-Key: %s\r\n"+
		"Sec-WebSocket-Version: %s\r\n"+
		"User-Agent: %s\r\n\r\n",
		ep.Path, ep.Host, opts.key(), RequiredWebSocketVersion, opts.userAgent()))
}

// CheckUpgradeResponse accepts resp only if it signals a protocol switch and
// acknowledges the websocket upgrade. Nothing else is validated.
func CheckUpgradeResponse(resp []byte) error {
	if !bytes.Contains(resp, []byte(statusSwitching)) {
		return fmt.Errorf("%w: missing %q status", ErrHandshakeRejected, statusSwitching)
	}
	if !bytes.Contains(resp, []byte(upgradeAck)) {
		return fmt.Errorf("%w: missing %q header", ErrHandshakeRejected, upgradeAck)
	}
	return nil
}

// AcceptKey derives the Sec-WebSocket-Accept value a conformant server
// returns for key.
func AcceptKey(key string) string {
	h := sha1.New()
	h.Write([]byte(key + WebSocketGUID))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// ClientHandshake writes the upgrade request to rw and validates the response.
// It returns any bytes that followed the response headers in the same read;
// those already belong to the frame stream.
func ClientHandshake(rw io.ReadWriter, ep Endpoint, opts HandshakeOptions) ([]byte, error) {
	req := BuildUpgradeRequest(ep, opts)
	if n, err := rw.Write(req); err != nil || n != len(req) {
		if err == nil {
			err = io.ErrShortWrite
		}
		return nil, fmt.Errorf("%w: %v", ErrHandshakeSend, err)
	}

	buf := make([]byte, MaxHandshakeResponse)
	n, err := rw.Read(buf)
	if n <= 0 {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("%w: %v", ErrHandshakeRecv, err)
	}
	resp := buf[:n]
	if err := CheckUpgradeResponse(resp); err != nil {
		return nil, err
	}
	if opts.VerifyAccept {
		if got := headerValue(resp, acceptHeader); got != AcceptKey(opts.key()) {
			return nil, fmt.Errorf("%w: got %q", ErrAcceptMismatch, got)
		}
	}

	var rest []byte
	if idx := bytes.Index(resp, []byte(headerTerminator)); idx >= 0 {
		if tail := resp[idx+len(headerTerminator):]; len(tail) > 0 {
			rest = append([]byte(nil), tail...)
		}
	}
	return rest, nil
}

// headerValue returns the trimmed value of the first header line whose
// lower-cased name prefix matches name.
func headerValue(resp []byte, name string) string {
	head, _, _ := strings.Cut(string(resp), headerTerminator)
	for _, line := range strings.Split(head, "\r\n") {
		if strings.HasPrefix(strings.ToLower(line), name) {
			return strings.TrimSpace(line[len(name):])
		}
	}
	return ""
}
