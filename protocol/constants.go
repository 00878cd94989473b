// Package protocol
// Author: momentics <momentics@gmail.com>
//
// WebSocket wire protocol constants

package protocol

const (
	// Opcodes
	OpcodeContinuation = 0x0
	OpcodeText         = 0x1
	OpcodeBinary       = 0x2
	OpcodeClose        = 0x8
	OpcodePing         = 0x9
	OpcodePong         = 0xA

	// Frame limit settings
	MaxFrameHeaderLen = 14 // for extended payloads with masking
	maskKeyLen        = 4

	// Bit masks
	FinBit     = 0x80
	MaskBit    = 0x80
	opcodeBits = 0x0F
	lengthBits = 0x7F

	// Length markers in the second header byte
	len16Marker = 126
	len64Marker = 127

	// DefaultPort applies when a ws:// URI carries no explicit port.
	DefaultPort = 80
	// Scheme is the only URI scheme the client accepts.
	Scheme = "ws://"

	// HandshakeKey is the fixed Sec-WebSocket-Key sent on every upgrade.
	// The handshake is a liveness probe against a cooperating peer, not a
	// security boundary, so the key is not randomized.
	HandshakeKey = "dGhlIHNhbXBsZSBub25jZQ=="
	// DefaultUserAgent identifies the client in the upgrade request.
	DefaultUserAgent = "hioload-stream/1.0"
	// MaxHandshakeResponse bounds the single read of the upgrade response.
	MaxHandshakeResponse = 4096
)

// MaskKey is the fixed key applied to every outbound frame. Peers that inspect
// masking randomness will see the same key on every frame.
var MaskKey = [maskKeyLen]byte{0x12, 0x34, 0x56, 0x78}

// CloseFrame is the masked, empty-payload close frame sent on Close.
var CloseFrame = []byte{FinBit | OpcodeClose, MaskBit, 0x12, 0x34, 0x56, 0x78}
