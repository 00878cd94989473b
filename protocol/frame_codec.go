// File: protocol/frame_codec.go
// Package protocol implements the client frame codec.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Encoding always masks with the fixed MaskKey. Decoding works on a byte
// window that may hold a partial frame: it reports incompleteness instead of
// failing, so the caller can keep the bytes and retry once more arrive.
// No maximum payload size is enforced here; callers bound memory elsewhere.

package protocol

import (
	"encoding/binary"
	"math"
)

// Frame represents a decoded WebSocket frame.
type Frame struct {
	IsFinal    bool   // FIN bit
	Opcode     byte   // Operation code
	Masked     bool   // Whether the frame was masked on the wire
	PayloadLen uint64 // Declared payload length
	MaskKey    [4]byte
	Payload    []byte // Unmasked copy, owned by the caller
}

// IsData reports whether the frame carries application bytes.
func (f *Frame) IsData() bool {
	return f.Opcode == OpcodeText || f.Opcode == OpcodeBinary
}

// EncodeFrame serializes payload into a single masked final frame.
func EncodeFrame(payload []byte, opcode byte) []byte {
	return AppendFrame(make([]byte, 0, MaxFrameHeaderLen+len(payload)), payload, opcode)
}

// AppendFrame appends the encoded frame to dst and returns the extended slice.
func AppendFrame(dst, payload []byte, opcode byte) []byte {
	b0 := byte(FinBit) | (opcode & opcodeBits)
	plen := len(payload)

	switch {
	case plen < len16Marker:
		dst = append(dst, b0, MaskBit|byte(plen))
	case plen < 1<<16:
		dst = append(dst, b0, MaskBit|len16Marker)
		dst = binary.BigEndian.AppendUint16(dst, uint16(plen))
	default:
		dst = append(dst, b0, MaskBit|len64Marker)
		dst = binary.BigEndian.AppendUint64(dst, uint64(plen))
	}

	dst = append(dst, MaskKey[:]...)
	start := len(dst)
	dst = append(dst, payload...)
	maskBytes(dst[start:], MaskKey)
	return dst
}

// DecodeFrame parses the next frame from window. It returns the frame, the
// number of bytes the frame occupies in window and true once the whole frame
// is present. With a partial frame it returns false and the window must be
// retained unchanged for the next attempt.
func DecodeFrame(window []byte) (Frame, int, bool) {
	var f Frame
	if len(window) < 2 {
		return f, 0, false
	}
	f.IsFinal = window[0]&FinBit != 0
	f.Opcode = window[0] & opcodeBits
	f.Masked = window[1]&MaskBit != 0
	length := uint64(window[1] & lengthBits)
	offset := 2

	switch length {
	case len16Marker:
		if len(window) < offset+2 {
			return f, 0, false
		}
		length = uint64(binary.BigEndian.Uint16(window[offset:]))
		offset += 2
	case len64Marker:
		if len(window) < offset+8 {
			return f, 0, false
		}
		length = binary.BigEndian.Uint64(window[offset:])
		offset += 8
	}

	if f.Masked {
		if len(window) < offset+maskKeyLen {
			return f, 0, false
		}
		copy(f.MaskKey[:], window[offset:offset+maskKeyLen])
		offset += maskKeyLen
	}

	// A length the window cannot possibly hold stays incomplete forever.
	if length > math.MaxInt32 || uint64(len(window)-offset) < length {
		return f, 0, false
	}
	n := int(length)
	f.PayloadLen = length
	f.Payload = make([]byte, n)
	copy(f.Payload, window[offset:offset+n])
	if f.Masked {
		maskBytes(f.Payload, f.MaskKey)
	}
	return f, offset + n, true
}

// maskBytes XORs b in place with the repeating key.
func maskBytes(b []byte, key [4]byte) {
	for i := range b {
		b[i] ^= key[i&3]
	}
}
