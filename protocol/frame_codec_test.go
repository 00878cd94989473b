package protocol_test

import (
	"bytes"
	"testing"

	"github.com/momentics/hioload-stream/protocol"
)

func patterned(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*7 + 3)
	}
	return b
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 125, 126, 127, 65535, 65536} {
		payload := patterned(n)
		raw := protocol.EncodeFrame(payload, protocol.OpcodeBinary)

		f, consumed, ok := protocol.DecodeFrame(raw)
		if !ok {
			t.Fatalf("len %d: frame not complete", n)
		}
		if consumed != len(raw) {
			t.Errorf("len %d: consumed %d, encoded %d", n, consumed, len(raw))
		}
		if f.Opcode != protocol.OpcodeBinary || !f.IsFinal || !f.Masked {
			t.Errorf("len %d: unexpected header %+v", n, f)
		}
		if !bytes.Equal(f.Payload, payload) {
			t.Errorf("len %d: payload mismatch", n)
		}
	}
}

func TestEncodeHeaderLayout(t *testing.T) {
	cases := []struct {
		n      int
		marker byte
		hdr    int
	}{
		{0, 0, 2},
		{125, 125, 2},
		{126, 126, 4},
		{65535, 126, 4},
		{65536, 127, 10},
	}
	for _, c := range cases {
		raw := protocol.EncodeFrame(make([]byte, c.n), protocol.OpcodeBinary)
		if raw[0] != 0x82 {
			t.Errorf("len %d: byte0 %#x", c.n, raw[0])
		}
		if raw[1] != 0x80|c.marker {
			t.Errorf("len %d: byte1 %#x", c.n, raw[1])
		}
		if !bytes.Equal(raw[c.hdr:c.hdr+4], protocol.MaskKey[:]) {
			t.Errorf("len %d: mask key not at offset %d", c.n, c.hdr)
		}
		if len(raw) != c.hdr+4+c.n {
			t.Errorf("len %d: frame size %d", c.n, len(raw))
		}
	}
}

func TestEncodeMasksPayload(t *testing.T) {
	raw := protocol.EncodeFrame([]byte{0, 0, 0, 0, 0xFF}, protocol.OpcodeText)
	want := []byte{0x81, 0x85, 0x12, 0x34, 0x56, 0x78, 0x12, 0x34, 0x56, 0x78, 0xFF ^ 0x12}
	if !bytes.Equal(raw, want) {
		t.Fatalf("got % x, want % x", raw, want)
	}
}

func TestDecodeIncompletePrefixes(t *testing.T) {
	for _, n := range []int{0, 5, 126, 70000} {
		raw := protocol.EncodeFrame(patterned(n), protocol.OpcodeBinary)
		for i := 0; i < len(raw); i++ {
			if _, consumed, ok := protocol.DecodeFrame(raw[:i]); ok || consumed != 0 {
				t.Fatalf("len %d: prefix %d reported complete", n, i)
			}
		}
		if _, _, ok := protocol.DecodeFrame(raw); !ok {
			t.Fatalf("len %d: full frame incomplete", n)
		}
	}
}

func TestDecodeUnmaskedServerFrame(t *testing.T) {
	raw := []byte{0x81, 0x03, 'a', 'b', 'c', 0x82}
	f, consumed, ok := protocol.DecodeFrame(raw)
	if !ok || consumed != 5 {
		t.Fatalf("ok=%v consumed=%d", ok, consumed)
	}
	if f.Masked || string(f.Payload) != "abc" || !f.IsData() {
		t.Errorf("unexpected frame %+v", f)
	}
}

func TestDecodeDoesNotAliasWindow(t *testing.T) {
	raw := []byte{0x82, 0x02, 'h', 'i'}
	f, _, _ := protocol.DecodeFrame(raw)
	raw[2] = 'x'
	if string(f.Payload) != "hi" {
		t.Errorf("payload aliases input: %q", f.Payload)
	}
}

func TestDecodeBackToBackFrames(t *testing.T) {
	var stream []byte
	stream = protocol.AppendFrame(stream, []byte("one"), protocol.OpcodeText)
	stream = append(stream, protocol.CloseFrame...)
	stream = protocol.AppendFrame(stream, []byte("two"), protocol.OpcodeBinary)

	var ops []byte
	for off := 0; off < len(stream); {
		f, n, ok := protocol.DecodeFrame(stream[off:])
		if !ok {
			t.Fatalf("incomplete at offset %d", off)
		}
		ops = append(ops, f.Opcode)
		off += n
	}
	want := []byte{protocol.OpcodeText, protocol.OpcodeClose, protocol.OpcodeBinary}
	if !bytes.Equal(ops, want) {
		t.Errorf("opcodes %v, want %v", ops, want)
	}
}

func TestCloseFrameBytes(t *testing.T) {
	want := []byte{0x88, 0x80, 0x12, 0x34, 0x56, 0x78}
	if !bytes.Equal(protocol.CloseFrame, want) {
		t.Fatalf("close frame % x", protocol.CloseFrame)
	}
	if !bytes.Equal(protocol.EncodeFrame(nil, protocol.OpcodeClose), want) {
		t.Error("encoded empty close differs from CloseFrame")
	}
}

func TestDecodeHugeDeclaredLengthStaysIncomplete(t *testing.T) {
	raw := []byte{0x82, 0x7F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 1, 2, 3}
	if _, _, ok := protocol.DecodeFrame(raw); ok {
		t.Fatal("expected incomplete")
	}
}

func BenchmarkEncodeFrame(b *testing.B) {
	payload := patterned(1024)
	buf := make([]byte, 0, protocol.MaxFrameHeaderLen+len(payload))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf = protocol.AppendFrame(buf[:0], payload, protocol.OpcodeBinary)
	}
}
