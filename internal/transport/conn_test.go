package transport_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/momentics/hioload-stream/api"
	"github.com/momentics/hioload-stream/internal/transport"
)

// tcpPair returns a connected client/server pair over loopback.
func tcpPair(t *testing.T) (client, server net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			close(accepted)
			return
		}
		accepted <- c
	}()
	client, err = transport.Dial(context.Background(), ln.Addr().String(), time.Second)
	if err != nil {
		t.Fatal(err)
	}
	server = <-accepted
	if server == nil {
		t.Fatal("accept failed")
	}
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return client, server
}

func TestReadWithinTimesOut(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	buf := make([]byte, 16)
	n, timedOut, err := transport.ReadWithin(client, buf, 5*time.Millisecond)
	if err != nil || !timedOut || n != 0 {
		t.Fatalf("n=%d timedOut=%v err=%v", n, timedOut, err)
	}

	go server.Write([]byte("ping"))
	n, timedOut, err = transport.ReadWithin(client, buf, time.Second)
	if err != nil || timedOut || string(buf[:n]) != "ping" {
		t.Fatalf("n=%d timedOut=%v err=%v", n, timedOut, err)
	}
}

func TestWriteWithinDeadline(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	// Nobody reads from server, so a pipe write blocks until the deadline.
	_, err := transport.WriteWithin(client, []byte("x"), 10*time.Millisecond)
	if err == nil {
		t.Fatal("expected deadline error")
	}
}

func TestWaitReadable(t *testing.T) {
	client, server := tcpPair(t)

	ready, err := transport.WaitReadable(client, 10*time.Millisecond)
	if errors.Is(err, api.ErrNotSupported) {
		t.Skip("poll not supported on this platform")
	}
	if err != nil || ready {
		t.Fatalf("idle socket: ready=%v err=%v", ready, err)
	}

	if _, err := server.Write([]byte{1}); err != nil {
		t.Fatal(err)
	}
	ready, err = transport.WaitReadable(client, time.Second)
	if err != nil || !ready {
		t.Fatalf("after write: ready=%v err=%v", ready, err)
	}
}

func TestWaitReadableRequiresSyscallConn(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()
	if _, err := transport.WaitReadable(client, 0); !errors.Is(err, api.ErrNotSupported) {
		t.Fatalf("expected ErrNotSupported, got %v", err)
	}
}

func TestDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()
	if _, err := transport.Dial(context.Background(), addr, time.Second); err == nil {
		t.Fatal("expected dial error on closed port")
	}
}
