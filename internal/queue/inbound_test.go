package queue_test

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/momentics/hioload-stream/internal/queue"
)

func seq(start, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(start + i)
	}
	return b
}

func TestInbound_FIFO(t *testing.T) {
	q := queue.NewInbound(0, 0)
	q.Append([]byte("hel"))
	q.Append([]byte("lo"))
	q.Append([]byte(" world"))
	if q.Len() != 11 {
		t.Fatalf("len %d", q.Len())
	}

	b, ok := q.PopByte()
	if !ok || b != 'h' {
		t.Fatalf("PopByte = %q, %v", b, ok)
	}
	buf := make([]byte, 4)
	if n := q.Pop(buf); n != 4 || string(buf) != "ello" {
		t.Fatalf("Pop = %d %q", n, buf[:n])
	}
	rest := make([]byte, 64)
	n := q.Pop(rest)
	if string(rest[:n]) != " world" {
		t.Fatalf("rest %q", rest[:n])
	}
	if _, ok := q.PopByte(); ok {
		t.Fatal("expected empty queue")
	}
	if q.Pop(rest) != 0 {
		t.Fatal("Pop on empty queue returned data")
	}
}

func TestInbound_EvictOneShot(t *testing.T) {
	q := queue.NewInbound(8192, 1024)
	src := seq(0, 9000)
	evicted := q.Append(src)

	if evicted != 1024 {
		t.Fatalf("evicted %d, want 1024", evicted)
	}
	if q.Len() != 9000-1024 {
		t.Fatalf("len %d, want %d", q.Len(), 9000-1024)
	}
	out := make([]byte, 9000)
	n := q.Pop(out)
	for i := 0; i < n; i++ {
		if out[i] != byte(1024+i) {
			t.Fatalf("byte %d = %d, oldest bytes were not evicted first", i, out[i])
		}
	}
}

func TestInbound_EvictAcrossChunks(t *testing.T) {
	q := queue.NewInbound(8192, 1024)
	q.Append(seq(0, 8000))
	q.Append(seq(8000, 500)) // 8500 > 8192: drop 1024 oldest

	if q.Len() != 8500-1024 {
		t.Fatalf("len %d", q.Len())
	}
	b, _ := q.PopByte()
	if want := seq(1024, 1)[0]; b != want {
		t.Fatalf("first byte %d, want %d", b, want)
	}
	if q.Evicted() != 1024 {
		t.Fatalf("evicted counter %d", q.Evicted())
	}
}

func TestInbound_EvictLargerThanCapacity(t *testing.T) {
	q := queue.NewInbound(8192, 1024)
	q.Append(seq(0, 100))
	q.Append(seq(100, 20000)) // total 20100, over 11908 -> 12 quanta

	if want := 20100 - 12*1024; q.Len() != want {
		t.Fatalf("len %d, want %d", q.Len(), want)
	}
	b, _ := q.PopByte()
	if want := seq(12*1024, 1)[0]; b != want {
		t.Fatalf("first byte %d, want %d", b, want)
	}
}

func TestInbound_NeverExceedsCapacity(t *testing.T) {
	q := queue.NewInbound(8192, 1024)
	rng := rand.New(rand.NewSource(1))
	buf := make([]byte, 4096)
	for i := 0; i < 2000; i++ {
		if rng.Intn(3) == 0 {
			q.Pop(buf[:rng.Intn(len(buf))])
		} else {
			q.Append(make([]byte, rng.Intn(5000)+1))
		}
		if q.Len() > q.Cap() {
			t.Fatalf("step %d: len %d exceeds cap %d", i, q.Len(), q.Cap())
		}
	}
}

func TestInbound_Reset(t *testing.T) {
	q := queue.NewInbound(16, 4)
	q.Append(seq(0, 20))
	q.Reset()
	if q.Len() != 0 {
		t.Fatalf("len after reset %d", q.Len())
	}
	if q.Evicted() != 4 {
		t.Fatalf("evicted %d", q.Evicted())
	}
	q.Append([]byte{7})
	if b, ok := q.PopByte(); !ok || b != 7 {
		t.Fatal("queue unusable after reset")
	}
}

func TestInbound_QuantumClamp(t *testing.T) {
	q := queue.NewInbound(10, 100)
	if q.Quantum() != 10 {
		t.Fatalf("quantum %d", q.Quantum())
	}
	q.Append(seq(0, 15))
	if q.Len() != 5 {
		t.Fatalf("len %d", q.Len())
	}
}

func TestInbound_ConcurrentProduceConsume(t *testing.T) {
	const total = 1000
	q := queue.NewInbound(8192, 1024)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			q.Append([]byte{byte(i)})
		}
	}()

	got := make([]byte, 0, total)
	buf := make([]byte, 37)
	for len(got) < total {
		n := q.Pop(buf)
		got = append(got, buf[:n]...)
	}
	wg.Wait()

	if n := q.Pop(buf); n != 0 {
		t.Fatalf("%d extra bytes after drain", n)
	}
	for i, b := range got {
		if b != byte(i) {
			t.Fatalf("byte %d = %d: duplicated or lost data", i, b)
		}
	}
}
