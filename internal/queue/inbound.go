// File: internal/queue/inbound.go
// Package queue implements the bounded inbound byte queue of a stream.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Inbound is the only synchronization point between the receiver goroutine
// and the reader. Payloads are kept as chunks in an eapache ring so a pop
// never shifts the whole buffer. Eviction runs under the same lock as the
// append that triggers it.

package queue

import (
	"sync"

	"github.com/eapache/queue"
)

// Defaults matching the peer implementation.
const (
	DefaultCapacity     = 8192
	DefaultEvictQuantum = 1024
)

// Inbound is a FIFO byte queue with a hard capacity ceiling.
type Inbound struct {
	mu       sync.Mutex
	chunks   *queue.Queue // of []byte
	head     int          // bytes already consumed from the front chunk
	size     int
	capacity int
	quantum  int
	evicted  uint64
}

// NewInbound creates a queue holding at most capacity bytes. When an append
// would overflow, the oldest bytes are dropped in multiples of quantum.
// Non-positive arguments select the defaults; quantum is capped at capacity.
func NewInbound(capacity, quantum int) *Inbound {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if quantum <= 0 {
		quantum = DefaultEvictQuantum
	}
	if quantum > capacity {
		quantum = capacity
	}
	return &Inbound{
		chunks:   queue.New(),
		capacity: capacity,
		quantum:  quantum,
	}
}

// Append queues p and returns how many bytes were evicted to make room.
// The queue retains p; callers must not modify it afterwards.
func (q *Inbound) Append(p []byte) int {
	if len(p) == 0 {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	total := q.size + len(p)
	drop := 0
	if total > q.capacity {
		over := total - q.capacity
		drop = (over + q.quantum - 1) / q.quantum * q.quantum
		if drop > total {
			drop = total
		}
	}

	// Oldest bytes go first: queued data, then the head of p.
	fromQueued := min(drop, q.size)
	q.discardLocked(fromQueued)
	if rest := drop - fromQueued; rest > 0 {
		p = p[rest:]
	}
	if len(p) > 0 {
		q.chunks.Add(p)
		q.size += len(p)
	}
	q.evicted += uint64(drop)
	return drop
}

// Pop moves up to len(p) bytes into p and returns the count.
func (q *Inbound) Pop(p []byte) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for n < len(p) && q.size > 0 {
		front := q.chunks.Peek().([]byte)
		c := copy(p[n:], front[q.head:])
		n += c
		q.advanceLocked(front, c)
	}
	return n
}

// PopByte removes a single byte. ok is false when the queue is empty.
func (q *Inbound) PopByte() (b byte, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.size == 0 {
		return 0, false
	}
	front := q.chunks.Peek().([]byte)
	b = front[q.head]
	q.advanceLocked(front, 1)
	return b, true
}

// Len returns the number of queued bytes.
func (q *Inbound) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Cap returns the capacity ceiling.
func (q *Inbound) Cap() int { return q.capacity }

// Quantum returns the eviction quantum.
func (q *Inbound) Quantum() int { return q.quantum }

// Evicted returns the total number of bytes dropped by overflow.
func (q *Inbound) Evicted() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.evicted
}

// Reset drops all queued bytes. The eviction counter is kept.
func (q *Inbound) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.chunks = queue.New()
	q.head = 0
	q.size = 0
}

// advanceLocked consumes n bytes of front, which must be the front chunk.
func (q *Inbound) advanceLocked(front []byte, n int) {
	q.head += n
	q.size -= n
	if q.head == len(front) {
		q.chunks.Remove()
		q.head = 0
	}
}

// discardLocked drops n bytes from the front.
func (q *Inbound) discardLocked(n int) {
	for n > 0 {
		front := q.chunks.Peek().([]byte)
		c := min(n, len(front)-q.head)
		q.advanceLocked(front, c)
		n -= c
	}
}
