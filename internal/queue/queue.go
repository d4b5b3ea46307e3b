// Package queue provides the bounded, lossy handoff between the UDP
// receiver goroutine and the ingestion consumer loop, the same buffered
// channel idiom the pipeline stages use for inter-stage handoff.
package queue

import (
	"context"
	"net"
)

// Datagram is one raw payload received from the simulator, paired with the
// peer it arrived from for diagnostics.
type Datagram struct {
	Payload []byte
	Peer    *net.UDPAddr
}

// Queue is a bounded, single-producer/single-consumer channel of datagrams.
// Sends never block the receiver: TrySend drops the datagram when full.
type Queue struct {
	ch chan Datagram
}

// New returns a Queue with the given capacity.
func New(capacity int) *Queue {
	return &Queue{ch: make(chan Datagram, capacity)}
}

// TrySend attempts a non-blocking enqueue. It reports false if the queue is
// full, in which case the caller is expected to count and log the drop.
func (q *Queue) TrySend(d Datagram) bool {
	select {
	case q.ch <- d:
		return true
	default:
		return false
	}
}

// Receive blocks until a datagram is available or ctx is cancelled.
func (q *Queue) Receive(ctx context.Context) (Datagram, bool) {
	select {
	case d, ok := <-q.ch:
		return d, ok
	case <-ctx.Done():
		return Datagram{}, false
	}
}

// Len reports the number of datagrams currently buffered.
func (q *Queue) Len() int { return len(q.ch) }

// Cap reports the queue's capacity.
func (q *Queue) Cap() int { return cap(q.ch) }

// Close closes the underlying channel. Only the owner of the write side
// (the receiver) may call this.
func (q *Queue) Close() { close(q.ch) }
