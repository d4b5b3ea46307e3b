// Package batch accumulates decoded packets and hands them off to the save
// executor as an atomic swap, mirroring the ingestion service's
// clear-on-swap buffering: a flush always empties the buffer, so a save
// failure loses that batch rather than retrying against a refilled buffer.
package batch

import (
	"sync"

	"telemetryd/internal/decoder"
)

// Buffer is a mutex-guarded accumulator of packets awaiting a flush.
type Buffer struct {
	mu  sync.Mutex
	buf []decoder.Packet
}

// New returns an empty Buffer sized to avoid reallocation up to
// expectedSize entries between flushes.
func New(expectedSize int) *Buffer {
	return &Buffer{buf: make([]decoder.Packet, 0, expectedSize)}
}

// Append adds p to the buffer and returns the buffer's length after the
// append, so the caller can decide whether a size-triggered flush is due.
func (b *Buffer) Append(p decoder.Packet) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p)
	return len(b.buf)
}

// Swap atomically takes ownership of the buffered packets and replaces them
// with a fresh, empty buffer. It is the only way to read the buffer's
// contents: callers must never hold a reference into live buffer state.
func (b *Buffer) Swap() []decoder.Packet {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.buf) == 0 {
		return nil
	}
	out := b.buf
	b.buf = make([]decoder.Packet, 0, cap(out))
	return out
}

// Len reports the current number of buffered packets.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buf)
}
