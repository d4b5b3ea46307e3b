// Package receiver binds a UDP socket and forwards datagrams onto a bounded
// queue, dropping on backpressure rather than blocking the read loop.
package receiver

import (
	"context"
	"log/slog"
	"net"
	"sync/atomic"

	"telemetryd/internal/metrics"
	"telemetryd/internal/queue"
	"telemetryd/internal/ratelimit"
)

// maxDatagramSize is larger than the largest wire format (324 bytes) with
// headroom for unexpected oversized payloads, which are decoded and
// rejected rather than silently truncated.
const maxDatagramSize = 65507

// Receiver owns the UDP listening socket.
type Receiver struct {
	conn    *net.UDPConn
	q       *queue.Queue
	log     *slog.Logger
	limiter *ratelimit.WarnLimiter
	metrics metrics.Provider

	dropped atomic.Uint64
}

// Bind opens a UDP socket on addr. Returns an error the caller should treat
// as fatal (spec exit code BindFailed).
func Bind(addr string, q *queue.Queue, log *slog.Logger, limiter *ratelimit.WarnLimiter, mp metrics.Provider) (*Receiver, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, err
	}
	return &Receiver{conn: conn, q: q, log: log, limiter: limiter, metrics: mp}, nil
}

// Dropped returns the total number of datagrams dropped due to a full queue.
func (r *Receiver) Dropped() uint64 { return r.dropped.Load() }

// Run reads datagrams until ctx is cancelled or the socket is closed.
func (r *Receiver) Run(ctx context.Context) error {
	buf := make([]byte, maxDatagramSize)
	for {
		if ctx.Err() != nil {
			return nil
		}
		n, peer, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		payload := make([]byte, n)
		copy(payload, buf[:n])

		if !r.q.TrySend(queue.Datagram{Payload: payload, Peer: peer}) {
			r.dropped.Add(1)
			r.metrics.PacketDropped()
			if allow, suppressed := r.limiter.Allow("queue_full"); allow {
				r.log.Warn("dropping datagram: queue full",
					"suppressed_since_last", suppressed,
					"total_dropped", r.dropped.Load())
			}
		}
	}
}

// Close closes the listening socket, unblocking Run.
func (r *Receiver) Close() error { return r.conn.Close() }
