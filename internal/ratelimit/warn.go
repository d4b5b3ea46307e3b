// Package ratelimit bounds how often the receiver and decoder log
// repetitive warnings (queue full, malformed datagram). It is a
// single-bucket specialization of the teacher's sharded adaptive limiter:
// here there is no per-domain dimension to shard on, just one event stream
// per warning kind.
package ratelimit

import (
	"sync"

	"telemetryd/internal/clock"
)

// WarnLimiter allows at most one log line per event kind per interval tick,
// counting suppressed occurrences so they can be reported once the bucket
// reopens.
type WarnLimiter struct {
	clk     clock.Clock
	perSec  float64
	mu      sync.Mutex
	buckets map[string]*bucketState
}

type bucketState struct {
	allowedAt  float64 // wall-clock seconds since the Unix epoch, from clk.Now
	suppressed uint64
}

// NewWarnLimiter returns a limiter allowing perSec log lines per second for
// each distinct event kind. perSec <= 0 disables suppression (always allow).
func NewWarnLimiter(clk clock.Clock, perSec float64) *WarnLimiter {
	return &WarnLimiter{clk: clk, perSec: perSec, buckets: make(map[string]*bucketState)}
}

// SetPerSec updates the allowed rate, taking effect for buckets checked
// after the call. Used by configuration hot-reload.
func (l *WarnLimiter) SetPerSec(perSec float64) {
	l.mu.Lock()
	l.perSec = perSec
	l.mu.Unlock()
}

// Allow reports whether a log line for kind should be emitted now, and how
// many prior occurrences were suppressed since the last allowed emission.
func (l *WarnLimiter) Allow(kind string) (allow bool, suppressed uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.perSec <= 0 {
		return true, 0
	}

	now := secondsSinceEpoch(l.clk)
	st := l.buckets[kind]
	if st == nil {
		st = &bucketState{}
		l.buckets[kind] = st
	}
	if now >= st.allowedAt {
		suppressed = st.suppressed
		st.suppressed = 0
		st.allowedAt = now + 1.0/l.perSec
		return true, suppressed
	}
	st.suppressed++
	return false, 0
}

func secondsSinceEpoch(clk clock.Clock) float64 {
	return float64(clk.Now().UnixNano()) / 1e9
}
