package batch

import (
	"context"
	"sync"
	"time"

	"telemetryd/internal/clock"
)

// tickResolution is how often the scheduler checks whether the time-based
// flush threshold has elapsed, independent of the configured interval.
const tickResolution = 100 * time.Millisecond

// Scheduler triggers flushes on a time interval, and lets callers trigger a
// flush immediately for size- or race-end-based reasons. All triggers
// funnel into the same onFlush callback; Buffer.Swap's atomicity is what
// makes concurrent triggers safe.
type Scheduler struct {
	clk           clock.Clock
	flushInterval time.Duration
	onFlush       func(reason string)

	mu        sync.Mutex
	lastFlush time.Time
}

// NewScheduler returns a Scheduler that calls onFlush at least every
// flushInterval, plus whenever TriggerNow is called.
func NewScheduler(clk clock.Clock, flushInterval time.Duration, onFlush func(reason string)) *Scheduler {
	return &Scheduler{clk: clk, flushInterval: flushInterval, onFlush: onFlush, lastFlush: clk.Now()}
}

// SetInterval updates the time-based flush threshold, taking effect on the
// next tick. Used by configuration hot-reload.
func (s *Scheduler) SetInterval(d time.Duration) {
	s.mu.Lock()
	s.flushInterval = d
	s.mu.Unlock()
}

// TriggerNow invokes the flush callback immediately and resets the time
// threshold, so a size- or race-end-triggered flush doesn't also fire a
// redundant time-based flush moments later.
func (s *Scheduler) TriggerNow(reason string) {
	s.mu.Lock()
	s.lastFlush = s.clk.Now()
	s.mu.Unlock()
	s.onFlush(reason)
}

// Run polls at tickResolution until ctx is cancelled, firing a time-based
// flush whenever flushInterval has elapsed since the last flush.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := s.clk.NewTicker(tickResolution)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C():
			s.mu.Lock()
			due := now.Sub(s.lastFlush) >= s.flushInterval
			if due {
				s.lastFlush = now
			}
			s.mu.Unlock()
			if due {
				s.onFlush("interval")
			}
		}
	}
}
