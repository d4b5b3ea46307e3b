package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"telemetryd/internal/clock"
)

func TestWarnLimiter_AllowsOncePerInterval(t *testing.T) {
	fc := clock.NewFake(time.Unix(0, 0))
	l := NewWarnLimiter(fc, 1) // 1 per second

	allow, suppressed := l.Allow("queue_full")
	assert.True(t, allow)
	assert.Equal(t, uint64(0), suppressed)

	allow, _ = l.Allow("queue_full")
	assert.False(t, allow)
	allow, _ = l.Allow("queue_full")
	assert.False(t, allow)

	fc.Advance(1100 * time.Millisecond)
	allow, suppressed = l.Allow("queue_full")
	assert.True(t, allow)
	assert.Equal(t, uint64(2), suppressed)
}

func TestWarnLimiter_TracksKindsIndependently(t *testing.T) {
	fc := clock.NewFake(time.Unix(0, 0))
	l := NewWarnLimiter(fc, 1)

	allow1, _ := l.Allow("queue_full")
	allow2, _ := l.Allow("decode_error")
	assert.True(t, allow1)
	assert.True(t, allow2)
}

func TestWarnLimiter_ZeroPerSecAlwaysAllows(t *testing.T) {
	fc := clock.NewFake(time.Unix(0, 0))
	l := NewWarnLimiter(fc, 0)
	for i := 0; i < 5; i++ {
		allow, _ := l.Allow("x")
		assert.True(t, allow)
	}
}
