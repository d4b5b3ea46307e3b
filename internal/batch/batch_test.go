package batch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"telemetryd/internal/clock"
	"telemetryd/internal/decoder"
)

func TestBuffer_SwapClearsBuffer(t *testing.T) {
	b := New(4)
	b.Append(decoder.Packet{CarOrdinal: 1})
	b.Append(decoder.Packet{CarOrdinal: 2})
	require.Equal(t, 2, b.Len())

	out := b.Swap()
	assert.Len(t, out, 2)
	assert.Equal(t, 0, b.Len())
}

func TestBuffer_SwapOnEmptyReturnsNil(t *testing.T) {
	b := New(4)
	assert.Nil(t, b.Swap())
}

func TestBuffer_AppendReturnsLengthForSizeTrigger(t *testing.T) {
	b := New(2)
	assert.Equal(t, 1, b.Append(decoder.Packet{}))
	assert.Equal(t, 2, b.Append(decoder.Packet{}))
}

func TestScheduler_TriggerNowInvokesCallback(t *testing.T) {
	fc := clock.NewFake(time.Unix(0, 0))
	var calls atomic.Int32
	s := NewScheduler(fc, time.Second, func(reason string) { calls.Add(1) })
	s.TriggerNow("size")
	assert.Equal(t, int32(1), calls.Load())
}

func TestScheduler_FiresOnIntervalElapsed(t *testing.T) {
	fc := clock.NewFake(time.Unix(0, 0))
	var calls atomic.Int32
	s := NewScheduler(fc, 300*time.Millisecond, func(reason string) {
		calls.Add(1)
		assert.Equal(t, "interval", reason)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { s.Run(ctx); close(done) }()

	for i := 0; i < 4; i++ {
		fc.Advance(100 * time.Millisecond)
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}
