package saveexec

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"telemetryd/internal/clock"
	"telemetryd/internal/decoder"
	"telemetryd/internal/metrics"
	"telemetryd/internal/sink"
	"telemetryd/internal/telemetrylog"
	"telemetryd/internal/tracing"
)

func nopLogger() telemetrylog.Logger {
	return telemetrylog.NewWithHandler(slog.NewTextHandler(io.Discard, nil))
}

// countingMetrics records how many times SaveRetried and BatchSaveDuration
// were called, so retry/timing instrumentation can be asserted on directly.
type countingMetrics struct {
	metrics.Noop
	retries int
	saves   int
}

func (m *countingMetrics) SaveRetried()                    { m.retries++ }
func (m *countingMetrics) BatchSaveDuration(time.Duration) { m.saves++ }

func TestExecutor_SavesOnFirstAttempt(t *testing.T) {
	fc := clock.NewFake(time.Unix(0, 0))
	mem := sink.NewMemory()
	mp := &countingMetrics{}
	e := New(mem, fc, nopLogger(), mp, tracing.New(false), nil)

	e.Spawn(context.Background(), []decoder.Packet{{CarOrdinal: 1}}, "size")
	e.AwaitInflight(context.Background())

	require.Len(t, mem.Batches(), 1)
	assert.Empty(t, fc.Sleeps())
	assert.Equal(t, 0, mp.retries)
	assert.Equal(t, 1, mp.saves)
}

func TestExecutor_RetriesWithFixedDelaysThenSucceeds(t *testing.T) {
	fc := clock.NewFake(time.Unix(0, 0))
	mem := sink.NewMemory()
	mem.FailNext(2)
	mp := &countingMetrics{}
	e := New(mem, fc, nopLogger(), mp, tracing.New(false), nil)

	e.Spawn(context.Background(), []decoder.Packet{{CarOrdinal: 1}}, "interval")
	e.AwaitInflight(context.Background())

	require.Len(t, mem.Batches(), 1)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 1000 * time.Millisecond}, fc.Sleeps())
	assert.Equal(t, 2, mp.retries)
}

func TestExecutor_DropsBatchAfterExhaustingRetries(t *testing.T) {
	fc := clock.NewFake(time.Unix(0, 0))
	mem := sink.NewMemory()
	mem.FailNext(10)
	var dropped int
	mp := &countingMetrics{}
	e := New(mem, fc, nopLogger(), mp, tracing.New(false), func(count int) { dropped = count })

	e.Spawn(context.Background(), []decoder.Packet{{}, {}, {}}, "race_end")
	e.AwaitInflight(context.Background())

	assert.Empty(t, mem.Batches())
	assert.Equal(t, 3, dropped)
	assert.Equal(t, []time.Duration{
		500 * time.Millisecond, 1000 * time.Millisecond, 1500 * time.Millisecond,
	}, fc.Sleeps())
	assert.Equal(t, 3, mp.retries)
	assert.Equal(t, 1, mp.saves)
}

func TestExecutor_SpawnIsNonBlocking(t *testing.T) {
	fc := clock.NewFake(time.Unix(0, 0))
	mem := sink.NewMemory()
	mem.FailNext(3)
	e := New(mem, fc, nopLogger(), &countingMetrics{}, tracing.New(false), nil)

	start := time.Now()
	e.Spawn(context.Background(), []decoder.Packet{{}}, "size")
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	e.AwaitInflight(context.Background())
}
