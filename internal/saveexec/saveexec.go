// Package saveexec runs a batch save against the sink with a bounded retry
// schedule, tracking in-flight saves so the supervisor can await them
// during shutdown. Grounded on the ingestion service's save-with-retry
// loop and the pipeline's goroutine-per-unit-of-work retry shape.
package saveexec

import (
	"context"
	"sync"
	"time"

	"telemetryd/internal/clock"
	"telemetryd/internal/decoder"
	"telemetryd/internal/metrics"
	"telemetryd/internal/sink"
	"telemetryd/internal/telemetrylog"
	"telemetryd/internal/tracing"
)

// retryDelays are the fixed backoff delays before retry attempts 1, 2, and
// 3 respectively, after an initial attempt fails. An initial attempt plus
// three retries is four attempts total.
var retryDelays = []time.Duration{
	500 * time.Millisecond,
	1000 * time.Millisecond,
	1500 * time.Millisecond,
}

// Executor spawns and tracks save operations.
type Executor struct {
	sink    sink.BatchSink
	clk     clock.Clock
	log     telemetrylog.Logger
	metrics metrics.Provider
	tracer  tracing.Tracer

	onDropped func(count int)

	wg sync.WaitGroup
}

// New returns an Executor writing through sink s. onDropped, if non-nil, is
// called with the number of packets permanently lost after exhausting all
// retries. Every save is wrapped in its own span so its log lines carry a
// correlated trace/span ID.
func New(s sink.BatchSink, clk clock.Clock, log telemetrylog.Logger, mp metrics.Provider, tracer tracing.Tracer, onDropped func(count int)) *Executor {
	return &Executor{sink: s, clk: clk, log: log, metrics: mp, tracer: tracer, onDropped: onDropped}
}

// Spawn saves packets in a new goroutine, tracked in the in-flight set.
// Spawn returns immediately; it never blocks the caller.
func (e *Executor) Spawn(ctx context.Context, packets []decoder.Packet, reason string) {
	if len(packets) == 0 {
		return
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.saveWithRetry(ctx, packets, reason)
	}()
}

func (e *Executor) saveWithRetry(ctx context.Context, packets []decoder.Packet, reason string) {
	ctx, span := e.tracer.StartSpan(ctx, "batch.save")
	span.SetAttribute("reason", reason)
	span.SetAttribute("count", len(packets))
	defer span.End()

	start := e.clk.Now()
	var lastErr error
	for attempt := 0; attempt <= len(retryDelays); attempt++ {
		if attempt > 0 {
			e.metrics.SaveRetried()
			e.clk.Sleep(retryDelays[attempt-1])
		}
		err := e.sink.SaveBatch(ctx, packets)
		if err == nil {
			e.metrics.BatchSaveDuration(e.clk.Now().Sub(start))
			if attempt > 0 {
				e.log.InfoCtx(ctx, "batch saved after retry", "attempt", attempt+1, "count", len(packets), "reason", reason)
			}
			return
		}
		lastErr = err
		e.log.WarnCtx(ctx, "batch save attempt failed", "attempt", attempt+1, "count", len(packets), "error", err)
	}
	e.metrics.BatchSaveDuration(e.clk.Now().Sub(start))
	e.log.ErrorCtx(ctx, "batch save exhausted retries, dropping batch", "count", len(packets), "error", lastErr)
	if e.onDropped != nil {
		e.onDropped(len(packets))
	}
}

// AwaitInflight blocks until all currently-spawned saves complete, or ctx
// is cancelled. It is safe to call once during shutdown after no further
// flushes will be triggered.
func (e *Executor) AwaitInflight(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
