package metrics

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTel is a Provider backed by an OpenTelemetry MeterProvider, for
// deployments that export via OTLP rather than a Prometheus scrape.
type OTel struct {
	decoded    metric.Int64Counter
	dropped    metric.Int64Counter
	malformed  metric.Int64Counter
	queueDepth metric.Int64UpDownCounter
	flushes    metric.Int64Counter
	saveDur    metric.Float64Histogram
	retries    metric.Int64Counter
	batchDrop  metric.Int64Counter

	lastDepth atomic.Int64
}

// NewOTel returns an OTel provider using the given MeterProvider, or a
// fresh zero-config one if mp is nil.
func NewOTel(mp *sdkmetric.MeterProvider) *OTel {
	if mp == nil {
		mp = sdkmetric.NewMeterProvider()
	}
	meter := mp.Meter("telemetryd")
	o := &OTel{}
	o.decoded, _ = meter.Int64Counter("telemetry.packets.decoded")
	o.dropped, _ = meter.Int64Counter("telemetry.packets.dropped")
	o.malformed, _ = meter.Int64Counter("telemetry.packets.malformed")
	o.queueDepth, _ = meter.Int64UpDownCounter("telemetry.queue.depth")
	o.flushes, _ = meter.Int64Counter("telemetry.batch.flushes")
	o.saveDur, _ = meter.Float64Histogram("telemetry.batch.save_seconds")
	o.retries, _ = meter.Int64Counter("telemetry.batch.save_retries")
	o.batchDrop, _ = meter.Int64Counter("telemetry.batch.packets_dropped")
	return o
}

func (o *OTel) PacketDecoded()   { o.decoded.Add(context.Background(), 1) }
func (o *OTel) PacketDropped()   { o.dropped.Add(context.Background(), 1) }
func (o *OTel) PacketMalformed() { o.malformed.Add(context.Background(), 1) }
func (o *OTel) QueueDepth(depth int) {
	prev := o.lastDepth.Swap(int64(depth))
	o.queueDepth.Add(context.Background(), int64(depth)-prev)
}
func (o *OTel) BatchFlushed(reason string, size int) {
	o.flushes.Add(context.Background(), 1)
}
func (o *OTel) BatchSaveDuration(d time.Duration) {
	o.saveDur.Record(context.Background(), d.Seconds())
}
func (o *OTel) SaveRetried()           { o.retries.Add(context.Background(), 1) }
func (o *OTel) BatchDropped(count int) { o.batchDrop.Add(context.Background(), int64(count)) }
func (o *OTel) Handler() http.Handler  { return nil }
