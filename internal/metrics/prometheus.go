package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus is a Provider backed by a dedicated registry.
type Prometheus struct {
	decoded    prom.Counter
	dropped    prom.Counter
	malformed  prom.Counter
	queueDepth prom.Gauge
	flushes    *prom.CounterVec
	saveDur    prom.Histogram
	retries    prom.Counter
	batchDrop  prom.Counter
	handler    http.Handler
}

// NewPrometheus registers all ingestion metrics on a fresh registry.
func NewPrometheus() *Prometheus {
	reg := prom.NewRegistry()
	p := &Prometheus{
		decoded: prom.NewCounter(prom.CounterOpts{
			Name: "telemetry_packets_decoded_total", Help: "total packets successfully decoded",
		}),
		dropped: prom.NewCounter(prom.CounterOpts{
			Name: "telemetry_packets_dropped_total", Help: "total packets dropped due to a full queue",
		}),
		malformed: prom.NewCounter(prom.CounterOpts{
			Name: "telemetry_packets_malformed_total", Help: "total datagrams rejected as malformed",
		}),
		queueDepth: prom.NewGauge(prom.GaugeOpts{
			Name: "telemetry_queue_depth", Help: "current number of buffered datagrams",
		}),
		flushes: prom.NewCounterVec(prom.CounterOpts{
			Name: "telemetry_batch_flushes_total", Help: "total batch flushes by trigger reason",
		}, []string{"reason"}),
		saveDur: prom.NewHistogram(prom.HistogramOpts{
			Name: "telemetry_batch_save_seconds", Help: "batch save duration including retries",
		}),
		retries: prom.NewCounter(prom.CounterOpts{
			Name: "telemetry_batch_save_retries_total", Help: "total batch save retry attempts",
		}),
		batchDrop: prom.NewCounter(prom.CounterOpts{
			Name: "telemetry_batch_packets_dropped_total", Help: "total packets permanently lost after exhausting retries",
		}),
	}
	reg.MustRegister(p.decoded, p.dropped, p.malformed, p.queueDepth, p.flushes, p.saveDur, p.retries, p.batchDrop)
	p.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return p
}

func (p *Prometheus) PacketDecoded()   { p.decoded.Inc() }
func (p *Prometheus) PacketDropped()   { p.dropped.Inc() }
func (p *Prometheus) PacketMalformed() { p.malformed.Inc() }
func (p *Prometheus) QueueDepth(depth int) {
	p.queueDepth.Set(float64(depth))
}
func (p *Prometheus) BatchFlushed(reason string, size int) {
	p.flushes.WithLabelValues(reason).Inc()
}
func (p *Prometheus) BatchSaveDuration(d time.Duration) { p.saveDur.Observe(d.Seconds()) }
func (p *Prometheus) SaveRetried()                      { p.retries.Inc() }
func (p *Prometheus) BatchDropped(count int)            { p.batchDrop.Add(float64(count)) }
func (p *Prometheus) Handler() http.Handler             { return p.handler }
