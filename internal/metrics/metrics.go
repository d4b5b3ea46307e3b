// Package metrics defines the ingestion pipeline's metrics surface and two
// backends for it (Prometheus, OpenTelemetry), mirroring the engine's
// pluggable metrics.Provider design but scoped to this service's concrete
// measurements instead of a generic counter/gauge/histogram factory.
package metrics

import (
	"net/http"
	"time"
)

// Provider records the pipeline's operational metrics.
type Provider interface {
	PacketDecoded()
	PacketDropped()
	PacketMalformed()
	QueueDepth(depth int)
	BatchFlushed(reason string, size int)
	BatchSaveDuration(d time.Duration)
	SaveRetried()
	BatchDropped(count int)

	// Handler returns an HTTP handler serving this provider's metrics, or
	// nil if the backend has no pull-based exposition (e.g. OTel push).
	Handler() http.Handler
}
