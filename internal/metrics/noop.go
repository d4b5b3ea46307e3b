package metrics

import (
	"net/http"
	"time"
)

// Noop discards every measurement; used when metrics are disabled.
type Noop struct{}

func (Noop) PacketDecoded()                       {}
func (Noop) PacketDropped()                       {}
func (Noop) PacketMalformed()                     {}
func (Noop) QueueDepth(depth int)                 {}
func (Noop) BatchFlushed(reason string, size int) {}
func (Noop) BatchSaveDuration(d time.Duration)    {}
func (Noop) SaveRetried()                         {}
func (Noop) BatchDropped(count int)               {}
func (Noop) Handler() http.Handler                { return nil }
