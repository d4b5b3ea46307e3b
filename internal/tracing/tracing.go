// Package tracing provides a lightweight span tracer for correlating log
// lines across a batch's flush/save lifecycle, adapted from the engine's
// internal adaptive tracer down to the two cases this service needs:
// always-on and disabled.
package tracing

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// Span is a single traced operation.
type Span interface {
	End()
	SetAttribute(key string, value any)
	Context() SpanContext
}

// SpanContext carries correlation IDs, suitable for attaching to log lines.
type SpanContext struct {
	TraceID, SpanID, ParentSpanID string
	Start, End                    time.Time
}

// Tracer starts spans, optionally disabled entirely (noop).
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
}

// New returns a Tracer; enabled=false returns a zero-cost noop tracer.
func New(enabled bool) Tracer {
	if !enabled {
		return noopTracer{}
	}
	return simpleTracer{}
}

type noopTracer struct{}
type noopSpan struct{}

func (noopTracer) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	return ctx, noopSpan{}
}
func (noopSpan) End()                           {}
func (noopSpan) SetAttribute(key string, v any) {}
func (noopSpan) Context() SpanContext           { return SpanContext{} }

type simpleTracer struct{}

func (simpleTracer) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	parent := fromContext(ctx)
	traceID := parent.ctx.TraceID
	if traceID == "" {
		traceID = newID(16)
	}
	sp := &simpleSpan{ctx: SpanContext{
		TraceID:      traceID,
		SpanID:       newID(8),
		ParentSpanID: parent.ctx.SpanID,
		Start:        time.Now(),
	}, attrs: make(map[string]any)}
	return context.WithValue(ctx, spanKey{}, sp), sp
}

type spanKey struct{}

type simpleSpan struct {
	ctx   SpanContext
	mu    sync.Mutex
	ended bool
	attrs map[string]any
}

func (s *simpleSpan) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ended {
		s.ctx.End = time.Now()
		s.ended = true
	}
}

func (s *simpleSpan) SetAttribute(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs[key] = value
}

func (s *simpleSpan) Context() SpanContext { return s.ctx }

func fromContext(ctx context.Context) *simpleSpan {
	if ctx == nil {
		return &simpleSpan{}
	}
	if sp, ok := ctx.Value(spanKey{}).(*simpleSpan); ok {
		return sp
	}
	return &simpleSpan{}
}

// ExtractIDs returns the trace/span IDs attached to ctx, if any.
func ExtractIDs(ctx context.Context) (traceID, spanID string) {
	sp := fromContext(ctx)
	return sp.ctx.TraceID, sp.ctx.SpanID
}

func newID(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
