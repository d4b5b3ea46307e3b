// Package supervisor wires every component together and owns the
// startup/shutdown sequence, grounded on the teacher's root main.go signal
// handling and the original service's main_refactored startup/shutdown
// ordering: bind store, bind UDP, run, drain-on-signal, final flush, await
// in-flight saves, close store.
package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"telemetryd/internal/batch"
	"telemetryd/internal/clock"
	"telemetryd/internal/config"
	"telemetryd/internal/decoder"
	"telemetryd/internal/health"
	"telemetryd/internal/metrics"
	"telemetryd/internal/queue"
	"telemetryd/internal/racestate"
	"telemetryd/internal/receiver"
	"telemetryd/internal/saveexec"
	"telemetryd/internal/session"
	"telemetryd/internal/sink"
	"telemetryd/internal/telemetrylog"
	"telemetryd/internal/tracing"

	tdratelimit "telemetryd/internal/ratelimit"
)

// Exit codes, matching the control surface's documented process contract.
const (
	ExitOK               = 0
	ExitGenericError     = 1
	ExitStoreConnectFail = 2
	ExitBindFailed       = 3
)

// Deps are the externally-constructed dependencies a Supervisor composes.
// The DB pool is created by main (its teardown spans both the supervisor
// and the caller) and passed in already-open; the UDP socket is bound by
// Run.
type Deps struct {
	Config        *config.Config
	Log           *slog.Logger
	CorrelatedLog telemetrylog.Logger
	Tracer        tracing.Tracer
	Metrics       metrics.Provider
	Clock         clock.Clock
	Sink          sink.BatchSink
	SessionStore  session.Store
	ClosePool     func()
}

// Supervisor composes the ingestion pipeline end to end.
type Supervisor struct {
	deps Deps

	q           *queue.Queue
	recv        *receiver.Receiver
	buf         *batch.Buffer
	sched       *batch.Scheduler
	exec        *saveexec.Executor
	registry    *session.Registry
	checker     *health.Checker
	warnLimiter *tdratelimit.WarnLimiter

	bufferSize   atomic.Int64
	drainTimeout atomic.Int64 // nanoseconds

	controlSrv *http.Server
	metricsSrv *http.Server
}

// New wires all components but does not start anything or bind sockets.
// newControlMux, if non-nil, is handed this Supervisor's own session
// Registry so the control API and the consumer loop share one source of
// truth for the active session.
func New(deps Deps, newControlMux func(*session.Registry) *http.ServeMux) *Supervisor {
	cfg := deps.Config

	if deps.Tracer == nil {
		deps.Tracer = tracing.New(false)
	}
	if deps.CorrelatedLog == nil {
		deps.CorrelatedLog = telemetrylog.NewWithHandler(deps.Log.Handler())
	}

	s := &Supervisor{
		deps:        deps,
		q:           queue.New(cfg.QueueCapacity),
		buf:         batch.New(cfg.BufferSize),
		registry:    session.New(deps.SessionStore),
		checker:     health.NewChecker(),
		warnLimiter: tdratelimit.NewWarnLimiter(deps.Clock, cfg.WarnRateLimitPerSec),
	}
	s.bufferSize.Store(int64(cfg.BufferSize))
	s.drainTimeout.Store(int64(cfg.DrainTimeout()))

	s.exec = saveexec.New(deps.Sink, deps.Clock, deps.CorrelatedLog, deps.Metrics, deps.Tracer, func(count int) {
		deps.Metrics.BatchDropped(count)
	})
	s.sched = batch.NewScheduler(deps.Clock, cfg.FlushInterval(), func(reason string) {
		s.flush(reason)
	})

	if newControlMux != nil {
		s.controlSrv = &http.Server{Addr: cfg.Network.ControlListenAddr, Handler: newControlMux(s.registry)}
	}
	if h := deps.Metrics.Handler(); h != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", h)
		mux.HandleFunc("/healthz", s.checker.Handler())
		s.metricsSrv = &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: mux}
	}

	s.checker.Register("queue", func(ctx context.Context) error {
		if s.q.Len() >= s.q.Cap() {
			return errors.New("queue saturated")
		}
		return nil
	})

	return s
}

// Registry exposes the session registry for the control API to bind to.
func (s *Supervisor) Registry() *session.Registry { return s.registry }

// ApplyReloadable updates the hot-reloadable subset of configuration while
// the pipeline is running, to be called from a config.Watcher callback.
func (s *Supervisor) ApplyReloadable(r config.Reloadable) {
	s.bufferSize.Store(int64(r.BufferSize))
	s.drainTimeout.Store(int64(time.Duration(r.DrainTimeoutSec * float64(time.Second))))
	s.sched.SetInterval(time.Duration(r.FlushIntervalSec * float64(time.Second)))
	s.warnLimiter.SetPerSec(r.WarnRateLimitPerSec)
}

// Run binds the UDP socket and runs the pipeline until ctx is cancelled,
// then performs the graceful shutdown sequence. It returns the process
// exit code to use.
func (s *Supervisor) Run(ctx context.Context) int {
	cfg := s.deps.Config
	log := s.deps.Log

	recv, err := receiver.Bind(cfg.Network.UDPListenAddr, s.q, log, s.warnLimiter, s.deps.Metrics)
	if err != nil {
		log.Error("udp bind failed", "error", err)
		return ExitBindFailed
	}
	s.recv = recv
	s.checker.Register("udp", func(context.Context) error { return nil })

	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	go func() {
		if err := s.recv.Run(runCtx); err != nil {
			log.Error("udp receive loop exited", "error", err)
		}
	}()
	go s.sched.Run(runCtx)
	go s.consumeLoop(runCtx)

	if s.controlSrv != nil {
		go func() {
			if err := s.controlSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("control server failed", "error", err)
			}
		}()
	}
	if s.metricsSrv != nil {
		go func() {
			if err := s.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", "error", err)
			}
		}()
	}

	<-ctx.Done()
	log.Info("shutdown initiated")

	// 1. Stop accepting new datagrams.
	_ = s.recv.Close()
	log.Info("udp receiver closed", "total_dropped", s.recv.Dropped())

	// 2. Drain the queue with a timeout.
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), s.drainTimeoutDuration())
	s.drainQueue(drainCtx, log)
	cancelDrain()

	// 3. Cancel the consumer loop and flush ticker.
	cancelRun()

	if s.controlSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = s.controlSrv.Shutdown(shutdownCtx)
		cancel()
	}
	if s.metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = s.metricsSrv.Shutdown(shutdownCtx)
		cancel()
	}

	// 4. Final forced flush of whatever remains in the buffer.
	s.flush("shutdown")

	// 5. Await in-flight saves.
	awaitCtx, cancelAwait := context.WithTimeout(context.Background(), s.drainTimeoutDuration())
	s.exec.AwaitInflight(awaitCtx)
	cancelAwait()

	if s.deps.ClosePool != nil {
		s.deps.ClosePool()
	}
	log.Info("shutdown complete")
	return ExitOK
}

func (s *Supervisor) drainTimeoutDuration() time.Duration {
	return time.Duration(s.drainTimeout.Load())
}

func (s *Supervisor) drainQueue(ctx context.Context, log *slog.Logger) {
	for {
		if s.q.Len() == 0 {
			return
		}
		select {
		case <-ctx.Done():
			log.Warn("queue drain timed out", "remaining", s.q.Len())
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func (s *Supervisor) consumeLoop(ctx context.Context) {
	log := s.deps.Log
	mon := &racestate.Monitor{}
	for {
		d, ok := s.q.Receive(ctx)
		if !ok {
			return
		}
		pkt, err := decoder.Decode(d.Payload)
		if err != nil {
			s.deps.Metrics.PacketMalformed()
			if allow, suppressed := s.warnLimiter.Allow("decode_error"); allow {
				log.Warn("malformed datagram", "error", err, "peer", d.Peer,
					"suppressed_since_last", suppressed)
			}
			continue
		}
		s.deps.Metrics.PacketDecoded()
		s.deps.Metrics.QueueDepth(s.q.Len())

		if t := mon.Detect(pkt); t != nil && t.Kind == racestate.Ended {
			s.sched.TriggerNow("race_end")
		}

		if pkt.IsRaceOn != 1 {
			continue
		}
		enriched := s.registry.Enrich(pkt)
		if n := s.buf.Append(enriched); n >= int(s.bufferSize.Load()) {
			s.sched.TriggerNow("size")
		}
	}
}

// flush starts the span that correlates this flush's log line with the
// save-executor's own span for the same batch (saveexec.saveWithRetry
// continues the trace via the context Spawn is given).
func (s *Supervisor) flush(reason string) {
	packets := s.buf.Swap()
	if len(packets) == 0 {
		return
	}
	ctx, span := s.deps.Tracer.StartSpan(context.Background(), "batch.flush")
	span.SetAttribute("reason", reason)
	span.SetAttribute("count", len(packets))
	defer span.End()

	s.deps.Metrics.BatchFlushed(reason, len(packets))
	s.deps.CorrelatedLog.InfoCtx(ctx, "batch flushed", "reason", reason, "count", len(packets))
	s.exec.Spawn(ctx, packets, reason)
}

// ResolveUDPAddr is a small helper kept for callers that need to validate a
// listen address before binding, e.g. during config validation.
func ResolveUDPAddr(addr string) error {
	_, err := net.ResolveUDPAddr("udp", addr)
	return err
}
