// Command telemetryd ingests simulator telemetry over UDP, buffers it, and
// bulk-writes it to Postgres, exposing a minimal session control API.
//
// Startup and shutdown sequencing follow the original service's
// main_refactored: connect the store, bind UDP, run until a termination
// signal, then drain, flush, and close in order.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"telemetryd/internal/clock"
	"telemetryd/internal/config"
	"telemetryd/internal/control"
	"telemetryd/internal/metrics"
	"telemetryd/internal/session"
	"telemetryd/internal/sink"
	"telemetryd/internal/supervisor"
	"telemetryd/internal/telemetrylog"
	"telemetryd/internal/tracing"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to YAML configuration file")
	flag.Parse()

	var data []byte
	if *configPath != "" {
		var err error
		data, err = os.ReadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "telemetryd: reading config: %v\n", err)
			return supervisor.ExitGenericError
		}
	}

	cfg, err := config.Load(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetryd: %v\n", err)
		return supervisor.ExitGenericError
	}

	level := slog.LevelInfo
	_ = level.UnmarshalText([]byte(cfg.Log.Level))
	logger := telemetrylog.New(level, cfg.Log.Format)
	log := logger.Base()

	log.Info("service starting", "udp_addr", cfg.Network.UDPListenAddr)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DB.DSN)
	if err != nil {
		log.Error("db connection failed", "error", err)
		return supervisor.ExitStoreConnectFail
	}
	if err := pool.Ping(ctx); err != nil {
		log.Error("db connection failed", "error", err)
		pool.Close()
		return supervisor.ExitStoreConnectFail
	}

	var metricsProvider metrics.Provider
	switch cfg.Metrics.Backend {
	case "otel":
		metricsProvider = metrics.NewOTel(nil)
	case "noop":
		metricsProvider = metrics.Noop{}
	default:
		metricsProvider = metrics.NewPrometheus()
	}

	deps := supervisor.Deps{
		Config:        cfg,
		Log:           log,
		CorrelatedLog: logger,
		Tracer:        tracing.New(true),
		Metrics:       metricsProvider,
		Clock:         clock.Real(),
		Sink:          sink.NewPostgres(pool, cfg.DB.TableName),
		SessionStore:  session.NewPostgresStore(pool),
		ClosePool:     pool.Close,
	}

	sup := supervisor.New(deps, func(reg *session.Registry) *http.ServeMux {
		return control.NewMux(reg, log)
	})

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *configPath != "" {
		watcher := config.NewWatcher(*configPath, log)
		go func() {
			if err := watcher.Watch(sigCtx, sup.ApplyReloadable); err != nil {
				log.Warn("config watcher exited", "error", err)
			}
		}()
	}

	return sup.Run(sigCtx)
}
