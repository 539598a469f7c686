package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/matthewbaird/schemagen/internal/config"
	"github.com/matthewbaird/schemagen/internal/event"
	"github.com/matthewbaird/schemagen/internal/eventbus"
	"github.com/matthewbaird/schemagen/internal/generator"
	"github.com/matthewbaird/schemagen/internal/history"
	"github.com/matthewbaird/schemagen/internal/server"
	"github.com/matthewbaird/schemagen/internal/service"
	"github.com/matthewbaird/schemagen/internal/session"
	"github.com/matthewbaird/schemagen/internal/worker"

	_ "modernc.org/sqlite"
)

func main() {
	log.SetPrefix("schemagen: ")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	tp := sdktrace.NewTracerProvider()
	mp := sdkmetric.NewMeterProvider()
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
		_ = mp.Shutdown(shutdownCtx)
	}()

	runs, closeRuns, err := openHistory(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("opening run history: %v", err)
	}
	defer closeRuns()

	bus := eventbus.New(256)
	bus.Subscribe("log", eventbus.NewLogConsumer())
	bus.Start(ctx)
	defer bus.Stop()

	recorder := event.NewRunRecorder(runs)
	recorder.SetPublisher(bus)

	sessions := session.NewManager(cfg.SessionMaxAge, cfg.SessionIdleTimeout)

	sweeper := worker.NewSessionSweeper(sessions, sweepInterval(cfg.SessionIdleTimeout))
	sweeper.SetPublisher(bus)
	go sweeper.Run(ctx)

	svc := service.New(service.Config{
		Generator:     generator.New(),
		Sessions:      sessions,
		Recorder:      recorder,
		Publisher:     bus,
		DefaultTarget: cfg.DefaultTarget,
	})

	if err := server.Run(ctx, server.Config{
		Port:           cfg.Port,
		Service:        svc,
		Runs:           runs,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// openHistory opens the SQLite run history at dsn, or an in-memory one when
// dsn is empty.
func openHistory(ctx context.Context, dsn string) (history.Store, func(), error) {
	if dsn == "" {
		log.Println("no DATABASE_URL set, keeping run history in memory")
		return history.NewMemoryStore(), func() {}, nil
	}

	store, err := history.NewSQLiteStore(dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := store.CreateTable(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	log.Println("run history table ready")
	return store, func() { _ = store.Close() }, nil
}

func sweepInterval(idle time.Duration) time.Duration {
	if idle <= 0 {
		return time.Minute
	}
	return min(max(idle/2, time.Second), time.Minute)
}
