// Package server assembles all HTTP handlers and starts the server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/matthewbaird/schemagen/internal/handler"
	"github.com/matthewbaird/schemagen/internal/history"
	"github.com/matthewbaird/schemagen/internal/service"
	"github.com/matthewbaird/schemagen/internal/wire"
)

// Config holds server configuration.
type Config struct {
	Port           int
	Service        *service.Service
	Runs           history.Store
	RateLimitRPS   int
	RateLimitBurst int
	TracerProvider trace.TracerProvider // nil uses the global provider
}

// NewRouter registers every route behind the recovery, tracing, logging and
// rate limiting middleware.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()
	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	r.Use(handler.Recovery, handler.Tracing(tp), handler.Logging)
	if cfg.RateLimitRPS > 0 {
		r.Use(handler.RateLimit(cfg.RateLimitRPS, max(cfg.RateLimitBurst, cfg.RateLimitRPS)))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	gh := handler.NewGenerationHandler(cfg.Service)
	sh := handler.NewSessionHandler(cfg.Service)
	rh := handler.NewRunHandler(cfg.Runs)
	schemas := handler.NewSchemaHandler()

	r.Route("/v1", func(r chi.Router) {
		r.Post("/generate", gh.Generate)

		r.Post("/sessions", sh.CreateSession)
		r.Get("/sessions/{id}", sh.GetSession)
		r.Delete("/sessions/{id}", sh.DeleteSession)
		r.Post("/sessions/{id}/generate", gh.GenerateInSession)
		r.Post("/sessions/{id}/reset", sh.ResetSession)

		r.Get("/runs", rh.ListRuns)
		r.Get("/runs/stats", rh.RunStats)
		r.Get("/runs/{id}", rh.GetRun)

		r.Get("/schemas", schemas.ListSchemas)
		r.Get("/schemas/{name}", schemas.GetSchema)

		r.Get("/ws", wire.NewHandler(cfg.Service, cfg.Runs).ServeHTTP)
	})
	return r
}

// Run starts the HTTP server and shuts it down when ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("starting server on %s", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
