// Package service is the application layer shared by the HTTP API and the
// WebSocket protocol: it runs generations, records them in the history store
// and keeps sessions.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/matthewbaird/schemagen/internal/analyzer"
	"github.com/matthewbaird/schemagen/internal/event"
	"github.com/matthewbaird/schemagen/internal/generator"
	"github.com/matthewbaird/schemagen/internal/history"
	"github.com/matthewbaird/schemagen/internal/render"
	"github.com/matthewbaird/schemagen/internal/session"
)

// ErrSessionNotFound is returned for unknown, expired or closed sessions.
var ErrSessionNotFound = errors.New("session not found")

// Config wires a Service. Recorder and Publisher are optional.
type Config struct {
	Generator     *generator.Generator
	Sessions      *session.Manager
	Recorder      event.Recorder
	Publisher     event.Publisher
	DefaultTarget string
}

// Service runs generations and manages sessions.
type Service struct {
	gen           *generator.Generator
	sessions      *session.Manager
	recorder      event.Recorder
	bus           event.Publisher
	defaultTarget string
}

// New creates a Service.
func New(cfg Config) *Service {
	target := cfg.DefaultTarget
	if target == "" {
		target = render.DefaultTarget
	}
	return &Service{
		gen:           cfg.Generator,
		sessions:      cfg.Sessions,
		recorder:      cfg.Recorder,
		bus:           cfg.Publisher,
		defaultTarget: target,
	}
}

// Request is a schema to compile. Empty Target and Package fall back to the
// session's, then the service defaults.
type Request struct {
	Schema  []byte
	Target  string
	Package string
}

// Generate compiles a schema with a fresh naming scope. The run is recorded
// whether or not it succeeds; err carries the generation failure.
func (s *Service) Generate(ctx context.Context, req Request) (history.Run, *generator.Output, error) {
	return s.run(ctx, "", generator.Request{
		Schema:  req.Schema,
		Target:  s.target(req.Target, ""),
		Package: req.Package,
	})
}

// GenerateInSession compiles a schema with the session's scope, so untitled
// classes continue the session's numbering.
func (s *Service) GenerateInSession(ctx context.Context, sessionID string, req Request) (history.Run, *generator.Output, error) {
	sess := s.sessions.Get(sessionID)
	if sess == nil {
		return history.Run{}, nil, ErrSessionNotFound
	}

	pkg := req.Package
	if pkg == "" {
		pkg = sess.Package
	}

	var (
		run history.Run
		out *generator.Output
	)
	err := sess.WithScope(func(scope *analyzer.Scope) error {
		var err error
		run, out, err = s.run(ctx, sess.ID, generator.Request{
			Schema:  req.Schema,
			Target:  s.target(req.Target, sess.Target),
			Package: pkg,
			Scope:   scope,
		})
		return err
	})
	return run, out, err
}

// CreateSession opens a session. The target is validated up front.
func (s *Service) CreateSession(ctx context.Context, target, pkg string) (*session.Session, error) {
	target = s.target(target, "")
	r, err := render.Lookup(target, render.Options{Package: pkg})
	if err != nil {
		return nil, err
	}
	sess := s.sessions.Create(r.Name(), pkg)
	s.publish(ctx, event.NewSessionCreated(sess.ID, sess.Target))
	return sess, nil
}

// Session returns a live session.
func (s *Service) Session(id string) (*session.Session, error) {
	sess := s.sessions.Get(id)
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// ResetSession restarts a session's class numbering at DataClass1.
func (s *Service) ResetSession(ctx context.Context, id string) (session.Info, error) {
	sess, err := s.Session(id)
	if err != nil {
		return session.Info{}, err
	}
	sess.Reset()
	s.publish(ctx, event.NewSessionReset(id))
	return sess.Info(), nil
}

// CloseSession removes a session.
func (s *Service) CloseSession(ctx context.Context, id string) error {
	if !s.sessions.Remove(id) {
		return ErrSessionNotFound
	}
	s.publish(ctx, event.NewSessionClosed(id))
	return nil
}

func (s *Service) target(requested, fallback string) string {
	switch {
	case requested != "":
		return requested
	case fallback != "":
		return fallback
	}
	return s.defaultTarget
}

func (s *Service) run(ctx context.Context, sessionID string, req generator.Request) (history.Run, *generator.Output, error) {
	run := history.Run{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Target:    req.Target,
		StartedAt: time.Now(),
	}

	out, err := s.gen.Generate(ctx, req)
	run.Duration = time.Since(run.StartedAt)
	if err != nil {
		run.Status = history.StatusError
		run.ErrorKind = string(Classify(err))
		run.Error = err.Error()
	} else {
		run.Status = history.StatusOK
		run.Target = out.Target
		run.Classes = out.Classes
		run.Source = out.Source
	}

	if s.recorder != nil {
		if rerr := s.recorder.Record(ctx, run); rerr != nil {
			log.Printf("service: recording run %s failed: %v", run.ID, rerr)
		}
	}
	return run, out, err
}

func (s *Service) publish(ctx context.Context, evt event.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(ctx, evt)
	}
}
