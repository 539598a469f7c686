// Package generator ties the pipeline together: parse the schema, analyze it
// with the target's dialect, render the result. Every run is traced and
// counted through OpenTelemetry.
package generator

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/matthewbaird/schemagen/internal/analyzer"
	"github.com/matthewbaird/schemagen/internal/model"
	"github.com/matthewbaird/schemagen/internal/render"
	"github.com/matthewbaird/schemagen/internal/schema"
)

const instrumentationName = "github.com/matthewbaird/schemagen"

// Option configures a Generator.
type Option func(*config)

type config struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithTracerProvider sets a custom tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) { c.tracerProvider = tp }
}

// WithMeterProvider sets a custom meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) { c.meterProvider = mp }
}

// Generator runs schema-to-source compilations. It is safe for concurrent
// use as long as concurrent requests do not share a Scope.
type Generator struct {
	tracer      trace.Tracer
	generations metric.Int64Counter
	errors      metric.Int64Counter
	duration    metric.Float64Histogram
}

// New creates a Generator. Without options the global otel providers are
// used.
func New(opts ...Option) *Generator {
	cfg := &config{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	meter := cfg.meterProvider.Meter(instrumentationName)
	generations, _ := meter.Int64Counter(
		"schemagen.generations",
		metric.WithDescription("Total number of generation runs"),
		metric.WithUnit("{run}"),
	)
	errs, _ := meter.Int64Counter(
		"schemagen.generation.errors",
		metric.WithDescription("Total number of failed generation runs"),
		metric.WithUnit("{error}"),
	)
	duration, _ := meter.Float64Histogram(
		"schemagen.generation.duration",
		metric.WithDescription("Duration of generation runs"),
		metric.WithUnit("ms"),
	)

	return &Generator{
		tracer:      cfg.tracerProvider.Tracer(instrumentationName),
		generations: generations,
		errors:      errs,
		duration:    duration,
	}
}

// Request is one compilation. A nil Scope gives the run a fresh one; a shared
// Scope continues its numbering and only advances on success.
type Request struct {
	Schema  []byte
	Target  string
	Package string
	Scope   *analyzer.Scope
}

// Output is the result of a successful run.
type Output struct {
	Source  string        `json:"source"`
	Result  *model.Result `json:"result"`
	Target  string        `json:"target"`
	Classes []string      `json:"classes"`
}

// Generate compiles req.Schema into source text for req.Target.
func (g *Generator) Generate(ctx context.Context, req Request) (*Output, error) {
	target := req.Target
	if target == "" {
		target = render.DefaultTarget
	}

	attrs := []attribute.KeyValue{attribute.String("schemagen.target", target)}
	ctx, span := g.tracer.Start(ctx, "schemagen.generate", trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	g.generations.Add(ctx, 1, metric.WithAttributes(attrs...))

	out, err := g.run(ctx, req)

	g.duration.Record(ctx, millis(time.Since(start)), metric.WithAttributes(attrs...))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		g.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
		return nil, err
	}
	span.SetAttributes(attribute.StringSlice("schemagen.classes", out.Classes))
	span.SetStatus(codes.Ok, "")
	return out, nil
}

// millis keeps sub-millisecond precision; most runs finish well under 1ms.
func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func (g *Generator) run(ctx context.Context, req Request) (*Output, error) {
	r, err := render.Lookup(req.Target, render.Options{Package: req.Package})
	if err != nil {
		return nil, err
	}

	var root schema.Node
	err = g.stage(ctx, "schemagen.parse", func() (err error) {
		root, err = schema.Parse(req.Schema)
		return err
	})
	if err != nil {
		return nil, err
	}

	var res *model.Result
	err = g.stage(ctx, "schemagen.analyze", func() (err error) {
		res, err = analyzer.New(r.Dialect()).Analyze(root, req.Scope)
		return err
	})
	if err != nil {
		return nil, err
	}

	var src string
	err = g.stage(ctx, "schemagen.render", func() (err error) {
		src, err = r.Render(res)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		Source:  src,
		Result:  res,
		Target:  r.Name(),
		Classes: res.ClassNames(),
	}, nil
}

func (g *Generator) stage(ctx context.Context, name string, fn func() error) error {
	_, span := g.tracer.Start(ctx, name)
	defer span.End()
	if err := fn(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
