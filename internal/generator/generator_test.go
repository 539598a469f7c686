package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/matthewbaird/schemagen/internal/analyzer"
	"github.com/matthewbaird/schemagen/internal/render"
	"github.com/matthewbaird/schemagen/internal/schema"
)

const personSchema = `{"type":"object","properties":{
	"name":{"type":"string"},
	"address":{"type":"object","properties":{"street":{"type":"string"}}}
},"required":["name"]}`

type harness struct {
	gen      *Generator
	exporter *tracetest.InMemoryExporter
	reader   *sdkmetric.ManualReader
}

func newHarness(t *testing.T) harness {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})
	return harness{
		gen:      New(WithTracerProvider(tp), WithMeterProvider(mp)),
		exporter: exporter,
		reader:   reader,
	}
}

func (h harness) counter(t *testing.T, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func (h harness) spanNames() []string {
	var names []string
	for _, s := range h.exporter.GetSpans() {
		names = append(names, s.Name)
	}
	return names
}

func TestGenerate_DefaultTarget(t *testing.T) {
	h := newHarness(t)

	out, err := h.gen.Generate(context.Background(), Request{Schema: []byte(personSchema)})
	require.NoError(t, err)
	assert.Equal(t, "python", out.Target)
	assert.Equal(t, []string{"DataClass1", "DataClass2"}, out.Classes)
	assert.Contains(t, out.Source, "class DataClass1:")
	assert.Equal(t, "DataClass1", out.Result.Root.Name)

	assert.ElementsMatch(t, []string{
		"schemagen.parse", "schemagen.analyze", "schemagen.render", "schemagen.generate",
	}, h.spanNames())
	assert.Equal(t, int64(1), h.counter(t, "schemagen.generations"))
	assert.Equal(t, int64(0), h.counter(t, "schemagen.generation.errors"))
}

func TestGenerate_GoTarget(t *testing.T) {
	h := newHarness(t)

	out, err := h.gen.Generate(context.Background(), Request{
		Schema:  []byte(personSchema),
		Target:  "go",
		Package: "people",
	})
	require.NoError(t, err)
	assert.Equal(t, "go", out.Target)
	assert.Contains(t, out.Source, "package people")
	assert.Contains(t, out.Source, "Name    string")
}

func TestMillis(t *testing.T) {
	assert.Equal(t, 1.5, millis(1500*time.Microsecond))
	assert.Equal(t, 0.25, millis(250*time.Microsecond))
	assert.Equal(t, 0.0, millis(999*time.Nanosecond))
}

func TestGenerate_RecordsDuration(t *testing.T) {
	h := newHarness(t)
	_, err := h.gen.Generate(context.Background(), Request{Schema: []byte(personSchema)})
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))
	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "schemagen.generation.duration" {
				continue
			}
			hist, ok := m.Data.(metricdata.Histogram[float64])
			require.True(t, ok)
			require.Len(t, hist.DataPoints, 1)
			assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
			assert.Greater(t, hist.DataPoints[0].Sum, 0.0)
			found = true
		}
	}
	assert.True(t, found)
}

func TestGenerate_SharedScope(t *testing.T) {
	h := newHarness(t)
	scope := analyzer.NewScope()

	_, err := h.gen.Generate(context.Background(), Request{Schema: []byte(personSchema), Scope: scope})
	require.NoError(t, err)
	out, err := h.gen.Generate(context.Background(), Request{Schema: []byte(personSchema), Scope: scope})
	require.NoError(t, err)
	assert.Equal(t, []string{"DataClass3", "DataClass4"}, out.Classes)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		req    Request
		target error
	}{
		{"unknown target", Request{Schema: []byte(personSchema), Target: "cobol"}, render.ErrUnknownTarget},
		{"malformed", Request{Schema: []byte(`{"type":"object"`)}, schema.ErrMalformed},
		{"unsupported", Request{Schema: []byte(`{"type":"object","properties":{"ok":{"type":"boolean"}}}`)}, analyzer.ErrUnsupportedType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			out, err := h.gen.Generate(context.Background(), tt.req)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)

			assert.Equal(t, int64(1), h.counter(t, "schemagen.generation.errors"))

			var root sdktrace.ReadOnlySpan
			for _, s := range h.exporter.GetSpans().Snapshots() {
				if s.Name() == "schemagen.generate" {
					root = s
				}
			}
			require.NotNil(t, root)
			assert.Equal(t, codes.Error, root.Status().Code)
		})
	}
}
