package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/schemagen/internal/analyzer"
	"github.com/matthewbaird/schemagen/internal/event"
	"github.com/matthewbaird/schemagen/internal/generator"
	"github.com/matthewbaird/schemagen/internal/history"
	"github.com/matthewbaird/schemagen/internal/render"
	"github.com/matthewbaird/schemagen/internal/schema"
	"github.com/matthewbaird/schemagen/internal/session"
)

const personSchema = `{"type":"object","properties":{
	"name":{"type":"string"},
	"address":{"type":"object","properties":{"street":{"type":"string"}}}
},"required":["name"]}`

type capture struct{ events []event.DomainEvent }

func (c *capture) Publish(_ context.Context, evt event.DomainEvent) { c.events = append(c.events, evt) }

func (c *capture) types() []string {
	var out []string
	for _, e := range c.events {
		out = append(out, e.EventType)
	}
	return out
}

func newService(t *testing.T) (*Service, history.Store, *capture) {
	t.Helper()
	store := history.NewMemoryStore()
	bus := &capture{}
	rec := event.NewRunRecorder(store)
	rec.SetPublisher(bus)
	svc := New(Config{
		Generator: generator.New(),
		Sessions:  session.NewManager(time.Hour, time.Hour),
		Recorder:  rec,
		Publisher: bus,
	})
	return svc, store, bus
}

func TestService_GenerateRecordsRun(t *testing.T) {
	svc, store, bus := newService(t)
	ctx := context.Background()

	run, out, err := svc.Generate(ctx, Request{Schema: []byte(personSchema)})
	require.NoError(t, err)
	assert.Equal(t, []string{"DataClass1", "DataClass2"}, out.Classes)
	assert.Equal(t, "python", run.Target)
	assert.True(t, run.OK())

	stored, err := store.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Source, stored.Source)
	assert.Equal(t, []string{event.TypeGenerationSucceeded}, bus.types())

	// one-shot runs never share numbering
	_, out, err = svc.Generate(ctx, Request{Schema: []byte(personSchema), Target: "go"})
	require.NoError(t, err)
	assert.Equal(t, []string{"DataClass1", "DataClass2"}, out.Classes)
}

func TestService_FailedRunIsRecorded(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	run, out, err := svc.Generate(ctx, Request{Schema: []byte(`{"type":"object","properties":{"x":{"type":"boolean"}}}`)})
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Equal(t, KindUnsupportedType, Classify(err))

	stored, gerr := store.Get(ctx, run.ID)
	require.NoError(t, gerr)
	assert.Equal(t, history.StatusError, stored.Status)
	assert.Equal(t, "unsupported_type", stored.ErrorKind)
}

func TestService_SessionScope(t *testing.T) {
	svc, store, bus := newService(t)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, "go", "people")
	require.NoError(t, err)

	_, out, err := svc.GenerateInSession(ctx, sess.ID, Request{Schema: []byte(personSchema)})
	require.NoError(t, err)
	assert.Equal(t, []string{"DataClass1", "DataClass2"}, out.Classes)
	assert.Equal(t, "go", out.Target)
	assert.Contains(t, out.Source, "package people")

	// a failure in between leaves the numbering alone
	_, _, err = svc.GenerateInSession(ctx, sess.ID, Request{Schema: []byte(`{"type":"object","properties":{"a":{"type":"object","properties":{}},"b":{"type":"null"}}}`)})
	require.Error(t, err)

	_, out, err = svc.GenerateInSession(ctx, sess.ID, Request{Schema: []byte(personSchema), Target: "python"})
	require.NoError(t, err)
	assert.Equal(t, []string{"DataClass3", "DataClass4"}, out.Classes)
	assert.Equal(t, "python", out.Target)

	info, err := svc.ResetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, info.LastClass)
	assert.Equal(t, 3, info.Runs)

	_, out, err = svc.GenerateInSession(ctx, sess.ID, Request{Schema: []byte(personSchema)})
	require.NoError(t, err)
	assert.Equal(t, []string{"DataClass1", "DataClass2"}, out.Classes)

	runs, total, err := store.List(ctx, history.QueryOptions{SessionID: sess.ID})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, runs, 4)

	require.NoError(t, svc.CloseSession(ctx, sess.ID))
	assert.True(t, errors.Is(svc.CloseSession(ctx, sess.ID), ErrSessionNotFound))
	_, _, err = svc.GenerateInSession(ctx, sess.ID, Request{Schema: []byte(personSchema)})
	assert.True(t, errors.Is(err, ErrSessionNotFound))

	assert.Equal(t, event.TypeSessionCreated, bus.types()[0])
	assert.Contains(t, bus.types(), event.TypeSessionReset)
	assert.Contains(t, bus.types(), event.TypeSessionClosed)
}

func TestService_CreateSessionRejectsUnknownTarget(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.CreateSession(context.Background(), "cobol", "")
	assert.Equal(t, KindUnknownTarget, Classify(err))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{&schema.MalformedError{Message: "x"}, KindMalformed},
		{fmt.Errorf("wrapped: %w", &analyzer.UnsupportedTypeError{Type: "null"}), KindUnsupportedType},
		{render.ErrUnknownTarget, KindUnknownTarget},
		{render.ErrUnsupportedDefault, KindUnsupportedDefault},
		{ErrSessionNotFound, KindSessionNotFound},
		{errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err), "%v", tt.err)
	}
}

func TestSchemaText(t *testing.T) {
	got, err := SchemaText([]byte(` {"type":"object"} `))
	require.NoError(t, err)
	assert.Equal(t, `{"type":"object"}`, string(got))

	got, err = SchemaText([]byte(`"type: \"object\"\nproperties: {}"`))
	require.NoError(t, err)
	assert.Equal(t, "type: \"object\"\nproperties: {}", string(got))

	for _, empty := range []string{``, `null`, `""`} {
		_, err = SchemaText([]byte(empty))
		assert.True(t, errors.Is(err, ErrEmptySchema), "input %q", empty)
	}
}
