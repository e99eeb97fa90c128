package telemetry

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type recordingProvider struct {
	noop.TracerProvider
	tracer *recordingTracer
}

func (p *recordingProvider) Tracer(name string, _ ...trace.TracerOption) trace.Tracer {
	p.tracer.name = name
	return p.tracer
}

type recordingTracer struct {
	noop.Tracer
	name  string
	spans []*recordingSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &recordingSpan{name: name, kind: cfg.SpanKind(), attrs: cfg.Attributes()}
	t.spans = append(t.spans, s)
	return trace.ContextWithSpan(ctx, s), s
}

type recordingSpan struct {
	noop.Span
	name  string
	kind  trace.SpanKind
	attrs []attribute.KeyValue
	code  codes.Code
	errs  []error
	ended bool
}

func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue) { s.attrs = append(s.attrs, kv...) }
func (s *recordingSpan) SetStatus(c codes.Code, _ string) { s.code = c }
func (s *recordingSpan) End(...trace.SpanEndOption) { s.ended = true }
func (s *recordingSpan) IsRecording() bool { return !s.ended }

func (s *recordingSpan) RecordError(err error, _ ...trace.EventOption) {
	s.errs = append(s.errs, err)
}

func (s *recordingSpan) attr(key string) (attribute.Value, bool) {
	for _, kv := range s.attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func newRecordingTracer(opts ...TracerOption) (*Tracer, *recordingTracer) {
	rec := &recordingTracer{}
	opts = append([]TracerOption{WithTracerProvider(&recordingProvider{tracer: rec})}, opts...)
	return NewTracer(opts...), rec
}

func TestTracerCompileSpan(t *testing.T) {
	tr, rec := newRecordingTracer()

	ctx, span := tr.StartCompile(context.Background(), "index.html")
	if trace.SpanFromContext(ctx) != span {
		t.Fatal("expected span to be stored in returned context")
	}
	EndCompile(span, 4, 1)

	if rec.name != "vbind" {
		t.Errorf("tracer name = %q, want vbind", rec.name)
	}
	s := rec.spans[0]
	if s.name != "vbind.compile" || !s.ended || s.code != codes.Ok {
		t.Errorf("span = %q ended=%v code=%v", s.name, s.ended, s.code)
	}
	if v, _ := s.attr("vbind.source"); v.AsString() != "index.html" {
		t.Errorf("vbind.source = %q", v.AsString())
	}
	if v, _ := s.attr("vbind.watchers"); v.AsInt64() != 4 {
		t.Errorf("vbind.watchers = %d, want 4", v.AsInt64())
	}
	if v, _ := s.attr("vbind.diagnostics"); v.AsInt64() != 1 {
		t.Errorf("vbind.diagnostics = %d, want 1", v.AsInt64())
	}
}

func TestTracerEventSpan(t *testing.T) {
	tr, rec := newRecordingTracer(WithTracerName("live"))

	_, span := tr.StartEvent(context.Background(), "click", 42)
	End(span, errors.New("boom"), 0)

	if rec.name != "live" {
		t.Errorf("tracer name = %q, want live", rec.name)
	}
	s := rec.spans[0]
	if s.name != "vbind.click" || s.kind != trace.SpanKindServer {
		t.Errorf("span = %q kind=%v", s.name, s.kind)
	}
	if v, _ := s.attr("vbind.event_target"); v.AsString() != "42" {
		t.Errorf("vbind.event_target = %q, want 42", v.AsString())
	}
	if s.code != codes.Error || len(s.errs) != 1 {
		t.Errorf("code=%v errs=%v, want Error with one recorded error", s.code, s.errs)
	}
}

func TestTracerGlobalProvider(t *testing.T) {
	tr := NewTracer()
	_, span := tr.StartEvent(context.Background(), "input", 1)
	End(span, nil, 2) // must not panic with the default no-op provider
}
