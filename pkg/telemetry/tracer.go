package telemetry

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name.
const defaultTracerName = "vbind"

// TracerConfig configures a Tracer.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "vbind").
	TracerName string

	// Provider supplies the tracer. Default: the global provider.
	Provider trace.TracerProvider
}

// TracerOption configures a Tracer.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the provider the tracer is resolved from.
func WithTracerProvider(p trace.TracerProvider) TracerOption {
	return func(c *TracerConfig) {
		c.Provider = p
	}
}

// Tracer starts spans around compilation and live events.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer.
func NewTracer(opts ...TracerOption) *Tracer {
	config := TracerConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		return &Tracer{tracer: otel.Tracer(config.TracerName)}
	}
	return &Tracer{tracer: config.Provider.Tracer(config.TracerName)}
}

// StartCompile starts a span for compiling source. Finish it with EndCompile.
func (t *Tracer) StartCompile(ctx context.Context, source string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "vbind.compile",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("vbind.source", source)),
	)
}

// EndCompile records the compile result on span and ends it.
func EndCompile(span trace.Span, watchers, diagnostics int) {
	span.SetAttributes(
		attribute.Int("vbind.watchers", watchers),
		attribute.Int("vbind.diagnostics", diagnostics),
	)
	span.SetStatus(codes.Ok, "")
	span.End()
}

// StartEvent starts a span for a live event dispatched to target.
func (t *Tracer) StartEvent(ctx context.Context, eventType string, target uint64) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "vbind."+eventType,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("vbind.event_type", eventType),
			attribute.String("vbind.event_target", strconv.FormatUint(target, 10)),
		),
	)
}

// End records the patch count and err, if any, on an event span and ends it.
func End(span trace.Span, err error, patches int) {
	span.SetAttributes(attribute.Int("vbind.patch_count", patches))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
