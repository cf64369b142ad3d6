// Package telemetry provides OpenTelemetry tracing for the CodeQuest server.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/Rahi-sm99/CodeQuest"

// Config holds telemetry configuration.
type Config struct {
	Enabled     bool
	Endpoint    string // host:port of an OTLP/HTTP collector
	Insecure    bool
	ServiceName string
	Version     string
}

var provider *sdktrace.TracerProvider

// Init installs the global tracer provider. When disabled the otel no-op provider stays in place.
func Init(ctx context.Context, cfg Config) error {
	if !cfg.Enabled {
		return nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.Version),
	)

	provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	return nil
}

// Shutdown flushes pending spans.
func Shutdown(ctx context.Context) error {
	if provider == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return provider.Shutdown(shutdownCtx)
}

// Tracer returns the package tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartSpan starts a client span for an outbound call.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
}

// EndSpan records err, if any, and ends the span.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// HTTPClient returns an http.Client whose transport emits client spans.
func HTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// LLMSpan represents a generative model call.
type LLMSpan struct {
	span      trace.Span
	startTime time.Time
}

// StartLLMSpan starts a span for a model call.
func StartLLMSpan(ctx context.Context, name, model string) (context.Context, *LLMSpan) {
	ctx, span := Tracer().Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("llm.request.model", model),
			attribute.String("llm.system", "gemini"),
		),
	)
	return ctx, &LLMSpan{span: span, startTime: time.Now()}
}

// SetInput records the prompt size. Prompt text can contain learner code, so only the length is kept.
func (s *LLMSpan) SetInput(prompt string) {
	s.span.SetAttributes(attribute.Int("llm.prompt.length", len(prompt)))
}

// SetOutput records the completion size.
func (s *LLMSpan) SetOutput(response string) {
	s.span.SetAttributes(attribute.Int("llm.completion.length", len(response)))
}

// End completes the span.
func (s *LLMSpan) End(err error) {
	s.span.SetAttributes(attribute.Float64("llm.latency_ms", float64(time.Since(s.startTime).Milliseconds())))
	EndSpan(s.span, err)
}
