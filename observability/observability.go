// Package observability wires OpenTelemetry tracing/logging and Prometheus
// metrics for the eon-sim driver. It mirrors the teacher's noop-by-default,
// Setup/Shutdown-gated design: every exported helper is safe to call before
// Setup or with every feature disabled, so instrumented code never needs to
// branch on whether observability is configured.
package observability

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Config selects which observability features are active. The zero value
// disables everything: Setup(ctx, Config{}) succeeds and every subsequent
// call becomes a noop.
type Config struct {
	Service   string
	TraceAddr string // OTLP/gRPC collector address; empty disables tracing
	LogAddr   string // OTLP/gRPC log collector address; empty disables log export
	Metrics   bool
}

var (
	mu             sync.Mutex
	tracer         trace.Tracer
	tracerProvider *sdktrace.TracerProvider
	loggerProvider *sdklog.LoggerProvider
	logger         *slog.Logger
	metricsOn      bool
	setupDone      bool
)

// Setup initializes tracing, logging, and metrics per cfg. Shutdown tears
// down whatever Setup built, and Setup may be called again afterwards;
// Prometheus collectors are registered at most once per process.
func Setup(ctx context.Context, cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", serviceNameOrDefault(cfg.Service)),
	))
	if err != nil {
		return err
	}

	if cfg.TraceAddr != "" {
		exp, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(cfg.TraceAddr), otlptracegrpc.WithInsecure())
		if err != nil {
			return err
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exp),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(tp)
		tracerProvider = tp
		tracer = tp.Tracer("eon-sim")
	} else {
		tracer = otel.Tracer("eon-sim")
	}

	if cfg.LogAddr != "" {
		exp, err := otlploggrpc.New(ctx, otlploggrpc.WithEndpoint(cfg.LogAddr), otlploggrpc.WithInsecure())
		if err != nil {
			return err
		}
		lp := sdklog.NewLoggerProvider(
			sdklog.WithProcessor(sdklog.NewBatchProcessor(exp)),
			sdklog.WithResource(res),
		)
		loggerProvider = lp
		logger = slog.New(otelslog.NewHandler("eon-sim", otelslog.WithLoggerProvider(lp)))
	} else {
		logger = slog.Default()
	}

	metricsOn = cfg.Metrics
	if cfg.Metrics {
		registerMetrics()
	}

	setupDone = true
	return nil
}

// Shutdown flushes and tears down whatever Setup configured. Safe to call
// even if Setup was never called or failed partway.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	var firstErr error
	if tracerProvider != nil {
		if err := tracerProvider.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		tracerProvider = nil
	}
	if loggerProvider != nil {
		if err := loggerProvider.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		loggerProvider = nil
	}
	setupDone = false
	return firstErr
}

// Enabled reports whether tracing was configured (a real OTLP exporter is
// wired, as opposed to the default noop tracer).
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return tracerProvider != nil
}

// MetricsEnabled reports whether Prometheus collectors are registered.
func MetricsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return metricsOn
}

// Logger returns the process-wide structured logger (real or the stdlib
// default, never nil).
func Logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		return slog.Default()
	}
	return logger
}

func serviceNameOrDefault(s string) string {
	if s == "" {
		return "eon-sim"
	}
	return s
}

// Span wraps an OpenTelemetry span with the small helper surface the rest
// of the codebase uses, so call sites never touch the otel API directly.
type Span struct {
	span  trace.Span
	onEnd func()
}

// Start begins a span named name, returning the derived context and a
// handle. Safe to call even when tracing is disabled — the returned span
// is then the embedded noop tracer's span.
func Start(ctx context.Context, name string) (context.Context, *Span) {
	mu.Lock()
	t := tracer
	mu.Unlock()
	if t == nil {
		t = otel.Tracer("eon-sim")
	}
	ctx, sp := t.Start(ctx, name)
	return ctx, &Span{span: sp}
}

// StartOption configures a span started via StartWith.
type StartOption func(*startConfig)

type startConfig struct {
	attrs   []attribute.KeyValue
	onStart func()
	onEnd   func()
}

// Attrs sets the span's initial attributes.
func Attrs(attrs ...attribute.KeyValue) StartOption {
	return func(c *startConfig) { c.attrs = append(c.attrs, attrs...) }
}

// OnStart registers a callback fired synchronously once the span starts.
func OnStart(f func()) StartOption {
	return func(c *startConfig) { c.onStart = f }
}

// OnEnd registers a callback fired synchronously from Span.End.
func OnEnd(f func()) StartOption {
	return func(c *startConfig) { c.onEnd = f }
}

// StartWith begins a span with attributes and lifecycle callbacks applied.
func StartWith(ctx context.Context, name string, opts ...StartOption) (context.Context, *Span) {
	cfg := &startConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	ctx, sp := Start(ctx, name)
	if len(cfg.attrs) > 0 {
		sp.span.SetAttributes(cfg.attrs...)
	}
	sp.onEnd = cfg.onEnd
	if cfg.onStart != nil {
		cfg.onStart()
	}
	return ctx, sp
}

// End finishes the span, firing any OnEnd callback first.
func (s *Span) End() {
	if s.onEnd != nil {
		s.onEnd()
	}
	s.span.End()
}

// Error records err on the span and marks it as failed. A nil err still
// annotates the span with msg (useful for "degraded but not fatal" cases).
func (s *Span) Error(err error, msg string) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, msg)
	}
	s.span.AddEvent(msg)
}

// Event records a named point-in-time annotation with attributes.
func (s *Span) Event(name string, attrs ...attribute.KeyValue) {
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

// Set adds attributes to the span.
func (s *Span) Set(attrs ...attribute.KeyValue) {
	s.span.SetAttributes(attrs...)
}
