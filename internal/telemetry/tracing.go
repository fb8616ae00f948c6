package telemetry

import (
	"context"
	"fmt"

	"github.com/flemzord/agentmem/internal/memory"
	"github.com/flemzord/agentmem/pkg/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName identifies spans emitted by this package.
const TracerName = "github.com/flemzord/agentmem"

// TracingConfig configures SetupTracing.
type TracingConfig struct {
	// Endpoint is an OTLP/HTTP URL such as "http://localhost:4318".
	// Empty disables export.
	Endpoint    string
	ServiceName string
}

// SetupTracing installs a global tracer provider exporting to cfg.Endpoint.
// The returned function flushes and shuts it down. With no endpoint the
// global no-op provider is left in place.
func SetupTracing(ctx context.Context, cfg TracingConfig) (func(context.Context) error, error) {
	if cfg.Endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "agentmem"
	}

	exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	if err != nil {
		return nil, fmt.Errorf("telemetry: otlp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
		)),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// Tracer returns the package tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// TraceCompleter returns c wrapped so every call runs in a span.
func TraceCompleter(c memory.Completer, tracer trace.Tracer) memory.Completer {
	return memory.CompleterFunc(func(ctx context.Context, prompt string) (string, error) {
		ctx, span := tracer.Start(ctx, "completer.complete",
			trace.WithAttributes(attribute.Int("prompt.chars", len([]rune(prompt)))))
		defer span.End()

		out, err := c.Complete(ctx, prompt)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return out, err
		}
		span.SetAttributes(attribute.Int("reply.chars", len([]rune(out))))
		return out, nil
	})
}

// TraceStrategy returns s wrapped so AddMessage and Context run in spans.
// Completions made while consolidating become child spans.
func TraceStrategy(s memory.Strategy, tracer trace.Tracer) memory.Strategy {
	return &tracedStrategy{Strategy: s, tracer: tracer}
}

type tracedStrategy struct {
	memory.Strategy
	tracer trace.Tracer
}

func (s *tracedStrategy) AddMessage(ctx context.Context, role message.Role, content string) error {
	ctx, span := s.tracer.Start(ctx, "memory.add_message", trace.WithAttributes(
		attribute.String("memory.strategy", s.Name()),
		attribute.String("message.role", string(role)),
	))
	defer span.End()

	err := s.Strategy.AddMessage(ctx, role, content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (s *tracedStrategy) Context(ctx context.Context, query string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "memory.context", trace.WithAttributes(
		attribute.String("memory.strategy", s.Name()),
		attribute.Bool("memory.has_query", query != ""),
	))
	defer span.End()

	out, err := s.Strategy.Context(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return out, err
	}
	span.SetAttributes(attribute.Int("context.chars", len([]rune(out))))
	return out, nil
}
