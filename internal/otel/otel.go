// Package otel wires OpenTelemetry tracing to the event bus: HTTP requests
// and GraphQL operations become spans, and type-resolution and batch-flush
// events are recorded under the operation span.
package otel

import (
	"context"
	"sync"

	eventbus "github.com/phatnguyentan/graph-demo/internal/eventbus"
	events "github.com/phatnguyentan/graph-demo/internal/events"
	reqid "github.com/phatnguyentan/graph-demo/internal/reqid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Setup configures OpenTelemetry and attaches eventbus subscribers.
// If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	sub := &subscriber{tracer: otel.Tracer("graphdemo")}
	sub.register()

	return tp.Shutdown, nil
}

type subscriber struct {
	tracer    trace.Tracer
	httpSpans sync.Map // rid -> trace.Span
	gqlSpans  sync.Map // rid -> trace.Span
}

func (s *subscriber) operationContext(ctx context.Context, rid int64) context.Context {
	if v, ok := s.gqlSpans.Load(rid); ok {
		return trace.ContextWithSpan(ctx, v.(trace.Span))
	}
	if v, ok := s.httpSpans.Load(rid); ok {
		return trace.ContextWithSpan(ctx, v.(trace.Span))
	}
	return ctx
}

func (s *subscriber) register() {
	eventbus.Subscribe(func(ctx context.Context, e events.HTTPStart) {
		_, span := s.tracer.Start(ctx, "http.request")
		span.SetAttributes(
			semconv.HTTPMethodKey.String(e.Request.Method),
			attribute.String("http.target", e.Request.URL.Path),
		)
		s.httpSpans.Store(e.RequestID, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.HTTPFinish) {
		v, ok := s.httpSpans.LoadAndDelete(e.RequestID)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(semconv.HTTPStatusCodeKey.Int(e.Status))
		span.End()
	})

	eventbus.Subscribe(func(ctx context.Context, e events.GraphQLStart) {
		parent := ctx
		if v, ok := s.httpSpans.Load(e.RequestID); ok {
			parent = trace.ContextWithSpan(ctx, v.(trace.Span))
		}
		_, span := s.tracer.Start(parent, "graphql.operation")
		span.SetAttributes(
			attribute.String("graphql.operation.name", e.OperationName),
			attribute.String("graphql.operation.type", e.OperationType),
		)
		s.gqlSpans.Store(e.RequestID, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.GraphQLFinish) {
		v, ok := s.gqlSpans.LoadAndDelete(e.RequestID)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(attribute.Int("graphql.error_count", len(e.Errors)))
		span.End()
	})

	eventbus.Subscribe(func(ctx context.Context, e events.ResolveTypeDone) {
		rid, _ := reqid.FromContext(ctx)
		_, span := s.tracer.Start(s.operationContext(ctx, rid), "graphql.resolve_type")
		span.SetAttributes(
			attribute.String("graphql.abstract_type", e.AbstractType),
			attribute.String("graphql.resolved_type", e.ResolvedType),
			attribute.Int64("duration_us", e.Duration.Microseconds()),
		)
		if e.Err != nil {
			span.RecordError(e.Err)
		}
		span.End()
	})

	eventbus.Subscribe(func(ctx context.Context, e events.BatchResolveFinish) {
		rid, _ := reqid.FromContext(ctx)
		_, span := s.tracer.Start(s.operationContext(ctx, rid), "graphql.batch_resolve")
		span.SetAttributes(
			attribute.Int("graphql.batch.tasks", e.Tasks),
			attribute.Int("graphql.batch.groups", e.Groups),
			attribute.Int64("duration_us", e.Duration.Microseconds()),
		)
		span.End()
	})
}
