// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

// Package tracing sets up OpenTelemetry distributed tracing for the
// producer actor's dispatch path.
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Config configures the exporter and sampler.
type Config struct {
	ServiceName    string        `env:"PARTPROD_TRACING_SERVICE_NAME" envDefault:"partprod"`
	ServiceVersion string        `env:"PARTPROD_TRACING_SERVICE_VERSION" envDefault:"dev"`
	Endpoint       string        `env:"PARTPROD_TRACING_ENDPOINT,required"`
	SampleRate     float64       `env:"PARTPROD_TRACING_SAMPLE_RATE" envDefault:"0.1"`
	BatchTimeout   time.Duration `env:"PARTPROD_TRACING_BATCH_TIMEOUT" envDefault:"5s"`
	ExportTimeout  time.Duration `env:"PARTPROD_TRACING_EXPORT_TIMEOUT" envDefault:"30s"`
}

// Tracer wraps a trace.Tracer with the span helpers the producer decorators
// use, so they don't need to know otel's API surface directly.
type Tracer struct {
	tracer trace.Tracer
	cfg    Config
}

// NewTracer builds an OTLP/HTTP exporter and TracerProvider from cfg and
// returns a Tracer plus a shutdown function the caller must invoke on exit.
func NewTracer(ctx context.Context, cfg Config) (*Tracer, func(context.Context) error, error) {
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(cfg.Endpoint))
	if err != nil {
		return nil, nil, fmt.Errorf("creating otlp exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	))
	if err != nil {
		return nil, nil, fmt.Errorf("merging resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(cfg.BatchTimeout),
			sdktrace.WithExportTimeout(cfg.ExportTimeout),
		),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
	)
	otel.SetTracerProvider(tp)

	return &Tracer{tracer: tp.Tracer(cfg.ServiceName), cfg: cfg}, tp.Shutdown, nil
}

// StartSpan starts a span named name and returns the derived context plus
// the span.
func (t *Tracer) StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name)
}

// ProducerAttributes returns the standard attribute set recorded on every
// dispatch span.
func (t *Tracer) ProducerAttributes(topic, kind string, count int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("partprod.topic", topic),
		attribute.String("partprod.dispatch_kind", kind),
		attribute.Int("partprod.batch_size", count),
	}
}

// ErrorAttributes returns the attribute set recorded when a dispatch fails,
// or an empty slice when err is nil.
func (t *Tracer) ErrorAttributes(err error) []attribute.KeyValue {
	if err == nil {
		return nil
	}
	return []attribute.KeyValue{attribute.Bool("partprod.error", true)}
}

// RecordError records err on the span found in ctx, if any, and marks the
// span status as an error.
func (t *Tracer) RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
