// Package tracer wires OpenTelemetry spans for turns, searches and model calls.
package tracer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"research-assistant/internal/infra/config"
)

const serviceName = "research-assistant"

// Shutdown flushes pending spans and releases the exporter.
type Shutdown func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// Setup installs the global tracer provider described by cfg. Disabled
// tracing, or the "noop" exporter, installs a no-op provider. The "file"
// exporter appends JSON spans to cfg.Endpoint so tracing can run next to the
// full-screen UI.
func Setup(_ context.Context, cfg config.TracerConfig) (Shutdown, error) {
	if !cfg.Enabled || cfg.Exporter == "" || cfg.Exporter == "noop" {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return noopShutdown, nil
	}

	exporter, release, err := newExporter(cfg)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
	)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), release())
	}, nil
}

func newExporter(cfg config.TracerConfig) (sdktrace.SpanExporter, func() error, error) {
	var (
		w       io.Writer = os.Stdout
		release           = func() error { return nil }
		opts    []stdouttrace.Option
	)

	switch cfg.Exporter {
	case "stdout":
		opts = append(opts, stdouttrace.WithPrettyPrint())
	case "file":
		f, err := os.OpenFile(cfg.Endpoint, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open trace file: %w", err)
		}
		w, release = f, f.Close
	default:
		return nil, nil, fmt.Errorf("unsupported exporter: %s", cfg.Exporter)
	}

	exp, err := stdouttrace.New(append(opts, stdouttrace.WithWriter(w))...)
	if err != nil {
		_ = release()
		return nil, nil, fmt.Errorf("create %s exporter: %w", cfg.Exporter, err)
	}
	return exp, release, nil
}

// StartSpan starts a span on the service tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(serviceName).Start(ctx, name, opts...)
}

// RecordError attaches err to span and marks it failed.
func RecordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func SetOK(span trace.Span) { span.SetStatus(codes.Ok, "") }

func StringAttr(k, v string) attribute.KeyValue    { return attribute.String(k, v) }
func IntAttr(k string, v int) attribute.KeyValue   { return attribute.Int(k, v) }
func BoolAttr(k string, v bool) attribute.KeyValue { return attribute.Bool(k, v) }
