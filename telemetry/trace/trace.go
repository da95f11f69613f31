//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

// Package trace configures span export for trpc-blocks-go.
package trace

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	itelemetry "trpc.group/trpc-go/trpc-blocks-go/internal/telemetry"
)

// Tracer is the tracer used by the compiler. It delegates to the global
// provider, so it is a no-op until Start or otel.SetTracerProvider runs.
var Tracer trace.Tracer = otel.Tracer(itelemetry.InstrumentName)

// Start installs an OTLP span exporter as the global tracer provider.
// The returned function flushes and shuts the provider down.
//
// OTEL_EXPORTER_OTLP_TRACES_ENDPOINT and OTEL_EXPORTER_OTLP_ENDPOINT are
// consulted when WithEndpoint is not given.
func Start(ctx context.Context, opts ...Option) (clean func() error, err error) {
	o := &options{protocol: itelemetry.ProtocolGRPC}
	for _, opt := range opts {
		opt(o)
	}
	if o.endpoint == "" {
		o.endpoint = tracesEndpoint(o.protocol)
	}

	res, err := itelemetry.BuildResource(ctx, o.serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdktrace.SpanExporter
	switch o.protocol {
	case itelemetry.ProtocolHTTP:
		exporter, err = otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(o.endpoint),
			otlptracehttp.WithInsecure())
	default:
		exporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(o.endpoint),
			otlptracegrpc.WithInsecure())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))
	Tracer = provider.Tracer(itelemetry.InstrumentName)

	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), itelemetry.ShutdownTimeout)
		defer cancel()
		return provider.Shutdown(ctx)
	}, nil
}

func tracesEndpoint(protocol string) string {
	return itelemetry.Endpoint("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", protocol)
}

// Option configures Start.
type Option func(*options)

type options struct {
	endpoint    string
	protocol    string
	serviceName string
}

// WithEndpoint sets the collector address as host:port.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = endpoint
	}
}

// WithProtocol selects "grpc" (default) or "http".
func WithProtocol(protocol string) Option {
	return func(o *options) {
		if protocol != "" {
			o.protocol = protocol
		}
	}
}

// WithServiceName overrides the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(o *options) {
		o.serviceName = name
	}
}
