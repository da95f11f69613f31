//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

// Package telemetry holds the instruments shared by the compiler and the
// telemetry setup packages.
package telemetry

import (
	"context"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// telemetry service constants.
const (
	ServiceName      = "blockc"
	ServiceVersion   = "v0.1.0"
	ServiceNamespace = "trpc-blocks-go"
	InstrumentName   = "trpc.blocks.go"
	MeterNameCompile = "trpc.blocks.go.compile"

	SpanNameCompile = "compile"

	MetricCompileCount       = "blocks.compile.count"
	MetricCompileDuration    = "blocks.compile.duration"
	MetricCompileDiagnostics = "blocks.compile.diagnostics"
)

// Attribute keys.
const (
	KeyBlockCount  = "blocks.count"
	KeyStatus      = "blocks.compile.status"
	KeyDiagnostics = "blocks.compile.diagnostics"
	KeySeverity    = "blocks.diagnostic.severity"
	KeyCode        = "blocks.diagnostic.code"
)

// Compile outcomes.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// ShutdownTimeout bounds the final flush of exporters.
const ShutdownTimeout = 5 * time.Second

const (
	// ProtocolGRPC uses gRPC protocol for OTLP exporter.
	ProtocolGRPC string = "grpc"
	// ProtocolHTTP uses HTTP protocol for OTLP exporter.
	ProtocolHTTP string = "http"
)

// Instruments default to no-ops until a meter provider is installed.
var (
	MeterProvider metric.MeterProvider = noop.NewMeterProvider()

	CompileMeter       metric.Meter            = MeterProvider.Meter(MeterNameCompile)
	CompileCount       metric.Int64Counter     = noop.Int64Counter{}
	CompileDuration    metric.Float64Histogram = noop.Float64Histogram{}
	CompileDiagnostics metric.Int64Counter     = noop.Int64Counter{}
)

// RecordCompile records one compile run.
func RecordCompile(ctx context.Context, status string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String(KeyStatus, status))
	CompileCount.Add(ctx, 1, attrs)
	CompileDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordDiagnostic counts one diagnostic.
func RecordDiagnostic(ctx context.Context, code, severity string) {
	CompileDiagnostics.Add(ctx, 1, metric.WithAttributes(
		attribute.String(KeyCode, code),
		attribute.String(KeySeverity, severity),
	))
}

// Endpoint resolves an OTLP endpoint: the signal specific variable wins over
// OTEL_EXPORTER_OTLP_ENDPOINT, which wins over the protocol default.
func Endpoint(signalEnv, protocol string) string {
	if endpoint := os.Getenv(signalEnv); endpoint != "" {
		return endpoint
	}
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		return endpoint
	}
	switch protocol {
	case ProtocolHTTP:
		return "localhost:4318"
	default:
		return "localhost:4317"
	}
}

// BuildResource describes this service to exporters.
func BuildResource(ctx context.Context, serviceName string, attrs ...attribute.KeyValue) (*resource.Resource, error) {
	if serviceName == "" {
		serviceName = ServiceName
	}
	opts := []resource.Option{
		resource.WithAttributes(
			semconv.ServiceNamespace(ServiceNamespace),
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(ServiceVersion),
		),
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
	}
	if len(attrs) > 0 {
		opts = append(opts, resource.WithAttributes(attrs...))
	}
	return resource.New(ctx, opts...)
}
