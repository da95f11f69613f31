//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

// Package metric configures metric export for trpc-blocks-go and creates the
// compiler instruments.
package metric

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	itelemetry "trpc.group/trpc-go/trpc-blocks-go/internal/telemetry"
)

// InitMeterProvider creates the compiler instruments from mp.
func InitMeterProvider(mp metric.MeterProvider) error {
	if mp == nil {
		return fmt.Errorf("meter provider is nil")
	}
	meter := mp.Meter(itelemetry.MeterNameCompile)

	count, err := meter.Int64Counter(
		itelemetry.MetricCompileCount,
		metric.WithDescription("Total number of compile runs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create compile metric %s: %w", itelemetry.MetricCompileCount, err)
	}
	duration, err := meter.Float64Histogram(
		itelemetry.MetricCompileDuration,
		metric.WithDescription("Duration of a compile run"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create compile metric %s: %w", itelemetry.MetricCompileDuration, err)
	}
	diagnostics, err := meter.Int64Counter(
		itelemetry.MetricCompileDiagnostics,
		metric.WithDescription("Diagnostics reported while compiling"),
		metric.WithUnit("{diagnostic}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create compile metric %s: %w", itelemetry.MetricCompileDiagnostics, err)
	}

	itelemetry.MeterProvider = mp
	itelemetry.CompileMeter = meter
	itelemetry.CompileCount = count
	itelemetry.CompileDuration = duration
	itelemetry.CompileDiagnostics = diagnostics
	return nil
}

// GetMeterProvider returns the meter provider.
func GetMeterProvider() metric.MeterProvider {
	return itelemetry.MeterProvider
}

// NewMeterProvider creates an OTLP-backed meter provider.
// OTEL_EXPORTER_OTLP_METRICS_ENDPOINT and OTEL_EXPORTER_OTLP_ENDPOINT are
// consulted when WithEndpoint is not given.
func NewMeterProvider(ctx context.Context, opts ...Option) (*sdkmetric.MeterProvider, error) {
	o := &options{protocol: itelemetry.ProtocolGRPC}
	for _, opt := range opts {
		opt(o)
	}
	if o.endpoint == "" {
		o.endpoint = metricsEndpoint(o.protocol)
	}

	res, err := itelemetry.BuildResource(ctx, o.serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdkmetric.Exporter
	switch o.protocol {
	case itelemetry.ProtocolHTTP:
		exporter, err = otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpoint(o.endpoint),
			otlpmetrichttp.WithInsecure())
	default:
		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(o.endpoint),
			otlpmetricgrpc.WithInsecure())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	), nil
}

// Start installs an OTLP meter provider globally and wires the compiler
// instruments to it. The returned function flushes and shuts it down.
func Start(ctx context.Context, opts ...Option) (clean func() error, err error) {
	mp, err := NewMeterProvider(ctx, opts...)
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(mp)
	if err := InitMeterProvider(mp); err != nil {
		return nil, err
	}
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), itelemetry.ShutdownTimeout)
		defer cancel()
		return mp.Shutdown(ctx)
	}, nil
}

func metricsEndpoint(protocol string) string {
	return itelemetry.Endpoint("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", protocol)
}

// Option configures NewMeterProvider and Start.
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
