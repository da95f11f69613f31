//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

package metric

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	itelemetry "trpc.group/trpc-go/trpc-blocks-go/internal/telemetry"
)

func TestInitMeterProviderRecords(t *testing.T) {
	prev := itelemetry.MeterProvider
	t.Cleanup(func() { _ = InitMeterProvider(prev) })

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	require.NoError(t, InitMeterProvider(mp))
	assert.Equal(t, mp, GetMeterProvider())

	ctx := context.Background()
	itelemetry.RecordCompile(ctx, itelemetry.StatusOK, 20*time.Millisecond)
	itelemetry.RecordCompile(ctx, itelemetry.StatusOK, 10*time.Millisecond)
	itelemetry.RecordDiagnostic(ctx, "unknown_statement", "warning")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	got := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			got[m.Name] = m.Data
		}
	}

	count, ok := got[itelemetry.MetricCompileCount].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, count.DataPoints, 1)
	assert.Equal(t, int64(2), count.DataPoints[0].Value)

	hist, ok := got[itelemetry.MetricCompileDuration].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)

	diags, ok := got[itelemetry.MetricCompileDiagnostics].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(1), diags.DataPoints[0].Value)
}

func TestInitMeterProviderNil(t *testing.T) {
	assert.Error(t, InitMeterProvider(nil))
}

func TestMetricsEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	assert.Equal(t, "localhost:4317", metricsEndpoint("grpc"))
	assert.Equal(t, "localhost:4318", metricsEndpoint("http"))

	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "custom-metric:4318")
	assert.Equal(t, "custom-metric:4318", metricsEndpoint("grpc"))
}

func TestStartAndClean(t *testing.T) {
	prev := itelemetry.MeterProvider
	t.Cleanup(func() { _ = InitMeterProvider(prev) })

	for _, protocol := range []string{"grpc", "http"} {
		t.Run(protocol, func(t *testing.T) {
			clean, err := Start(context.Background(),
				WithEndpoint("localhost:4317"),
				WithProtocol(protocol),
				WithServiceName("blockc-test"),
			)
			require.NoError(t, err)
			require.NotNil(t, clean)
			_ = clean() // no collector is running in tests
		})
	}
}
