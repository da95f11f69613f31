//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

package telemetry

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "custom:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "generic:4317")
	assert.Equal(t, "custom:4317", Endpoint("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", ProtocolGRPC))

	require.NoError(t, os.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", ""))
	assert.Equal(t, "generic:4317", Endpoint("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", ProtocolGRPC))

	require.NoError(t, os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", ""))
	assert.Equal(t, "localhost:4317", Endpoint("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", ProtocolGRPC))
	assert.Equal(t, "localhost:4318", Endpoint("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", ProtocolHTTP))
}

func TestBuildResource(t *testing.T) {
	res, err := BuildResource(context.Background(), "", attribute.String("deployment", "test"))
	require.NoError(t, err)

	values := map[string]string{}
	for _, kv := range res.Attributes() {
		values[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, ServiceName, values["service.name"])
	assert.Equal(t, ServiceNamespace, values["service.namespace"])
	assert.Equal(t, "test", values["deployment"])
}

func TestRecordWithNoopInstruments(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordCompile(context.Background(), StatusOK, 0)
		RecordDiagnostic(context.Background(), "unknown_statement", "warning")
	})
}
