//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, DefaultLogLevel, c.Log.Level)
	assert.Equal(t, DefaultAddr, c.Server.Addr)
	assert.Equal(t, DefaultCacheSize, c.Server.CacheSize)
	assert.Equal(t, DefaultWorkers, c.CLI.Workers)
	assert.Equal(t, "  ", c.Compiler.Indent)
	assert.Equal(t, "grpc", c.Telemetry.Protocol)
	assert.False(t, c.Telemetry.Enabled)
	require.NoError(t, c.Validate())
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
log:
  level: debug
compiler:
  strict_cycles: true
  indent: "\t"
server:
  addr: 127.0.0.1:9000
  allowed_origins: ["http://localhost:5173"]
telemetry:
  enabled: true
  protocol: http
cli:
  workers: 8
`))
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Log.Level)
	assert.True(t, c.Compiler.StrictCycles)
	assert.False(t, c.Compiler.ChainCapableRoots)
	assert.Equal(t, "\t", c.Compiler.Indent)
	assert.Equal(t, "127.0.0.1:9000", c.Server.Addr)
	assert.Equal(t, DefaultCacheSize, c.Server.CacheSize)
	assert.Equal(t, []string{"http://localhost:5173"}, c.Server.AllowedOrigins)
	assert.True(t, c.Telemetry.Enabled)
	assert.Equal(t, "http", c.Telemetry.Protocol)
	assert.Equal(t, "blockc", c.Telemetry.ServiceName)
	assert.Equal(t, 8, c.CLI.Workers)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown key", doc: "server:\n  port: 80\n"},
		{name: "bad level", doc: "log:\n  level: loud\n"},
		{name: "negative cache", doc: "server:\n  cache_size: -1\n"},
		{name: "negative workers", doc: "cli:\n  workers: -2\n"},
		{name: "bad protocol", doc: "telemetry:\n  protocol: udp\n"},
		{name: "malformed", doc: "log: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	path := filepath.Join(t.TempDir(), "blockc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog:\n  path: extra.yaml\n"), 0o644))
	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "extra.yaml", c.Catalog.Path)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	c, err = Load(empty)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
