//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

// Package config loads the YAML configuration shared by blockc and its
// HTTP server.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"trpc.group/trpc-go/trpc-blocks-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-blocks-go/log"
)

// Defaults.
const (
	DefaultLogLevel  = "info"
	DefaultAddr      = ":8090"
	DefaultCacheSize = 256
	DefaultWorkers   = 4
	DefaultIndent    = "  "
)

// Config is the root of the configuration file.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Compiler  CompilerConfig  `yaml:"compiler"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	CLI       CLIConfig       `yaml:"cli"`
}

// LogConfig selects the log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// CatalogConfig points at an extra definition file merged over the built-in
// catalog.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// CompilerConfig mirrors the compiler options.
type CompilerConfig struct {
	StrictCycles      bool   `yaml:"strict_cycles"`
	ChainCapableRoots bool   `yaml:"chain_capable_roots"`
	Indent            string `yaml:"indent"`
}

// ServerConfig configures blockc serve.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	CacheSize      int      `yaml:"cache_size"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// TelemetryConfig enables OTLP export. Nothing is exported when Enabled is
// false.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	Protocol    string `yaml:"protocol"`
	ServiceName string `yaml:"service_name"`
}

// CLIConfig configures batch compilation.
type CLIConfig struct {
	Workers int `yaml:"workers"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the file at path. An empty path yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML document, applies defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Compiler.Indent == "" {
		c.Compiler.Indent = DefaultIndent
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.CacheSize == 0 {
		c.Server.CacheSize = DefaultCacheSize
	}
	if c.Telemetry.Protocol == "" {
		c.Telemetry.Protocol = telemetry.ProtocolGRPC
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = telemetry.ServiceName
	}
	if c.CLI.Workers == 0 {
		c.CLI.Workers = DefaultWorkers
	}
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Server.CacheSize < 0 {
		return fmt.Errorf("server.cache_size must not be negative, got %d", c.Server.CacheSize)
	}
	if c.CLI.Workers < 0 {
		return fmt.Errorf("cli.workers must not be negative, got %d", c.CLI.Workers)
	}
	switch c.Telemetry.Protocol {
	case telemetry.ProtocolGRPC, telemetry.ProtocolHTTP:
	default:
		return fmt.Errorf("telemetry.protocol must be %q or %q, got %q",
			telemetry.ProtocolGRPC, telemetry.ProtocolHTTP, c.Telemetry.Protocol)
	}
	return nil
}
