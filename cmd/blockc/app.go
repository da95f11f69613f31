//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/urfave/cli.v1"

	"trpc.group/trpc-go/trpc-blocks-go/catalog"
	"trpc.group/trpc-go/trpc-blocks-go/compiler"
	"trpc.group/trpc-go/trpc-blocks-go/internal/config"
	"trpc.group/trpc-go/trpc-blocks-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-blocks-go/log"
	"trpc.group/trpc-go/trpc-blocks-go/telemetry/metric"
	"trpc.group/trpc-go/trpc-blocks-go/telemetry/trace"
)

const metaConfig = "config"

var (
	configFlag = cli.StringFlag{
		Name:  "config, c",
		Usage: "YAML configuration file",
	}
	logLevelFlag = cli.StringFlag{
		Name:  "log-level",
		Usage: "log level: debug, info, warn, error (overrides the config file)",
	}
	noColorFlag = cli.BoolFlag{
		Name:  "no-color",
		Usage: "disable colored output",
	}
	catalogFlag = cli.StringFlag{
		Name:  "catalog",
		Usage: "extra block definitions merged over the built-in catalog",
	}
)

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "blockc"
	app.Usage = "compile block graphs to Portugol"
	app.Version = telemetry.ServiceVersion
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{configFlag, logLevelFlag, noColorFlag}
	app.Commands = []cli.Command{
		compileCommand,
		catalogCommand,
		serveCommand,
	}

	var cleanups []func() error
	app.Before = func(ctx *cli.Context) error {
		cfg, err := config.Load(ctx.GlobalString("config"))
		if err != nil {
			return err
		}
		if lvl := ctx.GlobalString(logLevelFlag.Name); lvl != "" {
			if _, err := log.ParseLevel(lvl); err != nil {
				return err
			}
			cfg.Log.Level = lvl
		}
		log.SetLevel(cfg.Log.Level)
		if ctx.GlobalBool(noColorFlag.Name) {
			color.NoColor = true
		}
		if cfg.Telemetry.Enabled {
			cleanups, err = startTelemetry(context.Background(), cfg.Telemetry)
			if err != nil {
				return err
			}
		}
		ctx.App.Metadata = map[string]any{metaConfig: cfg}
		return nil
	}
	app.After = func(*cli.Context) error {
		for _, clean := range cleanups {
			if err := clean(); err != nil {
				log.Warnf("telemetry shutdown: %v", err)
			}
		}
		return nil
	}
	return app
}

func startTelemetry(ctx context.Context, cfg config.TelemetryConfig) ([]func() error, error) {
	cleanTrace, err := trace.Start(ctx,
		trace.WithEndpoint(cfg.Endpoint),
		trace.WithProtocol(cfg.Protocol),
		trace.WithServiceName(cfg.ServiceName))
	if err != nil {
		return nil, fmt.Errorf("start tracing: %w", err)
	}
	cleanMetric, err := metric.Start(ctx,
		metric.WithEndpoint(cfg.Endpoint),
		metric.WithProtocol(cfg.Protocol),
		metric.WithServiceName(cfg.ServiceName))
	if err != nil {
		_ = cleanTrace()
		return nil, fmt.Errorf("start metrics: %w", err)
	}
	return []func() error{cleanTrace, cleanMetric}, nil
}

// appConfig returns the configuration loaded by the Before hook.
func appConfig(ctx *cli.Context) *config.Config {
	if cfg, ok := ctx.App.Metadata[metaConfig].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// loadCatalog resolves the catalog from the command flag, then the config.
func loadCatalog(ctx *cli.Context, cfg *config.Config) (*catalog.Catalog, error) {
	path := ctx.String(catalogFlag.Name)
	if path == "" {
		path = cfg.Catalog.Path
	}
	return catalog.FromFile(path)
}

func compilerOptions(cfg config.CompilerConfig) []compiler.Option {
	opts := []compiler.Option{compiler.WithIndent(cfg.Indent)}
	if cfg.StrictCycles {
		opts = append(opts, compiler.WithStrictCycles())
	}
	if cfg.ChainCapableRoots {
		opts = append(opts, compiler.WithChainCapableRoots())
	}
	return opts
}
