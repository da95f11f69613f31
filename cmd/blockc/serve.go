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
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/urfave/cli.v1"

	"trpc.group/trpc-go/trpc-blocks-go/internal/config"
	"trpc.group/trpc-go/trpc-blocks-go/log"
	"trpc.group/trpc-go/trpc-blocks-go/server/api"
)

const shutdownTimeout = 10 * time.Second

var serveCommand = cli.Command{
	Name:  "serve",
	Usage: "Serve the HTTP API",
	Flags: []cli.Flag{
		catalogFlag,
		cli.StringFlag{Name: "addr", Usage: "listen address (default from config)"},
	},
	Action: runServe,
}

func runServe(ctx *cli.Context) error {
	cfg := appConfig(ctx)
	if addr := ctx.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	handler := api.New(
		api.WithCatalog(cat),
		api.WithCompilerOptions(compilerOptions(cfg.Compiler)...),
		api.WithCacheSize(cfg.Server.CacheSize),
		api.WithAllowedOrigins(cfg.Server.AllowedOrigins...),
	).Handler()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(sigCtx, cfg.Server, handler)
}

// serve runs until ctx is done, then drains in-flight requests.
func serve(ctx context.Context, cfg config.ServerConfig, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Infof("blockc: listening on %s", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Infof("blockc: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
