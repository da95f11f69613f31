//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

// Package compiler turns a block graph into Portugol source.
//
// Compilation always produces a program. Structural problems in the graph
// are reported as diagnostics next to the generated source; the only hard
// failure is a cycle when strict cycle checking is enabled.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"trpc.group/trpc-go/trpc-blocks-go/ast"
	"trpc.group/trpc-go/trpc-blocks-go/block"
	"trpc.group/trpc-go/trpc-blocks-go/codegen"
	"trpc.group/trpc-go/trpc-blocks-go/graph"
	itelemetry "trpc.group/trpc-go/trpc-blocks-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-blocks-go/log"
	"trpc.group/trpc-go/trpc-blocks-go/telemetry/trace"
	"trpc.group/trpc-go/trpc-blocks-go/topo"
)

// Options configures a Compiler.
type Options struct {
	// StrictCycles turns a data-flow cycle into a compile error instead of
	// a non_dag warning.
	StrictCycles bool
	// ChainCapableRoots lets control and expression blocks that carry a
	// next link start a program chain.
	ChainCapableRoots bool
	// Indent is passed to the code emitter.
	Indent string
}

// Option is a functional option for New and Build.
type Option func(*Options)

// WithStrictCycles fails compilation when the data flow has a cycle.
func WithStrictCycles() Option {
	return func(o *Options) { o.StrictCycles = true }
}

// WithChainCapableRoots compiles chains that start with a non-statement block.
func WithChainCapableRoots() Option {
	return func(o *Options) { o.ChainCapableRoots = true }
}

// WithIndent sets the indentation used for the generated source.
func WithIndent(indent string) Option {
	return func(o *Options) { o.Indent = indent }
}

func newOptions(opts []Option) *Options {
	o := &Options{Indent: codegen.DefaultIndent}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Result is the outcome of one compile run.
type Result struct {
	Source      string       `json:"source"`
	Program     *ast.Program `json:"ast"`
	Order       []string     `json:"order"`
	Diagnostics Diagnostics  `json:"diagnostics"`
}

// Compiler compiles graphs with a fixed set of options. It holds no state
// between runs and is safe for concurrent use.
type Compiler struct {
	opts []Option
	o    *Options
}

// New creates a compiler.
func New(opts ...Option) *Compiler {
	return &Compiler{opts: opts, o: newOptions(opts)}
}

// Compile orders, builds and renders g.
func (c *Compiler) Compile(ctx context.Context, g *graph.Graph) (*Result, error) {
	return c.compile(ctx, g, nil)
}

// CompileStates restores states against resolver and compiles the result.
// Records that cannot be restored become error diagnostics.
func (c *Compiler) CompileStates(ctx context.Context, resolver block.Resolver, states []block.State) (*Result, error) {
	g, err := graph.Restore(resolver, states)
	var diags Diagnostics
	for _, e := range graph.Errors(err) {
		diags = append(diags, restoreDiagnostic(e))
	}
	return c.compile(ctx, g, diags)
}

func (c *Compiler) compile(ctx context.Context, g *graph.Graph, diags Diagnostics) (*Result, error) {
	start := time.Now()
	ctx, span := trace.Tracer.Start(ctx, itelemetry.SpanNameCompile,
		oteltrace.WithAttributes(attribute.Int(itelemetry.KeyBlockCount, g.Len())))
	defer span.End()

	order, cycleDiags, err := c.order(g.IDs(), dataEdges(g))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		itelemetry.RecordCompile(ctx, itelemetry.StatusFailed, time.Since(start))
		return nil, fmt.Errorf("compile: %w", err)
	}
	diags = append(diags, cycleDiags...)

	prog, built := Build(g, c.opts...)
	diags = append(diags, built...)
	source := codegen.Generate(prog, codegen.WithIndent(c.o.Indent))

	for _, d := range diags {
		if d.Severity == SeverityInfo {
			log.DebugfContext(ctx, "compile: %s", d)
		} else {
			log.WarnfContext(ctx, "compile: %s", d)
		}
		itelemetry.RecordDiagnostic(ctx, d.Code, string(d.Severity))
	}
	span.SetAttributes(attribute.Int(itelemetry.KeyDiagnostics, len(diags)))
	itelemetry.RecordCompile(ctx, itelemetry.StatusOK, time.Since(start))

	if diags == nil {
		diags = Diagnostics{}
	}
	return &Result{
		Source:      source,
		Program:     prog,
		Order:       order,
		Diagnostics: diags,
	}, nil
}

// order sorts ids so every producer precedes its consumers. Blocks left on a
// cycle are reported as non_dag warnings, or as an error in strict mode.
func (c *Compiler) order(ids []string, edges []topo.Edge) ([]string, Diagnostics, error) {
	res, err := topo.Sort(ids, edges)
	if err == nil {
		return res.Order, nil, nil
	}
	var ce *topo.CycleError
	if !errors.As(err, &ce) || c.o.StrictCycles {
		return nil, nil, err
	}
	diags := make(Diagnostics, 0, len(ce.Residual))
	for _, id := range ce.Residual {
		diags = append(diags, Diagnostic{
			Code:     CodeNonDAG,
			Severity: SeverityWarning,
			BlockID:  id,
			Message:  "block is part of a data-flow cycle",
		})
	}
	return res.Order, diags, nil
}

func dataEdges(g *graph.Graph) []topo.Edge {
	conns := g.Connections()
	edges := make([]topo.Edge, 0, len(conns))
	for _, conn := range conns {
		edges = append(edges, topo.Edge{From: conn.SourceBlockID, To: conn.TargetBlockID})
	}
	return edges
}

// Compile is a shortcut for New(opts...).Compile on a background context.
func Compile(g *graph.Graph, opts ...Option) (*Result, error) {
	return New(opts...).Compile(context.Background(), g)
}

func restoreDiagnostic(err error) Diagnostic {
	d := Diagnostic{
		Code:     string(graph.CodeOf(err)),
		Severity: SeverityError,
		Message:  err.Error(),
	}
	var ve *graph.ValidationError
	if errors.As(err, &ve) {
		d.BlockID = ve.BlockID
	}
	if d.Code == "" {
		d.Code = CodeRestoreFailed
	}
	return d
}
