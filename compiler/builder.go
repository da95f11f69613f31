//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"trpc.group/trpc-go/trpc-blocks-go/ast"
	"trpc.group/trpc-go/trpc-blocks-go/block"
	"trpc.group/trpc-go/trpc-blocks-go/graph"
)

// Definition ids the builder understands.
const (
	DefWrite        = "io.write"
	DefRead         = "io.read"
	DefDeclare      = "var.declare"
	DefGet          = "var.get"
	DefSet          = "var.set"
	DefIf           = "control.if"
	DefWhile        = "control.while"
	DefNumber       = "literal.number"
	DefText         = "literal.text"
	DefBoolean      = "literal.boolean"
	operatorPrefix  = "op."
	defaultVariable = "variavel"
)

// operators maps binary block definitions to their operator.
var operators = map[string]ast.Operator{
	"op.add":                   ast.OpAdd,
	"op.subtract":              ast.OpSubtract,
	"op.multiply":              ast.OpMultiply,
	"op.divide":                ast.OpDivide,
	"op.compare.equal":         ast.OpEqual,
	"op.compare.greater":       ast.OpGreater,
	"op.compare.less":          ast.OpLess,
	"op.compare.greater_equal": ast.OpGreaterEqual,
	"op.compare.less_equal":    ast.OpLessEqual,
}

// Build converts g into a program tree. It never fails; problems are
// reported as diagnostics and replaced by documented defaults.
func Build(g *graph.Graph, opts ...Option) (*ast.Program, Diagnostics) {
	o := newOptions(opts)
	b := &builder{
		g:                 g,
		chainCapableRoots: o.ChainCapableRoots,
		visiting:          make(map[string]bool),
	}
	prog := b.program()
	b.reportUnused(prog)
	return prog, b.diags
}

type builder struct {
	g                 *graph.Graph
	chainCapableRoots bool
	visiting          map[string]bool
	diags             Diagnostics
}

func (b *builder) warn(code, blockID, format string, args ...any) {
	b.report(SeverityWarning, code, blockID, format, args...)
}

func (b *builder) report(sev Severity, code, blockID, format string, args ...any) {
	b.diags = append(b.diags, Diagnostic{
		Code:     code,
		Severity: sev,
		BlockID:  blockID,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (b *builder) program() *ast.Program {
	prog := &ast.Program{Body: []ast.Statement{}}
	for _, root := range b.roots() {
		for _, blk := range b.g.Chain(root.ID()) {
			if s := b.statement(blk); s != nil {
				prog.Body = append(prog.Body, s)
			}
		}
	}
	return prog
}

// roots returns the blocks that start a program chain: statements without a
// previous link, plus any chain-capable head when that mode is enabled.
func (b *builder) roots() []*graph.Block {
	var roots []*graph.Block
	for _, blk := range b.g.Blocks() {
		if _, linked := b.g.Previous(blk.ID()); linked {
			continue
		}
		def := blk.Definition()
		switch {
		case def.Kind == block.KindStatement:
			roots = append(roots, blk)
		case def.ChainCapable() && b.chainCapableRoots:
			roots = append(roots, blk)
		case def.ChainCapable():
			b.warn(CodeSkippedChain, blk.ID(),
				"chain starting with %s is not compiled: only statements can start a program", def.ID)
		}
	}
	return roots
}

func (b *builder) statement(blk *graph.Block) ast.Statement {
	id := blk.ID()
	switch def := blk.Definition(); def.ID {
	case DefWrite:
		return &ast.WriteStatement{
			BlockID: id,
			Value:   b.input(blk, "value", ast.TextLiteral(id, "")),
		}
	case DefDeclare:
		return &ast.VariableDeclaration{
			BlockID:      id,
			Name:         variableName(blk),
			InitialValue: b.optionalInput(blk, "value"),
		}
	case DefSet:
		return &ast.Assignment{
			BlockID: id,
			Name:    variableName(blk),
			Value:   b.input(blk, "value", ast.NumberLiteral(id, 0)),
		}
	case DefIf:
		return &ast.IfStatement{
			BlockID:    id,
			Condition:  b.input(blk, "condition", ast.BoolLiteral(id, true)),
			Consequent: []ast.Statement{},
		}
	case DefWhile:
		return &ast.WhileLoop{
			BlockID:   id,
			Condition: b.input(blk, "condition", ast.BoolLiteral(id, true)),
			Body:      []ast.Statement{},
		}
	default:
		b.warn(CodeUnknownStatement, id, "%s has no statement form and was skipped", def.ID)
		return nil
	}
}

// input builds the expression feeding socket. A connection wins over a
// stored value; with neither, fallback is used.
func (b *builder) input(blk *graph.Block, socket string, fallback ast.Expression) ast.Expression {
	if conn, ok := blk.Connection(socket); ok {
		src, ok := b.g.Block(conn.SourceBlockID)
		if !ok {
			b.warn(CodeDanglingConnection, blk.ID(),
				"socket %q is connected to missing block %s", socket, conn.SourceBlockID)
			return fallback
		}
		return b.expression(src)
	}
	if v, ok := blk.Value(socket); ok && v != nil {
		return literalOf(blk.ID(), v)
	}
	return fallback
}

// optionalInput is input without a fallback: nil and empty values yield nil.
func (b *builder) optionalInput(blk *graph.Block, socket string) ast.Expression {
	if _, ok := blk.Connection(socket); ok {
		return b.input(blk, socket, nil)
	}
	if v, ok := blk.Value(socket); ok && v != nil && v != "" {
		return literalOf(blk.ID(), v)
	}
	return nil
}

func (b *builder) expression(src *graph.Block) ast.Expression {
	id := src.ID()
	if b.visiting[id] {
		b.warn(CodeCyclicReference, id, "block refers to itself through its inputs")
		return ast.TextLiteral(id, "")
	}
	b.visiting[id] = true
	defer delete(b.visiting, id)

	def := src.Definition()
	if op, ok := operators[def.ID]; ok {
		return b.binary(src, op)
	}
	switch {
	case def.ID == DefRead:
		return &ast.ReadExpression{BlockID: id, Prompt: b.prompt(src)}
	case def.ID == DefGet:
		return &ast.Identifier{BlockID: id, Name: variableName(src)}
	case def.ID == DefNumber:
		return b.input(src, "value", ast.NumberLiteral(id, 0))
	case def.ID == DefText:
		return b.input(src, "value", ast.TextLiteral(id, ""))
	case def.ID == DefBoolean:
		return b.input(src, "value", ast.BoolLiteral(id, false))
	case strings.HasPrefix(def.ID, operatorPrefix):
		b.warn(CodeUnmappedOperator, id, "no operator for %s, using %s", def.ID, ast.OpAdd)
		return b.binary(src, ast.OpAdd)
	default:
		b.warn(CodeUnknownExpression, id, "%s has no expression form, using its value", def.ID)
		if v, ok := src.Value("value"); ok && v != nil {
			return literalOf(id, v)
		}
		return ast.TextLiteral(id, "")
	}
}

func (b *builder) binary(src *graph.Block, op ast.Operator) ast.Expression {
	id := src.ID()
	return &ast.BinaryOperation{
		BlockID:  id,
		Operator: op,
		Left:     b.input(src, "left", ast.NumberLiteral(id, 0)),
		Right:    b.input(src, "right", ast.NumberLiteral(id, 0)),
	}
}

// prompt returns the read prompt. Only literal prompts can be rendered.
func (b *builder) prompt(src *graph.Block) string {
	if _, ok := src.Connection("prompt"); ok {
		lit, ok := b.input(src, "prompt", nil).(*ast.Literal)
		if !ok || lit == nil {
			b.report(SeverityInfo, CodeNonLiteralPrompt, src.ID(), "only literal prompts are shown, prompt dropped")
			return ""
		}
		return literalText(lit)
	}
	if v, ok := src.Value("prompt"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// reportUnused notes blocks that contributed nothing to the program and have
// no other diagnostic.
func (b *builder) reportUnused(prog *ast.Program) {
	seen := make(map[string]bool)
	for _, id := range ast.Origins(prog) {
		seen[id] = true
	}
	for _, d := range b.diags {
		seen[d.BlockID] = true
	}
	for _, blk := range b.g.Blocks() {
		if !seen[blk.ID()] {
			b.report(SeverityInfo, CodeUnusedBlock, blk.ID(), "%s is not reachable from any program chain", blk.Definition().ID)
		}
	}
}

func variableName(blk *graph.Block) string {
	if v, ok := blk.Value("name"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return defaultVariable
}

// literalOf coerces a stored value: numbers and booleans keep their type,
// anything else becomes text.
func literalOf(blockID string, v any) *ast.Literal {
	switch x := v.(type) {
	case float64:
		return ast.NumberLiteral(blockID, x)
	case bool:
		return ast.BoolLiteral(blockID, x)
	case string:
		return ast.TextLiteral(blockID, x)
	}
	if block.TypeOf(v) == block.TypeNumber {
		n, _ := block.NormalizeValue(block.TypeNumber, v)
		if f, ok := n.(float64); ok {
			return ast.NumberLiteral(blockID, f)
		}
	}
	return ast.TextLiteral(blockID, fmt.Sprint(v))
}

func literalText(l *ast.Literal) string {
	switch l.Type {
	case ast.LiteralNumber:
		return strconv.FormatFloat(l.Number, 'f', -1, 64)
	case ast.LiteralBoolean:
		return strconv.FormatBool(l.Bool)
	default:
		return l.Text
	}
}
