//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

// Package codegen renders a program tree as Portugol source text.
//
// Rendering is total: nodes it does not recognize become placeholder text,
// never an error.
package codegen

import (
	"math"
	"strconv"
	"strings"

	"trpc.group/trpc-go/trpc-blocks-go/ast"
)

// Placeholder lines and tokens.
const (
	EmptyProgramComment = "// Arraste blocos para o canvas para começar"
	EmptyBodyComment    = "// Adicione blocos aqui"
	UnknownStatement    = "// Statement desconhecido"
	UnknownExpression   = "???"
	DefaultIndent       = "  "
	bodyIndentLevel     = 2
	keywordTrue         = "verdadeiro"
	keywordFalse        = "falso"
)

// Options controls rendering.
type Options struct {
	// Indent is the text repeated once per nesting level.
	Indent string
}

// Option is a functional option for Generate.
type Option func(*Options)

// WithIndent sets the per-level indentation. Empty values are ignored.
func WithIndent(indent string) Option {
	return func(o *Options) {
		if indent != "" {
			o.Indent = indent
		}
	}
}

// Generate renders prog. Lines are joined with "\n" and the result has no
// trailing newline. The same tree always yields the same text.
func Generate(prog *ast.Program, opts ...Option) string {
	o := &Options{Indent: DefaultIndent}
	for _, opt := range opts {
		opt(o)
	}
	p := &printer{indent: o.Indent}

	p.line(0, "programa {")
	p.line(1, "funcao inicio() {")
	if prog == nil || len(prog.Body) == 0 {
		p.line(bodyIndentLevel, EmptyProgramComment)
	} else {
		for _, s := range prog.Body {
			p.statement(bodyIndentLevel, s)
		}
	}
	p.line(1, "}")
	p.line(0, "}")
	return strings.Join(p.lines, "\n")
}

type printer struct {
	indent string
	lines  []string
}

func (p *printer) line(level int, text string) {
	p.lines = append(p.lines, strings.Repeat(p.indent, level)+text)
}

func (p *printer) statement(level int, s ast.Statement) {
	switch n := s.(type) {
	case *ast.WriteStatement:
		if n == nil {
			break
		}
		p.line(level, "escreva("+Expression(n.Value)+")")
		return
	case *ast.VariableDeclaration:
		if n == nil {
			break
		}
		if n.InitialValue != nil {
			p.line(level, "var "+n.Name+" = "+Expression(n.InitialValue))
		} else {
			p.line(level, "var "+n.Name)
		}
		return
	case *ast.Assignment:
		if n == nil {
			break
		}
		p.line(level, n.Name+" = "+Expression(n.Value))
		return
	case *ast.IfStatement:
		if n == nil {
			break
		}
		p.line(level, "se ("+Expression(n.Condition)+") entao {")
		p.body(level+1, n.Consequent)
		if len(n.Alternate) > 0 {
			p.line(level, "} senao {")
			for _, alt := range n.Alternate {
				p.statement(level+1, alt)
			}
		}
		p.line(level, "}")
		return
	case *ast.WhileLoop:
		if n == nil {
			break
		}
		p.line(level, "enquanto ("+Expression(n.Condition)+") faca {")
		p.body(level+1, n.Body)
		p.line(level, "}")
		return
	}
	p.line(level, UnknownStatement)
}

func (p *printer) body(level int, list []ast.Statement) {
	if len(list) == 0 {
		p.line(level, EmptyBodyComment)
		return
	}
	for _, s := range list {
		p.statement(level, s)
	}
}

// Expression renders a single expression.
func Expression(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.Literal:
		if n != nil {
			return literal(n)
		}
	case *ast.Identifier:
		if n != nil {
			return n.Name
		}
	case *ast.ReadExpression:
		if n != nil {
			if n.Prompt == "" {
				return "leia()"
			}
			return "leia(" + Quote(n.Prompt) + ")"
		}
	case *ast.BinaryOperation:
		if n != nil {
			return "(" + Expression(n.Left) + " " + string(n.Operator) + " " + Expression(n.Right) + ")"
		}
	}
	return UnknownExpression
}

func literal(l *ast.Literal) string {
	switch l.Type {
	case ast.LiteralText:
		return Quote(l.Text)
	case ast.LiteralBoolean:
		if l.Bool {
			return keywordTrue
		}
		return keywordFalse
	default:
		return FormatNumber(l.Number)
	}
}

// FormatNumber renders v in its shortest decimal form without exponent.
// Non-finite values, which only any sockets hold, render as NaN, Infinity
// and -Infinity.
func FormatNumber(v float64) string {
	switch {
	case v == 0:
		return "0"
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// Quote wraps s in double quotes, backslash-escaping backslashes, double
// quotes and line breaks so the literal stays on one line and reads back
// unchanged.
func Quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}
