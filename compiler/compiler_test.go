//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

package compiler_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-blocks-go/ast"
	"trpc.group/trpc-go/trpc-blocks-go/block"
	"trpc.group/trpc-go/trpc-blocks-go/catalog"
	"trpc.group/trpc-go/trpc-blocks-go/compiler"
	"trpc.group/trpc-go/trpc-blocks-go/graph"
)

func newGraph(t *testing.T) *graph.Graph {
	t.Helper()
	n := 0
	return graph.New(catalog.Builtin(), graph.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("b%d", n)
	}))
}

func mustCreate(t *testing.T, g *graph.Graph, defID string) string {
	t.Helper()
	b, err := g.CreateBlock(defID, block.Position{})
	require.NoError(t, err)
	return b.ID()
}

// sample builds: var x = 5; escreva(x + 3).
func sample(t *testing.T) *graph.Graph {
	t.Helper()
	g := newGraph(t)
	decl := mustCreate(t, g, "var.declare")
	write := mustCreate(t, g, "io.write")
	add := mustCreate(t, g, "op.add")
	get := mustCreate(t, g, "var.get")

	require.NoError(t, g.SetValue(decl, "name", "x"))
	require.NoError(t, g.SetValue(decl, "value", 5))
	require.NoError(t, g.SetValue(get, "name", "x"))
	require.NoError(t, g.SetValue(add, "right", 3))
	require.NoError(t, g.Connect(add, "left", get))
	require.NoError(t, g.Connect(write, "value", add))
	require.NoError(t, g.SetNext(decl, write))
	return g
}

func TestCompileSample(t *testing.T) {
	res, err := compiler.New().Compile(context.Background(), sample(t))
	require.NoError(t, err)

	want := "programa {\n" +
		"  funcao inicio() {\n" +
		"    var x = 5\n" +
		"    escreva((x + 3))\n" +
		"  }\n" +
		"}"
	assert.Equal(t, want, res.Source)
	assert.Empty(t, res.Diagnostics)
	require.Len(t, res.Program.Body, 2)
	assert.Equal(t, []string{"b1", "b4", "b3", "b2"}, res.Order)

}

func TestCompileEmptyGraph(t *testing.T) {
	res, err := compiler.Compile(newGraph(t))
	require.NoError(t, err)
	assert.Equal(t, "programa {\n  funcao inicio() {\n    // Arraste blocos para o canvas para começar\n  }\n}", res.Source)
	assert.Empty(t, res.Program.Body)
	assert.NotNil(t, res.Diagnostics)
}

func TestCompileFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T, g *graph.Graph)
		want  []string
	}{
		{
			name: "write without value",
			build: func(t *testing.T, g *graph.Graph) {
				mustCreate(t, g, "io.write")
			},
			want: []string{`escreva("")`},
		},
		{
			name: "declare without name or value",
			build: func(t *testing.T, g *graph.Graph) {
				mustCreate(t, g, "var.declare")
			},
			want: []string{"var variavel"},
		},
		{
			name: "declare with empty text value",
			build: func(t *testing.T, g *graph.Graph) {
				id := mustCreate(t, g, "var.declare")
				require.NoError(t, g.SetValue(id, "name", "nome"))
				require.NoError(t, g.SetValue(id, "value", ""))
			},
			want: []string{"var nome"},
		},
		{
			name: "set without value",
			build: func(t *testing.T, g *graph.Graph) {
				id := mustCreate(t, g, "var.set")
				require.NoError(t, g.SetValue(id, "name", "x"))
			},
			want: []string{"x = 0"},
		},
		{
			name: "operator without operands",
			build: func(t *testing.T, g *graph.Graph) {
				w := mustCreate(t, g, "io.write")
				op := mustCreate(t, g, "op.multiply")
				require.NoError(t, g.Connect(w, "value", op))
			},
			want: []string{"escreva((0 * 0))"},
		},
		{
			name: "read with literal prompt",
			build: func(t *testing.T, g *graph.Graph) {
				w := mustCreate(t, g, "var.declare")
				r := mustCreate(t, g, "io.read")
				require.NoError(t, g.SetValue(w, "name", "nome"))
				require.NoError(t, g.SetValue(r, "prompt", "Qual seu nome?"))
				require.NoError(t, g.Connect(w, "value", r))
			},
			want: []string{`var nome = leia("Qual seu nome?")`},
		},
		{
			name: "text and boolean values",
			build: func(t *testing.T, g *graph.Graph) {
				a := mustCreate(t, g, "io.write")
				b := mustCreate(t, g, "io.write")
				require.NoError(t, g.SetValue(a, "value", "ola"))
				require.NoError(t, g.SetValue(b, "value", true))
				require.NoError(t, g.SetNext(a, b))
			},
			want: []string{`escreva("ola")`, "escreva(verdadeiro)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph(t)
			tt.build(t, g)
			res, err := compiler.Compile(g)
			require.NoError(t, err)
			assert.Equal(t, tt.want, bodyLines(res.Source))
		})
	}
}

func TestCompileControl(t *testing.T) {
	g := newGraph(t)
	cond := mustCreate(t, g, "control.if")
	loop := mustCreate(t, g, "control.while")
	gt := mustCreate(t, g, "op.compare.greater")
	get := mustCreate(t, g, "var.get")
	require.NoError(t, g.SetValue(get, "name", "x"))
	require.NoError(t, g.SetValue(gt, "right", 3))
	require.NoError(t, g.Connect(gt, "left", get))
	require.NoError(t, g.Connect(cond, "condition", gt))
	require.NoError(t, g.SetNext(cond, loop))

	res, err := compiler.Compile(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, blockIDs(res.Diagnostics, compiler.CodeSkippedChain))
	assert.Equal(t, []string{"programa {", "  funcao inicio() {", "    // Arraste blocos para o canvas para começar", "  }", "}"},
		splitLines(res.Source))

	res, err = compiler.Compile(g, compiler.WithChainCapableRoots())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"se ((x > 3)) entao {",
		"  // Adicione blocos aqui",
		"}",
		"enquanto (verdadeiro) faca {",
		"  // Adicione blocos aqui",
		"}",
	}, bodyLines(res.Source))
	assert.Empty(t, res.Diagnostics)

	ifStmt, ok := res.Program.Body[0].(*ast.IfStatement)
	require.True(t, ok)
	assert.NotNil(t, ifStmt.Consequent)
	assert.Empty(t, ifStmt.Consequent)
}

func TestCompileDiagnostics(t *testing.T) {
	g := newGraph(t)
	write := mustCreate(t, g, "io.write")
	orphan := mustCreate(t, g, "literal.number")
	custom := &block.Definition{
		ID:          "custom.beep",
		Kind:        block.KindStatement,
		HasNext:     true,
		HasPrevious: true,
	}
	beep, err := g.AddBlock(custom, block.Position{})
	require.NoError(t, err)
	require.NoError(t, g.SetNext(write, beep.ID()))

	res, err := compiler.Compile(g)
	require.NoError(t, err)
	assert.Equal(t, []string{`escreva("")`}, bodyLines(res.Source))
	assert.Equal(t, []string{beep.ID()}, blockIDs(res.Diagnostics, compiler.CodeUnknownStatement))
	assert.Equal(t, []string{orphan}, blockIDs(res.Diagnostics, compiler.CodeUnusedBlock))
	assert.False(t, res.Diagnostics.HasErrors())
	assert.Equal(t, 1, res.Diagnostics.Count(compiler.SeverityWarning))
}

func TestCompileUnknownExpressionAndOperator(t *testing.T) {
	g := newGraph(t)
	a := mustCreate(t, g, "io.write")
	b := mustCreate(t, g, "io.write")
	require.NoError(t, g.SetNext(a, b))

	power, err := g.AddBlock(&block.Definition{
		ID:     "op.power",
		Kind:   block.KindExpression,
		Inputs: []block.Socket{{ID: "left", Type: block.TypeNumber}, {ID: "right", Type: block.TypeNumber}},
		Output: &block.Socket{ID: "result", Type: block.TypeNumber},
	}, block.Position{})
	require.NoError(t, err)
	require.NoError(t, g.SetValue(power.ID(), "left", 2))
	require.NoError(t, g.SetValue(power.ID(), "right", 8))
	require.NoError(t, g.Connect(a, "value", power.ID()))

	rnd, err := g.AddBlock(&block.Definition{
		ID:     "math.random",
		Kind:   block.KindExpression,
		Inputs: []block.Socket{{ID: "value", Type: block.TypeAny}},
		Output: &block.Socket{ID: "result", Type: block.TypeNumber},
	}, block.Position{})
	require.NoError(t, err)
	require.NoError(t, g.SetValue(rnd.ID(), "value", 7))
	require.NoError(t, g.Connect(b, "value", rnd.ID()))

	res, err := compiler.Compile(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"escreva((2 + 8))", "escreva(7)"}, bodyLines(res.Source))
	assert.Equal(t, []string{power.ID()}, blockIDs(res.Diagnostics, compiler.CodeUnmappedOperator))
	assert.Equal(t, []string{rnd.ID()}, blockIDs(res.Diagnostics, compiler.CodeUnknownExpression))
}

func TestCompileNonLiteralPrompt(t *testing.T) {
	g := newGraph(t)
	w := mustCreate(t, g, "io.write")
	r := mustCreate(t, g, "io.read")
	get := mustCreate(t, g, "var.get")
	require.NoError(t, g.Connect(w, "value", r))
	require.NoError(t, g.Connect(r, "prompt", get))

	res, err := compiler.Compile(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"escreva(leia())"}, bodyLines(res.Source))
	assert.Equal(t, []string{r}, blockIDs(res.Diagnostics, compiler.CodeNonLiteralPrompt))
}

func TestCompileStates(t *testing.T) {
	states := sample(t).Serialize()
	states = append(states,
		block.State{ID: "ghost", DefinitionID: "io.print"},
		block.State{ID: "b1", DefinitionID: "var.declare"},
	)

	res, err := compiler.New().CompileStates(context.Background(), catalog.Builtin(), states)
	require.NoError(t, err)
	assert.Equal(t, []string{"var x = 5", "escreva((x + 3))"}, bodyLines(res.Source))
	assert.True(t, res.Diagnostics.HasErrors())
	assert.Equal(t, []string{"ghost"}, blockIDs(res.Diagnostics, string(graph.CodeUnknownDefinition)))
	assert.Equal(t, []string{"b1"}, blockIDs(res.Diagnostics, string(graph.CodeDuplicateBlock)))
}

func TestCompileStrictCyclesOnDAG(t *testing.T) {
	res, err := compiler.New(compiler.WithStrictCycles()).Compile(context.Background(), sample(t))
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
}

func TestCompileIndent(t *testing.T) {
	res, err := compiler.Compile(sample(t), compiler.WithIndent("\t"))
	require.NoError(t, err)
	assert.Contains(t, res.Source, "\t\tvar x = 5\n")
}

func TestCompileDeterministic(t *testing.T) {
	g := sample(t)
	c := compiler.New()
	first, err := c.Compile(context.Background(), g)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		next, err := c.Compile(context.Background(), g)
		require.NoError(t, err)
		assert.Equal(t, first.Source, next.Source)
		assert.Equal(t, first.Order, next.Order)
	}
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

// bodyLines returns the lines inside funcao inicio, with the envelope
// indentation removed.
func bodyLines(source string) []string {
	lines := splitLines(source)
	body := lines[2 : len(lines)-2]
	out := make([]string, 0, len(body))
	for _, l := range body {
		out = append(out, l[4:])
	}
	return out
}

func blockIDs(ds compiler.Diagnostics, code string) []string {
	var ids []string
	for _, d := range ds {
		if d.Code == code {
			ids = append(ids, d.BlockID)
		}
	}
	return ids
}
