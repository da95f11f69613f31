//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"trpc.group/trpc-go/trpc-blocks-go/block"
)

func TestBuiltin(t *testing.T) {
	c := Builtin()

	for _, id := range []string{
		"io.write", "io.read", "var.declare", "var.get", "var.set",
		"op.add", "op.subtract", "op.compare.equal", "op.compare.greater",
		"control.if", "control.while", "literal.number", "literal.text",
	} {
		assert.True(t, c.Has(id), "missing %s", id)
	}

	write, ok := c.Definition("io.write")
	require.True(t, ok)
	assert.Equal(t, block.KindStatement, write.Kind)
	assert.True(t, write.HasNext)
	assert.True(t, write.HasPrevious)
	assert.Nil(t, write.Output)
	value, ok := write.Input("value")
	require.True(t, ok)
	assert.Equal(t, block.TypeAny, value.Type)
	assert.Equal(t, []block.DataType{block.TypeText, block.TypeNumber, block.TypeBoolean}, value.Accepts)

	read, _ := c.Definition("io.read")
	require.NotNil(t, read.Output)
	assert.Equal(t, block.TypeText, read.Output.Type)
	prompt, _ := read.Input("prompt")
	assert.False(t, prompt.Required)

	assert.Equal(t, []string{"io", "variables", "operators", "control"}, c.Categories())
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		def  *block.Definition
		msg  string
	}{
		{name: "empty id", def: &block.Definition{Kind: block.KindStatement}, msg: "id cannot be empty"},
		{name: "bad kind", def: &block.Definition{ID: "x", Kind: "macro"}, msg: "unknown kind"},
		{name: "duplicate socket", def: &block.Definition{
			ID: "x", Kind: block.KindExpression,
			Inputs: []block.Socket{{ID: "a", Type: block.TypeNumber}, {ID: "a", Type: block.TypeText}},
		}, msg: "duplicate input socket"},
		{name: "bad output type", def: &block.Definition{
			ID: "x", Kind: block.KindExpression, Output: &block.Socket{ID: "r", Type: "matrix"},
		}, msg: "unknown type"},
		{name: "bad level", def: &block.Definition{ID: "x", Kind: block.KindStatement, PedagogyLevel: 9}, msg: "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().Register(tt.def)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	c := Builtin()
	err := c.Register(&block.Definition{ID: "io.write", Kind: block.KindStatement})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	assert.Panics(t, func() { c.MustRegister(&block.Definition{ID: "io.write", Kind: block.KindStatement}) })
}

func TestFilters(t *testing.T) {
	c := Builtin()

	for _, d := range c.ByLevel(1) {
		assert.LessOrEqual(t, d.PedagogyLevel, 1)
	}
	assert.NotContains(t, ids(c.ByLevel(1)), "control.while")
	assert.Contains(t, ids(c.ByLevel(3)), "control.while")

	control := ids(c.ByCategory("control"))
	assert.Equal(t, []string{"control.if", "control.while"}, control)
	assert.Equal(t, c.Len(), len(c.List()))
}

func TestLoadCustomCatalog(t *testing.T) {
	doc := `
blocks:
  - id: op.modulo
    category: operators
    kind: expression
    label: "%"
    inputs:
      - {id: left, type: number, required: true}
      - {id: right, type: number, required: true}
    output: {id: result, type: number}
    pedagogy_level: 3
`
	c := Builtin()
	require.NoError(t, c.Load(strings.NewReader(doc)))
	def, ok := c.Definition("op.modulo")
	require.True(t, ok)
	assert.Equal(t, 3, def.PedagogyLevel)
	assert.Len(t, def.Inputs, 2)

	err := New().LoadBytes([]byte("blocks: [{id: a, kind: nope}]"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "block #0")

	_, err = FromFile("does-not-exist.yaml")
	require.Error(t, err)
}

func TestHelpHTML(t *testing.T) {
	c := Builtin()
	html, err := c.HelpHTML("io.read")
	require.NoError(t, err)
	assert.Contains(t, html, "<h3>leia</h3>")
	assert.Contains(t, html, "<strong>usuário</strong>")
	assert.Contains(t, html, "<code class=\"language-portugol\">")

	_, err = c.HelpHTML("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSortedByLabel(t *testing.T) {
	c := New()
	for _, label := range []string{"obter variável", "criar variável", "número", "lógico", "escreva"} {
		c.MustRegister(&block.Definition{ID: label, Label: label, Kind: block.KindExpression})
	}
	got := labels(c.SortedByLabel(language.BrazilianPortuguese))
	assert.Equal(t, []string{"criar variável", "escreva", "lógico", "número", "obter variável"}, got)
}

func ids(defs []*block.Definition) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.ID
	}
	return out
}

func labels(defs []*block.Definition) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.Label
	}
	return out
}
