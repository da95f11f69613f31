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
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"gopkg.in/urfave/cli.v1"

	"trpc.group/trpc-go/trpc-blocks-go/block"
)

var catalogCommand = cli.Command{
	Name:  "catalog",
	Usage: "List the available block definitions",
	Flags: []cli.Flag{
		catalogFlag,
		cli.StringFlag{Name: "category", Usage: "only list this category"},
		cli.IntFlag{Name: "level", Value: -1, Usage: "only list blocks up to this pedagogy level"},
		cli.StringFlag{Name: "lang", Value: "pt-BR", Usage: "locale used to sort labels"},
	},
	Action: runCatalog,
}

func runCatalog(ctx *cli.Context) error {
	cat, err := loadCatalog(ctx, appConfig(ctx))
	if err != nil {
		return err
	}
	tag, err := language.Parse(ctx.String("lang"))
	if err != nil {
		return fmt.Errorf("invalid --lang: %w", err)
	}

	category := ctx.String("category")
	level := ctx.Int("level")
	var defs []*block.Definition
	for _, def := range cat.SortedByLabel(tag) {
		if category != "" && def.Category != category {
			continue
		}
		if level >= 0 && def.PedagogyLevel > level {
			continue
		}
		defs = append(defs, def)
	}
	renderCatalog(ctx.App.Writer, defs)
	return nil
}

func renderCatalog(w io.Writer, defs []*block.Definition) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Label", "Category", "Kind", "Inputs", "Output", "Level"})
	table.SetAutoWrapText(false)
	for _, def := range defs {
		table.Append([]string{
			def.ID,
			def.Label,
			def.Category,
			string(def.Kind),
			inputsSummary(def.Inputs),
			outputSummary(def.Output),
			strconv.Itoa(def.PedagogyLevel),
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "Total", strconv.Itoa(len(defs))})
	table.Render()
}

func inputsSummary(inputs []block.Socket) string {
	parts := make([]string, 0, len(inputs))
	for _, s := range inputs {
		p := s.ID + ":" + string(s.Type)
		if s.Required {
			p += "*"
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}

func outputSummary(out *block.Socket) string {
	if out == nil {
		return "-"
	}
	return string(out.Type)
}
