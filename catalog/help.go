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
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"trpc.group/trpc-go/trpc-blocks-go/block"
)

// ErrNotFound is returned for ids that are not registered.
var ErrNotFound = errors.New("definition not found")

// HelpHTML renders the help text and examples of a definition as HTML.
// Help text is markdown; examples are rendered as a code block.
func (c *Catalog) HelpHTML(id string) (string, error) {
	def, ok := c.Definition(id)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return renderHelp(def)
}

func renderHelp(def *block.Definition) (string, error) {
	var src strings.Builder
	fmt.Fprintf(&src, "### %s\n\n", def.Label)
	if def.HelpText != "" {
		src.WriteString(def.HelpText)
		src.WriteString("\n")
	}
	if len(def.Examples) > 0 {
		src.WriteString("\n```portugol\n")
		src.WriteString(strings.Join(def.Examples, "\n"))
		src.WriteString("\n```\n")
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src.String()), &buf); err != nil {
		return "", fmt.Errorf("render help for %q: %w", def.ID, err)
	}
	return buf.String(), nil
}

// SortedByLabel returns all definitions ordered by label using the
// collation rules of tag, so that accented labels sort next to their
// unaccented neighbours. Ties keep registration order.
func (c *Catalog) SortedByLabel(tag language.Tag) []*block.Definition {
	defs := c.List()
	col := collate.New(tag, collate.IgnoreCase)
	sort.SliceStable(defs, func(i, j int) bool {
		return col.CompareString(defs[i].Label, defs[j].Label) < 0
	})
	return defs
}
