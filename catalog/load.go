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
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"trpc.group/trpc-go/trpc-blocks-go/block"
)

//go:embed builtin.yaml
var builtinYAML []byte

// document is the on-disk catalog layout.
type document struct {
	Blocks []*block.Definition `yaml:"blocks"`
}

// Builtin returns a new catalog holding the built-in definitions.
func Builtin() *Catalog {
	c := New()
	if err := c.LoadBytes(builtinYAML); err != nil {
		panic(fmt.Sprintf("built-in catalog: %v", err))
	}
	return c
}

// Load registers every definition of a YAML catalog document read from r.
func (c *Catalog) Load(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	return c.LoadBytes(data)
}

// LoadBytes is Load for an in-memory document.
func (c *Catalog) LoadBytes(data []byte) error {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}
	for i, def := range doc.Blocks {
		if err := c.Register(def); err != nil {
			return fmt.Errorf("block #%d: %w", i, err)
		}
	}
	return nil
}

// LoadFile registers the definitions of the YAML file at path.
func (c *Catalog) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return c.Load(f)
}

// FromFile returns the built-in catalog extended with the definitions in
// path. An empty path yields the built-in catalog alone.
func FromFile(path string) (*Catalog, error) {
	c := Builtin()
	if path == "" {
		return c, nil
	}
	if err := c.LoadFile(path); err != nil {
		return nil, err
	}
	return c, nil
}
