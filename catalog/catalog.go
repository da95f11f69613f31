//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

// Package catalog holds block definitions and answers lookups by id.
//
// Definitions are registered once, either from the built-in set or from a
// YAML document, and are treated as immutable afterwards.
package catalog

import (
	"fmt"
	"sync"

	"trpc.group/trpc-go/trpc-blocks-go/block"
)

// MaxPedagogyLevel is the highest pedagogy level a definition may declare.
const MaxPedagogyLevel = 5

// Catalog is an ordered, concurrency-safe set of block definitions.
type Catalog struct {
	mu    sync.RWMutex
	defs  map[string]*block.Definition
	order []string
}

var _ block.Resolver = (*Catalog)(nil)

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{defs: make(map[string]*block.Definition)}
}

// Register validates def and adds it to the catalog.
func (c *Catalog) Register(def *block.Definition) error {
	if def == nil {
		return fmt.Errorf("definition cannot be nil")
	}
	if err := validate(def); err != nil {
		return fmt.Errorf("invalid definition %q: %w", def.ID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.defs[def.ID]; exists {
		return fmt.Errorf("definition %q already registered", def.ID)
	}
	c.defs[def.ID] = def
	c.order = append(c.order, def.ID)
	return nil
}

// MustRegister registers def and panics if registration fails.
func (c *Catalog) MustRegister(def *block.Definition) {
	if err := c.Register(def); err != nil {
		panic(err)
	}
}

// Definition implements block.Resolver.
func (c *Catalog) Definition(id string) (*block.Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.defs[id]
	return def, ok
}

// Has reports whether id is registered.
func (c *Catalog) Has(id string) bool {
	_, ok := c.Definition(id)
	return ok
}

// Len returns the number of registered definitions.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// List returns all definitions in registration order.
func (c *Catalog) List() []*block.Definition {
	return c.filter(func(*block.Definition) bool { return true })
}

// ByCategory returns the definitions of one category in registration order.
func (c *Catalog) ByCategory(category string) []*block.Definition {
	return c.filter(func(d *block.Definition) bool { return d.Category == category })
}

// ByLevel returns the definitions available at the given pedagogy level,
// that is every definition whose level does not exceed it.
func (c *Catalog) ByLevel(level int) []*block.Definition {
	return c.filter(func(d *block.Definition) bool { return d.PedagogyLevel <= level })
}

// Categories returns the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, id := range c.order {
		cat := c.defs[id].Category
		if !seen[cat] {
			seen[cat] = true
			out = append(out, cat)
		}
	}
	return out
}

func (c *Catalog) filter(keep func(*block.Definition) bool) []*block.Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*block.Definition, 0, len(c.order))
	for _, id := range c.order {
		if def := c.defs[id]; keep(def) {
			out = append(out, def)
		}
	}
	return out
}

func validate(def *block.Definition) error {
	if def.ID == "" {
		return fmt.Errorf("id cannot be empty")
	}
	if !def.Kind.Valid() {
		return fmt.Errorf("unknown kind %q", def.Kind)
	}
	if def.PedagogyLevel < 0 || def.PedagogyLevel > MaxPedagogyLevel {
		return fmt.Errorf("pedagogy level %d out of range", def.PedagogyLevel)
	}
	seen := make(map[string]bool, len(def.Inputs))
	for _, in := range def.Inputs {
		if in.ID == "" {
			return fmt.Errorf("input socket id cannot be empty")
		}
		if seen[in.ID] {
			return fmt.Errorf("duplicate input socket %q", in.ID)
		}
		seen[in.ID] = true
		if err := validateSocketTypes(in); err != nil {
			return fmt.Errorf("input %q: %w", in.ID, err)
		}
	}
	if def.Output != nil {
		if err := validateSocketTypes(*def.Output); err != nil {
			return fmt.Errorf("output: %w", err)
		}
	}
	return nil
}

func validateSocketTypes(s block.Socket) error {
	if !s.Type.Valid() {
		return fmt.Errorf("unknown type %q", s.Type)
	}
	for _, t := range s.Accepts {
		if !t.Valid() {
			return fmt.Errorf("unknown accepted type %q", t)
		}
	}
	return nil
}
