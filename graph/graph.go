//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

// Package graph is the block graph model.
//
// A Graph is an arena of blocks addressed by id. Data connections are stored
// on the consuming block, keyed by input socket. Statement chains are kept in
// a separate next/previous index so both directions always change together.
// A Graph is owned by a single caller and is not safe for concurrent use.
package graph

import (
	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-blocks-go/block"
)

// Block is one placed instance of a block definition.
type Block struct {
	id       string
	def      *block.Definition
	position block.Position
	values   map[string]any
	conns    map[string]block.Connection
}

// ID returns the block identity.
func (b *Block) ID() string { return b.id }

// Definition returns the definition the block was created from.
func (b *Block) Definition() *block.Definition { return b.def }

// Position returns the canvas position.
func (b *Block) Position() block.Position { return b.position }

// Value returns the literal value stored for a socket.
func (b *Block) Value(socketID string) (any, bool) {
	v, ok := b.values[socketID]
	return v, ok
}

// Values returns a copy of the stored literal values, or nil when none are set.
func (b *Block) Values() map[string]any {
	if len(b.values) == 0 {
		return nil
	}
	out := make(map[string]any, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

// Connection returns the connection feeding a socket.
func (b *Block) Connection(socketID string) (block.Connection, bool) {
	c, ok := b.conns[socketID]
	return c, ok
}

// Connections returns the incoming connections in socket declaration order.
func (b *Block) Connections() []block.Connection {
	if len(b.conns) == 0 {
		return nil
	}
	out := make([]block.Connection, 0, len(b.conns))
	for _, in := range b.def.Inputs {
		if c, ok := b.conns[in.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Option configures a Graph.
type Option func(*Graph)

// WithIDGenerator replaces the UUID generator used for new blocks.
func WithIDGenerator(gen func() string) Option {
	return func(g *Graph) {
		if gen != nil {
			g.newID = gen
		}
	}
}

// Graph holds blocks, their connections and statement chains.
type Graph struct {
	resolver block.Resolver
	blocks   map[string]*Block
	order    []string
	next     map[string]string
	prev     map[string]string
	newID    func() string
}

// New creates an empty graph resolving definitions through resolver.
func New(resolver block.Resolver, opts ...Option) *Graph {
	g := &Graph{
		resolver: resolver,
		blocks:   make(map[string]*Block),
		next:     make(map[string]string),
		prev:     make(map[string]string),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Resolver returns the definition resolver the graph was built with.
func (g *Graph) Resolver() block.Resolver { return g.resolver }

// CreateBlock instantiates the definition defID at pos.
func (g *Graph) CreateBlock(defID string, pos block.Position) (*Block, error) {
	if g.resolver == nil {
		return nil, newError(CodeUnknownDefinition, "", "", "no resolver for definition %q", defID)
	}
	def, ok := g.resolver.Definition(defID)
	if !ok {
		return nil, newError(CodeUnknownDefinition, "", "", "definition %q is not registered", defID)
	}
	return g.AddBlock(def, pos)
}

// AddBlock instantiates def at pos with a fresh identity.
func (g *Graph) AddBlock(def *block.Definition, pos block.Position) (*Block, error) {
	if def == nil {
		return nil, newError(CodeUnknownDefinition, "", "", "definition cannot be nil")
	}
	id := g.newID()
	for g.blocks[id] != nil {
		id = g.newID()
	}
	return g.insert(id, def, pos), nil
}

func (g *Graph) insert(id string, def *block.Definition, pos block.Position) *Block {
	b := &Block{
		id:       id,
		def:      def,
		position: pos,
		values:   make(map[string]any),
		conns:    make(map[string]block.Connection),
	}
	g.blocks[id] = b
	g.order = append(g.order, id)
	return b
}

// Block returns the block with the given id.
func (g *Graph) Block(id string) (*Block, bool) {
	b, ok := g.blocks[id]
	return b, ok
}

// Len returns the number of blocks.
func (g *Graph) Len() int { return len(g.order) }

// Blocks returns every block in insertion order.
func (g *Graph) Blocks() []*Block {
	out := make([]*Block, len(g.order))
	for i, id := range g.order {
		out[i] = g.blocks[id]
	}
	return out
}

// IDs returns every block id in insertion order.
func (g *Graph) IDs() []string {
	return append([]string(nil), g.order...)
}

// SetPosition moves a block.
func (g *Graph) SetPosition(id string, pos block.Position) error {
	b, err := g.lookup(id)
	if err != nil {
		return err
	}
	b.position = pos
	return nil
}

// BlocksAt returns the blocks whose position lies within tolerance of (x, y)
// on both axes, in insertion order.
func (g *Graph) BlocksAt(x, y, tolerance float64) []*Block {
	var out []*Block
	for _, id := range g.order {
		b := g.blocks[id]
		if abs(b.position.X-x) <= tolerance && abs(b.position.Y-y) <= tolerance {
			out = append(out, b)
		}
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Next returns the id of the block sequenced after id.
func (g *Graph) Next(id string) (string, bool) {
	n, ok := g.next[id]
	return n, ok
}

// Previous returns the id of the block sequenced before id.
func (g *Graph) Previous(id string) (string, bool) {
	p, ok := g.prev[id]
	return p, ok
}

// Chain returns head followed by every block reachable through next links.
func (g *Graph) Chain(headID string) []*Block {
	var out []*Block
	seen := make(map[string]bool)
	for id := headID; id != "" && !seen[id]; id = g.next[id] {
		b, ok := g.blocks[id]
		if !ok {
			break
		}
		seen[id] = true
		out = append(out, b)
	}
	return out
}

// ChainHeads returns the chain-capable blocks that have no previous link,
// in insertion order.
func (g *Graph) ChainHeads() []*Block {
	var out []*Block
	for _, id := range g.order {
		b := g.blocks[id]
		if _, linked := g.prev[id]; !linked && b.def.ChainCapable() {
			out = append(out, b)
		}
	}
	return out
}

// Connections returns every data connection, grouped by consuming block in
// insertion order and by socket declaration order within a block.
func (g *Graph) Connections() []block.Connection {
	var out []block.Connection
	for _, id := range g.order {
		out = append(out, g.blocks[id].Connections()...)
	}
	return out
}

// Delete removes a block. The chain around it is spliced together and every
// connection that references it is dropped. It reports whether the block
// existed.
func (g *Graph) Delete(id string) bool {
	if _, ok := g.blocks[id]; !ok {
		return false
	}

	p, hasPrev := g.prev[id]
	n, hasNext := g.next[id]
	delete(g.prev, id)
	delete(g.next, id)
	if hasPrev {
		delete(g.next, p)
	}
	if hasNext {
		delete(g.prev, n)
	}
	if hasPrev && hasNext {
		g.next[p] = n
		g.prev[n] = p
	}

	for _, other := range g.blocks {
		for socket, c := range other.conns {
			if c.SourceBlockID == id {
				delete(other.conns, socket)
			}
		}
	}

	delete(g.blocks, id)
	for i, oid := range g.order {
		if oid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear removes every block.
func (g *Graph) Clear() {
	g.blocks = make(map[string]*Block)
	g.order = nil
	g.next = make(map[string]string)
	g.prev = make(map[string]string)
}

func (g *Graph) lookup(id string) (*Block, error) {
	b, ok := g.blocks[id]
	if !ok {
		return nil, newError(CodeUnknownBlock, id, "", "block does not exist")
	}
	return b, nil
}
