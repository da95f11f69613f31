//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

package graph

import (
	"trpc.group/trpc-go/trpc-blocks-go/block"
)

// SetValue stores a literal value for an input socket. The value must match
// the socket's declared type; numbers are stored as float64 and must be
// finite. Setting nil on a socket that allows it clears the value.
func (g *Graph) SetValue(blockID, socketID string, value any) error {
	b, err := g.lookup(blockID)
	if err != nil {
		return err
	}
	sock, ok := b.def.Input(socketID)
	if !ok {
		return newError(CodeUnknownSocket, blockID, socketID, "%s has no input %q", b.def.ID, socketID)
	}
	v, ok := block.NormalizeValue(sock.Type, value)
	if !ok {
		return newError(CodeTypeMismatch, blockID, socketID, "socket expects %s, got %T", sock.Type, value)
	}
	if v == nil {
		delete(b.values, socketID)
		return nil
	}
	b.values[socketID] = v
	return nil
}

// ClearValue removes the literal value of a socket regardless of its type.
func (g *Graph) ClearValue(blockID, socketID string) error {
	b, err := g.lookup(blockID)
	if err != nil {
		return err
	}
	if _, ok := b.def.Input(socketID); !ok {
		return newError(CodeUnknownSocket, blockID, socketID, "%s has no input %q", b.def.ID, socketID)
	}
	delete(b.values, socketID)
	return nil
}

// CanConnect reports whether the output of sourceID may feed socketID of
// blockID. Checks run in order: the target block and socket exist, the
// source exists and has an output, the output type is accepted, and the new
// edge closes no cycle.
func (g *Graph) CanConnect(blockID, socketID, sourceID string) error {
	target, err := g.lookup(blockID)
	if err != nil {
		return err
	}
	sock, ok := target.def.Input(socketID)
	if !ok {
		return newError(CodeUnknownSocket, blockID, socketID, "%s has no input %q", target.def.ID, socketID)
	}
	source, ok := g.blocks[sourceID]
	if !ok {
		return newError(CodeUnknownBlock, sourceID, "", "source block does not exist")
	}
	out := source.def.Output
	if out == nil || out.Type == block.TypeVoid {
		return newError(CodeNoOutput, sourceID, "", "%s produces no value", source.def.ID)
	}
	if !sock.AcceptsType(out.Type) {
		return newError(CodeTypeMismatch, blockID, socketID,
			"socket accepts %v, source produces %s", sock.AcceptedTypes(), out.Type)
	}
	if g.reaches(sourceID, blockID) {
		return newError(CodeWouldCreateCycle, blockID, socketID, "%s already depends on this block", sourceID)
	}
	return nil
}

// Connect feeds the output of sourceID into socketID of blockID, replacing
// any existing connection on that socket.
func (g *Graph) Connect(blockID, socketID, sourceID string) error {
	if err := g.CanConnect(blockID, socketID, sourceID); err != nil {
		return err
	}
	g.blocks[blockID].conns[socketID] = block.Connection{
		SourceBlockID: sourceID,
		TargetBlockID: blockID,
		SocketID:      socketID,
	}
	return nil
}

// Disconnect removes the connection on a socket. Removing a connection that
// does not exist is not an error.
func (g *Graph) Disconnect(blockID, socketID string) error {
	b, err := g.lookup(blockID)
	if err != nil {
		return err
	}
	delete(b.conns, socketID)
	return nil
}

// SetNext sequences nextID directly after blockID. An empty nextID unlinks
// the current successor. Any former predecessor of nextID and any former
// successor of blockID are detached.
func (g *Graph) SetNext(blockID, nextID string) error {
	b, err := g.lookup(blockID)
	if err != nil {
		return err
	}
	if nextID == "" {
		if old, ok := g.next[blockID]; ok {
			delete(g.prev, old)
			delete(g.next, blockID)
		}
		return nil
	}
	n, err := g.lookup(nextID)
	if err != nil {
		return err
	}
	if !b.def.HasNext {
		return newError(CodeUnsupportedSequencing, blockID, "", "%s cannot be followed by another block", b.def.ID)
	}
	if !n.def.HasPrevious {
		return newError(CodeUnsupportedSequencing, nextID, "", "%s cannot follow another block", n.def.ID)
	}
	if g.reaches(blockID, nextID) {
		return newError(CodeWouldCreateCycle, blockID, "", "%s already precedes this block", nextID)
	}

	if old, ok := g.next[blockID]; ok && old != nextID {
		delete(g.prev, old)
	}
	if p, ok := g.prev[nextID]; ok && p != blockID {
		delete(g.next, p)
	}
	g.next[blockID] = nextID
	g.prev[nextID] = blockID
	return nil
}

// reaches reports whether to is from itself or one of its transitive
// dependencies. Dependencies are the blocks feeding from's sockets and the
// block sequenced before it.
func (g *Graph) reaches(from, to string) bool {
	seen := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == to {
			return true
		}
		b, ok := g.blocks[id]
		if !ok {
			continue
		}
		for _, c := range b.conns {
			if !seen[c.SourceBlockID] {
				seen[c.SourceBlockID] = true
				stack = append(stack, c.SourceBlockID)
			}
		}
		if p, ok := g.prev[id]; ok && !seen[p] {
			seen[p] = true
			stack = append(stack, p)
		}
	}
	return false
}
