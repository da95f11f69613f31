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
	"errors"
	"fmt"
	"sort"

	"trpc.group/trpc-go/trpc-blocks-go/block"
)

// Serialize returns one record per block in insertion order.
func (g *Graph) Serialize() []block.State {
	out := make([]block.State, 0, len(g.order))
	for _, id := range g.order {
		b := g.blocks[id]
		out = append(out, block.State{
			ID:              id,
			DefinitionID:    b.def.ID,
			Position:        b.position,
			Values:          b.Values(),
			Connections:     b.Connections(),
			NextBlockID:     g.next[id],
			PreviousBlockID: g.prev[id],
		})
	}
	return out
}

// Restore rebuilds a graph from serialized records in two passes. The first
// pass instantiates every block under its original id and stores its values.
// The second pass re-applies connections and next links through the normal
// validation rules, so a restored graph satisfies the same invariants as an
// interactively built one. Previous links are derived from next links; a
// record whose PreviousBlockID disagrees with them is reported as a
// link_mismatch and the next links stand.
//
// Records that cannot be restored are skipped. The returned graph holds
// everything else, and the error joins one entry per rejected record, value
// or link. Use Errors to split it.
func Restore(resolver block.Resolver, states []block.State, opts ...Option) (*Graph, error) {
	g := New(resolver, opts...)
	var errs []error

	restored := make([]bool, len(states))
	for i, st := range states {
		ok, blockErrs := g.restoreBlock(st)
		for _, err := range blockErrs {
			errs = append(errs, fmt.Errorf("restore block %d (%s): %w", i, st.ID, err))
		}
		restored[i] = ok
	}

	for i, st := range states {
		if !restored[i] {
			continue
		}
		for _, c := range st.Connections {
			if c.TargetBlockID != "" && c.TargetBlockID != st.ID {
				errs = append(errs, fmt.Errorf("restore connection of %s: %w", st.ID,
					newError(CodeUnknownBlock, c.TargetBlockID, c.SocketID, "connection target does not match its record")))
				continue
			}
			if err := g.Connect(st.ID, c.SocketID, c.SourceBlockID); err != nil {
				errs = append(errs, fmt.Errorf("restore connection of %s: %w", st.ID, err))
			}
		}
		if st.NextBlockID != "" {
			if err := g.SetNext(st.ID, st.NextBlockID); err != nil {
				errs = append(errs, fmt.Errorf("restore next link of %s: %w", st.ID, err))
			}
		}
	}

	for i, st := range states {
		if !restored[i] || st.PreviousBlockID == "" {
			continue
		}
		if err := g.checkPrevious(st); err != nil {
			errs = append(errs, fmt.Errorf("restore previous link of %s: %w", st.ID, err))
		}
	}
	return g, errors.Join(errs...)
}

func (g *Graph) checkPrevious(st block.State) error {
	actual, ok := g.prev[st.ID]
	switch {
	case !ok:
		return newError(CodeLinkMismatch, st.ID, "",
			"record names %q as previous, but no block links to it", st.PreviousBlockID)
	case actual != st.PreviousBlockID:
		return newError(CodeLinkMismatch, st.ID, "",
			"record names %q as previous, but %q links to it", st.PreviousBlockID, actual)
	}
	return nil
}

// restoreBlock reports whether the block was instantiated. Rejected values
// do not prevent instantiation.
func (g *Graph) restoreBlock(st block.State) (bool, []error) {
	if st.ID == "" {
		return false, []error{newError(CodeUnknownBlock, "", "", "record has no id")}
	}
	if _, exists := g.blocks[st.ID]; exists {
		return false, []error{newError(CodeDuplicateBlock, st.ID, "", "id already restored")}
	}
	if g.resolver == nil {
		return false, []error{newError(CodeUnknownDefinition, st.ID, "", "no resolver for definition %q", st.DefinitionID)}
	}
	def, ok := g.resolver.Definition(st.DefinitionID)
	if !ok {
		return false, []error{newError(CodeUnknownDefinition, st.ID, "", "definition %q is not registered", st.DefinitionID)}
	}
	g.insert(st.ID, def, st.Position)

	sockets := make([]string, 0, len(st.Values))
	for k := range st.Values {
		sockets = append(sockets, k)
	}
	sort.Strings(sockets)
	var errs []error
	for _, socket := range sockets {
		if err := g.SetValue(st.ID, socket, st.Values[socket]); err != nil {
			errs = append(errs, err)
		}
	}
	return true, errs
}

// Errors splits an error returned by Restore into its entries.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
