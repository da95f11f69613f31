//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

// Package topo orders nodes of a dependency graph with Kahn's algorithm.
package topo

import (
	"container/heap"
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is matched by every *CycleError.
var ErrCycle = errors.New("graph contains a cycle")

// Edge states that From must come before To.
type Edge struct {
	From string
	To   string
}

// Result is the outcome of Sort.
type Result struct {
	// Order lists nodes so that every edge points forward.
	Order []string
	// Residual lists, in input order, the nodes that could not be ordered
	// because they sit on or behind a cycle.
	Residual []string
}

// CycleError reports the nodes left over when the input is not a DAG.
type CycleError struct {
	Residual []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %d unordered nodes [%s]", ErrCycle, len(e.Residual), strings.Join(e.Residual, ", "))
}

// Unwrap returns ErrCycle.
func (e *CycleError) Unwrap() error { return ErrCycle }

// Sort orders nodes so that for every edge From precedes To. Whenever several
// nodes are ready the one listed first in nodes wins, so identical inputs
// always produce identical output regardless of edge order. Edges naming
// unknown nodes are ignored and duplicate node names are collapsed.
//
// When the input is not a DAG, Sort returns the partial order together with
// the residual nodes and a *CycleError.
func Sort(nodes []string, edges []Edge) (Result, error) {
	index := make(map[string]int, len(nodes))
	uniq := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if _, dup := index[n]; dup {
			continue
		}
		index[n] = len(uniq)
		uniq = append(uniq, n)
	}

	inDegree := make([]int, len(uniq))
	adjacency := make([][]int, len(uniq))
	for _, e := range edges {
		from, okFrom := index[e.From]
		to, okTo := index[e.To]
		if !okFrom || !okTo {
			continue
		}
		adjacency[from] = append(adjacency[from], to)
		inDegree[to]++
	}

	ready := &minQueue{}
	for i, d := range inDegree {
		if d == 0 {
			heap.Push(ready, i)
		}
	}

	res := Result{Order: make([]string, 0, len(uniq))}
	for ready.Len() > 0 {
		i := heap.Pop(ready).(int)
		res.Order = append(res.Order, uniq[i])
		for _, j := range adjacency[i] {
			inDegree[j]--
			if inDegree[j] == 0 {
				heap.Push(ready, j)
			}
		}
	}

	if len(res.Order) == len(uniq) {
		return res, nil
	}
	for i, d := range inDegree {
		if d > 0 {
			res.Residual = append(res.Residual, uniq[i])
		}
	}
	return res, &CycleError{Residual: res.Residual}
}

// minQueue is a heap of input positions.
type minQueue []int

func (q minQueue) Len() int           { return len(q) }
func (q minQueue) Less(i, j int) bool { return q[i] < q[j] }
func (q minQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *minQueue) Push(x any) { *q = append(*q, x.(int)) }

func (q *minQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}
