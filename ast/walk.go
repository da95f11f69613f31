//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

package ast

// Inspect traverses the tree rooted at node in depth-first order, calling f
// for each node. If f returns false the children of that node are skipped.
// Nil nodes are not visited.
func Inspect(node Node, f func(Node) bool) {
	if isNil(node) || !f(node) {
		return
	}
	switch n := node.(type) {
	case *Program:
		inspectList(n.Body, f)
	case *VariableDeclaration:
		inspectExpr(n.InitialValue, f)
	case *Assignment:
		inspectExpr(n.Value, f)
	case *WriteStatement:
		inspectExpr(n.Value, f)
	case *IfStatement:
		inspectExpr(n.Condition, f)
		inspectList(n.Consequent, f)
		inspectList(n.Alternate, f)
	case *WhileLoop:
		inspectExpr(n.Condition, f)
		inspectList(n.Body, f)
	case *BinaryOperation:
		inspectExpr(n.Left, f)
		inspectExpr(n.Right, f)
	}
}

func inspectList(list []Statement, f func(Node) bool) {
	for _, s := range list {
		if s != nil {
			Inspect(s, f)
		}
	}
}

func inspectExpr(e Expression, f func(Node) bool) {
	if e != nil {
		Inspect(e, f)
	}
}

// isNil catches typed nil pointers stored in the interfaces.
func isNil(node Node) bool {
	switch n := node.(type) {
	case nil:
		return true
	case *Program:
		return n == nil
	case *VariableDeclaration:
		return n == nil
	case *Assignment:
		return n == nil
	case *WriteStatement:
		return n == nil
	case *IfStatement:
		return n == nil
	case *WhileLoop:
		return n == nil
	case *ReadExpression:
		return n == nil
	case *BinaryOperation:
		return n == nil
	case *Literal:
		return n == nil
	case *Identifier:
		return n == nil
	}
	return false
}

// Origins returns the distinct block ids referenced by the tree, in
// traversal order.
func Origins(node Node) []string {
	seen := make(map[string]bool)
	var out []string
	Inspect(node, func(n Node) bool {
		if id := n.Origin(); id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
		return true
	})
	return out
}
