//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

// Package ast defines the program tree produced from a block graph.
//
// Statement and Expression are closed: only the types in this package
// implement them. Every node records the id of the block it came from.
package ast

// Node is implemented by every tree node.
type Node interface {
	// Origin returns the id of the block the node was built from.
	Origin() string
}

// Statement is a node that can appear in a statement list.
type Statement interface {
	Node
	statementNode()
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root of the tree.
type Program struct {
	Body []Statement `json:"body"`
}

// Origin implements Node. A program has no originating block.
func (*Program) Origin() string { return "" }

// VariableDeclaration declares Name, optionally initialized.
type VariableDeclaration struct {
	BlockID      string     `json:"block_id"`
	Name         string     `json:"name"`
	InitialValue Expression `json:"initial_value,omitempty"` // nil when absent
}

// Assignment stores Value into Name.
type Assignment struct {
	BlockID string     `json:"block_id"`
	Name    string     `json:"name"`
	Value   Expression `json:"value"`
}

// WriteStatement prints Value.
type WriteStatement struct {
	BlockID string     `json:"block_id"`
	Value   Expression `json:"value"`
}

// IfStatement runs Consequent when Condition holds, else Alternate.
type IfStatement struct {
	BlockID    string      `json:"block_id"`
	Condition  Expression  `json:"condition"`
	Consequent []Statement `json:"consequent"`
	Alternate  []Statement `json:"alternate,omitempty"` // nil when there is no else branch
}

// WhileLoop repeats Body while Condition holds.
type WhileLoop struct {
	BlockID   string      `json:"block_id"`
	Condition Expression  `json:"condition"`
	Body      []Statement `json:"body"`
}

// ReadExpression reads a value typed by the user.
type ReadExpression struct {
	BlockID string `json:"block_id"`
	Prompt  string `json:"prompt,omitempty"` // empty when there is no prompt
}

// Operator is a binary operator symbol.
type Operator string

// Binary operators.
const (
	OpAdd          Operator = "+"
	OpSubtract     Operator = "-"
	OpMultiply     Operator = "*"
	OpDivide       Operator = "/"
	OpEqual        Operator = "=="
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
)

// BinaryOperation applies Operator to Left and Right.
type BinaryOperation struct {
	BlockID  string     `json:"block_id"`
	Operator Operator   `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

// LiteralType is the type of a literal value.
type LiteralType string

// Literal types.
const (
	LiteralNumber  LiteralType = "number"
	LiteralText    LiteralType = "text"
	LiteralBoolean LiteralType = "boolean"
)

// Literal is a constant. Exactly one of Number, Text and Bool is meaningful,
// selected by Type.
type Literal struct {
	BlockID string
	Type    LiteralType
	Number  float64
	Text    string
	Bool    bool
}

// Identifier references a variable.
type Identifier struct {
	BlockID string `json:"block_id"`
	Name    string `json:"name"`
}

// NumberLiteral returns a number literal.
func NumberLiteral(blockID string, v float64) *Literal {
	return &Literal{BlockID: blockID, Type: LiteralNumber, Number: v}
}

// TextLiteral returns a text literal.
func TextLiteral(blockID, v string) *Literal {
	return &Literal{BlockID: blockID, Type: LiteralText, Text: v}
}

// BoolLiteral returns a boolean literal.
func BoolLiteral(blockID string, v bool) *Literal {
	return &Literal{BlockID: blockID, Type: LiteralBoolean, Bool: v}
}

// Origin implements Node.
func (n *VariableDeclaration) Origin() string { return n.BlockID }

// Origin implements Node.
func (n *Assignment) Origin() string { return n.BlockID }

// Origin implements Node.
func (n *WriteStatement) Origin() string { return n.BlockID }

// Origin implements Node.
func (n *IfStatement) Origin() string { return n.BlockID }

// Origin implements Node.
func (n *WhileLoop) Origin() string { return n.BlockID }

// Origin implements Node.
func (n *ReadExpression) Origin() string { return n.BlockID }

// Origin implements Node.
func (n *BinaryOperation) Origin() string { return n.BlockID }

// Origin implements Node.
func (n *Literal) Origin() string { return n.BlockID }

// Origin implements Node.
func (n *Identifier) Origin() string { return n.BlockID }

func (*VariableDeclaration) statementNode() {}
func (*Assignment) statementNode()          {}
func (*WriteStatement) statementNode()      {}
func (*IfStatement) statementNode()         {}
func (*WhileLoop) statementNode()           {}

func (*ReadExpression) expressionNode()  {}
func (*BinaryOperation) expressionNode() {}
func (*Literal) expressionNode()         {}
func (*Identifier) expressionNode()      {}
