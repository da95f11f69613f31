//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

package ast

import "encoding/json"

// Node type names used in the JSON encoding.
const (
	TypeProgram             = "Program"
	TypeVariableDeclaration = "VariableDeclaration"
	TypeAssignment          = "Assignment"
	TypeWriteStatement      = "WriteStatement"
	TypeIfStatement         = "IfStatement"
	TypeWhileLoop           = "WhileLoop"
	TypeReadExpression      = "ReadExpression"
	TypeBinaryOperation     = "BinaryOperation"
	TypeLiteral             = "Literal"
	TypeIdentifier          = "Identifier"
)

// MarshalJSON adds the node type tag.
func (n *Program) MarshalJSON() ([]byte, error) {
	type plain Program
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{TypeProgram, (*plain)(n)})
}

// MarshalJSON adds the node type tag.
func (n *VariableDeclaration) MarshalJSON() ([]byte, error) {
	type plain VariableDeclaration
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{TypeVariableDeclaration, (*plain)(n)})
}

// MarshalJSON adds the node type tag.
func (n *Assignment) MarshalJSON() ([]byte, error) {
	type plain Assignment
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{TypeAssignment, (*plain)(n)})
}

// MarshalJSON adds the node type tag.
func (n *WriteStatement) MarshalJSON() ([]byte, error) {
	type plain WriteStatement
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{TypeWriteStatement, (*plain)(n)})
}

// MarshalJSON adds the node type tag.
func (n *IfStatement) MarshalJSON() ([]byte, error) {
	type plain IfStatement
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{TypeIfStatement, (*plain)(n)})
}

// MarshalJSON adds the node type tag.
func (n *WhileLoop) MarshalJSON() ([]byte, error) {
	type plain WhileLoop
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{TypeWhileLoop, (*plain)(n)})
}

// MarshalJSON adds the node type tag.
func (n *ReadExpression) MarshalJSON() ([]byte, error) {
	type plain ReadExpression
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{TypeReadExpression, (*plain)(n)})
}

// MarshalJSON adds the node type tag.
func (n *BinaryOperation) MarshalJSON() ([]byte, error) {
	type plain BinaryOperation
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{TypeBinaryOperation, (*plain)(n)})
}

// MarshalJSON encodes the literal with a single value field.
func (n *Literal) MarshalJSON() ([]byte, error) {
	var value any
	switch n.Type {
	case LiteralNumber:
		value = n.Number
	case LiteralBoolean:
		value = n.Bool
	default:
		value = n.Text
	}
	return json.Marshal(struct {
		Type     string      `json:"type"`
		BlockID  string      `json:"block_id"`
		DataType LiteralType `json:"data_type"`
		Value    any         `json:"value"`
	}{TypeLiteral, n.BlockID, n.Type, value})
}

// MarshalJSON adds the node type tag.
func (n *Identifier) MarshalJSON() ([]byte, error) {
	type plain Identifier
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{TypeIdentifier, (*plain)(n)})
}
