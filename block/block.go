//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

// Package block defines the data model shared by the catalog, the graph and
// the compiler: data types, socket and block definitions, connections and the
// serialized block record.
package block

// DataType is the primitive type carried by a socket.
type DataType string

// Supported data types. TypeAny is the wildcard.
const (
	TypeNumber  DataType = "number"
	TypeText    DataType = "text"
	TypeBoolean DataType = "boolean"
	TypeVoid    DataType = "void"
	TypeAny     DataType = "any"
)

// Valid reports whether t is one of the known data types.
func (t DataType) Valid() bool {
	switch t {
	case TypeNumber, TypeText, TypeBoolean, TypeVoid, TypeAny:
		return true
	}
	return false
}

// Kind classifies how a block participates in a program.
type Kind string

// Block kinds.
const (
	KindStatement  Kind = "statement"
	KindExpression Kind = "expression"
	KindControl    Kind = "control"
	KindTerminal   Kind = "terminal"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindStatement, KindExpression, KindControl, KindTerminal:
		return true
	}
	return false
}

// Socket is a typed input or output port of a block definition.
type Socket struct {
	ID       string     `json:"id" yaml:"id" msgpack:"id"`
	Label    string     `json:"label,omitempty" yaml:"label,omitempty" msgpack:"label,omitempty"`
	Type     DataType   `json:"type" yaml:"type" msgpack:"type"`
	Required bool       `json:"required,omitempty" yaml:"required,omitempty" msgpack:"required,omitempty"`
	Accepts  []DataType `json:"accepts,omitempty" yaml:"accepts,omitempty" msgpack:"accepts,omitempty"`
}

// AcceptedTypes returns the types a connection into this socket may carry.
// When Accepts is empty only the declared type is accepted.
func (s Socket) AcceptedTypes() []DataType {
	if len(s.Accepts) > 0 {
		return s.Accepts
	}
	return []DataType{s.Type}
}

// AcceptsType reports whether a producer of type t may feed this socket.
// The wildcard type is compatible on either side.
func (s Socket) AcceptsType(t DataType) bool {
	if t == TypeAny {
		return true
	}
	for _, a := range s.AcceptedTypes() {
		if a == TypeAny || a == t {
			return true
		}
	}
	return false
}

// Definition is the immutable schema of a block type.
type Definition struct {
	ID            string   `json:"id" yaml:"id"`
	Category      string   `json:"category" yaml:"category"`
	Kind          Kind     `json:"kind" yaml:"kind"`
	Label         string   `json:"label" yaml:"label"`
	Inputs        []Socket `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Output        *Socket  `json:"output,omitempty" yaml:"output,omitempty"`
	HasNext       bool     `json:"has_next" yaml:"has_next"`
	HasPrevious   bool     `json:"has_previous" yaml:"has_previous"`
	PedagogyLevel int      `json:"pedagogy_level" yaml:"pedagogy_level"`
	HelpText      string   `json:"help_text,omitempty" yaml:"help_text,omitempty"`
	Examples      []string `json:"examples,omitempty" yaml:"examples,omitempty"`
	CodeTemplate  string   `json:"code_template,omitempty" yaml:"code_template,omitempty"`
	Color         string   `json:"color,omitempty" yaml:"color,omitempty"`
}

// Input returns the declared input socket with the given id.
func (d *Definition) Input(id string) (Socket, bool) {
	for _, s := range d.Inputs {
		if s.ID == id {
			return s, true
		}
	}
	return Socket{}, false
}

// ChainCapable reports whether blocks of this definition can take part in a
// statement chain.
func (d *Definition) ChainCapable() bool {
	return d.HasNext || d.HasPrevious
}

// Resolver looks up block definitions by id.
type Resolver interface {
	Definition(id string) (*Definition, bool)
}

// Position is the canvas location of a block. It is carried but never
// interpreted by the compiler.
type Position struct {
	X float64 `json:"x" yaml:"x" msgpack:"x"`
	Y float64 `json:"y" yaml:"y" msgpack:"y"`
}

// Connection feeds the output of SourceBlockID into the SocketID input of
// TargetBlockID.
type Connection struct {
	SourceBlockID string `json:"source_block_id" msgpack:"source_block_id"`
	TargetBlockID string `json:"target_block_id" msgpack:"target_block_id"`
	SocketID      string `json:"socket_id" msgpack:"socket_id"`
}

// State is the serialized form of one block.
type State struct {
	ID              string         `json:"id" msgpack:"id"`
	DefinitionID    string         `json:"definition_id" msgpack:"definition_id"`
	Position        Position       `json:"position" msgpack:"position"`
	Values          map[string]any `json:"values,omitempty" msgpack:"values,omitempty"`
	Connections     []Connection   `json:"connections,omitempty" msgpack:"connections,omitempty"`
	NextBlockID     string         `json:"next_block_id,omitempty" msgpack:"next_block_id,omitempty"`
	PreviousBlockID string         `json:"previous_block_id,omitempty" msgpack:"previous_block_id,omitempty"`
}
