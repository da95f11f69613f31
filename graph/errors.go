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
)

// Sentinel errors. Every *ValidationError unwraps to one of them.
var (
	ErrUnknownBlock          = errors.New("unknown block")
	ErrUnknownDefinition     = errors.New("unknown block definition")
	ErrUnknownSocket         = errors.New("unknown socket")
	ErrTypeMismatch          = errors.New("type mismatch")
	ErrNoOutput              = errors.New("source block has no output")
	ErrWouldCreateCycle      = errors.New("operation would create a cycle")
	ErrUnsupportedSequencing = errors.New("blocks cannot be sequenced")
	ErrDuplicateBlock        = errors.New("duplicate block id")
	ErrLinkMismatch          = errors.New("previous and next links disagree")
)

// Code is the stable, machine-readable name of a validation failure.
type Code string

// Validation codes.
const (
	CodeUnknownBlock          Code = "unknown_block"
	CodeUnknownDefinition     Code = "unknown_definition"
	CodeUnknownSocket         Code = "unknown_socket"
	CodeTypeMismatch          Code = "type_mismatch"
	CodeNoOutput              Code = "no_output"
	CodeWouldCreateCycle      Code = "would_create_cycle"
	CodeUnsupportedSequencing Code = "unsupported_sequencing"
	CodeDuplicateBlock        Code = "duplicate_block"
	CodeLinkMismatch          Code = "link_mismatch"
)

var sentinels = map[Code]error{
	CodeUnknownBlock:          ErrUnknownBlock,
	CodeUnknownDefinition:     ErrUnknownDefinition,
	CodeUnknownSocket:         ErrUnknownSocket,
	CodeTypeMismatch:          ErrTypeMismatch,
	CodeNoOutput:              ErrNoOutput,
	CodeWouldCreateCycle:      ErrWouldCreateCycle,
	CodeUnsupportedSequencing: ErrUnsupportedSequencing,
	CodeDuplicateBlock:        ErrDuplicateBlock,
	CodeLinkMismatch:          ErrLinkMismatch,
}

// ValidationError describes a rejected graph mutation. The graph is left
// unchanged whenever one is returned.
type ValidationError struct {
	Code     Code   `json:"code"`
	BlockID  string `json:"block_id,omitempty"`
	SocketID string `json:"socket_id,omitempty"`
	Message  string `json:"message"`
}

func (e *ValidationError) Error() string {
	switch {
	case e.BlockID != "" && e.SocketID != "":
		return fmt.Sprintf("%s: block %s socket %s: %s", e.Code, e.BlockID, e.SocketID, e.Message)
	case e.BlockID != "":
		return fmt.Sprintf("%s: block %s: %s", e.Code, e.BlockID, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap returns the sentinel error matching Code.
func (e *ValidationError) Unwrap() error {
	return sentinels[e.Code]
}

func newError(code Code, blockID, socketID, format string, args ...any) *ValidationError {
	return &ValidationError{
		Code:     code,
		BlockID:  blockID,
		SocketID: socketID,
		Message:  fmt.Sprintf(format, args...),
	}
}

// CodeOf returns the validation code carried by err, or "" when err is not
// a validation error.
func CodeOf(err error) Code {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}
