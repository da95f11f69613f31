//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

package compiler

import "fmt"

// Severity grades a diagnostic.
type Severity string

// Severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic codes.
const (
	CodeUnknownStatement   = "unknown_statement"
	CodeUnknownExpression  = "unknown_expression"
	CodeUnmappedOperator   = "unmapped_operator"
	CodeDanglingConnection = "dangling_connection"
	CodeCyclicReference    = "cyclic_reference"
	CodeNonDAG             = "non_dag"
	CodeSkippedChain       = "skipped_chain"
	CodeNonLiteralPrompt   = "non_literal_prompt"
	CodeUnusedBlock        = "unused_block"
	CodeRestoreFailed      = "restore_failed"
)

// Diagnostic is a structural problem found while compiling. Diagnostics never
// stop compilation on their own.
type Diagnostic struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	BlockID  string   `json:"block_id,omitempty"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	if d.BlockID == "" {
		return fmt.Sprintf("%s [%s] %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s [%s] block %s: %s", d.Severity, d.Code, d.BlockID, d.Message)
}

// Diagnostics is an ordered list of diagnostics.
type Diagnostics []Diagnostic

// Count returns the number of diagnostics with the given severity.
func (ds Diagnostics) Count(s Severity) int {
	n := 0
	for _, d := range ds {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// HasErrors reports whether any diagnostic has error severity.
func (ds Diagnostics) HasErrors() bool {
	return ds.Count(SeverityError) > 0
}

// ByBlock returns the diagnostics attached to blockID.
func (ds Diagnostics) ByBlock(blockID string) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.BlockID == blockID {
			out = append(out, d)
		}
	}
	return out
}
