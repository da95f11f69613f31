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
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"trpc.group/trpc-go/trpc-blocks-go/block"
)

// Format names a serialized state encoding.
type Format string

// Supported formats.
const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// Document is the top-level layout of a saved graph.
type Document struct {
	Blocks []block.State `json:"blocks" msgpack:"blocks"`
}

// FormatFromPath picks a format from a file extension. Anything that is not
// a MessagePack extension is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mpk", ".mp":
		return FormatMsgpack
	default:
		return FormatJSON
	}
}

// Marshal encodes states as a Document.
func Marshal(f Format, states []block.State) ([]byte, error) {
	doc := Document{Blocks: states}
	switch f {
	case FormatJSON, "":
		return json.MarshalIndent(doc, "", "  ")
	case FormatMsgpack:
		return msgpack.Marshal(doc)
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
}

// Unmarshal decodes a Document. JSON input may also be a bare array of
// block records.
func Unmarshal(f Format, data []byte) ([]block.State, error) {
	var doc Document
	switch f {
	case FormatJSON, "":
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			if err := json.Unmarshal(trimmed, &doc.Blocks); err != nil {
				return nil, fmt.Errorf("decode json state: %w", err)
			}
			return doc.Blocks, nil
		}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("decode json state: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode msgpack state: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
	return doc.Blocks, nil
}

// ReadFile decodes the state file at path using its extension's format.
func ReadFile(path string) ([]block.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	return Unmarshal(FormatFromPath(path), data)
}

// WriteFile encodes states to path using its extension's format.
func WriteFile(path string, states []block.State) error {
	data, err := Marshal(FormatFromPath(path), states)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}
