//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

package block

import (
	"encoding/json"
	"math"
)

// NormalizeValue checks that v may be stored in a socket of type t and
// returns the canonical representation: every numeric Go type becomes
// float64. The second result is false when v does not match t. Only number
// sockets require finite numbers; an any socket stores whatever it is given.
func NormalizeValue(t DataType, v any) (any, bool) {
	switch t {
	case TypeAny:
		if n, ok := toFloat(v); ok {
			return n, true
		}
		return v, true
	case TypeVoid:
		return nil, v == nil
	case TypeNumber:
		n, ok := toFloat(v)
		if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, false
		}
		return n, true
	case TypeText:
		s, ok := v.(string)
		return s, ok
	case TypeBoolean:
		b, ok := v.(bool)
		return b, ok
	}
	return nil, false
}

// TypeOf reports the data type of a stored value. Nil and unknown values
// report TypeAny.
func TypeOf(v any) DataType {
	if _, ok := toFloat(v); ok {
		return TypeNumber
	}
	switch v.(type) {
	case string:
		return TypeText
	case bool:
		return TypeBoolean
	}
	return TypeAny
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
