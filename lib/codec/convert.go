// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import "fmt"

// Transport numerics arrive in whatever concrete type the unmarshal
// layer produced: encoding/json gives float64 for everything, CBOR
// gives uint64/int64 for integers and float64 for floats, and records
// that never left memory hold the encoder's own output types. The
// coercions below accept all of those.

func asFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("codec: %T is not a number", v)
	}
}

func asInt(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float64:
		if n != float64(int64(n)) {
			return 0, fmt.Errorf("codec: %v is not an integer", n)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("codec: %T is not an integer", v)
	}
}

func asString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("codec: %T is not a string", v)
	}
	return s, nil
}

// asSlice normalizes a transport array to []any.
func asSlice(v any) ([]any, error) {
	switch s := v.(type) {
	case []any:
		return s, nil
	case []float64:
		out := make([]any, len(s))
		for i, f := range s {
			out[i] = f
		}
		return out, nil
	case []int64:
		out := make([]any, len(s))
		for i, n := range s {
			out[i] = n
		}
		return out, nil
	case []string:
		out := make([]any, len(s))
		for i, str := range s {
			out[i] = str
		}
		return out, nil
	default:
		return nil, fmt.Errorf("codec: %T is not an array", v)
	}
}

// floatSlice normalizes a transport array to exactly want float64
// elements.
func floatSlice(v any, want int) ([]float64, error) {
	elements, err := asSlice(v)
	if err != nil {
		return nil, err
	}
	if len(elements) != want {
		return nil, fmt.Errorf("codec: array has %d elements, want %d", len(elements), want)
	}
	out := make([]float64, want)
	for i, element := range elements {
		f, err := asFloat(element)
		if err != nil {
			return nil, fmt.Errorf("codec: element %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}
