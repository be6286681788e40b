// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Record is the transport representation of one serialized object.
// Ids are unique and contiguous from 1 within one serialized tree,
// assigned in pre-order. Properties holds only values that differ
// from the class default, plus reference properties as target ids.
//
// The JSON shape is the wire format: {"Type": ..., "Id": ...,
// "Properties": {...}, "Tags": [...], "Attributes": {...},
// "Children": [...]}, with empty collections omitted. CBOR
// marshalling produces the same keys.
type Record struct {
	Type       string               `json:"Type"`
	ID         int                  `json:"Id"`
	Properties map[string]any       `json:"Properties,omitempty"`
	Tags       []string             `json:"Tags,omitempty"`
	Attributes map[string]Attribute `json:"Attributes,omitempty"`
	Children   []*Record            `json:"Children,omitempty"`
}

// Attribute is one named attribute's encoded value together with its
// type tag. Attributes are schema-free, so the tag travels with the
// value; the wire form is the two-element array [typeTag, value].
type Attribute struct {
	Type  string
	Value any
}

// MarshalJSON encodes the attribute as [typeTag, value].
func (a Attribute) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{a.Type, a.Value})
}

// UnmarshalJSON decodes the [typeTag, value] pair.
func (a *Attribute) UnmarshalJSON(data []byte) error {
	var pair []any
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("tree: attribute: %w", err)
	}
	return a.fromPair(pair)
}

// MarshalCBOR encodes the attribute as [typeTag, value].
func (a Attribute) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal([2]any{a.Type, a.Value})
}

// UnmarshalCBOR decodes the [typeTag, value] pair.
func (a *Attribute) UnmarshalCBOR(data []byte) error {
	var pair []any
	if err := cbor.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("tree: attribute: %w", err)
	}
	return a.fromPair(pair)
}

func (a *Attribute) fromPair(pair []any) error {
	if len(pair) != 2 {
		return fmt.Errorf("tree: attribute has %d elements, want [typeTag, value]", len(pair))
	}
	tag, ok := pair[0].(string)
	if !ok {
		return fmt.Errorf("tree: attribute type tag is %T, want string", pair[0])
	}
	a.Type = tag
	a.Value = pair[1]
	return nil
}

// validate checks the fields every record must carry. Used at the
// deserialize call boundary for the root; malformed child records are
// dropped with a diagnostic instead.
func (r *Record) validate() error {
	if r == nil {
		return fmt.Errorf("tree: nil record")
	}
	if r.Type == "" {
		return fmt.Errorf("tree: record has no type")
	}
	if r.ID < 1 {
		return fmt.Errorf("tree: record id %d, want >= 1", r.ID)
	}
	return nil
}
