// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/treewire/treewire/lib/tree"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2): sorted map keys, smallest integer
// encoding, no indefinite-length items. Same logical record always
// produces identical bytes, which is what makes payload hashes
// stable identities.
var encMode cbor.EncMode

// decMode is the CBOR decoder configured to accept standard CBOR.
// Unknown fields are silently ignored for forward compatibility.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("wire: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Property values decode into any-typed targets. The CBOR
		// default map type for those is map[interface{}]interface{}
		// (CBOR allows non-string keys), but record property maps
		// are always string-keyed and the codec layer expects
		// map[string]any semantics.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("wire: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes a record to deterministic CBOR.
func Marshal(record *tree.Record) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("wire: nil record")
	}
	data, err := encMode.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("wire: encoding record: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a CBOR-encoded record.
func Unmarshal(data []byte) (*tree.Record, error) {
	var record tree.Record
	if err := decMode.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("wire: decoding record: %w", err)
	}
	return &record, nil
}

// MarshalJSON encodes a record in the textual wire format.
func MarshalJSON(record *tree.Record) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("wire: nil record")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("wire: encoding record: %w", err)
	}
	return data, nil
}

// UnmarshalJSON decodes a record from the textual wire format.
func UnmarshalJSON(data []byte) (*tree.Record, error) {
	var record tree.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("wire: decoding record: %w", err)
	}
	return &record, nil
}
